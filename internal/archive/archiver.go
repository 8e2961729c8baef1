// Package archive writes a payday statement for every closed period to
// S3-compatible storage or a local directory, optionally encrypted.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dukerupert/paydaypal/internal/metrics"
	"github.com/dukerupert/paydaypal/internal/model"
)

const maxUploadRetries = 5

// Recorder persists upload outcomes.
type Recorder interface {
	Record(rec model.ArchiveRecord) (*model.ArchiveRecord, error)
}

type Archiver struct {
	sink       Sink
	records    Recorder
	passphrase string
	timeout    time.Duration
	logger     *slog.Logger

	newBackOff func() backoff.BackOff
	wg         sync.WaitGroup
}

// New returns an Archiver. An empty passphrase stores statements in plain
// JSON.
func New(sink Sink, records Recorder, passphrase string, timeout time.Duration, logger *slog.Logger) *Archiver {
	return &Archiver{
		sink:       sink,
		records:    records,
		passphrase: passphrase,
		timeout:    timeout,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = 500 * time.Millisecond
			exp.MaxInterval = 15 * time.Second
			return backoff.WithMaxRetries(exp, maxUploadRetries)
		},
	}
}

// Archive encodes, optionally seals, and uploads st with retries, then
// records the outcome. The returned record reflects failures too.
func (a *Archiver) Archive(ctx context.Context, st Statement) (*model.ArchiveRecord, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	rec := model.ArchiveRecord{
		HouseholdID: st.HouseholdID,
		PeriodID:    st.PeriodID,
		Encrypted:   a.passphrase != "",
	}

	location, size, err := a.upload(ctx, st)
	metrics.ArchiveUploadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		rec.Status = model.ArchiveStatusFailed
		rec.ErrorMessage = err.Error()
	} else {
		rec.Status = model.ArchiveStatusCompleted
		rec.Location = location
		rec.SizeBytes = size
	}
	metrics.ArchiveUploadsTotal.WithLabelValues(string(rec.Status)).Inc()

	saved, recErr := a.records.Record(rec)
	if recErr != nil {
		a.logger.Error("record archive outcome", "period_id", st.PeriodID, "error", recErr)
		saved = &rec
	}
	return saved, err
}

func (a *Archiver) upload(ctx context.Context, st Statement) (string, int64, error) {
	data, err := st.Encode()
	if err != nil {
		return "", 0, err
	}
	sealed := a.passphrase != ""
	if sealed {
		data, err = Seal(data, a.passphrase)
		if err != nil {
			return "", 0, fmt.Errorf("seal statement: %w", err)
		}
	}

	key := st.ObjectKey(sealed)
	var location string
	attempt := 0
	op := func() error {
		attempt++
		loc, err := a.sink.Put(ctx, key, data)
		if err != nil {
			a.logger.Warn("statement upload failed", "period_id", st.PeriodID, "attempt", attempt, "error", err)
			return err
		}
		location = loc
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(a.newBackOff(), ctx)); err != nil {
		return "", 0, fmt.Errorf("archive statement after %d attempts: %w", attempt, err)
	}
	return location, int64(len(data)), nil
}

// ArchiveAsync runs Archive in the background. Failures are logged and
// counted only.
func (a *Archiver) ArchiveAsync(st Statement) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		rec, err := a.Archive(context.Background(), st)
		if err != nil {
			a.logger.Error("archive statement", "household_id", st.HouseholdID, "period_id", st.PeriodID, "error", err)
			return
		}
		a.logger.Info("statement archived", "household_id", st.HouseholdID, "period_id", st.PeriodID,
			"location", rec.Location, "size_bytes", rec.SizeBytes)
	}()
}

// Wait blocks until background archives finish.
func (a *Archiver) Wait() {
	a.wg.Wait()
}
