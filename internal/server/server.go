package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/paydaypal/internal/archive"
	"github.com/dukerupert/paydaypal/internal/datekey"
	"github.com/dukerupert/paydaypal/internal/handler"
	"github.com/dukerupert/paydaypal/internal/metrics"
	"github.com/dukerupert/paydaypal/internal/middleware"
	"github.com/dukerupert/paydaypal/internal/period"
	"github.com/dukerupert/paydaypal/internal/report"
	"github.com/dukerupert/paydaypal/internal/store"
	ws "github.com/dukerupert/paydaypal/internal/websocket"
)

// Options tunes the server. A nil Archiver disables statement archiving.
type Options struct {
	Clock           datekey.Clock
	Archiver        *archive.Archiver
	RateLimit       int
	RateLimitWindow time.Duration
}

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	householdStore *store.HouseholdStore
	householdH     *handler.HouseholdHandler
	activityH      *handler.ActivityHandler
	periodH        *handler.PeriodHandler
	preferenceH    *handler.PreferenceHandler
	rateLimiter    *middleware.RateLimiter
	archiver       *archive.Archiver
	logger         *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	if opts.Clock == nil {
		opts.Clock = datekey.SystemClock{Location: time.Local}
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 120
	}
	if opts.RateLimitWindow <= 0 {
		opts.RateLimitWindow = time.Minute
	}

	hub := ws.NewHub(logger.With("component", "websocket"))

	householdStore := store.NewHouseholdStore(db)
	ledgerStore := store.NewLedgerStore(db)
	periodStore := store.NewPeriodStore(db)
	preferenceStore := store.NewPreferenceStore(db)
	archiveStore := store.NewArchiveStore(db)

	manager := period.NewManager(periodStore, opts.Clock, logger.With("component", "period"))
	reports := report.NewBuilder(householdStore, ledgerStore, periodStore)

	return &Server{
		db:             db,
		hub:            hub,
		householdStore: householdStore,
		householdH:     handler.NewHouseholdHandler(householdStore, opts.Clock, hub, logger.With("component", "households")),
		activityH:      handler.NewActivityHandler(householdStore, ledgerStore, periodStore, opts.Clock, hub, logger.With("component", "activity")),
		periodH: handler.NewPeriodHandler(householdStore, periodStore, archiveStore, manager, reports,
			opts.Archiver, opts.Clock, hub, logger.With("component", "periods")),
		preferenceH: handler.NewPreferenceHandler(preferenceStore, logger.With("component", "preferences")),
		rateLimiter: middleware.NewRateLimiter(opts.RateLimit, opts.RateLimitWindow),
		archiver:    opts.Archiver,
		logger:      logger,
	}
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Run sweeps expired rate-limit windows until ctx is done.
func (s *Server) Run(ctx context.Context) {
	s.rateLimiter.Run(ctx, 5*time.Minute)
}

// Shutdown waits for background statement uploads.
func (s *Server) Shutdown() {
	if s.archiver != nil {
		s.archiver.Wait()
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.householdExists, s.logger.With("component", "websocket")))

	api := http.NewServeMux()
	s.registerAPIRoutes(api)
	limit := middleware.RateLimit(s.rateLimiter, middleware.DeviceOrIP)
	mux.Handle("/api/", limit(api))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Households
	mux.HandleFunc("GET /api/households", s.householdH.List)
	mux.HandleFunc("POST /api/households", s.householdH.Create)
	mux.HandleFunc("GET /api/households/{hid}", s.householdH.Get)
	mux.HandleFunc("PUT /api/households/{hid}", s.householdH.Rename)
	mux.HandleFunc("POST /api/households/{hid}/members", s.householdH.AddMember)
	mux.HandleFunc("POST /api/households/{hid}/members/{mid}/toggle", s.householdH.ToggleMember)

	// Activity
	mux.HandleFunc("GET /api/households/{hid}/members/{mid}/activity", s.activityH.Get)
	mux.HandleFunc("POST /api/households/{hid}/members/{mid}/activity", s.activityH.Increment)
	mux.HandleFunc("PUT /api/households/{hid}/members/{mid}/activity", s.activityH.Set)

	// Periods
	mux.HandleFunc("GET /api/households/{hid}/periods/current", s.periodH.Current)
	mux.HandleFunc("POST /api/households/{hid}/periods/start", s.periodH.Start)
	mux.HandleFunc("POST /api/households/{hid}/periods/finish", s.periodH.Finish)
	mux.HandleFunc("GET /api/households/{hid}/periods", s.periodH.List)
	mux.HandleFunc("GET /api/households/{hid}/periods/{pid}", s.periodH.Detail)

	// Device preferences
	mux.HandleFunc("GET /api/preferences", s.preferenceH.Get)
	mux.HandleFunc("PUT /api/preferences", s.preferenceH.Update)
}

func (s *Server) householdExists(id string) (bool, error) {
	h, err := s.householdStore.GetByID(id)
	return h != nil, err
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "db unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "clients": s.hub.ClientCount()})
}
