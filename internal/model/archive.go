package model

import "time"

type ArchiveStatus string

const (
	ArchiveStatusCompleted ArchiveStatus = "completed"
	ArchiveStatusFailed    ArchiveStatus = "failed"
)

// ArchiveRecord tracks one uploaded payday statement.
type ArchiveRecord struct {
	ID           int64         `json:"id"`
	HouseholdID  string        `json:"household_id"`
	PeriodID     string        `json:"period_id"`
	Location     string        `json:"location"`
	SizeBytes    int64         `json:"size_bytes"`
	Encrypted    bool          `json:"encrypted"`
	Status       ArchiveStatus `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
