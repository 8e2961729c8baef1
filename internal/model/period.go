package model

import "time"

// Period is an earning window over the household ledgers. StartDate and
// EndDate are date keys; EndDate is nil while the period is active.
type Period struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Period) Active() bool {
	return p.EndDate == nil
}
