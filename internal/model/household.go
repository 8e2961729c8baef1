package model

import "time"

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

type Language string

const (
	LanguageEN Language = "en"
	LanguageDE Language = "de"
	LanguageFR Language = "fr"
	LanguagePT Language = "pt"
)

// Languages lists the supported label languages, English first.
var Languages = []Language{LanguageEN, LanguageDE, LanguageFR, LanguagePT}

func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyEUR
}

func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  Currency  `json:"currency"`
	Language  Language  `json:"language"`
	Members   []Member  `json:"members"`
	Chores    []Chore   `json:"chores"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveMembers returns the members that are not disabled, in household order.
func (h *Household) ActiveMembers() []Member {
	var active []Member
	for _, m := range h.Members {
		if !m.Disabled {
			active = append(active, m)
		}
	}
	return active
}

// Member returns the member with the given id, or nil.
func (h *Household) Member(id string) *Member {
	for i := range h.Members {
		if h.Members[i].ID == id {
			return &h.Members[i]
		}
	}
	return nil
}
