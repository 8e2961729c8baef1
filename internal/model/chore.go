package model

import "github.com/shopspring/decimal"

type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

type Category string

const (
	CategoryBedroom    Category = "bedroom"
	CategoryLivingRoom Category = "living-room"
	CategoryKitchen    Category = "kitchen"
	CategoryBathroom   Category = "bathroom"
	CategoryOutside    Category = "outside"
	CategoryLaundry    Category = "laundry"
	CategoryHousehold  Category = "household"
)

type Chore struct {
	ID        string              `json:"id"`
	Labels    map[Language]string `json:"labels"`
	Value     decimal.Decimal     `json:"value"`
	Frequency string              `json:"frequency"`
	Effort    Effort              `json:"effort"`
	Category  Category            `json:"category"`
	Disabled  bool                `json:"disabled"`
	SortOrder int                 `json:"sort_order"`
}
