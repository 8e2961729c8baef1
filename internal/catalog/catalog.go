// Package catalog holds the default chore catalog seeded into new
// households, the category and effort enums, and label resolution.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/dukerupert/paydaypal/internal/money"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var Categories = []model.Category{
	model.CategoryBedroom,
	model.CategoryLivingRoom,
	model.CategoryKitchen,
	model.CategoryBathroom,
	model.CategoryOutside,
	model.CategoryLaundry,
	model.CategoryHousehold,
}

var Efforts = []model.Effort{model.EffortLow, model.EffortMedium, model.EffortHigh}

type defaultChore struct {
	id        string
	value     string
	frequency string
	effort    model.Effort
	category  model.Category
}

var defaults = []defaultChore{
	{"make-bed", "0.50", "daily", model.EffortLow, model.CategoryBedroom},
	{"tidy-room", "1.00", "weekly", model.EffortMedium, model.CategoryBedroom},
	{"vacuum-living-room", "1.50", "weekly", model.EffortMedium, model.CategoryLivingRoom},
	{"set-table", "0.30", "daily", model.EffortLow, model.CategoryKitchen},
	{"dishes", "0.75", "daily", model.EffortMedium, model.CategoryKitchen},
	{"empty-dishwasher", "0.50", "daily", model.EffortLow, model.CategoryKitchen},
	{"clean-bathroom", "2.00", "weekly", model.EffortHigh, model.CategoryBathroom},
	{"water-plants", "0.30", "weekly", model.EffortLow, model.CategoryOutside},
	{"mow-lawn", "3.00", "monthly", model.EffortHigh, model.CategoryOutside},
	{"hang-laundry", "0.80", "weekly", model.EffortMedium, model.CategoryLaundry},
	{"fold-laundry", "0.60", "weekly", model.EffortLow, model.CategoryLaundry},
	{"take-out-trash", "0.40", "daily", model.EffortLow, model.CategoryHousehold},
}

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
)

func loadBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
		for _, lang := range model.Languages {
			path := "locales/active." + string(lang) + ".json"
			if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
				slog.Error("load chore labels", "component", "catalog", "file", path, "error", err)
			}
		}
	})
	return bundle
}

// Defaults returns a fresh copy of the default catalog with labels in every
// supported language.
func Defaults() []model.Chore {
	b := loadBundle()
	chores := make([]model.Chore, 0, len(defaults))
	for i, d := range defaults {
		labels := make(map[model.Language]string, len(model.Languages))
		for _, lang := range model.Languages {
			loc := i18n.NewLocalizer(b, string(lang))
			text, err := loc.Localize(&i18n.LocalizeConfig{MessageID: "chore." + d.id})
			if err != nil || text == "" {
				continue
			}
			labels[lang] = text
		}
		chores = append(chores, model.Chore{
			ID:        d.id,
			Labels:    labels,
			Value:     decimal.RequireFromString(d.value),
			Frequency: d.frequency,
			Effort:    d.effort,
			Category:  d.category,
			SortOrder: i,
		})
	}
	return chores
}

// Validate checks a catalog entry.
func Validate(c model.Chore) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: chore id is required", model.ErrMalformedInput)
	}
	if err := money.Validate(c.Value); err != nil {
		return fmt.Errorf("chore %q: %w", c.ID, err)
	}
	if !validEffort(c.Effort) {
		return fmt.Errorf("%w: chore %q has unknown effort %q", model.ErrMalformedInput, c.ID, c.Effort)
	}
	if !validCategory(c.Category) {
		return fmt.Errorf("%w: chore %q has unknown category %q", model.ErrMalformedInput, c.ID, c.Category)
	}
	return nil
}

func validEffort(e model.Effort) bool {
	for _, known := range Efforts {
		if e == known {
			return true
		}
	}
	return false
}

func validCategory(c model.Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label picks the best label for lang, falling back to the closest
// available language and finally the chore id.
func Label(c model.Chore, lang model.Language) string {
	if text, ok := c.Labels[lang]; ok && text != "" {
		return text
	}

	var tags []language.Tag
	var texts []string
	for _, l := range model.Languages {
		if text, ok := c.Labels[l]; ok && text != "" {
			tags = append(tags, language.Make(string(l)))
			texts = append(texts, text)
		}
	}
	if len(tags) == 0 {
		return c.ID
	}

	_, idx, _ := language.NewMatcher(tags).Match(language.Make(string(lang)))
	return texts[idx]
}
