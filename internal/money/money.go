// Package money parses, validates and renders chore values and earnings.
//
// Amounts are exact decimals end to end. Rounding to two digits happens only
// when an amount is rendered.
package money

import (
	"fmt"
	"strings"

	"github.com/dukerupert/paydaypal/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Parse reads a non-negative amount. A decimal comma is accepted.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", model.ErrMalformedInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", model.ErrMalformedInput, s)
	}
	if err := Validate(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// Validate rejects negative amounts.
func Validate(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", model.ErrMalformedInput, d.String())
	}
	return nil
}

// Round rounds half-up to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format renders d with exactly two fraction digits, rounding half-up.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Localized renders d in the household's language with its currency symbol.
func Localized(d decimal.Decimal, lang model.Language, cur model.Currency) string {
	tag := language.Make(string(lang))
	p := message.NewPrinter(tag)

	f, _ := Round(d).Float64()
	amount := p.Sprint(number.Decimal(f, number.Scale(2)))

	unit, err := currency.ParseISO(string(cur))
	if err != nil {
		return amount + " " + string(cur)
	}
	symbol := p.Sprint(currency.Symbol(unit))
	if lang == model.LanguageEN {
		return symbol + amount
	}
	return amount + " " + symbol
}
