// Package currency converts amounts between currencies using posted
// per-currency rates. Every rate is expressed relative to one shared
// reference unit, so a conversion divides by the source rate and multiplies
// by the target rate.
package currency

import (
	apperrors "networth/internal/errors"
)

// Converter holds a snapshot of posted conversion rates.
type Converter struct {
	rates map[string]float64
}

// NewConverter builds a converter over the given code -> rate table.
// Non-positive rates are dropped: they can never satisfy a conversion.
func NewConverter(rates map[string]float64) *Converter {
	filtered := make(map[string]float64, len(rates))
	for code, rate := range rates {
		if rate > 0 {
			filtered[code] = rate
		}
	}
	return &Converter{rates: filtered}
}

// Rate returns the posted rate for a currency code.
func (c *Converter) Rate(code string) (float64, bool) {
	rate, ok := c.rates[code]
	return rate, ok
}

// Known reports whether a rate is posted for the given currency code.
func (c *Converter) Known(code string) bool {
	_, ok := c.rates[code]
	return ok
}

// Convert converts an amount from one currency to another. A missing rate
// on either side is an error; conversion never silently falls back.
func (c *Converter) Convert(amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := c.rates[from]
	if !ok {
		return 0, apperrors.WithMessage(apperrors.ErrCurrencyRateNotFound, "No conversion rate posted for "+from)
	}
	toRate, ok := c.rates[to]
	if !ok {
		return 0, apperrors.WithMessage(apperrors.ErrCurrencyRateNotFound, "No conversion rate posted for "+to)
	}
	return amount / fromRate * toRate, nil
}
