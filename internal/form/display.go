package form

import (
	"networth/internal/fincalc"
	"networth/internal/models"
	"networth/internal/preset"
)

// IsPayoff reports whether a debt payment clears the whole remaining
// balance. A payoff submission clamps the post-submit balance to exactly 0.
func IsPayoff(paymentAmount, remainingBalance float64) bool {
	return remainingBalance > 0 && paymentAmount >= remainingBalance
}

// PaymentEstimate returns the amortized monthly payment implied by a debt's
// terms, for display alongside the debt picker. Zero when the debt carries
// no amortization terms.
func PaymentEstimate(d *models.Debt) float64 {
	if d == nil {
		return 0
	}
	return fincalc.MonthlyPayment(d.Principal, d.InterestRate, d.TermMonths)
}

// YieldPreview annualizes the interest amount currently entered against the
// destination account balance. ok is false when the preview is undefined
// (nothing entered yet, zero balance, unknown frequency) and nothing should
// be displayed.
func (s State) YieldPreview(balance float64) (float64, bool) {
	if s.Category != preset.CategoryInterest {
		return 0, false
	}
	freq := fincalc.Frequency(s.Frequency)
	if freq == "" {
		freq = fincalc.FrequencyMonthly
	}
	return fincalc.AnnualizedYield(s.AmountValue(), balance, freq)
}
