// Package fincalc provides the pure financial calculators used when
// deriving flow values: loan amortization, interest annualization, average
// cost basis with realized gain/loss, and dividend withholding.
//
// Calculators whose result is undefined for an input return (0, false)
// rather than erroring. Callers must treat the missing value as "cannot
// display", not as zero.
package fincalc

import "math"

// MonthlyPayment returns the standard amortized monthly payment for a loan.
// It returns 0 when termMonths or principal are non-positive, and the plain
// principal/term split for interest-free loans.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	if annualRate <= 0 {
		return principal / float64(termMonths)
	}
	r := annualRate / 12
	pow := math.Pow(1+r, float64(termMonths))
	return principal * r * pow / (pow - 1)
}

// Frequency identifies how often an interest payment recurs.
type Frequency string

const (
	FrequencyWeekly       Frequency = "weekly"
	FrequencyMonthly      Frequency = "monthly"
	FrequencyQuarterly    Frequency = "quarterly"
	FrequencySemiAnnual   Frequency = "semi_annual"
	FrequencyAnnual       Frequency = "annual"
	FrequencyBiennial     Frequency = "biennial"
	FrequencyTriennial    Frequency = "triennial"
	FrequencyQuinquennial Frequency = "quinquennial"
)

var periodsPerYear = map[Frequency]float64{
	FrequencyWeekly:       52,
	FrequencyMonthly:      12,
	FrequencyQuarterly:    4,
	FrequencySemiAnnual:   2,
	FrequencyAnnual:       1,
	FrequencyBiennial:     0.5,
	FrequencyTriennial:    1.0 / 3.0,
	FrequencyQuinquennial: 0.2,
}

// AnnualizedYield converts a single interest payment on a balance into an
// annual percentage yield, compounding at the payment frequency. The result
// is undefined when the balance or interest amount is non-positive, or the
// frequency is unknown.
func AnnualizedYield(interest, balance float64, freq Frequency) (float64, bool) {
	if balance <= 0 || interest <= 0 {
		return 0, false
	}
	ppy, ok := periodsPerYear[freq]
	if !ok {
		return 0, false
	}
	periodRate := interest / balance
	return math.Pow(1+periodRate, ppy) - 1, true
}

// Lot is one historical purchase: the amount paid and the shares acquired.
type Lot struct {
	Amount float64
	Shares float64
}

// AverageCost returns the average per-share purchase price over the given
// purchase history. Zero historical shares means the cost basis is unknown,
// which is distinct from a cost basis of zero.
func AverageCost(lots []Lot) (float64, bool) {
	var amount, shares float64
	for _, lot := range lots {
		amount += lot.Amount
		shares += lot.Shares
	}
	if shares <= 0 {
		return 0, false
	}
	return amount / shares, true
}

// RealizedGainLoss returns the realized profit or loss of a sale given the
// average cost of the shares sold.
func RealizedGainLoss(saleAmount, sharesSold, averageCost float64) float64 {
	return saleAmount - averageCost*sharesSold
}

// Withholding computes dividend tax withholding at the given rate and
// returns the withheld and net amounts.
func Withholding(gross, rate float64) (withheld, net float64) {
	withheld = gross * rate
	return withheld, gross - withheld
}
