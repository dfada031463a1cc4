package services

import "github.com/shopspring/decimal"

// Balance arithmetic goes through decimals so repeated flow application and
// reversal cannot accumulate binary float drift in stored balances.

func addMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).InexactFloat64()
}

func subMoney(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}

// clampPayment returns the balance reduction a payment actually applies:
// never more than the remaining balance, so a payoff lands on exactly zero.
func clampPayment(payment, balance float64) float64 {
	p := decimal.NewFromFloat(payment)
	b := decimal.NewFromFloat(balance)
	if p.GreaterThanOrEqual(b) {
		return balance
	}
	return payment
}
