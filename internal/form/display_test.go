package form

import (
	"math"
	"testing"

	"networth/internal/fincalc"
	"networth/internal/models"
	"networth/internal/preset"
)

func TestIsPayoff(t *testing.T) {
	if !IsPayoff(500, 500) {
		t.Error("expected an exact payment to be a payoff")
	}
	if !IsPayoff(600, 500) {
		t.Error("expected an overpayment to be a payoff")
	}
	if IsPayoff(499, 500) {
		t.Error("expected a partial payment not to be a payoff")
	}
	if IsPayoff(100, 0) {
		t.Error("expected a settled debt not to be a payoff target")
	}
}

func TestPaymentEstimate(t *testing.T) {
	debt := &models.Debt{Principal: 300000, InterestRate: 0.065, TermMonths: 360}
	if got := PaymentEstimate(debt); math.Abs(got-1896.20) > 0.01 {
		t.Errorf("expected payment near 1896.20, got %v", got)
	}
	if got := PaymentEstimate(nil); got != 0 {
		t.Errorf("expected 0 for a nil debt, got %v", got)
	}
}

func TestYieldPreview(t *testing.T) {
	s := State{Category: preset.CategoryInterest, Amount: "10", Frequency: string(fincalc.FrequencyMonthly)}

	got, ok := s.YieldPreview(1000)
	if !ok {
		t.Fatal("expected a defined preview")
	}
	want := math.Pow(1.01, 12) - 1
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected yield %v, got %v", want, got)
	}

	// Frequency defaults to monthly when unset.
	s.Frequency = ""
	defaulted, ok := s.YieldPreview(1000)
	if !ok || math.Abs(defaulted-want) > 1e-9 {
		t.Errorf("expected the monthly default, got %v (ok=%v)", defaulted, ok)
	}

	if _, ok := s.YieldPreview(0); ok {
		t.Error("expected no preview against a zero balance")
	}

	s.Category = preset.CategorySalary
	if _, ok := s.YieldPreview(1000); ok {
		t.Error("expected no preview outside the interest category")
	}
}
