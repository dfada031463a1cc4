package fincalc

import (
	"math"
	"testing"
)

func TestMonthlyPaymentAmortized(t *testing.T) {
	// 30-year mortgage: 300000 at 6.5% over 360 months.
	got := MonthlyPayment(300000, 0.065, 360)
	want := 1896.20
	if math.Abs(got-want) > 0.01 {
		t.Errorf("expected payment %.2f, got %.4f", want, got)
	}
}

func TestMonthlyPaymentInterestFree(t *testing.T) {
	got := MonthlyPayment(12000, 0, 12)
	if got != 1000 {
		t.Errorf("expected interest-free payment 1000, got %v", got)
	}
}

func TestMonthlyPaymentDegenerateInputs(t *testing.T) {
	if got := MonthlyPayment(0, 0.05, 12); got != 0 {
		t.Errorf("expected 0 for zero principal, got %v", got)
	}
	if got := MonthlyPayment(1000, 0.05, 0); got != 0 {
		t.Errorf("expected 0 for zero term, got %v", got)
	}
	if got := MonthlyPayment(-1000, 0.05, 12); got != 0 {
		t.Errorf("expected 0 for negative principal, got %v", got)
	}
}

func TestAnnualizedYieldMonthly(t *testing.T) {
	// 1% per month compounds to about 12.68% a year.
	got, ok := AnnualizedYield(10, 1000, FrequencyMonthly)
	if !ok {
		t.Fatal("expected a defined yield")
	}
	want := math.Pow(1.01, 12) - 1
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected yield %v, got %v", want, got)
	}
	if math.Abs(got-0.1268) > 0.0001 {
		t.Errorf("expected yield near 0.1268, got %v", got)
	}
}

func TestAnnualizedYieldInfrequentPeriods(t *testing.T) {
	cases := []struct {
		freq Frequency
		ppy  float64
	}{
		{FrequencyBiennial, 0.5},
		{FrequencyTriennial, 1.0 / 3.0},
		{FrequencyQuinquennial, 0.2},
	}
	for _, tc := range cases {
		got, ok := AnnualizedYield(100, 1000, tc.freq)
		if !ok {
			t.Fatalf("%s: expected a defined yield", tc.freq)
		}
		want := math.Pow(1.1, tc.ppy) - 1
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s: expected yield %v, got %v", tc.freq, want, got)
		}
	}
}

func TestAnnualizedYieldUndefined(t *testing.T) {
	if _, ok := AnnualizedYield(10, 0, FrequencyMonthly); ok {
		t.Error("expected undefined yield for zero balance")
	}
	if _, ok := AnnualizedYield(0, 1000, FrequencyMonthly); ok {
		t.Error("expected undefined yield for zero interest")
	}
	if _, ok := AnnualizedYield(10, 1000, Frequency("fortnightly")); ok {
		t.Error("expected undefined yield for unknown frequency")
	}
}

func TestAverageCost(t *testing.T) {
	lots := []Lot{
		{Amount: 1000, Shares: 10},
		{Amount: 3000, Shares: 20},
	}
	got, ok := AverageCost(lots)
	if !ok {
		t.Fatal("expected a defined average cost")
	}
	want := 4000.0 / 30.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected average cost %v, got %v", want, got)
	}
}

func TestAverageCostUnknownWithoutShares(t *testing.T) {
	if _, ok := AverageCost(nil); ok {
		t.Error("expected unknown cost basis for empty history")
	}
	if _, ok := AverageCost([]Lot{{Amount: 500, Shares: 0}}); ok {
		t.Error("expected unknown cost basis for zero shares")
	}
}

func TestRealizedGainLoss(t *testing.T) {
	// Sell 10 shares bought at an average of 100 for a total of 1250.
	got := RealizedGainLoss(1250, 10, 100)
	if got != 250 {
		t.Errorf("expected realized gain 250, got %v", got)
	}

	got = RealizedGainLoss(800, 10, 100)
	if got != -200 {
		t.Errorf("expected realized loss -200, got %v", got)
	}
}

func TestWithholding(t *testing.T) {
	withheld, net := Withholding(100, 0.30)
	if withheld != 30 {
		t.Errorf("expected withheld 30, got %v", withheld)
	}
	if net != 70 {
		t.Errorf("expected net 70, got %v", net)
	}
}
