package pos

import "testing"

func TestComputeTotal(t *testing.T) {
	lines := []SaleLine{
		{ProductID: 1, Quantity: 2, UnitPrice: 1.5},
		{ProductID: 2, Quantity: 3, UnitPrice: 0.75},
	}
	if got := ComputeTotal(lines); got != 5.25 {
		t.Fatalf("ComputeTotal = %v, want 5.25", got)
	}
}

func TestComputeTotalRoundsToCents(t *testing.T) {
	lines := []SaleLine{{ProductID: 1, Quantity: 3, UnitPrice: 0.1}}
	if got := ComputeTotal(lines); got != 0.3 {
		t.Fatalf("ComputeTotal = %v, want 0.3", got)
	}
}

func TestComputeTotalEmpty(t *testing.T) {
	if got := ComputeTotal(nil); got != 0 {
		t.Fatalf("ComputeTotal(nil) = %v, want 0", got)
	}
}
