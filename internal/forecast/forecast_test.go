package forecast

import (
	"math"
	"testing"
	"time"

	"mealprogram-backend/internal/models"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func ing(id uint, stock float64) models.Ingredient {
	return models.Ingredient{ID: id, Name: "rice", CurrentStock: stock, Unit: "kg"}
}

func TestZeroUsageIsNeverCriticalFromUsage(t *testing.T) {
	fs := Build([]models.Ingredient{ing(1, 5)}, nil, now)
	if len(fs) != 1 {
		t.Fatalf("got %d forecasts, want 1", len(fs))
	}
	f := fs[0]
	if !math.IsInf(f.DaysRemaining, 1) {
		t.Fatalf("DaysRemaining = %v, want +Inf", f.DaysRemaining)
	}
	if f.ProjectedStockout != nil {
		t.Fatal("ProjectedStockout should be nil with zero usage")
	}
	if f.Status == StatusCritical {
		t.Fatal("zero usage must not classify as critical while stock > 0")
	}
	if !f.MonthlySufficient {
		t.Fatal("infinite days must cover the month")
	}
}

func TestZeroStockIsCriticalRegardless(t *testing.T) {
	fs := Build([]models.Ingredient{ing(1, 0)}, nil, now)
	if fs[0].Status != StatusCritical {
		t.Fatalf("Status = %s, want critical for zero stock", fs[0].Status)
	}
}

func TestAverageDailyUsageIsExact(t *testing.T) {
	logs := []Usage{
		{IngredientID: 1, Date: now.AddDate(0, 0, -1), Amount: 10},
		{IngredientID: 1, Date: now.AddDate(0, 0, -5), Amount: 20},
		{IngredientID: 1, Date: now.AddDate(0, 0, -29), Amount: 30},
		// outside the window, must be ignored
		{IngredientID: 1, Date: now.AddDate(0, 0, -31), Amount: 999},
	}
	fs := Build([]models.Ingredient{ing(1, 100)}, logs, now)
	want := 60.0 / 30.0
	if fs[0].AverageDailyUsage != want {
		t.Fatalf("AverageDailyUsage = %v, want %v", fs[0].AverageDailyUsage, want)
	}
}

func TestStatusBoundaries(t *testing.T) {
	cases := []struct {
		stock float64
		days  float64
		want  Status
	}{
		{10, 6.99, StatusCritical},
		{10, 7, StatusWarning}, // exactly 7 is warning, not critical
		{10, 14.99, StatusWarning},
		{10, 15, StatusSafe}, // exactly 15 is safe, not warning
		{10, 60, StatusSafe},
		{10, 60.01, StatusAbundant},
		{0, 100, StatusCritical},
		{10, math.Inf(1), StatusAbundant},
	}
	for _, tc := range cases {
		if got := Classify(tc.stock, tc.days); got != tc.want {
			t.Fatalf("Classify(%v, %v) = %s, want %s", tc.stock, tc.days, got, tc.want)
		}
	}
}

func TestEndToEndAbundant(t *testing.T) {
	// 100kg stock, 3 logs of 10kg over 3 distinct days in the window:
	// avg = 1 kg/day, 100 days remaining, abundant.
	logs := []Usage{
		{IngredientID: 1, Date: now.AddDate(0, 0, -2), Amount: 10},
		{IngredientID: 1, Date: now.AddDate(0, 0, -3), Amount: 10},
		{IngredientID: 1, Date: now.AddDate(0, 0, -4), Amount: 10},
	}
	fs := Build([]models.Ingredient{ing(1, 70)}, logs, now)
	f := fs[0]
	if f.AverageDailyUsage != 1 {
		t.Fatalf("AverageDailyUsage = %v, want 1", f.AverageDailyUsage)
	}
	if f.DaysRemaining != 70 {
		t.Fatalf("DaysRemaining = %v, want 70", f.DaysRemaining)
	}
	if f.Status != StatusAbundant {
		t.Fatalf("Status = %s, want abundant", f.Status)
	}
	wantStockout := now.AddDate(0, 0, 70)
	if f.ProjectedStockout == nil || !f.ProjectedStockout.Equal(wantStockout) {
		t.Fatalf("ProjectedStockout = %v, want %v", f.ProjectedStockout, wantStockout)
	}
}

func TestMonthlySufficiency(t *testing.T) {
	// 2026-03-10: 21 days left in March.
	logs := []Usage{{IngredientID: 1, Date: now.AddDate(0, 0, -1), Amount: 30}} // 1 kg/day
	fs := Build([]models.Ingredient{ing(1, 20)}, logs, now)
	if fs[0].MonthlySufficient {
		t.Fatal("20 days of stock should not cover 21 remaining days")
	}

	fs = Build([]models.Ingredient{ing(1, 21)}, logs, now)
	if !fs[0].MonthlySufficient {
		t.Fatal("21 days of stock should cover 21 remaining days")
	}
}
