package notify

import (
	"testing"
	"time"

	"mealprogram-backend/internal/forecast"
	"mealprogram-backend/internal/models"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestStockRules(t *testing.T) {
	ingredients := []models.Ingredient{
		{ID: 1, Name: "rice", CurrentStock: 0, MinThreshold: 10, Unit: "kg"},
		{ID: 2, Name: "eggs", CurrentStock: 5, MinThreshold: 10, Unit: "kg"},
		{ID: 3, Name: "oil", CurrentStock: 50, MinThreshold: 10, Unit: "l"},
	}

	alerts := stockRules(ingredients)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
	if alerts[0].Type != "out_of_stock" || alerts[0].Severity != SeverityCritical {
		t.Fatalf("alerts[0] = %+v", alerts[0])
	}
	if alerts[1].Type != "low_stock" || alerts[1].Severity != SeverityHigh {
		t.Fatalf("alerts[1] = %+v", alerts[1])
	}
}

func TestExpiredIsNotExpiringSoon(t *testing.T) {
	// expiration yesterday: "expired" critical, never "expiring soon"
	logs := []models.SupplyLog{
		{ID: 7, IngredientName: "milk", AmountAdded: 50, Source: "coop", ExpirationDate: datePtr(now.AddDate(0, 0, -1))},
	}

	alerts := expiryRules(logs, 7, now)
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0].Severity != SeverityCritical {
		t.Fatalf("Severity = %s, want critical for an expired batch", alerts[0].Severity)
	}
	if alerts[0].Title != "milk batch has expired" {
		t.Fatalf("Title = %q", alerts[0].Title)
	}
}

func TestExpiryWindows(t *testing.T) {
	cases := []struct {
		daysAhead int
		want      Severity
	}{
		{2, SeverityHigh},
		{3, SeverityHigh},
		{4, SeverityMedium},
		{7, SeverityMedium},
	}
	for _, tc := range cases {
		logs := []models.SupplyLog{{ID: 1, IngredientName: "x", ExpirationDate: datePtr(now.AddDate(0, 0, tc.daysAhead))}}
		alerts := expiryRules(logs, 7, now)
		if len(alerts) != 1 || alerts[0].Severity != tc.want {
			t.Fatalf("daysAhead=%d: alerts = %+v, want severity %s", tc.daysAhead, alerts, tc.want)
		}
	}

	// outside the window: no alert
	logs := []models.SupplyLog{{ID: 1, IngredientName: "x", ExpirationDate: datePtr(now.AddDate(0, 0, 8))}}
	if alerts := expiryRules(logs, 7, now); len(alerts) != 0 {
		t.Fatalf("8 days ahead should not alert, got %+v", alerts)
	}
}

func TestWasteRule(t *testing.T) {
	if alerts := wasteRule(5, 100, 0.1); len(alerts) != 0 {
		t.Fatalf("5%% waste below 10%% target should not alert, got %+v", alerts)
	}
	alerts := wasteRule(15, 100, 0.1)
	if len(alerts) != 1 || alerts[0].Severity != SeverityHigh {
		t.Fatalf("15%% waste should be high, got %+v", alerts)
	}
	alerts = wasteRule(20, 100, 0.1)
	if len(alerts) != 1 || alerts[0].Severity != SeverityCritical {
		t.Fatalf("20%% waste (2x target) should be critical, got %+v", alerts)
	}
	if alerts := wasteRule(10, 0, 0.1); len(alerts) != 0 {
		t.Fatal("zero consumption must not divide")
	}
}

func TestBudgetRule(t *testing.T) {
	cases := []struct {
		spending float64
		want     Severity
		none     bool
	}{
		{50, "", true},
		{75, SeverityMedium, false},
		{90, SeverityHigh, false},
		{100, SeverityCritical, false},
		{120, SeverityCritical, false},
	}
	for _, tc := range cases {
		alerts := budgetRule(tc.spending, 100)
		if tc.none {
			if len(alerts) != 0 {
				t.Fatalf("spending=%v: expected no alert, got %+v", tc.spending, alerts)
			}
			continue
		}
		if len(alerts) != 1 || alerts[0].Severity != tc.want {
			t.Fatalf("spending=%v: got %+v, want %s", tc.spending, alerts, tc.want)
		}
	}
	if alerts := budgetRule(100, 0); len(alerts) != 0 {
		t.Fatal("zero budget disables the rule")
	}
}

func TestDedupeCollapsesSameTypeAndRelatedID(t *testing.T) {
	alerts := []Alert{
		{Type: "stockout", RelatedID: 4, Severity: SeverityCritical, Title: "first"},
		{Type: "stockout", RelatedID: 4, Severity: SeverityCritical, Title: "second"},
		{Type: "stockout", RelatedID: 5, Severity: SeverityCritical, Title: "third"},
		{Type: "waste", Severity: SeverityHigh, Title: "same title"},
		{Type: "waste", Severity: SeverityHigh, Title: "same title"},
	}

	out := Dedupe(alerts)
	if len(out) != 3 {
		t.Fatalf("got %d alerts after dedupe, want 3", len(out))
	}
	if out[0].Title != "first" {
		t.Fatalf("dedupe must keep the first occurrence, got %q", out[0].Title)
	}
}

func TestSortBySeverity(t *testing.T) {
	alerts := []Alert{
		{Type: "a", Severity: SeverityMedium},
		{Type: "b", Severity: SeverityCritical},
		{Type: "c", Severity: SeverityLow},
		{Type: "d", Severity: SeverityHigh},
		{Type: "e", Severity: SeverityCritical},
	}
	SortBySeverity(alerts)

	wantOrder := []string{"b", "e", "d", "a", "c"}
	for i, w := range wantOrder {
		if alerts[i].Type != w {
			t.Fatalf("position %d = %s, want %s (stable severity order)", i, alerts[i].Type, w)
		}
	}
}

func TestEvaluateForecastRules(t *testing.T) {
	in := Input{
		Forecasts: []forecast.Forecast{
			{IngredientID: 1, IngredientName: "rice", Status: forecast.StatusCritical, MonthlySufficient: false},
			{IngredientID: 2, IngredientName: "oil", Status: forecast.StatusSafe, MonthlySufficient: true},
		},
	}

	alerts := Evaluate(in, Thresholds{}, now)
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2 (stockout + month coverage for rice)", len(alerts))
	}
	if alerts[0].Type != "stockout" || alerts[1].Type != "month_coverage" {
		t.Fatalf("alerts = %+v", alerts)
	}
}
