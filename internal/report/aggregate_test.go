package report

import "testing"

func TestSummarize(t *testing.T) {
	cons := []ConsumptionRecord{
		{Date: "2026-03-01", IngredientName: "rice", AmountUsed: 10, StudentCount: 100},
		{Date: "2026-03-01", IngredientName: "eggs", AmountUsed: 5, StudentCount: 100},
		{Date: "2026-03-02", IngredientName: "rice", AmountUsed: 12, StudentCount: 110},
		{Date: "2026-02-28", IngredientName: "rice", AmountUsed: 99, StudentCount: 90}, // out of range
	}
	sups := []SupplyRecord{
		{Date: "2026-03-01", AmountAdded: 50},
		{Date: "2026-03-03", AmountAdded: 20},
		{Date: "2026-04-01", AmountAdded: 999}, // out of range
	}

	s := Summarize(cons, sups, "2026-03-01", "2026-03-31")

	if s.TotalConsumed != 27 {
		t.Fatalf("TotalConsumed = %v, want 27", s.TotalConsumed)
	}
	if s.TotalReceived != 70 {
		t.Fatalf("TotalReceived = %v, want 70", s.TotalReceived)
	}
	if s.TotalMeals != 310 {
		t.Fatalf("TotalMeals = %d, want 310", s.TotalMeals)
	}
	if s.ActiveDays != 2 {
		t.Fatalf("ActiveDays = %d, want 2", s.ActiveDays)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, "2026-03-01", "2026-03-31")
	if s.TotalConsumed != 0 || s.TotalReceived != 0 || s.TotalMeals != 0 || s.ActiveDays != 0 {
		t.Fatalf("empty input should yield zeros, got %+v", s)
	}
}

func TestRangeIsInclusive(t *testing.T) {
	cons := []ConsumptionRecord{
		{Date: "2026-03-01", AmountUsed: 1, StudentCount: 1},
		{Date: "2026-03-31", AmountUsed: 2, StudentCount: 1},
	}
	s := Summarize(cons, nil, "2026-03-01", "2026-03-31")
	if s.TotalConsumed != 3 {
		t.Fatalf("both boundary dates must be included, got %v", s.TotalConsumed)
	}
}

func TestTopIngredientsTiesAreStable(t *testing.T) {
	cons := []ConsumptionRecord{
		{Date: "2026-03-01", IngredientName: "eggs", AmountUsed: 5},
		{Date: "2026-03-01", IngredientName: "rice", AmountUsed: 10},
		{Date: "2026-03-02", IngredientName: "oil", AmountUsed: 5},
		{Date: "2026-03-02", IngredientName: "rice", AmountUsed: 2},
	}

	top := TopIngredients(cons, "2026-03-01", "2026-03-31", 3)

	if len(top) != 3 {
		t.Fatalf("got %d entries, want 3", len(top))
	}
	if top[0].Name != "rice" || top[0].Total != 12 {
		t.Fatalf("top[0] = %+v, want rice 12", top[0])
	}
	// eggs and oil tie at 5; eggs appeared first in the input
	if top[1].Name != "eggs" || top[2].Name != "oil" {
		t.Fatalf("tie order broken: got %s then %s, want eggs then oil", top[1].Name, top[2].Name)
	}
}

func TestTopIngredientsLimit(t *testing.T) {
	cons := []ConsumptionRecord{
		{Date: "2026-03-01", IngredientName: "a", AmountUsed: 1},
		{Date: "2026-03-01", IngredientName: "b", AmountUsed: 2},
		{Date: "2026-03-01", IngredientName: "c", AmountUsed: 3},
	}
	top := TopIngredients(cons, "2026-03-01", "2026-03-31", 2)
	if len(top) != 2 || top[0].Name != "c" || top[1].Name != "b" {
		t.Fatalf("top-2 = %+v", top)
	}
}

func TestPercentChange(t *testing.T) {
	if got := PercentChange(150, 100); got != 50 {
		t.Fatalf("PercentChange(150, 100) = %v, want 50", got)
	}
	if got := PercentChange(50, 100); got != -50 {
		t.Fatalf("PercentChange(50, 100) = %v, want -50", got)
	}
	// zero previous must not blow up into NaN/Inf
	if got := PercentChange(42, 0); got != 0 {
		t.Fatalf("PercentChange(42, 0) = %v, want 0", got)
	}
}

func TestDailyBuckets(t *testing.T) {
	cons := []ConsumptionRecord{
		{Date: "2026-03-02", AmountUsed: 3, StudentCount: 30},
		{Date: "2026-03-01", AmountUsed: 1, StudentCount: 10},
	}
	sups := []SupplyRecord{
		{Date: "2026-03-02", AmountAdded: 7},
	}

	buckets := DailyBuckets(cons, sups, "2026-03-01", "2026-03-31")

	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if buckets[0].Date != "2026-03-01" || buckets[1].Date != "2026-03-02" {
		t.Fatalf("buckets not sorted by date: %+v", buckets)
	}
	if buckets[1].Consumed != 3 || buckets[1].Received != 7 || buckets[1].Meals != 30 {
		t.Fatalf("bucket for 2026-03-02 = %+v", buckets[1])
	}
}
