// Package notify evaluates the alert rules against current snapshots. Every
// call recomputes from scratch; nothing is persisted.
package notify

import (
	"fmt"
	"sort"
	"time"

	"mealprogram-backend/internal/forecast"
	"mealprogram-backend/internal/models"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

type Alert struct {
	Type      string   `json:"type"` // out_of_stock, low_stock, expiry, waste, budget, stockout, month_coverage
	Severity  Severity `json:"severity"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	RelatedID uint     `json:"related_id,omitempty"`
}

// Thresholds: tunables for the ratio-based rules.
type Thresholds struct {
	ExpirySoonDays int     // medium alert window, default 7
	WasteRatio     float64 // waste/consumed ratio raising a high alert; 2x is critical
}

// Input: the snapshots the rules run against.
type Input struct {
	Ingredients []models.Ingredient
	SupplyLogs  []models.SupplyLog // for expiration checks
	Forecasts   []forecast.Forecast

	ConsumedKg float64 // window totals for the waste ratio
	WastedKg   float64

	Budget   float64 // 0 disables the budget rule
	Spending float64
}

// Evaluate runs every rule, deduplicates by (type, relatedId|title) and
// sorts by severity.
func Evaluate(in Input, thr Thresholds, now time.Time) []Alert {
	if thr.ExpirySoonDays <= 0 {
		thr.ExpirySoonDays = 7
	}

	var alerts []Alert
	alerts = append(alerts, stockRules(in.Ingredients)...)
	alerts = append(alerts, expiryRules(in.SupplyLogs, thr.ExpirySoonDays, now)...)
	alerts = append(alerts, wasteRule(in.WastedKg, in.ConsumedKg, thr.WasteRatio)...)
	alerts = append(alerts, budgetRule(in.Spending, in.Budget)...)
	alerts = append(alerts, forecastRules(in.Forecasts)...)

	alerts = Dedupe(alerts)
	SortBySeverity(alerts)
	return alerts
}

func stockRules(ingredients []models.Ingredient) []Alert {
	var out []Alert
	for _, ing := range ingredients {
		switch {
		case ing.CurrentStock <= 0:
			out = append(out, Alert{
				Type:      "out_of_stock",
				Severity:  SeverityCritical,
				Title:     fmt.Sprintf("%s is out of stock", ing.Name),
				Message:   fmt.Sprintf("Current stock of %s is %.2f %s.", ing.Name, ing.CurrentStock, ing.Unit),
				RelatedID: ing.ID,
			})
		case ing.CurrentStock <= ing.MinThreshold:
			out = append(out, Alert{
				Type:      "low_stock",
				Severity:  SeverityHigh,
				Title:     fmt.Sprintf("%s is below its threshold", ing.Name),
				Message:   fmt.Sprintf("%.2f %s left, threshold is %.2f %s.", ing.CurrentStock, ing.Unit, ing.MinThreshold, ing.Unit),
				RelatedID: ing.ID,
			})
		}
	}
	return out
}

func expiryRules(logs []models.SupplyLog, soonDays int, now time.Time) []Alert {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var out []Alert
	for _, l := range logs {
		if l.ExpirationDate == nil {
			continue
		}
		exp := *l.ExpirationDate
		daysLeft := int(exp.Sub(today).Hours() / 24)

		switch {
		case exp.Before(today):
			out = append(out, Alert{
				Type:      "expiry",
				Severity:  SeverityCritical,
				Title:     fmt.Sprintf("%s batch has expired", l.IngredientName),
				Message:   fmt.Sprintf("Supply of %.2f kg from %s expired on %s.", l.AmountAdded, l.Source, exp.Format("2006-01-02")),
				RelatedID: l.ID,
			})
		case daysLeft <= 3:
			out = append(out, Alert{
				Type:      "expiry",
				Severity:  SeverityHigh,
				Title:     fmt.Sprintf("%s batch expires in %d days", l.IngredientName, daysLeft),
				Message:   fmt.Sprintf("Supply of %.2f kg expires on %s.", l.AmountAdded, exp.Format("2006-01-02")),
				RelatedID: l.ID,
			})
		case daysLeft <= soonDays:
			out = append(out, Alert{
				Type:      "expiry",
				Severity:  SeverityMedium,
				Title:     fmt.Sprintf("%s batch expires soon", l.IngredientName),
				Message:   fmt.Sprintf("Supply of %.2f kg expires on %s.", l.AmountAdded, exp.Format("2006-01-02")),
				RelatedID: l.ID,
			})
		}
	}
	return out
}

func wasteRule(wasted, consumed, threshold float64) []Alert {
	if threshold <= 0 || consumed <= 0 {
		return nil
	}
	ratio := wasted / consumed
	switch {
	case ratio >= 2*threshold:
		return []Alert{{
			Type:     "waste",
			Severity: SeverityCritical,
			Title:    "Waste ratio is far above target",
			Message:  fmt.Sprintf("%.1f%% of consumed food was wasted (target below %.1f%%).", ratio*100, threshold*100),
		}}
	case ratio >= threshold:
		return []Alert{{
			Type:     "waste",
			Severity: SeverityHigh,
			Title:    "Waste ratio is above target",
			Message:  fmt.Sprintf("%.1f%% of consumed food was wasted (target below %.1f%%).", ratio*100, threshold*100),
		}}
	}
	return nil
}

func budgetRule(spending, budget float64) []Alert {
	if budget <= 0 {
		return nil
	}
	ratio := spending / budget
	switch {
	case ratio >= 1:
		return []Alert{{
			Type:     "budget",
			Severity: SeverityCritical,
			Title:    "Budget exhausted",
			Message:  fmt.Sprintf("Spending is at %.0f%% of the budget.", ratio*100),
		}}
	case ratio >= 0.9:
		return []Alert{{
			Type:     "budget",
			Severity: SeverityHigh,
			Title:    "Budget nearly exhausted",
			Message:  fmt.Sprintf("Spending is at %.0f%% of the budget.", ratio*100),
		}}
	case ratio >= 0.75:
		return []Alert{{
			Type:     "budget",
			Severity: SeverityMedium,
			Title:    "Budget usage is high",
			Message:  fmt.Sprintf("Spending is at %.0f%% of the budget.", ratio*100),
		}}
	}
	return nil
}

func forecastRules(forecasts []forecast.Forecast) []Alert {
	var out []Alert
	for _, f := range forecasts {
		if f.Status == forecast.StatusCritical {
			out = append(out, Alert{
				Type:      "stockout",
				Severity:  SeverityCritical,
				Title:     fmt.Sprintf("%s will run out soon", f.IngredientName),
				Message:   fmt.Sprintf("Projected usage depletes %s within days.", f.IngredientName),
				RelatedID: f.IngredientID,
			})
		}
		if !f.MonthlySufficient {
			out = append(out, Alert{
				Type:      "month_coverage",
				Severity:  SeverityMedium,
				Title:     fmt.Sprintf("%s does not cover the month", f.IngredientName),
				Message:   fmt.Sprintf("Projected stock of %s runs out before the end of the month.", f.IngredientName),
				RelatedID: f.IngredientID,
			})
		}
	}
	return out
}

// Dedupe collapses alerts sharing a (type, relatedId|title) key, keeping the
// first occurrence.
func Dedupe(alerts []Alert) []Alert {
	seen := make(map[string]struct{}, len(alerts))
	out := alerts[:0]
	for _, a := range alerts {
		key := a.Type + "|" + a.Title
		if a.RelatedID != 0 {
			key = fmt.Sprintf("%s|%d", a.Type, a.RelatedID)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// SortBySeverity orders critical, high, medium, low; stable within a level.
func SortBySeverity(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank[alerts[i].Severity] < severityRank[alerts[j].Severity]
	})
}
