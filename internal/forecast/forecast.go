// Package forecast projects stock depletion from the trailing consumption
// window.
package forecast

import (
	"encoding/json"
	"math"
	"time"

	"mealprogram-backend/internal/models"
)

// WindowDays is the trailing window used for the usage average.
const WindowDays = 30

type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusSafe     Status = "safe"
	StatusAbundant Status = "abundant"
)

// Usage is one consumption ledger entry reduced to what the forecast needs.
type Usage struct {
	IngredientID uint
	Date         time.Time
	Amount       float64
}

type Forecast struct {
	IngredientID      uint       `json:"ingredient_id"`
	IngredientName    string     `json:"ingredient_name"`
	Unit              string     `json:"unit"`
	CurrentStock      float64    `json:"current_stock"`
	MinThreshold      float64    `json:"min_threshold"`
	AverageDailyUsage float64    `json:"average_daily_usage"`
	DaysRemaining     float64    `json:"-"`                  // +Inf when usage is zero
	ProjectedStockout *time.Time `json:"projected_stockout"` // nil when usage is zero
	Status            Status     `json:"status"`
	MonthlySufficient bool       `json:"monthly_sufficient"`
}

// MarshalJSON emits days_remaining as null when it is infinite; encoding/json
// refuses +Inf.
func (f Forecast) MarshalJSON() ([]byte, error) {
	type alias Forecast
	var days *float64
	if !math.IsInf(f.DaysRemaining, 1) {
		d := f.DaysRemaining
		days = &d
	}
	return json.Marshal(struct {
		alias
		DaysRemaining *float64 `json:"days_remaining"`
	}{alias(f), days})
}

// Build computes one forecast per ingredient from the consumption ledger.
// Logs outside the trailing window are ignored; the caller may pass the full
// ledger.
func Build(ingredients []models.Ingredient, logs []Usage, now time.Time) []Forecast {
	windowStart := now.AddDate(0, 0, -WindowDays)

	usageByIngredient := make(map[uint]float64)
	for _, l := range logs {
		if l.Date.Before(windowStart) || l.Date.After(now) {
			continue
		}
		usageByIngredient[l.IngredientID] += l.Amount
	}

	out := make([]Forecast, 0, len(ingredients))
	for _, ing := range ingredients {
		avg := usageByIngredient[ing.ID] / WindowDays

		days := math.Inf(1)
		var stockout *time.Time
		if avg > 0 {
			days = ing.CurrentStock / avg
			d := now.AddDate(0, 0, int(math.Ceil(days)))
			stockout = &d
		}

		out = append(out, Forecast{
			IngredientID:      ing.ID,
			IngredientName:    ing.Name,
			Unit:              ing.Unit,
			CurrentStock:      ing.CurrentStock,
			MinThreshold:      ing.MinThreshold,
			AverageDailyUsage: avg,
			DaysRemaining:     days,
			ProjectedStockout: stockout,
			Status:            Classify(ing.CurrentStock, days),
			MonthlySufficient: days >= daysUntilMonthEnd(now),
		})
	}

	return out
}

// Classify applies the fixed status thresholds. Boundaries: exactly 7 days
// is a warning, exactly 15 is safe, exactly 60 is safe.
func Classify(stock, daysRemaining float64) Status {
	switch {
	case stock <= 0:
		return StatusCritical
	case daysRemaining < 7:
		return StatusCritical
	case daysRemaining < 15:
		return StatusWarning
	case daysRemaining > 60:
		return StatusAbundant
	default:
		return StatusSafe
	}
}

func daysUntilMonthEnd(now time.Time) float64 {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	return float64(lastDay - now.Day())
}
