package report

import (
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type SummaryResponse struct {
	Period    string `json:"period"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	PeriodSummary

	// vs. the immediately preceding period of the same length
	ConsumedChangePct float64 `json:"consumed_change_pct"`
	ReceivedChangePct float64 `json:"received_change_pct"`
	MealsChangePct    float64 `json:"meals_change_pct"`

	TopIngredients []IngredientTotal `json:"top_ingredients"`
	DailyBreakdown []DailyBucket     `json:"daily_breakdown"`
}

// loadRecords pulls both ledgers for a school and maps them to the flat
// records the aggregation works on.
func loadRecords(schoolID uint, from, to time.Time) ([]ConsumptionRecord, []SupplyRecord, error) {
	var consLogs []models.ConsumptionLog
	if err := database.DB.
		Where("school_id = ? AND date >= ? AND date <= ?", schoolID, from, to).
		Order("date, id").
		Find(&consLogs).Error; err != nil {
		return nil, nil, err
	}

	var supLogs []models.SupplyLog
	if err := database.DB.
		Where("school_id = ? AND date >= ? AND date <= ?", schoolID, from, to).
		Order("date, id").
		Find(&supLogs).Error; err != nil {
		return nil, nil, err
	}

	cons := make([]ConsumptionRecord, 0, len(consLogs))
	for _, l := range consLogs {
		cons = append(cons, ConsumptionRecord{
			Date:           l.Date.Format(dateLayout),
			IngredientName: l.IngredientName,
			AmountUsed:     l.AmountUsed,
			StudentCount:   l.StudentCount,
		})
	}

	sups := make([]SupplyRecord, 0, len(supLogs))
	for _, l := range supLogs {
		sups = append(sups, SupplyRecord{
			Date:        l.Date.Format(dateLayout),
			AmountAdded: l.AmountAdded,
		})
	}

	return cons, sups, nil
}

// periodBounds returns [start, end] for the period containing anchor, plus
// the preceding period of the same kind.
func periodBounds(period string, anchor time.Time) (start, end, prevStart, prevEnd time.Time) {
	switch period {
	case "monthly":
		start = time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
		end = start.AddDate(0, 1, -1)
		prevStart = start.AddDate(0, -1, 0)
		prevEnd = start.AddDate(0, 0, -1)
	default: // weekly, Monday-based
		offset := (int(anchor.Weekday()) + 6) % 7
		start = time.Date(anchor.Year(), anchor.Month(), anchor.Day()-offset, 0, 0, 0, 0, anchor.Location())
		end = start.AddDate(0, 0, 6)
		prevStart = start.AddDate(0, 0, -7)
		prevEnd = start.AddDate(0, 0, -1)
	}
	return
}

// GET /api/reports/summary?period=weekly|monthly&date=2026-03-10&top=5
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		period := c.Query("period", "weekly")
		if period != "weekly" && period != "monthly" {
			return fiber.NewError(fiber.StatusBadRequest, "period must be weekly or monthly")
		}

		anchor := time.Now()
		if dStr := c.Query("date"); dStr != "" {
			d, err := time.Parse(dateLayout, dStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			anchor = d
		}

		topN := c.QueryInt("top", 5)
		if topN < 1 || topN > 50 {
			topN = 5
		}

		start, end, prevStart, prevEnd := periodBounds(period, anchor)

		cons, sups, err := loadRecords(schoolID, prevStart, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ledger data")
		}

		startStr, endStr := start.Format(dateLayout), end.Format(dateLayout)
		prevStartStr, prevEndStr := prevStart.Format(dateLayout), prevEnd.Format(dateLayout)

		current := Summarize(cons, sups, startStr, endStr)
		previous := Summarize(cons, sups, prevStartStr, prevEndStr)

		return c.JSON(SummaryResponse{
			Period:            period,
			StartDate:         startStr,
			EndDate:           endStr,
			PeriodSummary:     current,
			ConsumedChangePct: PercentChange(current.TotalConsumed, previous.TotalConsumed),
			ReceivedChangePct: PercentChange(current.TotalReceived, previous.TotalReceived),
			MealsChangePct:    PercentChange(float64(current.TotalMeals), float64(previous.TotalMeals)),
			TopIngredients:    TopIngredients(cons, startStr, endStr, topN),
			DailyBreakdown:    DailyBuckets(cons, sups, startStr, endStr),
		})
	}
}

// GET /api/reports/chart?from=&to=
// Raw per-day buckets for the dashboard chart.
func ChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from and to are required (YYYY-MM-DD)")
		}
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from date is invalid")
		}
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to date is invalid")
		}

		cons, sups, err := loadRecords(schoolID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ledger data")
		}

		return c.JSON(DailyBuckets(cons, sups, fromStr, toStr))
	}
}
