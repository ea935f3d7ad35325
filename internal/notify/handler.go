package notify

import (
	"strconv"
	"time"

	"mealprogram-backend/internal/config"
	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/forecast"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

// GET /api/notifications?school_id=&budget=&spending=
// Assembles the snapshots and evaluates every rule. Budget figures come from
// the caller since the program budget lives outside this system.
func Handler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		now := time.Now()
		windowStart := now.AddDate(0, 0, -forecast.WindowDays)

		var ingredients []models.Ingredient
		if err := database.DB.Where("school_id = ?", schoolID).Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ingredients")
		}

		var consLogs []models.ConsumptionLog
		if err := database.DB.
			Where("school_id = ? AND date >= ?", schoolID, windowStart).
			Find(&consLogs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load consumption logs")
		}

		var supLogs []models.SupplyLog
		if err := database.DB.
			Where("school_id = ? AND expiration_date IS NOT NULL", schoolID).
			Find(&supLogs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load supply logs")
		}

		var consumedKg float64
		usages := make([]forecast.Usage, 0, len(consLogs))
		for _, l := range consLogs {
			consumedKg += l.AmountUsed
			usages = append(usages, forecast.Usage{IngredientID: l.IngredientID, Date: l.Date, Amount: l.AmountUsed})
		}

		var wastedKg float64
		if err := database.DB.Model(&models.WasteLog{}).
			Where("school_id = ? AND date >= ?", schoolID, windowStart).
			Select("COALESCE(SUM(amount), 0)").Row().Scan(&wastedKg); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sum waste logs")
		}

		in := Input{
			Ingredients: ingredients,
			SupplyLogs:  supLogs,
			Forecasts:   forecast.Build(ingredients, usages, now),
			ConsumedKg:  consumedKg,
			WastedKg:    wastedKg,
		}

		if bStr := c.Query("budget"); bStr != "" {
			if b, err := strconv.ParseFloat(bStr, 64); err == nil {
				in.Budget = b
			}
		}
		if sStr := c.Query("spending"); sStr != "" {
			if s, err := strconv.ParseFloat(sStr, 64); err == nil {
				in.Spending = s
			}
		}

		thr := Thresholds{
			ExpirySoonDays: cfg.ExpirySoonDays,
			WasteRatio:     cfg.WasteAlertRatio,
		}

		return c.JSON(Evaluate(in, thr, now))
	}
}
