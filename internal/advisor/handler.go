// Package advisor turns the current kitchen snapshot into stocking advice.
package advisor

import (
	"fmt"
	"strings"
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/forecast"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"
	"mealprogram-backend/pkg/clients/anthropic"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const systemPrompt = "You advise the kitchen of a school meal program. " +
	"You receive a snapshot of inventory, projected depletion and recent consumption. " +
	"Reply with short, concrete purchasing and menu advice. No preamble."

// GET /api/advice assembles the snapshot, asks the model, and degrades to a
// locally computed summary when the API is unavailable. Always 200: advice is
// best-effort and must not break the dashboard.
func AdviceHandler(client anthropic.Client, logger *zap.Logger) fiber.Handler {
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

		var logs []models.ConsumptionLog
		if err := database.DB.
			Where("school_id = ? AND date >= ?", schoolID, windowStart).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load consumption logs")
		}

		usages := make([]forecast.Usage, 0, len(logs))
		var consumedKg float64
		for _, l := range logs {
			consumedKg += l.AmountUsed
			usages = append(usages, forecast.Usage{IngredientID: l.IngredientID, Date: l.Date, Amount: l.AmountUsed})
		}
		forecasts := forecast.Build(ingredients, usages, now)

		prompt := buildPrompt(ingredients, forecasts, consumedKg)

		if client != nil {
			advice, err := client.Advise(c.Context(), systemPrompt, prompt)
			if err == nil {
				return c.JSON(fiber.Map{"advice": advice, "source": "model"})
			}
			logger.Warn("advice model call failed, using fallback", zap.Error(err))
		}

		return c.JSON(fiber.Map{"advice": fallbackAdvice(forecasts), "source": "fallback"})
	}
}

func buildPrompt(ingredients []models.Ingredient, forecasts []forecast.Forecast, consumedKg float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Consumption over the last %d days: %.1f kg total.\n\nInventory:\n", forecast.WindowDays, consumedKg)
	for _, ing := range ingredients {
		fmt.Fprintf(&b, "- %s: %.1f %s in stock (threshold %.1f)\n", ing.Name, ing.CurrentStock, ing.Unit, ing.MinThreshold)
	}
	b.WriteString("\nProjections:\n")
	for _, f := range forecasts {
		fmt.Fprintf(&b, "- %s: status %s, avg %.2f kg/day", f.IngredientName, f.Status, f.AverageDailyUsage)
		if f.ProjectedStockout != nil {
			fmt.Fprintf(&b, ", runs out around %s", f.ProjectedStockout.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// fallbackAdvice is purely rule-based so the endpoint stays useful offline.
func fallbackAdvice(forecasts []forecast.Forecast) string {
	var critical, warning []string
	for _, f := range forecasts {
		switch f.Status {
		case forecast.StatusCritical:
			critical = append(critical, f.IngredientName)
		case forecast.StatusWarning:
			warning = append(warning, f.IngredientName)
		}
	}

	if len(critical) == 0 && len(warning) == 0 {
		return "Stock levels look healthy. No urgent purchases needed."
	}

	var b strings.Builder
	if len(critical) > 0 {
		fmt.Fprintf(&b, "Order immediately: %s.", strings.Join(critical, ", "))
	}
	if len(warning) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "Plan restocking within the week for: %s.", strings.Join(warning, ", "))
	}
	return b.String()
}
