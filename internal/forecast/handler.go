package forecast

import (
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

// GET /api/forecast?school_id=1
// One forecast record per ingredient of the school.
func Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		now := time.Now()
		windowStart := now.AddDate(0, 0, -WindowDays)

		var ingredients []models.Ingredient
		if err := database.DB.Where("school_id = ?", schoolID).Order("name").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ingredients")
		}

		var logs []models.ConsumptionLog
		if err := database.DB.
			Where("school_id = ? AND date >= ?", schoolID, windowStart).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load consumption logs")
		}

		usages := make([]Usage, 0, len(logs))
		for _, l := range logs {
			usages = append(usages, Usage{IngredientID: l.IngredientID, Date: l.Date, Amount: l.AmountUsed})
		}

		return c.JSON(Build(ingredients, usages, now))
	}
}
