package inventory

import (
	"fmt"
	"log"

	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

// POST /api/supply-logs/parse-note
// Takes the text of a delivery note (extracted client-side), returns candidate
// supply entries matched against the school's ingredients. Nothing is saved;
// the client confirms and posts real supply logs.
func ParseDeliveryNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Text     string `json:"text"`
			SchoolID *uint  `json:"school_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body, a 'text' field is required")
		}

		if body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Delivery note text cannot be empty")
		}

		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		result, err := ParseDeliveryNote(body.Text)
		if err != nil {
			log.Printf("delivery note parse error: %v", err)
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Could not parse delivery note: %v", err))
		}

		if err := matchIngredients(result, schoolID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not match ingredients")
		}

		return c.JSON(result)
	}
}
