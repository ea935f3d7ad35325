package inventory

import (
	"fmt"
	"strconv"
	"time"

	"mealprogram-backend/internal/audit"
	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

type CreateWasteRequest struct {
	Date         string  `json:"date"`
	IngredientID uint    `json:"ingredient_id"`
	Amount       float64 `json:"amount"`
	Reason       string  `json:"reason"` // expired | spoiled | leftover | other
	CostImpact   float64 `json:"cost_impact"`
	Notes        string  `json:"notes"`
	SchoolID     *uint   `json:"school_id"` // admin only
}

type WasteResponse struct {
	ID             uint    `json:"id"`
	SchoolID       uint    `json:"school_id"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Date           string  `json:"date"`
	Amount         float64 `json:"amount"`
	Reason         string  `json:"reason"`
	CostImpact     float64 `json:"cost_impact"`
	Notes          string  `json:"notes"`
	CreatedAt      string  `json:"created_at"`
}

func validWasteReason(r string) bool {
	switch models.WasteReason(r) {
	case models.WasteExpired, models.WasteSpoiled, models.WasteLeftover, models.WasteOther:
		return true
	}
	return false
}

// POST /api/waste-logs
func CreateWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWasteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.IngredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ingredient_id is required")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount must be greater than zero")
		}
		if !validWasteReason(body.Reason) {
			return fiber.NewError(fiber.StatusBadRequest, "reason must be one of: expired, spoiled, leftover, other")
		}

		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ? AND school_id = ?", body.IngredientID, schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ingredient not found")
		}

		entry := models.WasteLog{
			SchoolID:     schoolID,
			IngredientID: ing.ID,
			Date:         d,
			Amount:       body.Amount,
			Reason:       models.WasteReason(body.Reason),
			CostImpact:   body.CostImpact,
			Notes:        body.Notes,
		}

		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record waste")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &schoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "waste_log",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Waste: %s - %.2f %s (%s)", ing.Name, entry.Amount, ing.Unit, entry.Reason),
				After:       entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(wasteToResponse(entry, ing.Name))
	}
}

func wasteToResponse(l models.WasteLog, ingredientName string) WasteResponse {
	return WasteResponse{
		ID:             l.ID,
		SchoolID:       l.SchoolID,
		IngredientID:   l.IngredientID,
		IngredientName: ingredientName,
		Date:           l.Date.Format("2006-01-02"),
		Amount:         l.Amount,
		Reason:         string(l.Reason),
		CostImpact:     l.CostImpact,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/waste-logs?from=&to=&reason=
func ListWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Preload("Ingredient").Where("school_id = ?", schoolID).Order("date DESC, id DESC")

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from date is invalid")
			}
			q = q.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to date is invalid")
			}
			q = q.Where("date <= ?", to)
		}
		if reason := c.Query("reason"); reason != "" {
			if !validWasteReason(reason) {
				return fiber.NewError(fiber.StatusBadRequest, "reason is invalid")
			}
			q = q.Where("reason = ?", reason)
		}

		var logs []models.WasteLog
		if err := q.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list waste logs")
		}

		out := make([]WasteResponse, 0, len(logs))
		for _, l := range logs {
			out = append(out, wasteToResponse(l, l.Ingredient.Name))
		}
		return c.JSON(out)
	}
}

// DELETE /api/waste-logs/:id
func DeleteWasteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid log id")
		}

		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var entry models.WasteLog
		if err := database.DB.First(&entry, "id = ? AND school_id = ?", uint(id), schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Waste log not found")
		}

		if err := database.DB.Delete(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete waste log")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &entry.SchoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "waste_log",
				EntityID:    entry.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Waste deleted: %.2f on %s", entry.Amount, entry.Date.Format("2006-01-02")),
				Before:      entry,
			})
		}

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
