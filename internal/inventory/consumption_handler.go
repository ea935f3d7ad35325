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
	"gorm.io/gorm"
)

type CreateConsumptionRequest struct {
	Date           string  `json:"date"` // "2026-03-10"
	IngredientID   uint    `json:"ingredient_id"`
	AmountUsed     float64 `json:"amount_used"`
	StudentCount   int     `json:"student_count"`
	IdempotencyKey string  `json:"idempotency_key"` // optional, guards against double submits
	SchoolID       *uint   `json:"school_id"`       // admin only
}

type ConsumptionResponse struct {
	ID              uint    `json:"id"`
	SchoolID        uint    `json:"school_id"`
	IngredientID    uint    `json:"ingredient_id"`
	IngredientName  string  `json:"ingredient_name"`
	Date            string  `json:"date"`
	AmountUsed      float64 `json:"amount_used"`
	StudentCount    int     `json:"student_count"`
	GramsPerStudent float64 `json:"grams_per_student"`
	CreatedAt       string  `json:"created_at"`
}

func consumptionToResponse(l models.ConsumptionLog) ConsumptionResponse {
	return ConsumptionResponse{
		ID:              l.ID,
		SchoolID:        l.SchoolID,
		IngredientID:    l.IngredientID,
		IngredientName:  l.IngredientName,
		Date:            l.Date.Format("2006-01-02"),
		AmountUsed:      l.AmountUsed,
		StudentCount:    l.StudentCount,
		GramsPerStudent: l.GramsPerStudent,
		CreatedAt:       l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/consumption-logs
// Ledger insert and stock decrement run in one transaction; the decrement is
// an atomic SQL expression, never a read-modify-write.
func CreateConsumptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateConsumptionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.IngredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ingredient_id is required")
		}
		if body.AmountUsed <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount_used must be greater than zero")
		}
		if body.StudentCount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "student_count must be greater than zero")
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

		// Resubmitted form with the same key: return the existing entry, do
		// not double-count.
		if body.IdempotencyKey != "" {
			var existing models.ConsumptionLog
			if err := database.DB.First(&existing, "idempotency_key = ?", body.IdempotencyKey).Error; err == nil {
				return c.Status(fiber.StatusOK).JSON(consumptionToResponse(existing))
			}
		}

		entry := models.ConsumptionLog{
			SchoolID:        schoolID,
			IngredientID:    ing.ID,
			IngredientName:  ing.Name,
			Date:            d,
			AmountUsed:      body.AmountUsed,
			StudentCount:    body.StudentCount,
			GramsPerStudent: body.AmountUsed * 1000 / float64(body.StudentCount),
		}
		if body.IdempotencyKey != "" {
			entry.IdempotencyKey = &body.IdempotencyKey
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			return tx.Model(&models.Ingredient{}).
				Where("id = ?", ing.ID).
				Update("current_stock", gorm.Expr("current_stock - ?", body.AmountUsed)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record consumption")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &schoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "consumption_log",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Consumption: %s - %.2f %s for %d students", ing.Name, entry.AmountUsed, ing.Unit, entry.StudentCount),
				After:       entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(consumptionToResponse(entry))
	}
}

// GET /api/consumption-logs?from=&to=&ingredient_id=
func ListConsumptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("school_id = ?", schoolID).Order("date DESC, id DESC")

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
		if ingStr := c.Query("ingredient_id"); ingStr != "" {
			iid, err := strconv.ParseUint(ingStr, 10, 32)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "ingredient_id is invalid")
			}
			q = q.Where("ingredient_id = ?", uint(iid))
		}

		var logs []models.ConsumptionLog
		if err := q.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list consumption logs")
		}

		out := make([]ConsumptionResponse, 0, len(logs))
		for _, l := range logs {
			out = append(out, consumptionToResponse(l))
		}
		return c.JSON(out)
	}
}

// DELETE /api/consumption-logs/:id
// Entries are immutable; the only correction is delete (stock restored) and
// recreate.
func DeleteConsumptionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid log id")
		}

		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var entry models.ConsumptionLog
		if err := database.DB.First(&entry, "id = ? AND school_id = ?", uint(id), schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Consumption log not found")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&entry).Error; err != nil {
				return err
			}
			return tx.Model(&models.Ingredient{}).
				Where("id = ?", entry.IngredientID).
				Update("current_stock", gorm.Expr("current_stock + ?", entry.AmountUsed)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete consumption log")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &entry.SchoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "consumption_log",
				EntityID:    entry.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Consumption deleted: %s - %.2f on %s", entry.IngredientName, entry.AmountUsed, entry.Date.Format("2006-01-02")),
				Before:      entry,
			})
		}

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
