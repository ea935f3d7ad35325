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

type CreateSupplyRequest struct {
	Date           string  `json:"date"`
	IngredientID   uint    `json:"ingredient_id"`
	AmountAdded    float64 `json:"amount_added"`
	Source         string  `json:"source"`
	Notes          string  `json:"notes"`
	ExpirationDate string  `json:"expiration_date"` // optional "YYYY-MM-DD"
	IdempotencyKey string  `json:"idempotency_key"`
	SchoolID       *uint   `json:"school_id"` // admin only
}

type SupplyResponse struct {
	ID             uint    `json:"id"`
	SchoolID       uint    `json:"school_id"`
	IngredientID   uint    `json:"ingredient_id"`
	IngredientName string  `json:"ingredient_name"`
	Date           string  `json:"date"`
	AmountAdded    float64 `json:"amount_added"`
	Source         string  `json:"source"`
	Notes          string  `json:"notes"`
	ExpirationDate string  `json:"expiration_date,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func supplyToResponse(l models.SupplyLog) SupplyResponse {
	resp := SupplyResponse{
		ID:             l.ID,
		SchoolID:       l.SchoolID,
		IngredientID:   l.IngredientID,
		IngredientName: l.IngredientName,
		Date:           l.Date.Format("2006-01-02"),
		AmountAdded:    l.AmountAdded,
		Source:         l.Source,
		Notes:          l.Notes,
		CreatedAt:      l.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if l.ExpirationDate != nil {
		resp.ExpirationDate = l.ExpirationDate.Format("2006-01-02")
	}
	return resp
}

// POST /api/supply-logs
func CreateSupplyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.IngredientID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ingredient_id is required")
		}
		if body.AmountAdded <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amount_added must be greater than zero")
		}

		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		d, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var expiration *time.Time
		if body.ExpirationDate != "" {
			exp, err := time.Parse("2006-01-02", body.ExpirationDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expiration_date must be 'YYYY-MM-DD'")
			}
			expiration = &exp
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ? AND school_id = ?", body.IngredientID, schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ingredient not found")
		}

		if body.IdempotencyKey != "" {
			var existing models.SupplyLog
			if err := database.DB.First(&existing, "idempotency_key = ?", body.IdempotencyKey).Error; err == nil {
				return c.Status(fiber.StatusOK).JSON(supplyToResponse(existing))
			}
		}

		entry := models.SupplyLog{
			SchoolID:       schoolID,
			IngredientID:   ing.ID,
			IngredientName: ing.Name,
			Date:           d,
			AmountAdded:    body.AmountAdded,
			Source:         body.Source,
			Notes:          body.Notes,
			ExpirationDate: expiration,
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
				Update("current_stock", gorm.Expr("current_stock + ?", body.AmountAdded)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record supply")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &schoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supply_log",
				EntityID:    entry.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Supply: %s + %.2f %s from %s", ing.Name, entry.AmountAdded, ing.Unit, entry.Source),
				After:       entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(supplyToResponse(entry))
	}
}

// GET /api/supply-logs?from=&to=&ingredient_id=
func ListSupplyHandler() fiber.Handler {
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

		var logs []models.SupplyLog
		if err := q.Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list supply logs")
		}

		out := make([]SupplyResponse, 0, len(logs))
		for _, l := range logs {
			out = append(out, supplyToResponse(l))
		}
		return c.JSON(out)
	}
}

// DELETE /api/supply-logs/:id
func DeleteSupplyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid log id")
		}

		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var entry models.SupplyLog
		if err := database.DB.First(&entry, "id = ? AND school_id = ?", uint(id), schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Supply log not found")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&entry).Error; err != nil {
				return err
			}
			return tx.Model(&models.Ingredient{}).
				Where("id = ?", entry.IngredientID).
				Update("current_stock", gorm.Expr("current_stock - ?", entry.AmountAdded)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supply log")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &entry.SchoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "supply_log",
				EntityID:    entry.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Supply deleted: %s - %.2f on %s", entry.IngredientName, entry.AmountAdded, entry.Date.Format("2006-01-02")),
				Before:      entry,
			})
		}

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
