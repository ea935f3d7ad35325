package inventory

import (
	"fmt"
	"strconv"

	"mealprogram-backend/internal/audit"
	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateIngredientRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	CurrentStock float64 `json:"current_stock"`
	MinThreshold float64 `json:"min_threshold"`
	Unit         string  `json:"unit"`
	SchoolID     *uint   `json:"school_id"` // admin only
}

type UpdateIngredientRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	MinThreshold *float64 `json:"min_threshold"`
	Unit         *string  `json:"unit"`
}

type IngredientResponse struct {
	ID           uint    `json:"id"`
	SchoolID     uint    `json:"school_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	CurrentStock float64 `json:"current_stock"`
	MinThreshold float64 `json:"min_threshold"`
	Unit         string  `json:"unit"`
	CreatedAt    string  `json:"created_at"`
}

func ingredientToResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:           i.ID,
		SchoolID:     i.SchoolID,
		Name:         i.Name,
		Category:     i.Category,
		CurrentStock: i.CurrentStock,
		MinThreshold: i.MinThreshold,
		Unit:         i.Unit,
		CreatedAt:    i.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/ingredients
func CreateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.CurrentStock < 0 || body.MinThreshold < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock and threshold cannot be negative")
		}

		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		var school models.School
		if err := database.DB.First(&school, "id = ?", schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("School not found (ID: %d)", schoolID))
		}

		unit := body.Unit
		if unit == "" {
			unit = "kg"
		}

		ing := models.Ingredient{
			SchoolID:     schoolID,
			Name:         body.Name,
			Category:     body.Category,
			CurrentStock: body.CurrentStock,
			MinThreshold: body.MinThreshold,
			Unit:         unit,
		}

		if err := database.DB.Create(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create ingredient")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &schoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ingredient added: %s (%.2f %s)", ing.Name, ing.CurrentStock, ing.Unit),
				After:       ing,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(ingredientToResponse(ing))
	}
}

// GET /api/ingredients
func ListIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("school_id = ?", schoolID).Order("name")
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}

		var ingredients []models.Ingredient
		if err := q.Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list ingredients")
		}

		out := make([]IngredientResponse, 0, len(ingredients))
		for _, i := range ingredients {
			out = append(out, ingredientToResponse(i))
		}
		return c.JSON(out)
	}
}

// GET /api/ingredients/:id
func GetIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ? AND school_id = ?", uint(id), schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingredient not found")
		}

		return c.JSON(ingredientToResponse(ing))
	}
}

// PUT /api/ingredients/:id
// Stock is deliberately not editable here; it only moves with the ledger or
// a recompute.
func UpdateIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ? AND school_id = ?", uint(id), schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingredient not found")
		}

		before := ing
		if body.Name != nil && *body.Name != "" {
			ing.Name = *body.Name
		}
		if body.Category != nil {
			ing.Category = *body.Category
		}
		if body.MinThreshold != nil {
			if *body.MinThreshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "min_threshold cannot be negative")
			}
			ing.MinThreshold = *body.MinThreshold
		}
		if body.Unit != nil && *body.Unit != "" {
			ing.Unit = *body.Unit
		}

		if err := database.DB.Save(&ing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update ingredient")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &ing.SchoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ingredient updated: %s", ing.Name),
				Before:      before,
				After:       ing,
			})
		}

		return c.JSON(ingredientToResponse(ing))
	}
}

// DELETE /api/ingredients/:id
// The ledger rows referencing the ingredient go first, in the same
// transaction, so no orphan log can survive.
func DeleteIngredientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid ingredient id")
		}

		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var ing models.Ingredient
		if err := database.DB.First(&ing, "id = ? AND school_id = ?", uint(id), schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ingredient not found")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.ConsumptionLog{}, "ingredient_id = ?", ing.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.SupplyLog{}, "ingredient_id = ?", ing.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.WasteLog{}, "ingredient_id = ?", ing.ID).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.RecipeIngredient{}, "ingredient_id = ?", ing.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&ing).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete ingredient")
		}

		if userID, userName, err := shared.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				SchoolID:    &ing.SchoolID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ingredient deleted: %s (logs removed with it)", ing.Name),
				Before:      ing,
			})
		}

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
