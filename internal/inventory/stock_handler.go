package inventory

import (
	"strconv"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StockStatusResponse struct {
	IngredientID  uint    `json:"ingredient_id"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	CurrentStock  float64 `json:"current_stock"`  // cached column
	LedgerStock   float64 `json:"ledger_stock"`   // sum(supply) - sum(consumption)
	TotalReceived float64 `json:"total_received"`
	TotalConsumed float64 `json:"total_consumed"`
	Drift         float64 `json:"drift"` // cached - ledger; non-zero means the cache needs a recompute
}

func ledgerStock(db *gorm.DB, ingredientID uint) (received, consumed float64, err error) {
	row := db.Model(&models.SupplyLog{}).
		Where("ingredient_id = ?", ingredientID).
		Select("COALESCE(SUM(amount_added), 0)").Row()
	if err = row.Scan(&received); err != nil {
		return
	}
	row = db.Model(&models.ConsumptionLog{}).
		Where("ingredient_id = ?", ingredientID).
		Select("COALESCE(SUM(amount_used), 0)").Row()
	err = row.Scan(&consumed)
	return
}

// GET /api/ingredients/:id/stock
// Shows the cached stock next to the ledger-derived value so drift is
// visible.
func GetStockStatusHandler() fiber.Handler {
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

		received, consumed, err := ledgerStock(database.DB, ing.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute ledger stock")
		}

		ledger := received - consumed
		return c.JSON(StockStatusResponse{
			IngredientID:  ing.ID,
			Name:          ing.Name,
			Unit:          ing.Unit,
			CurrentStock:  ing.CurrentStock,
			LedgerStock:   ledger,
			TotalReceived: received,
			TotalConsumed: consumed,
			Drift:         ing.CurrentStock - ledger,
		})
	}
}

// POST /api/ingredients/:id/recompute-stock
// Rebuilds the cached column from the ledger. current_stock is a
// materialized view of the ledger and this is its refresh.
func RecomputeStockHandler() fiber.Handler {
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

		before := ing.CurrentStock
		var after float64

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			received, consumed, err := ledgerStock(tx, ing.ID)
			if err != nil {
				return err
			}
			after = received - consumed
			return tx.Model(&models.Ingredient{}).
				Where("id = ?", ing.ID).
				Update("current_stock", after).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not recompute stock")
		}

		return c.JSON(fiber.Map{
			"ingredient_id": ing.ID,
			"before":        before,
			"after":         after,
		})
	}
}
