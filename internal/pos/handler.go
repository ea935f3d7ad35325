package pos

import (
	"fmt"
	"strconv"
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRequest struct {
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
	Stock float64 `json:"stock"`
	Unit  string  `json:"unit"`
}

// POST /api/pos/products (admin)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body productRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" || body.Price < 0 || body.Stock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name is required, price and stock cannot be negative")
		}

		unit := body.Unit
		if unit == "" {
			unit = "pcs"
		}
		product := models.PosProduct{Name: body.Name, SKU: body.SKU, Price: body.Price, Stock: body.Stock, Unit: unit}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Could not create product (duplicate SKU?)")
		}
		return c.Status(fiber.StatusCreated).JSON(product)
	}
}

// GET /api/pos/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.PosProduct
		if err := database.DB.Order("name").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}
		return c.JSON(products)
	}
}

// PUT /api/pos/products/:id (admin)
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}
		var product models.PosProduct
		if err := database.DB.First(&product, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body productRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name != "" {
			product.Name = body.Name
		}
		if body.SKU != "" {
			product.SKU = body.SKU
		}
		if body.Price > 0 {
			product.Price = body.Price
		}
		if body.Stock >= 0 {
			product.Stock = body.Stock
		}
		if body.Unit != "" {
			product.Unit = body.Unit
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}
		return c.JSON(product)
	}
}

// DELETE /api/pos/products/:id (admin)
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}
		var count int64
		database.DB.Model(&models.PosSaleItem{}).Where("product_id = ?", uint(id)).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Product has recorded sales; cannot delete")
		}
		if err := database.DB.Delete(&models.PosProduct{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

type saleItemRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

type saleRequest struct {
	Items []saleItemRequest `json:"items"`
}

// POST /api/pos/sales
// The conditional stock decrement is the oversell guard: if another sale
// drained the product first, RowsAffected is 0 and the whole sale rolls back.
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body saleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "A sale needs at least one item")
		}
		for _, it := range body.Items {
			if it.ProductID == 0 || it.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Each item needs a product_id and a positive quantity")
			}
		}

		var sale models.PosSale
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var lines []SaleLine
			var items []models.PosSaleItem

			for _, it := range body.Items {
				var product models.PosProduct
				if err := tx.First(&product, "id = ?", it.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product not found (ID: %d)", it.ProductID))
				}

				res := tx.Model(&models.PosProduct{}).
					Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
					Update("stock", gorm.Expr("stock - ?", it.Quantity))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusConflict,
						fmt.Sprintf("Not enough stock of %s", product.Name))
				}

				lines = append(lines, SaleLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: product.Price})
				items = append(items, models.PosSaleItem{
					ProductID:   it.ProductID,
					ProductName: product.Name,
					Quantity:    it.Quantity,
					UnitPrice:   product.Price,
					LineTotal:   it.Quantity * product.Price,
				})
			}

			sale = models.PosSale{
				ReceiptNo: uuid.NewString(),
				Date:      time.Now(),
				Total:     ComputeTotal(lines),
				Items:     items,
			}
			return tx.Create(&sale).Error
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record sale")
		}

		return c.Status(fiber.StatusCreated).JSON(sale)
	}
}

// GET /api/pos/sales?from=&to= lists sales with per-day totals.
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("date DESC")
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
			}
			q = q.Where("date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
			}
			q = q.Where("date < ?", t.AddDate(0, 0, 1))
		}

		var sales []models.PosSale
		if err := q.Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		dayTotals := make(map[string]float64)
		for _, s := range sales {
			dayTotals[s.Date.Format("2006-01-02")] += s.Total
		}

		return c.JSON(fiber.Map{"sales": sales, "daily_totals": dayTotals})
	}
}
