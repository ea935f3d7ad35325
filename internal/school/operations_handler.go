package school

import (
	"strconv"
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

// Kitchen staff, suppliers, assets and the serving calendar.

type staffRequest struct {
	SchoolID *uint  `json:"school_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
}

// POST /api/staff (admin)
func CreateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body staffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		staff := models.Staff{SchoolID: schoolID, Name: body.Name, Position: body.Position, Phone: body.Phone}
		if err := database.DB.Create(&staff).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create staff member")
		}
		return c.Status(fiber.StatusCreated).JSON(staff)
	}
}

// GET /api/staff
func ListStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}
		var staff []models.Staff
		if err := database.DB.Where("school_id = ?", schoolID).Order("name").Find(&staff).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list staff")
		}
		return c.JSON(staff)
	}
}

// DELETE /api/staff/:id (admin)
func DeleteStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}
		if err := database.DB.Delete(&models.Staff{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete staff member")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

type supplierRequest struct {
	SchoolID    *uint  `json:"school_id"`
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// POST /api/suppliers (admin)
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body supplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		supplier := models.Supplier{
			SchoolID:    schoolID,
			Name:        body.Name,
			ContactName: body.ContactName,
			Phone:       body.Phone,
			Address:     body.Address,
		}
		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create supplier")
		}
		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}
		var suppliers []models.Supplier
		if err := database.DB.Where("school_id = ?", schoolID).Order("name").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}
		return c.JSON(suppliers)
	}
}

// DELETE /api/suppliers/:id (admin)
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}
		if err := database.DB.Delete(&models.Supplier{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

type assetRequest struct {
	SchoolID    *uint   `json:"school_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Condition   string  `json:"condition"`
	Value       float64 `json:"value"`
	AcquiredAt  string  `json:"acquired_at"` // YYYY-MM-DD
	Description string  `json:"description"`
}

// POST /api/assets (admin)
func CreateAssetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body assetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "name and a positive quantity are required")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		asset := models.SchoolAsset{
			SchoolID:    schoolID,
			Name:        body.Name,
			Category:    body.Category,
			Quantity:    body.Quantity,
			Condition:   body.Condition,
			Value:       body.Value,
			Description: body.Description,
		}
		if body.AcquiredAt != "" {
			t, err := time.Parse("2006-01-02", body.AcquiredAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "acquired_at must be YYYY-MM-DD")
			}
			asset.AcquiredAt = &t
		}

		if err := database.DB.Create(&asset).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create asset")
		}
		return c.Status(fiber.StatusCreated).JSON(asset)
	}
}

// GET /api/assets
func ListAssetsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}
		q := database.DB.Where("school_id = ?", schoolID).Order("name")
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}
		var assets []models.SchoolAsset
		if err := q.Find(&assets).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list assets")
		}
		return c.JSON(assets)
	}
}

// PUT /api/assets/:id (admin)
func UpdateAssetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid asset id")
		}
		var asset models.SchoolAsset
		if err := database.DB.First(&asset, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Asset not found")
		}

		var body assetRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name != "" {
			asset.Name = body.Name
		}
		if body.Category != "" {
			asset.Category = body.Category
		}
		if body.Quantity > 0 {
			asset.Quantity = body.Quantity
		}
		if body.Condition != "" {
			asset.Condition = body.Condition
		}
		if body.Value != 0 {
			asset.Value = body.Value
		}
		if body.Description != "" {
			asset.Description = body.Description
		}
		if body.AcquiredAt != "" {
			t, err := time.Parse("2006-01-02", body.AcquiredAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "acquired_at must be YYYY-MM-DD")
			}
			asset.AcquiredAt = &t
		}

		if err := database.DB.Save(&asset).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update asset")
		}
		return c.JSON(asset)
	}
}

// DELETE /api/assets/:id (admin)
func DeleteAssetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid asset id")
		}
		if err := database.DB.Delete(&models.SchoolAsset{}, uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete asset")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}

type schoolDayRequest struct {
	SchoolID *uint  `json:"school_id"`
	Date     string `json:"date"` // YYYY-MM-DD
	IsActive *bool  `json:"is_active"`
	Note     string `json:"note"`
}

// POST /api/school-days (admin). Upserts on school+date so a holiday can be
// toggled without deleting the row.
func UpsertSchoolDayHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body schoolDayRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date is required")
		}
		day, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		active := true
		if body.IsActive != nil {
			active = *body.IsActive
		}

		var existing models.SchoolDay
		err = database.DB.Where("school_id = ? AND date = ?", schoolID, day).First(&existing).Error
		if err == nil {
			existing.IsActive = active
			existing.Note = body.Note
			if err := database.DB.Save(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update school day")
			}
			return c.JSON(existing)
		}

		row := models.SchoolDay{SchoolID: schoolID, Date: day, IsActive: active, Note: body.Note}
		if err := database.DB.Create(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create school day")
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// GET /api/school-days?from=&to=
func ListSchoolDaysHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("school_id = ?", schoolID).Order("date")
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
			q = q.Where("date <= ?", t)
		}

		var days []models.SchoolDay
		if err := q.Find(&days).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list school days")
		}
		return c.JSON(days)
	}
}
