// Package school manages the school registry, its people and its calendar.
package school

import (
	"strconv"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type schoolRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Principal string `json:"principal"`
}

// POST /api/schools (admin)
func CreateSchoolHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body schoolRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		school := models.School{
			Name:      body.Name,
			Address:   body.Address,
			Phone:     body.Phone,
			Principal: body.Principal,
		}
		if err := database.DB.Create(&school).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create school")
		}
		return c.Status(fiber.StatusCreated).JSON(school)
	}
}

// GET /api/schools
func ListSchoolsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var schools []models.School
		if err := database.DB.Order("name").Find(&schools).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list schools")
		}
		return c.JSON(schools)
	}
}

// GET /api/schools/:id
func GetSchoolHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid school id")
		}
		var school models.School
		if err := database.DB.First(&school, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return c.JSON(school)
	}
}

// PUT /api/schools/:id (admin)
func UpdateSchoolHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid school id")
		}
		var school models.School
		if err := database.DB.First(&school, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "School not found")
		}

		var body schoolRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name != "" {
			school.Name = body.Name
		}
		school.Address = body.Address
		school.Phone = body.Phone
		school.Principal = body.Principal

		if err := database.DB.Save(&school).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update school")
		}
		return c.JSON(school)
	}
}

// DELETE /api/schools/:id (admin). Refuses while dependent rows exist.
func DeleteSchoolHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid school id")
		}
		var school models.School
		if err := database.DB.First(&school, "id = ?", uint(id)).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "School not found")
		}

		var ingredients int64
		database.DB.Model(&models.Ingredient{}).Where("school_id = ?", school.ID).Count(&ingredients)
		var students int64
		database.DB.Model(&models.Student{}).Where("school_id = ?", school.ID).Count(&students)
		if ingredients > 0 || students > 0 {
			return fiber.NewError(fiber.StatusConflict, "School still has inventory or students; remove them first")
		}

		if err := database.DB.Delete(&school).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete school")
		}
		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
