package recipe

import (
	"errors"
	"strconv"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ingredientLineRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	QuantityKg   float64 `json:"quantity_kg"`
}

type recipeRequest struct {
	SchoolID    *uint                   `json:"school_id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Servings    int                     `json:"servings"`
	Ingredients []ingredientLineRequest `json:"ingredients"`
}

type ingredientLineResponse struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	QuantityKg   float64 `json:"quantity_kg"`
	Position     int     `json:"position"`
}

type recipeResponse struct {
	ID          uint                     `json:"id"`
	SchoolID    uint                     `json:"school_id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Servings    int                      `json:"servings"`
	Ingredients []ingredientLineResponse `json:"ingredients"`
}

func toResponse(r models.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:          r.ID,
		SchoolID:    r.SchoolID,
		Name:        r.Name,
		Description: r.Description,
		Servings:    r.Servings,
		Ingredients: make([]ingredientLineResponse, 0, len(r.Ingredients)),
	}
	for _, line := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, ingredientLineResponse{
			IngredientID: line.IngredientID,
			Name:         line.Ingredient.Name,
			Unit:         line.Ingredient.Unit,
			QuantityKg:   line.QuantityKg,
			Position:     line.Position,
		})
	}
	return resp
}

func validateLines(schoolID uint, lines []ingredientLineRequest) error {
	if len(lines) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "A recipe needs at least one ingredient")
	}
	seen := make(map[uint]struct{}, len(lines))
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		if l.IngredientID == 0 || l.QuantityKg <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Each line needs an ingredient_id and a positive quantity_kg")
		}
		if _, dup := seen[l.IngredientID]; dup {
			return fiber.NewError(fiber.StatusBadRequest, "Duplicate ingredient in recipe")
		}
		seen[l.IngredientID] = struct{}{}
		ids = append(ids, l.IngredientID)
	}

	var count int64
	if err := database.DB.Model(&models.Ingredient{}).
		Where("school_id = ? AND id IN ?", schoolID, ids).
		Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not verify ingredients")
	}
	if int(count) != len(ids) {
		return fiber.NewError(fiber.StatusBadRequest, "One or more ingredients do not belong to this school")
	}
	return nil
}

// POST /api/recipes
func CreateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req recipeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if req.Servings <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "servings must be positive")
		}

		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, req.SchoolID)
		if err != nil {
			return err
		}
		if err := validateLines(schoolID, req.Ingredients); err != nil {
			return err
		}

		recipe := models.Recipe{
			SchoolID:    schoolID,
			Name:        req.Name,
			Description: req.Description,
			Servings:    req.Servings,
		}
		for i, l := range req.Ingredients {
			recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
				IngredientID: l.IngredientID,
				QuantityKg:   l.QuantityKg,
				Position:     i,
			})
		}

		if err := database.DB.Create(&recipe).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create recipe")
		}

		if err := database.DB.Preload("Ingredients.Ingredient").First(&recipe, recipe.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recipe")
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(recipe))
	}
}

// GET /api/recipes
func ListRecipesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var recipes []models.Recipe
		if err := database.DB.
			Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			Preload("Ingredients.Ingredient").
			Where("school_id = ?", schoolID).
			Order("name ASC").
			Find(&recipes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recipes")
		}

		out := make([]recipeResponse, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, toResponse(r))
		}
		return c.JSON(out)
	}
}

func loadScopedRecipe(c *fiber.Ctx) (*models.Recipe, error) {
	schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
	if err != nil {
		return nil, err
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid recipe id")
	}

	var recipe models.Recipe
	err = database.DB.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Ingredients.Ingredient").
		Where("id = ? AND school_id = ?", id, schoolID).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Recipe not found")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not load recipe")
	}
	return &recipe, nil
}

// GET /api/recipes/:id
func GetRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipe, err := loadScopedRecipe(c)
		if err != nil {
			return err
		}
		return c.JSON(toResponse(*recipe))
	}
}

// PUT /api/recipes/:id replaces the recipe and its ingredient lines.
func UpdateRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipe, err := loadScopedRecipe(c)
		if err != nil {
			return err
		}

		var req recipeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if req.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if req.Servings <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "servings must be positive")
		}
		if err := validateLines(recipe.SchoolID, req.Ingredients); err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			lines := make([]models.RecipeIngredient, 0, len(req.Ingredients))
			for i, l := range req.Ingredients {
				lines = append(lines, models.RecipeIngredient{
					RecipeID:     recipe.ID,
					IngredientID: l.IngredientID,
					QuantityKg:   l.QuantityKg,
					Position:     i,
				})
			}
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
			return tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
				"name":        req.Name,
				"description": req.Description,
				"servings":    req.Servings,
			}).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update recipe")
		}

		var updated models.Recipe
		if err := database.DB.
			Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
			Preload("Ingredients.Ingredient").
			First(&updated, recipe.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load recipe")
		}
		return c.JSON(toResponse(updated))
	}
}

// DELETE /api/recipes/:id
func DeleteRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipe, err := loadScopedRecipe(c)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Recipe{}, recipe.ID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete recipe")
		}
		return c.JSON(fiber.Map{"message": "Recipe deleted"})
	}
}

// GET /api/recipes/:id/requirements?students=N scales the recipe to the given
// headcount and flags lines the current stock cannot cover.
func RequirementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipe, err := loadScopedRecipe(c)
		if err != nil {
			return err
		}

		students, err := strconv.Atoi(c.Query("students"))
		if err != nil || students <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "students must be a positive number")
		}

		lines := make([]requirementInput, 0, len(recipe.Ingredients))
		for _, l := range recipe.Ingredients {
			lines = append(lines, requirementInput{
				IngredientID: l.IngredientID,
				Name:         l.Ingredient.Name,
				Unit:         l.Ingredient.Unit,
				QuantityKg:   l.QuantityKg,
				StockKg:      l.Ingredient.CurrentStock,
			})
		}

		reqs := scaleRequirements(lines, recipe.Servings, students)
		feasible := true
		for _, r := range reqs {
			if !r.Sufficient {
				feasible = false
				break
			}
		}

		return c.JSON(fiber.Map{
			"recipe_id":    recipe.ID,
			"recipe_name":  recipe.Name,
			"servings":     recipe.Servings,
			"students":     students,
			"feasible":     feasible,
			"requirements": reqs,
		})
	}
}
