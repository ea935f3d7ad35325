// Package shared holds request helpers used by every domain package.
package shared

import (
	"fmt"

	"mealprogram-backend/internal/auth"
	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ResolveSchoolIDFromQueryOrRole: cooks are pinned to the school in their
// token; admins must pass ?school_id=.
func ResolveSchoolIDFromQueryOrRole(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Could not read role from context")
	}

	if role == models.RoleCook {
		sVal := c.Locals(auth.CtxSchoolIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "No school assigned to this account")
		}
		return *sPtr, nil
	}

	// admin
	sidStr := c.Query("school_id")
	if sidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "school_id is required")
	}
	var sid uint
	if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "school_id is invalid")
	}
	return sid, nil
}

// ResolveSchoolIDFromBodyOrRole: same rule for mutating requests, where the
// admin's school id rides in the body.
func ResolveSchoolIDFromBodyOrRole(c *fiber.Ctx, bodySchoolID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Could not read role from context")
	}

	if role == models.RoleCook {
		sVal := c.Locals(auth.CtxSchoolIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "No school assigned to this account")
		}
		return *sPtr, nil
	}

	if bodySchoolID == nil || *bodySchoolID == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "school_id is required")
	}
	return *bodySchoolID, nil
}

// CurrentUser loads the requesting user for audit entries.
func CurrentUser(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Could not read user from context")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "User not found")
	}

	return userID, user.Name, nil
}
