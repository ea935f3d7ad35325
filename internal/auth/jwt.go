package auth

import (
	"time"

	"mealprogram-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID   uint            `json:"user_id"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
	SchoolID *uint           `json:"school_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     ResolveRole(string(user.Role)),
		SchoolID: user.SchoolID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ResolveRole maps a stored role string to a known role, defaulting to the
// lowest-privilege role when it is missing or unknown.
func ResolveRole(stored string) models.UserRole {
	switch models.UserRole(stored) {
	case models.RoleAdmin:
		return models.RoleAdmin
	case models.RoleCook:
		return models.RoleCook
	default:
		return models.RoleCook
	}
}
