package auth

import (
	"testing"

	"mealprogram-backend/internal/models"
)

func TestResolveRole(t *testing.T) {
	cases := []struct {
		stored string
		want   models.UserRole
	}{
		{"admin", models.RoleAdmin},
		{"cook", models.RoleCook},
		{"", models.RoleCook},
		{"superuser", models.RoleCook},
		{"Admin", models.RoleCook}, // roles are stored lowercase
	}

	for _, tc := range cases {
		if got := ResolveRole(tc.stored); got != tc.want {
			t.Fatalf("ResolveRole(%q) = %q, want %q", tc.stored, got, tc.want)
		}
	}
}
