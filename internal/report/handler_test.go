package report

import (
	"net/http/httptest"
	"testing"
	"time"

	"mealprogram-backend/internal/auth"
	"mealprogram-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestPeriodBounds(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name   string
		period string
		anchor time.Time

		start, end, prevStart, prevEnd string
	}{
		{
			// Sunday belongs to the week that started the previous Monday
			name:   "weekly sunday anchor",
			period: "weekly",
			anchor: day(2026, time.March, 8),
			start:  "2026-03-02", end: "2026-03-08",
			prevStart: "2026-02-23", prevEnd: "2026-03-01",
		},
		{
			name:   "weekly monday anchor starts same day",
			period: "weekly",
			anchor: day(2026, time.March, 2),
			start:  "2026-03-02", end: "2026-03-08",
			prevStart: "2026-02-23", prevEnd: "2026-03-01",
		},
		{
			name:   "weekly january anchor rolls into previous year",
			period: "weekly",
			anchor: day(2026, time.January, 1),
			start:  "2025-12-29", end: "2026-01-04",
			prevStart: "2025-12-22", prevEnd: "2025-12-28",
		},
		{
			name:   "monthly mid-month anchor",
			period: "monthly",
			anchor: day(2026, time.March, 10),
			start:  "2026-03-01", end: "2026-03-31",
			prevStart: "2026-02-01", prevEnd: "2026-02-28",
		},
		{
			name:   "monthly january anchor rolls into previous year",
			period: "monthly",
			anchor: day(2026, time.January, 15),
			start:  "2026-01-01", end: "2026-01-31",
			prevStart: "2025-12-01", prevEnd: "2025-12-31",
		},
		{
			name:   "monthly march anchor in a leap year",
			period: "monthly",
			anchor: day(2024, time.March, 10),
			start:  "2024-03-01", end: "2024-03-31",
			prevStart: "2024-02-01", prevEnd: "2024-02-29",
		},
	}

	for _, tc := range cases {
		start, end, prevStart, prevEnd := periodBounds(tc.period, tc.anchor)

		got := []string{
			start.Format(dateLayout), end.Format(dateLayout),
			prevStart.Format(dateLayout), prevEnd.Format(dateLayout),
		}
		want := []string{tc.start, tc.end, tc.prevStart, tc.prevEnd}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: bounds = %v, want %v", tc.name, got, want)
			}
		}
	}
}

func TestGetMonthlyReportRequiresSchoolScope(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserRoleKey, models.RoleCook)
		c.Locals(auth.CtxSchoolIDKey, (*uint)(nil))
		return c.Next()
	})
	app.Get("/api/monthly-reports/:id", GetMonthlyReportHandler())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/monthly-reports/3", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status %d, want 403 for a cook without a school", resp.StatusCode)
	}
}
