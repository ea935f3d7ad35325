package scheduler

import (
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

// GET /api/attendance/snapshot serves the cached headcount. 503 until the
// first refresh has run for the school.
func SnapshotHandler(s *Scheduler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		snap, ok := s.Snapshot(schoolID)
		if !ok {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Snapshot not ready yet")
		}
		return c.JSON(snap)
	}
}
