package school

import (
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

type attendanceRequest struct {
	SchoolID     *uint  `json:"school_id"`
	ClassroomID  uint   `json:"classroom_id"`
	Date         string `json:"date"` // YYYY-MM-DD, defaults to today
	PresentCount int    `json:"present_count"`
	AbsentCount  int    `json:"absent_count"`
	Note         string `json:"note"`
}

// POST /api/attendance. Upserts on classroom+date so a corrected headcount
// replaces the earlier one.
func RecordAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body attendanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.ClassroomID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "classroom_id is required")
		}
		if body.PresentCount < 0 || body.AbsentCount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "counts cannot be negative")
		}

		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		var room models.Classroom
		if err := database.DB.Where("id = ? AND school_id = ?", body.ClassroomID, schoolID).First(&room).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Classroom not found in this school")
		}

		day := time.Now()
		if body.Date != "" {
			day, err = time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
		}
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

		var existing models.DailyAttendance
		err = database.DB.Where("classroom_id = ? AND date = ?", body.ClassroomID, day).First(&existing).Error
		if err == nil {
			existing.PresentCount = body.PresentCount
			existing.AbsentCount = body.AbsentCount
			existing.Note = body.Note
			if err := database.DB.Save(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update attendance")
			}
			return c.JSON(existing)
		}

		row := models.DailyAttendance{
			SchoolID:     schoolID,
			ClassroomID:  body.ClassroomID,
			Date:         day,
			PresentCount: body.PresentCount,
			AbsentCount:  body.AbsentCount,
			Note:         body.Note,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record attendance")
		}
		return c.Status(fiber.StatusCreated).JSON(row)
	}
}

// GET /api/attendance?from=&to=&classroom_id=
func ListAttendanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Preload("Classroom").
			Where("school_id = ?", schoolID).Order("date DESC")
		if cid := c.Query("classroom_id"); cid != "" {
			q = q.Where("classroom_id = ?", cid)
		}
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

		var rows []models.DailyAttendance
		if err := q.Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list attendance")
		}
		return c.JSON(rows)
	}
}

// HeadcountForDate sums present students across every classroom of a school
// for one day. The scheduler uses it to refresh the cached snapshot.
func HeadcountForDate(schoolID uint, day time.Time) (int, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var total int
	err := database.DB.Model(&models.DailyAttendance{}).
		Where("school_id = ? AND date = ?", schoolID, day).
		Select("COALESCE(SUM(present_count), 0)").Row().Scan(&total)
	return total, err
}

// GET /api/attendance/summary?date= returns the headcount meals must be
// planned for. Falls back to active enrollment when no attendance has been
// recorded yet that day.
func AttendanceSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		day := time.Now()
		if d := c.Query("date"); d != "" {
			day, err = time.Parse("2006-01-02", d)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
		}

		present, err := HeadcountForDate(schoolID, day)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sum attendance")
		}

		var recorded int64
		database.DB.Model(&models.DailyAttendance{}).
			Where("school_id = ? AND date = ?", schoolID,
				time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)).
			Count(&recorded)

		var enrolled int64
		database.DB.Model(&models.Student{}).
			Where("school_id = ? AND active = ?", schoolID, true).
			Count(&enrolled)

		headcount := present
		source := "attendance"
		if recorded == 0 {
			headcount = int(enrolled)
			source = "enrollment"
		}

		return c.JSON(fiber.Map{
			"school_id":         schoolID,
			"date":              day.Format("2006-01-02"),
			"present":           present,
			"classrooms_logged": recorded,
			"enrolled":          enrolled,
			"headcount":         headcount,
			"source":            source,
		})
	}
}
