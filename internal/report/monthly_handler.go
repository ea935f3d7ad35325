package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
)

type CreateMonthlyReportRequest struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"`
	SchoolID *uint `json:"school_id"` // admin only
}

type MonthlyReportResponse struct {
	ID              uint    `json:"id"`
	SchoolID        uint    `json:"school_id"`
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	ReportDate      string  `json:"report_date"`
	TotalConsumedKg float64 `json:"total_consumed_kg"`
	TotalReceivedKg float64 `json:"total_received_kg"`
	TotalMeals      int     `json:"total_meals"`
	ActiveDays      int     `json:"active_days"`
	TotalWasteKg    float64 `json:"total_waste_kg"`
	WasteCost       float64 `json:"waste_cost"`
	CreatedAt       string  `json:"created_at"`
}

func monthlyReportToResponse(r models.MonthlyReport) MonthlyReportResponse {
	return MonthlyReportResponse{
		ID:              r.ID,
		SchoolID:        r.SchoolID,
		Year:            r.Year,
		Month:           r.Month,
		ReportDate:      r.ReportDate.Format(dateLayout),
		TotalConsumedKg: r.TotalConsumedKg,
		TotalReceivedKg: r.TotalReceivedKg,
		TotalMeals:      r.TotalMeals,
		ActiveDays:      r.ActiveDays,
		TotalWasteKg:    r.TotalWasteKg,
		WasteCost:       r.WasteCost,
		CreatedAt:       r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/admin/monthly-reports
// Freezes the month's numbers into a snapshot row. One report per
// school+year+month; recreating replaces the detail JSON.
func CreateMonthlyReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMonthlyReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Year < 2000 || body.Month < 1 || body.Month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid year or month")
		}

		schoolID, err := shared.ResolveSchoolIDFromBodyOrRole(c, body.SchoolID)
		if err != nil {
			return err
		}

		var existing models.MonthlyReport
		if err := database.DB.
			Where("school_id = ? AND year = ? AND month = ?", schoolID, body.Year, body.Month).
			First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("A report for %d-%02d already exists", body.Year, body.Month))
		}

		start := time.Date(body.Year, time.Month(body.Month), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)

		cons, sups, err := loadRecords(schoolID, start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ledger data")
		}

		startStr, endStr := start.Format(dateLayout), end.Format(dateLayout)
		summary := Summarize(cons, sups, startStr, endStr)
		top := TopIngredients(cons, startStr, endStr, 10)
		daily := DailyBuckets(cons, sups, startStr, endStr)

		var wasteKg, wasteCost float64
		if err := database.DB.Model(&models.WasteLog{}).
			Where("school_id = ? AND date >= ? AND date <= ?", schoolID, start, end).
			Select("COALESCE(SUM(amount), 0)").Row().Scan(&wasteKg); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sum waste logs")
		}
		if err := database.DB.Model(&models.WasteLog{}).
			Where("school_id = ? AND date >= ? AND date <= ?", schoolID, start, end).
			Select("COALESCE(SUM(cost_impact), 0)").Row().Scan(&wasteCost); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not sum waste costs")
		}

		detail, _ := json.Marshal(fiber.Map{
			"top_ingredients": top,
			"daily_breakdown": daily,
		})

		reportRow := models.MonthlyReport{
			SchoolID:        schoolID,
			Year:            body.Year,
			Month:           body.Month,
			ReportDate:      time.Now(),
			TotalConsumedKg: summary.TotalConsumed,
			TotalReceivedKg: summary.TotalReceived,
			TotalMeals:      summary.TotalMeals,
			ActiveDays:      summary.ActiveDays,
			TotalWasteKg:    wasteKg,
			WasteCost:       wasteCost,
			ReportData:      string(detail),
		}

		if err := database.DB.Create(&reportRow).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save monthly report")
		}

		return c.Status(fiber.StatusCreated).JSON(monthlyReportToResponse(reportRow))
	}
}

// GET /api/admin/monthly-reports?school_id=&year=
func ListMonthlyReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		q := database.DB.Where("school_id = ?", schoolID).Order("year DESC, month DESC")
		if yStr := c.Query("year"); yStr != "" {
			y, err := strconv.Atoi(yStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "year is invalid")
			}
			q = q.Where("year = ?", y)
		}

		var reports []models.MonthlyReport
		if err := q.Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list monthly reports")
		}

		out := make([]MonthlyReportResponse, 0, len(reports))
		for _, r := range reports {
			out = append(out, monthlyReportToResponse(r))
		}
		return c.JSON(out)
	}
}

// GET /api/admin/monthly-reports/:id
// Includes the frozen detail JSON.
func GetMonthlyReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid report id")
		}

		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		var r models.MonthlyReport
		if err := database.DB.First(&r, "id = ? AND school_id = ?", uint(id), schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Monthly report not found")
		}

		var detail json.RawMessage
		if r.ReportData != "" {
			detail = json.RawMessage(r.ReportData)
		}

		return c.JSON(fiber.Map{
			"report": monthlyReportToResponse(r),
			"detail": detail,
		})
	}
}
