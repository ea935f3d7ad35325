package report

import (
	"bytes"
	"fmt"
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/go-pdf/fpdf"
	"github.com/gofiber/fiber/v2"
)

// GET /api/reports/export/pdf?from=&to=
// Paginated report: header band, metric cards, top-ingredient and daily
// tables.
func ExportPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		schoolID, err := shared.ResolveSchoolIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from and to are required (YYYY-MM-DD)")
		}
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from date is invalid")
		}
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to date is invalid")
		}

		var school models.School
		if err := database.DB.First(&school, "id = ?", schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "School not found")
		}

		cons, sups, err := loadRecords(schoolID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ledger data")
		}

		summary := Summarize(cons, sups, fromStr, toStr)
		top := TopIngredients(cons, fromStr, toStr, 10)
		daily := DailyBuckets(cons, sups, fromStr, toStr)

		pdf := fpdf.New("P", "mm", "A4", "")
		pdf.SetAutoPageBreak(true, 15)
		pdf.AddPage()

		// header band
		pdf.SetFillColor(31, 78, 121)
		pdf.Rect(0, 0, 210, 28, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(10, 6)
		pdf.CellFormat(190, 8, "School Meal Program Report", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetX(10)
		pdf.CellFormat(190, 6, fmt.Sprintf("%s  |  %s to %s", school.Name, fromStr, toStr), "", 1, "L", false, 0, "")

		// metric cards
		pdf.SetY(34)
		cards := []struct {
			label string
			value string
		}{
			{"Consumed (kg)", fmt.Sprintf("%.1f", summary.TotalConsumed)},
			{"Received (kg)", fmt.Sprintf("%.1f", summary.TotalReceived)},
			{"Meals served", fmt.Sprintf("%d", summary.TotalMeals)},
			{"Active days", fmt.Sprintf("%d", summary.ActiveDays)},
		}
		cardW := 45.0
		x := 10.0
		for _, card := range cards {
			pdf.SetFillColor(237, 242, 247)
			pdf.Rect(x, 34, cardW, 20, "F")
			pdf.SetTextColor(90, 90, 90)
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetXY(x+2, 36)
			pdf.CellFormat(cardW-4, 5, card.label, "", 0, "L", false, 0, "")
			pdf.SetTextColor(31, 78, 121)
			pdf.SetFont("Helvetica", "B", 13)
			pdf.SetXY(x+2, 42)
			pdf.CellFormat(cardW-4, 8, card.value, "", 0, "L", false, 0, "")
			x += cardW + 3.3
		}

		// top ingredients table
		pdf.SetY(62)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(190, 8, "Top Ingredients", "", 1, "L", false, 0, "")
		drawTableHeader(pdf, []string{"Ingredient", "Consumed (kg)"}, []float64{120, 70})
		pdf.SetFont("Helvetica", "", 9)
		for _, t := range top {
			pdf.CellFormat(120, 7, t.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, 7, fmt.Sprintf("%.2f", t.Total), "1", 1, "R", false, 0, "")
		}

		// daily table
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(190, 8, "Daily Breakdown", "", 1, "L", false, 0, "")
		drawTableHeader(pdf, []string{"Date", "Consumed (kg)", "Received (kg)", "Meals"}, []float64{50, 50, 50, 40})
		pdf.SetFont("Helvetica", "", 9)
		for _, b := range daily {
			pdf.CellFormat(50, 7, b.Date, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", b.Consumed), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", b.Received), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%d", b.Meals), "1", 1, "R", false, 0, "")
		}

		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render PDF")
		}

		filename := fmt.Sprintf("meal-report_%s_%s.pdf", fromStr, toStr)
		c.Set("Content-Type", "application/pdf")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}

func drawTableHeader(pdf *fpdf.Fpdf, headers []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(217, 225, 242)
	for i, h := range headers {
		last := 0
		if i == len(headers)-1 {
			last = 1
		}
		pdf.CellFormat(widths[i], 7, h, "1", last, "L", true, 0, "")
	}
}
