package report

import (
	"fmt"
	"time"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/shared"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/reports/export/excel?from=&to=
// Workbook with four sheets: Summary, Current Stock, Daily Consumption,
// Supply Entries.
func ExportExcelHandler() fiber.Handler {
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

		cons, sups, err := loadRecords(schoolID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ledger data")
		}

		var ingredients []models.Ingredient
		if err := database.DB.Where("school_id = ?", schoolID).Order("name").Find(&ingredients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load ingredients")
		}

		var supplyLogs []models.SupplyLog
		if err := database.DB.
			Where("school_id = ? AND date >= ? AND date <= ?", schoolID, from, to).
			Order("date, id").
			Find(&supplyLogs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load supply logs")
		}

		summary := Summarize(cons, sups, fromStr, toStr)
		top := TopIngredients(cons, fromStr, toStr, 10)
		daily := DailyBuckets(cons, sups, fromStr, toStr)

		f := excelize.NewFile()
		defer f.Close()

		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		})

		// Summary
		const summarySheet = "Summary"
		f.SetSheetName("Sheet1", summarySheet)
		f.SetCellValue(summarySheet, "A1", "Meal Program Report")
		f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Period: %s to %s", fromStr, toStr))
		rows := [][]any{
			{"Total consumed (kg)", summary.TotalConsumed},
			{"Total received (kg)", summary.TotalReceived},
			{"Total meals served", summary.TotalMeals},
			{"Active days", summary.ActiveDays},
		}
		for i, row := range rows {
			f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+4), row[0])
			f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+4), row[1])
		}
		f.SetCellValue(summarySheet, "A9", "Top ingredients (kg)")
		f.SetCellStyle(summarySheet, "A9", "A9", headerStyle)
		for i, t := range top {
			f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+10), t.Name)
			f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+10), t.Total)
		}

		// Current Stock
		const stockSheet = "Current Stock"
		f.NewSheet(stockSheet)
		stockHeaders := []string{"Ingredient", "Category", "Stock", "Unit", "Min Threshold"}
		for i, h := range stockHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(stockSheet, cell, h)
		}
		f.SetCellStyle(stockSheet, "A1", "E1", headerStyle)
		for r, ing := range ingredients {
			f.SetCellValue(stockSheet, fmt.Sprintf("A%d", r+2), ing.Name)
			f.SetCellValue(stockSheet, fmt.Sprintf("B%d", r+2), ing.Category)
			f.SetCellValue(stockSheet, fmt.Sprintf("C%d", r+2), ing.CurrentStock)
			f.SetCellValue(stockSheet, fmt.Sprintf("D%d", r+2), ing.Unit)
			f.SetCellValue(stockSheet, fmt.Sprintf("E%d", r+2), ing.MinThreshold)
		}

		// Daily Consumption
		const dailySheet = "Daily Consumption"
		f.NewSheet(dailySheet)
		dailyHeaders := []string{"Date", "Consumed (kg)", "Received (kg)", "Meals"}
		for i, h := range dailyHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(dailySheet, cell, h)
		}
		f.SetCellStyle(dailySheet, "A1", "D1", headerStyle)
		for r, b := range daily {
			f.SetCellValue(dailySheet, fmt.Sprintf("A%d", r+2), b.Date)
			f.SetCellValue(dailySheet, fmt.Sprintf("B%d", r+2), b.Consumed)
			f.SetCellValue(dailySheet, fmt.Sprintf("C%d", r+2), b.Received)
			f.SetCellValue(dailySheet, fmt.Sprintf("D%d", r+2), b.Meals)
		}

		// Supply Entries
		const supplySheet = "Supply Entries"
		f.NewSheet(supplySheet)
		supplyHeaders := []string{"Date", "Ingredient", "Amount (kg)", "Source", "Expiration", "Notes"}
		for i, h := range supplyHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(supplySheet, cell, h)
		}
		f.SetCellStyle(supplySheet, "A1", "F1", headerStyle)
		for r, l := range supplyLogs {
			exp := ""
			if l.ExpirationDate != nil {
				exp = l.ExpirationDate.Format(dateLayout)
			}
			f.SetCellValue(supplySheet, fmt.Sprintf("A%d", r+2), l.Date.Format(dateLayout))
			f.SetCellValue(supplySheet, fmt.Sprintf("B%d", r+2), l.IngredientName)
			f.SetCellValue(supplySheet, fmt.Sprintf("C%d", r+2), l.AmountAdded)
			f.SetCellValue(supplySheet, fmt.Sprintf("D%d", r+2), l.Source)
			f.SetCellValue(supplySheet, fmt.Sprintf("E%d", r+2), exp)
			f.SetCellValue(supplySheet, fmt.Sprintf("F%d", r+2), l.Notes)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build workbook")
		}

		filename := fmt.Sprintf("meal-report_%s_%s.xlsx", fromStr, toStr)
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
