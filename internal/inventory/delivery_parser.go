package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
)

// ParsedSupplyItem: one row extracted from a pasted delivery note.
type ParsedSupplyItem struct {
	Name                  string  `json:"name"`
	Quantity              float64 `json:"quantity"`
	Unit                  string  `json:"unit"`
	MatchedIngredientID   *uint   `json:"matched_ingredient_id"` // nil when no match
	MatchedIngredientName string  `json:"matched_ingredient_name"`
}

type ParseDeliveryResponse struct {
	Items  []ParsedSupplyItem `json:"items"`
	Source string             `json:"source"` // supplier line when present
}

// normalizeName lowercases and strips trailing quantity/unit noise so
// "Beras Premium 25 KG" matches an ingredient named "beras premium".
func normalizeName(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	var cleaned []string
	for _, w := range words {
		if isNumericOrUnit(w) {
			continue
		}
		cleaned = append(cleaned, w)
	}
	return strings.Join(cleaned, " ")
}

func isNumericOrUnit(word string) bool {
	w := strings.ToLower(strings.TrimSpace(word))
	if _, err := strconv.ParseFloat(strings.ReplaceAll(w, ",", "."), 64); err == nil {
		return true
	}
	switch w {
	case "kg", "gr", "g", "l", "lt", "ml", "pcs", "pack", "sak":
		return true
	}
	// "25kg", "500gr"
	for _, unit := range []string{"kg", "gr", "ml", "lt", "g", "l"} {
		if strings.HasSuffix(w, unit) {
			if _, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSuffix(w, unit), ",", "."), 64); err == nil {
				return true
			}
		}
	}
	return false
}

// ParseDeliveryNote parses the pipe-separated table of a delivery note that
// was already extracted to text on the client. Expected row shape:
//
//	name | quantity | unit
//
// Header rows, blank lines and total lines are skipped. A line starting with
// "Supplier:" sets the source.
func ParseDeliveryNote(text string) (*ParseDeliveryResponse, error) {
	resp := &ParseDeliveryResponse{}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if strings.HasPrefix(strings.ToLower(line), "supplier:") {
			resp.Source = strings.TrimSpace(line[len("supplier:"):])
			continue
		}

		if !strings.Contains(line, "|") {
			continue
		}

		lower := strings.ToLower(line)
		if strings.Contains(lower, "total") || strings.Contains(lower, "quantity") {
			// header or footer row
			continue
		}

		cols := strings.Split(line, "|")
		var fields []string
		for _, col := range cols {
			if v := strings.TrimSpace(col); v != "" {
				fields = append(fields, v)
			}
		}
		if len(fields) < 2 {
			continue
		}

		qty, err := strconv.ParseFloat(strings.ReplaceAll(fields[1], ",", "."), 64)
		if err != nil || qty <= 0 {
			continue
		}

		item := ParsedSupplyItem{
			Name:     fields[0],
			Quantity: qty,
			Unit:     "kg",
		}
		if len(fields) >= 3 {
			item.Unit = strings.ToLower(fields[2])
		}
		resp.Items = append(resp.Items, item)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("no item rows found in delivery note")
	}

	return resp, nil
}

// matchIngredients fills MatchedIngredientID against the school's inventory
// using normalized-name equality.
func matchIngredients(resp *ParseDeliveryResponse, schoolID uint) error {
	var ingredients []models.Ingredient
	if err := database.DB.Where("school_id = ?", schoolID).Find(&ingredients).Error; err != nil {
		return err
	}

	byName := make(map[string]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byName[normalizeName(ing.Name)] = ing
	}

	for i := range resp.Items {
		if ing, ok := byName[normalizeName(resp.Items[i].Name)]; ok {
			id := ing.ID
			resp.Items[i].MatchedIngredientID = &id
			resp.Items[i].MatchedIngredientName = ing.Name
		}
	}
	return nil
}
