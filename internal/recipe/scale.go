package recipe

// Requirement: one scaled ingredient line for a planned batch.
type Requirement struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	PerServing   float64 `json:"per_serving_kg"`
	RequiredKg   float64 `json:"required_kg"`
	InStockKg    float64 `json:"in_stock_kg"`
	Sufficient   bool    `json:"sufficient"`
}

type requirementInput struct {
	IngredientID uint
	Name         string
	Unit         string
	QuantityKg   float64 // per recipe batch
	StockKg      float64
}

// scaleRequirements scales each ingredient line from the recipe's batch size
// to the requested student count and flags shortfalls.
func scaleRequirements(lines []requirementInput, servings, students int) []Requirement {
	if servings <= 0 {
		servings = 1
	}
	factor := float64(students) / float64(servings)

	out := make([]Requirement, 0, len(lines))
	for _, l := range lines {
		required := l.QuantityKg * factor
		out = append(out, Requirement{
			IngredientID: l.IngredientID,
			Name:         l.Name,
			Unit:         l.Unit,
			PerServing:   l.QuantityKg / float64(servings),
			RequiredKg:   required,
			InStockKg:    l.StockKg,
			Sufficient:   l.StockKg >= required,
		})
	}
	return out
}
