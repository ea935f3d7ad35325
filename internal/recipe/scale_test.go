package recipe

import "testing"

func TestScaleRequirements(t *testing.T) {
	lines := []requirementInput{
		{IngredientID: 1, Name: "rice", Unit: "kg", QuantityKg: 10, StockKg: 25},
		{IngredientID: 2, Name: "eggs", Unit: "kg", QuantityKg: 5, StockKg: 8},
	}

	// recipe feeds 100, cooking for 200: everything doubles
	reqs := scaleRequirements(lines, 100, 200)

	if len(reqs) != 2 {
		t.Fatalf("got %d requirements, want 2", len(reqs))
	}
	if reqs[0].RequiredKg != 20 {
		t.Fatalf("rice RequiredKg = %v, want 20", reqs[0].RequiredKg)
	}
	if !reqs[0].Sufficient {
		t.Fatal("25kg stock covers 20kg required")
	}
	if reqs[1].RequiredKg != 10 {
		t.Fatalf("eggs RequiredKg = %v, want 10", reqs[1].RequiredKg)
	}
	if reqs[1].Sufficient {
		t.Fatal("8kg stock does not cover 10kg required")
	}
	if reqs[0].PerServing != 0.1 {
		t.Fatalf("rice PerServing = %v, want 0.1", reqs[0].PerServing)
	}
}

func TestScaleRequirementsZeroServingsGuard(t *testing.T) {
	lines := []requirementInput{{IngredientID: 1, Name: "rice", QuantityKg: 2, StockKg: 2}}
	reqs := scaleRequirements(lines, 0, 3)
	if reqs[0].RequiredKg != 6 {
		t.Fatalf("RequiredKg = %v, want 6 (servings clamps to 1)", reqs[0].RequiredKg)
	}
}
