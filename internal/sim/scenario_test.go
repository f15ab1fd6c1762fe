package sim

import "testing"

func TestBuildScenario_ExplicitStart(t *testing.T) {
	sc, err := NewTestScenario(
		WithMap("11111\n10001\n10001\n10201\n11111"),
		WithSeeds(1, 42),
		WithIndividualType(IndividualType{Label: "P", Amount: 1, Speed: 1, KS: 1}),
		WithExplicitStart(0, 1, 1),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sc.Individuals) != 1 {
		t.Fatalf("expected 1 individual, got %d", len(sc.Individuals))
	}
	if sc.Individuals[0].Row != 1 || sc.Individuals[0].Col != 1 {
		t.Fatalf("expected explicit start (1,1), got (%d,%d)", sc.Individuals[0].Row, sc.Individuals[0].Col)
	}
}

func TestBuildScenario_RandomPlacementAvoidsWalls(t *testing.T) {
	sc, err := NewTestScenario(
		WithMap("11111\n10001\n10001\n10201\n11111"),
		WithSeeds(3, 42),
		WithIndividualType(IndividualType{Label: "P", Amount: 5, Speed: 1, KS: 1}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ind := range sc.Individuals {
		if sc.Structure.At(ind.Row, ind.Col).blocksField() {
			t.Fatalf("individual placed on blocking terrain at (%d,%d)", ind.Row, ind.Col)
		}
	}
}

func TestBuildScenario_AmountExpansion(t *testing.T) {
	sc, err := NewTestScenario(
		WithMap("11111\n10001\n10001\n10201\n11111"),
		WithSeeds(1, 1),
		WithIndividualType(IndividualType{Label: "A", Amount: 2, Speed: 1}),
		WithIndividualType(IndividualType{Label: "B", Amount: 3, Speed: 2}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sc.Individuals) != 5 {
		t.Fatalf("expected 5 expanded individuals, got %d", len(sc.Individuals))
	}
}

func TestScenario_ResetRestoresStarts(t *testing.T) {
	sc, err := NewTestScenario(
		WithMap("11111\n10001\n10001\n10201\n11111"),
		WithSeeds(1, 1),
		WithIndividualType(IndividualType{Label: "P", Amount: 1, Speed: 1, KS: 1}),
		WithExplicitStart(0, 1, 1),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc.Individuals[0].Row, sc.Individuals[0].Col = 2, 2
	sc.Individuals[0].Evacuated = true
	sc.Reset(99)
	if sc.Individuals[0].Row != 1 || sc.Individuals[0].Col != 1 {
		t.Fatalf("expected reset to restore start (1,1), got (%d,%d)", sc.Individuals[0].Row, sc.Individuals[0].Col)
	}
	if sc.Individuals[0].Evacuated {
		t.Fatal("expected reset to clear Evacuated")
	}
}
