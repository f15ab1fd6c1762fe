package sim

import "testing"

// A single individual in a 5x5 single-door room must
// evacuate within 6 iterations with total distance in [2, 6]. Start (1,1)
// is the interior corner diagonally opposite the door at (3,2).
func TestRunSimulation_SingleDoorRoomEvacuates(t *testing.T) {
	sc, err := NewTestScenario(
		WithMap("11111\n10001\n10001\n10201\n11111"),
		WithSeeds(1, 42),
		WithIndividualType(IndividualType{Label: "P", Amount: 1, Speed: 1, KS: 1, KW: 0, KD: 0, KI: 0}),
		WithExplicitStart(0, 1, 1),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := RunSimulation(sc, 42, DefaultMaxIterations)
	if res.Iterations > 6 {
		t.Fatalf("expected iterations <= 6, got %d", res.Iterations)
	}
	if res.EvacuatedCount != 1 {
		t.Fatalf("expected evacuated_count = 1, got %d", res.EvacuatedCount)
	}
	if res.TotalDistance < 2 || res.TotalDistance > 6 {
		t.Fatalf("expected total_distance in [2,6], got %v", res.TotalDistance)
	}
}

func TestRunSimulation_CapsAtMaxIterations(t *testing.T) {
	// An individual fully enclosed with no reachable door must hit the cap,
	// not loop forever or report evacuated.
	sc, err := NewTestScenario(
		WithMap("111\n101\n111"),
		WithSeeds(1, 1),
		WithIndividualType(IndividualType{Label: "P", Amount: 1, Speed: 1, KS: 1}),
		WithExplicitStart(0, 1, 1),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res := RunSimulation(sc, 1, 10)
	if res.FinalState != StateCapped {
		t.Fatalf("expected StateCapped, got %v", res.FinalState)
	}
	if res.Iterations != 10 {
		t.Fatalf("expected exactly 10 iterations, got %d", res.Iterations)
	}
	if res.EvacuatedCount != 0 {
		t.Fatalf("expected 0 evacuated, got %d", res.EvacuatedCount)
	}
}

func TestRunSimulation_Deterministic(t *testing.T) {
	build := func() *Scenario {
		sc, err := NewTestScenario(
			WithMap("11111\n10001\n10001\n10201\n11111"),
			WithSeeds(1, 42),
			WithIndividualType(IndividualType{Label: "P", Amount: 3, Speed: 1, KS: 1, KD: 0.1}),
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return sc
	}

	r1 := RunSimulation(build(), 42, DefaultMaxIterations)
	r2 := RunSimulation(build(), 42, DefaultMaxIterations)
	if r1 != r2 {
		t.Fatalf("expected identical results for identical seeds: %+v vs %+v", r1, r2)
	}
}
