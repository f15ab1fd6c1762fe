package sim

import "testing"

func testIndividuals(amount int) []IndividualType {
	return []IndividualType{{Label: "P", Amount: amount, Speed: 1, KS: 1}}
}

// An all-false gene must short-circuit to
// the NoDoors worst case without invoking the simulator.
func TestInstance_EmptyGeneShortCircuits(t *testing.T) {
	in, err := NewInstance("11111\n10001\n10001\n10201\n11111", testIndividuals(10), []int64{1}, 42, 50, false, NewLogger(false, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gene := make(Gene, in.NumDoors())

	entry, err := in.decode(gene)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.NumDoors != 0 {
		t.Fatalf("expected num_doors=0, got %d", entry.NumDoors)
	}
	if entry.Iterations != float64(in.maxIterations) {
		t.Fatalf("expected iterations=%v, got %v", in.maxIterations, entry.Iterations)
	}
	if entry.Distance != 0 {
		t.Fatalf("expected distance=0, got %v", entry.Distance)
	}
	if in.SimCallCount() != 0 {
		t.Fatalf("expected no simulator invocations for the empty gene, got %d", in.SimCallCount())
	}
}

// Evaluating the same gene twice must
// invoke the simulator exactly once.
func TestInstance_RepeatEvaluationHitsCache(t *testing.T) {
	in, err := NewInstance("11111\n10001\n10001\n10201\n11111", testIndividuals(2), []int64{1}, 42, 50, false, NewLogger(false, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gene := make(Gene, in.NumDoors())
	for i := range gene {
		gene[i] = true
	}

	if _, err := in.Evaluate(gene); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := in.Evaluate(gene); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.SimCallCount() != 1 {
		t.Fatalf("expected exactly 1 simulator invocation across 2 decode calls, got %d", in.SimCallCount())
	}
}

func TestInstance_HashChangeInvalidatesCache(t *testing.T) {
	in, err := NewInstance("11111\n10001\n10001\n10201\n11111", testIndividuals(2), []int64{1}, 42, 50, false, NewLogger(false, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gene := make(Gene, in.NumDoors())
	for i := range gene {
		gene[i] = true
	}
	if _, err := in.Evaluate(gene); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.cache.Len() != 1 {
		t.Fatalf("expected 1 cache entry, got %d", in.cache.Len())
	}

	in.simulationSeed = 999 // mutate the config directly, as a driver reconfiguring would
	if _, err := in.Evaluate(gene); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.SimCallCount() != 2 {
		t.Fatalf("expected the hash change to force re-evaluation, got %d simulator calls", in.SimCallCount())
	}
}

func TestInstance_TwoObjectiveVsThreeObjective(t *testing.T) {
	in2, err := NewInstance("11111\n10001\n10001\n10201\n11111", testIndividuals(1), []int64{1}, 42, 50, false, NewLogger(false, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in3, err := NewInstance("11111\n10001\n10001\n10201\n11111", testIndividuals(1), []int64{1}, 42, 50, true, NewLogger(false, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gene2 := make(Gene, in2.NumDoors())
	gene3 := make(Gene, in3.NumDoors())
	for i := range gene2 {
		gene2[i] = true
		gene3[i] = true
	}

	obj2, err := in2.Evaluate(gene2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj3, err := in3.Evaluate(gene3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obj2) != 2 {
		t.Fatalf("expected 2 objectives in 2-objective mode, got %d", len(obj2))
	}
	if len(obj3) != 3 {
		t.Fatalf("expected 3 objectives in 3-objective mode, got %d", len(obj3))
	}
}

// A door-less gene must never win the search: its objective vector carries
// a saturated distance so every real configuration survives against it.
func TestInstance_EmptyGeneObjectivesAreWorst(t *testing.T) {
	in, err := NewInstance("11111\n10001\n10001\n10201\n11111", testIndividuals(2), []int64{1}, 42, 50, false, NewLogger(false, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := make(Gene, in.NumDoors())
	full := make(Gene, in.NumDoors())
	for i := range full {
		full[i] = true
	}

	objEmpty, err := in.Evaluate(empty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	objFull, err := in.Evaluate(full)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if objEmpty[len(objEmpty)-1] != worstDistance {
		t.Fatalf("expected saturated distance for the empty gene, got %v", objEmpty)
	}
	if objEmpty.dominates(objFull) {
		t.Fatalf("empty gene must not dominate a real configuration: %v vs %v", objEmpty, objFull)
	}
}
