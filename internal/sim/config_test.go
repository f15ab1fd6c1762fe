package sim

import "testing"

func TestLoadExperimentConfig_BareIndividualsList(t *testing.T) {
	cfg, err := LoadExperimentConfig([]byte(`
experiment: room-a
map: maps/room.txt
scenario_seed: 7
simulation_seed: 42
individuals:
  - label: adult
    amount: 3
    speed: 1
    ks: 1.0
    kw: 0.2
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Experiment != "room-a" {
		t.Fatalf("expected experiment room-a, got %q", cfg.Experiment)
	}
	if len(cfg.Individuals) != 1 || cfg.Individuals[0].Amount != 3 {
		t.Fatalf("unexpected individuals: %+v", cfg.Individuals)
	}
	if cfg.Individuals[0].KW != 0.2 {
		t.Fatalf("expected kw=0.2, got %v", cfg.Individuals[0].KW)
	}
}

func TestLoadExperimentConfig_CaracterizationsWrapper(t *testing.T) {
	cfg, err := LoadExperimentConfig([]byte(`
map: maps/room.txt
scenario_seed: [1, 2, 3]
simulation_seed: 42
individuals:
  caracterizations:
    - label: adult
      amount: 2
      speed: 2
      ks: 1.5
    - label: child
      amount: 4
      speed: 1
      ks: 1.0
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Individuals) != 2 {
		t.Fatalf("expected 2 individual types, got %d", len(cfg.Individuals))
	}
	if cfg.Individuals[1].Label != "child" {
		t.Fatalf("unexpected second type: %+v", cfg.Individuals[1])
	}
}

func TestLoadExperimentConfig_ScalarScenarioSeedNormalizes(t *testing.T) {
	cfg, err := LoadExperimentConfig([]byte(`
map: maps/room.txt
scenario_seed: 9
simulation_seed: 1
individuals:
  - label: p
    amount: 1
    speed: 1
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.ScenarioSeeds) != 1 || cfg.ScenarioSeeds[0] != 9 {
		t.Fatalf("expected scalar seed to normalize to [9], got %v", cfg.ScenarioSeeds)
	}
}

func TestLoadExperimentConfig_SeedList(t *testing.T) {
	cfg, err := LoadExperimentConfig([]byte(`
map: maps/room.txt
scenario_seed: [4, 5]
simulation_seed: 1
individuals:
  - label: p
    amount: 1
    speed: 1
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.ScenarioSeeds) != 2 || cfg.ScenarioSeeds[1] != 5 {
		t.Fatalf("expected [4 5], got %v", cfg.ScenarioSeeds)
	}
}

func TestLoadExperimentConfig_MissingMapRejected(t *testing.T) {
	_, err := LoadExperimentConfig([]byte(`
scenario_seed: 1
simulation_seed: 1
individuals:
  - label: p
    amount: 1
`))
	if err == nil {
		t.Fatal("expected error for missing map")
	}
	if !KindError(KindInvalidConfig).Is(err) {
		t.Fatalf("expected KindInvalidConfig, got %v", err)
	}
}

func TestLoadExperimentConfig_MissingSeedsRejected(t *testing.T) {
	_, err := LoadExperimentConfig([]byte(`
map: maps/room.txt
simulation_seed: 1
individuals:
  - label: p
    amount: 1
`))
	if err == nil {
		t.Fatal("expected error for missing scenario_seed")
	}
}
