package sim

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ExperimentConfig is the top-level YAML document for every cmd/evacsim
// subcommand: the map, the individuals roster, seeds, and the
// algorithm-specific block (NSGA unused by "simulate"/"optimize-brute").
type ExperimentConfig struct {
	Experiment        string           `yaml:"experiment"`
	Map               string           `yaml:"map"`
	Individuals       individualsField `yaml:"individuals"`
	ScenarioSeeds     seedsField       `yaml:"scenario_seed"`
	SimulationSeed    int64            `yaml:"simulation_seed"`
	MaxIterations     int              `yaml:"max_iterations"`
	Draw              bool             `yaml:"draw"`
	UseThreeObjective bool             `yaml:"use_three_objectives"`
	NSGA              NSGAYAMLConfig   `yaml:"nsga"`
}

// seedsField accepts scenario_seed as either a single scalar or a sequence;
// a scalar normalizes to a one-element list.
type seedsField []int64

func (f *seedsField) UnmarshalYAML(value *yaml.Node) error {
	var one int64
	if err := value.Decode(&one); err == nil {
		*f = seedsField{one}
		return nil
	}
	var many []int64
	if err := value.Decode(&many); err != nil {
		return fmt.Errorf("scenario_seed: expected an integer or a list of integers: %w", err)
	}
	*f = seedsField(many)
	return nil
}

// NSGAYAMLConfig mirrors NSGAConfig with YAML tags; ToConfig converts it
// once the file is parsed.
type NSGAYAMLConfig struct {
	PopulationSize int     `yaml:"population_size"`
	Generations    int     `yaml:"generations"`
	CrossoverRate  float64 `yaml:"crossover_rate"`
	MutationRate   float64 `yaml:"mutation_rate"`
	Seed           int64   `yaml:"seed"`
}

// ToConfig folds the experiment-level objective-mode switch into the
// driver configuration.
func (c NSGAYAMLConfig) ToConfig(threeObjective bool) NSGAConfig {
	return NSGAConfig{
		PopulationSize:     c.PopulationSize,
		Generations:        c.Generations,
		CrossoverRate:      c.CrossoverRate,
		MutationRate:       c.MutationRate,
		UseThreeObjectives: threeObjective,
	}
}

// individualsField accepts either a bare YAML sequence of individual
// descriptors or the wrapped form {"caracterizations": [...]}; both decode
// to the same []IndividualType.
type individualsField []IndividualType

func (f *individualsField) UnmarshalYAML(value *yaml.Node) error {
	var bare []yamlIndividual
	if err := value.Decode(&bare); err == nil {
		*f = expandYAMLIndividuals(bare)
		return nil
	}

	var wrapped struct {
		Caracterizations []yamlIndividual `yaml:"caracterizations"`
	}
	if err := value.Decode(&wrapped); err != nil {
		return fmt.Errorf("individuals: expected a list or {caracterizations: [...]}: %w", err)
	}
	*f = expandYAMLIndividuals(wrapped.Caracterizations)
	return nil
}

// yamlIndividual is the wire shape of one individuals-block row.
type yamlIndividual struct {
	Label  string    `yaml:"label"`
	Amount int       `yaml:"amount"`
	Speed  int       `yaml:"speed"`
	KS     float64   `yaml:"ks"`
	KW     float64   `yaml:"kw"`
	KD     float64   `yaml:"kd"`
	KI     float64   `yaml:"ki"`
	Color  *[3]uint8 `yaml:"color"`
}

func expandYAMLIndividuals(rows []yamlIndividual) individualsField {
	out := make(individualsField, len(rows))
	for i, r := range rows {
		out[i] = IndividualType{
			Label: r.Label, Amount: r.Amount, Speed: r.Speed,
			KS: r.KS, KW: r.KW, KD: r.KD, KI: r.KI, Color: r.Color,
		}
	}
	return out
}

// LoadExperimentConfig parses and minimally validates a YAML experiment
// file.
func LoadExperimentConfig(text []byte) (*ExperimentConfig, error) {
	var cfg ExperimentConfig
	if err := yaml.Unmarshal(text, &cfg); err != nil {
		return nil, newErr(KindInvalidConfig, "Config", "parsing YAML: %v", err)
	}
	if cfg.Map == "" {
		return nil, newErr(KindInvalidConfig, "Config", "map is required")
	}
	if len(cfg.Individuals) == 0 {
		return nil, newErr(KindInvalidConfig, "Config", "individuals must describe at least one type")
	}
	if len(cfg.ScenarioSeeds) == 0 {
		return nil, newErr(KindInvalidConfig, "Config", "scenario_seed must have at least one entry")
	}
	return &cfg, nil
}
