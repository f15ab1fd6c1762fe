// Command evacsim is the reference driver for the evacuation engine: it
// loads an experiment config, runs one of the three supported modes, and
// prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Gustavo2820/interface-tcc/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "simulate":
		err = runSimulate(os.Args[2:])
	case "optimize-nsga":
		err = runOptimizeNSGA(os.Args[2:])
	case "optimize-brute":
		err = runOptimizeBrute(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		var se *sim.Error
		if errors.As(err, &se) {
			fmt.Fprintf(os.Stderr, "evacsim: %s\n", se.Error())
		} else {
			fmt.Fprintf(os.Stderr, "evacsim: %v\n", err)
		}
		os.Exit(sim.ExitCode(err))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: evacsim <simulate|optimize-nsga|optimize-brute> -config <file> [-gene <01-string>] [-verbose]")
}

type commonFlags struct {
	configPath string
	verbose    bool
	gene       string
}

func parseCommon(name string, args []string) (*commonFlags, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", "", "path to the experiment YAML config")
	fs.BoolVar(&cf.verbose, "verbose", false, "enable debug-level logging")
	fs.StringVar(&cf.gene, "gene", "", "fixed door gene as a 0/1 string (simulate only)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cf, nil
}

// loadRun parses common flags, loads the experiment config, and builds the
// Instance shared by every subcommand — the config/map-load/Instance-wiring
// sequence is identical across simulate/optimize-nsga/optimize-brute.
func loadRun(name string, args []string) (*commonFlags, *sim.ExperimentConfig, *sim.Instance, zerolog.Logger, error) {
	cf, err := parseCommon(name, args)
	if err != nil {
		return nil, nil, nil, zerolog.Logger{}, err
	}
	if cf.configPath == "" {
		return nil, nil, nil, zerolog.Logger{}, newConfigErr("config path is required (-config)")
	}
	text, err := os.ReadFile(cf.configPath) // #nosec G304 -- operator-supplied config path, CLI tool
	if err != nil {
		return nil, nil, nil, zerolog.Logger{}, newConfigErr("reading config: %v", err)
	}
	cfg, err := sim.LoadExperimentConfig(text)
	if err != nil {
		return nil, nil, nil, zerolog.Logger{}, err
	}

	runID := uuid.New()
	log := sim.NewLogger(cf.verbose, os.Stderr).With().Str("run_id", runID.String()).Logger()
	log.Info().Str("subcommand", name).Str("experiment", cfg.Experiment).Str("config", cf.configPath).Msg("starting run")
	if cfg.Draw {
		log.Info().Msg("draw requested; frame rendering is delegated to an external renderer")
	}

	mapBytes, err := os.ReadFile(cfg.Map) // #nosec G304 -- operator-supplied map path, CLI tool
	if err != nil {
		return nil, nil, nil, zerolog.Logger{}, &sim.Error{
			Kind: sim.KindInvalidMap, Component: "cmd/evacsim",
			Reason: fmt.Sprintf("reading map %s: %v", cfg.Map, err),
		}
	}
	instance, err := sim.NewInstance(string(mapBytes), cfg.Individuals, cfg.ScenarioSeeds, cfg.SimulationSeed, cfg.MaxIterations, cfg.UseThreeObjective, log)
	if err != nil {
		return nil, nil, nil, zerolog.Logger{}, err
	}
	return cf, cfg, instance, log, nil
}

func newConfigErr(reason string, args ...any) error {
	return &sim.Error{Kind: sim.KindInvalidConfig, Component: "cmd/evacsim", Reason: fmt.Sprintf(reason, args...)}
}

func runSimulate(args []string) error {
	cf, _, instance, _, err := loadRun("simulate", args)
	if err != nil {
		return err
	}

	gene := make(sim.Gene, instance.NumDoors())
	if cf.gene != "" {
		if len(cf.gene) != len(gene) {
			return newConfigErr("-gene length %d does not match candidate door count %d", len(cf.gene), len(gene))
		}
		for i, ch := range cf.gene {
			gene[i] = ch == '1'
		}
	} else {
		for i := range gene {
			gene[i] = true // default: every candidate door active
		}
	}

	chromosome, err := instance.Create(gene)
	if err != nil {
		return err
	}
	records := sim.BuildResultRecords([]*sim.Chromosome{chromosome}, instance.Slots(), "simulate")
	fillIterations(records, []*sim.Chromosome{chromosome}, instance)
	return emitJSON(records)
}

// fillIterations backfills the iterations field for two-objective runs,
// where the objective vector carries only (num_doors, distance). The lookup
// hits the instance cache, so already-searched genes cost nothing.
func fillIterations(records []sim.ResultRecord, front []*sim.Chromosome, instance *sim.Instance) {
	for i, c := range front {
		if len(c.Obj) == 3 {
			continue
		}
		if _, iters, _, err := instance.Decode(c.Gene); err == nil {
			records[i].Iterations = iters
		}
	}
}

func runOptimizeNSGA(args []string) error {
	_, cfg, instance, log, err := loadRun("optimize-nsga", args)
	if err != nil {
		return err
	}

	nsgaCfg := cfg.NSGA.ToConfig(cfg.UseThreeObjective)
	driver, err := sim.NewNSGA2(instance, instance.NumDoors(), nsgaCfg, cfg.NSGA.Seed, log)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	front, err := driver.RunContext(ctx)
	if err != nil {
		return err
	}

	algo := sim.AlgorithmNSGA2
	if cfg.UseThreeObjective {
		algo = sim.AlgorithmNSGA2ThreeObj
	}
	records := sim.BuildResultRecords(front, instance.Slots(), algo)
	fillIterations(records, front, instance)
	return emitJSON(records)
}

func runOptimizeBrute(args []string) error {
	_, _, instance, _, err := loadRun("optimize-brute", args)
	if err != nil {
		return err
	}

	driver, err := sim.NewBruteForce(instance, instance.NumDoors())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	front, err := driver.RunContext(ctx)
	if err != nil {
		return err
	}

	records := sim.BuildResultRecords(front, instance.Slots(), sim.AlgorithmBruteForce)
	fillIterations(records, front, instance)
	return emitJSON(records)
}

func emitJSON(records []sim.ResultRecord) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
