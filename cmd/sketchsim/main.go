// Command sketchsim runs a scenario headless for a fixed number of steps and
// writes the final poses.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"sketchbio/internal/config"
	"sketchbio/internal/geometry"
	"sketchbio/internal/physics"
	"sketchbio/internal/world"
)

var (
	configPath   = flag.String("config", "", "Simulation config (.json, .yaml or .toml)")
	scenarioPath = flag.String("scenario", "", "Scenario file (required)")
	steps        = flag.Int("steps", 600, "Number of steps to run")
	dt           = flag.Float64("dt", 0, "Time step (0 uses the config value)")
	modeName     = flag.String("mode", "", "Override the physics mode")
	outPath      = flag.String("out", "", "Write final poses to this JSON file")
	logSteps     = flag.Bool("log-steps", false, "Log every step outcome")
)

func main() {
	flag.Parse()
	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "sketchsim: -scenario is required")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		log.Fatalf("sketchsim: %v", err)
	}
}

func run() error {
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *modeName != "" {
		m, err := config.ParseMode(*modeName)
		if err != nil {
			return err
		}
		cfg.Mode = m
	}
	if *dt > 0 {
		cfg.TimeStep = float32(*dt)
	}
	cfg.LogSteps = cfg.LogSteps || *logSteps

	sc, err := world.LoadScenario(*scenarioPath)
	if err != nil {
		return err
	}
	ps := physics.NewPhysicsWorld(cfg)
	if err := sc.Build(ps, geometry.NewModelManager()); err != nil {
		return err
	}

	counts := make(map[physics.Outcome]int)
	for i := 0; i < *steps; i++ {
		r := ps.Step(cfg.TimeStep)
		counts[r.Outcome]++
	}
	log.Printf("Sim: %d %s steps: %d idle, %d accepted, %d corrected, %d rolled back, %d integrated",
		*steps, ps.Mode(), counts[physics.OutcomeIdle], counts[physics.OutcomeAccepted],
		counts[physics.OutcomeCorrected], counts[physics.OutcomeRolledBack], counts[physics.OutcomeIntegrated])

	if *outPath != "" {
		if err := world.SaveSnapshot(*outPath, ps); err != nil {
			return err
		}
		log.Printf("Sim: wrote %s", *outPath)
	}
	return nil
}
