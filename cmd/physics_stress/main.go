// Stress test timing the physics step strategies on a ring of chained boxes
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"sketchbio/internal/config"
	"sketchbio/internal/engine"
	"sketchbio/internal/geometry"
	"sketchbio/internal/physics"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	count = flag.Int("n", 0, "Number of boxes (0 runs the default sweep)")
	steps = flag.Int("steps", 200, "Steps per run")
	mode  = flag.String("mode", "", "Physics mode (empty runs every mode)")
)

const boxSize = 10

func checkFlags(n, steps int) error {
	if n < 0 {
		return fmt.Errorf("-n must not be negative, got %d", n)
	}
	if steps < 1 {
		return fmt.Errorf("-steps must be at least 1, got %d", steps)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := checkFlags(*count, *steps); err != nil {
		panic(err)
	}

	modes := config.Modes()
	if *mode != "" {
		m, err := config.ParseMode(*mode)
		if err != nil {
			panic(err)
		}
		modes = []config.PhysicsMode{m}
	}

	counts := []int{10, 50, 100, 200, 400}
	if *count > 0 {
		counts = []int{*count}
	}

	for _, m := range modes {
		for _, n := range counts {
			runRing(m, n)
		}
	}
}

func runRing(mode config.PhysicsMode, n int) {
	rng := rand.New(rand.NewSource(42)) // Consistent results

	cfg := config.Default()
	cfg.Mode = mode
	ps := physics.NewPhysicsWorld(cfg)
	model := geometry.NewModel("box", geometry.BoxTriangles(rl.Vector3{X: boxSize, Y: boxSize, Z: boxSize}),
		geometry.DefaultInverseMass, geometry.DefaultInverseMoment)

	// Spaced so that neighbours start just apart and the springs pull them
	// into contact.
	radius := float32(n) * boxSize * 1.6 / (2 * math32.Pi)
	boxes := make([]*engine.Instance, n)
	for i := range boxes {
		angle := 2 * math32.Pi * float32(i) / float32(n)
		b := engine.NewInstance(fmt.Sprintf("box%d", i), model)
		b.SetPosAndOrient(
			rl.Vector3{X: radius * math32.Cos(angle), Y: rng.Float32() * 2, Z: radius * math32.Sin(angle)},
			rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, rng.Float32()*math32.Pi),
		)
		ps.AddObject(b)
		boxes[i] = b
	}
	for i, b := range boxes {
		next := boxes[(i+1)%n]
		ps.AddConnector(physics.NewConnector(b, next, rl.Vector3{}, rl.Vector3{}, false, 1, boxSize, boxSize*1.05))
	}

	outcomes := make(map[physics.Outcome]int)
	var contacts int
	start := time.Now()
	for i := 0; i < *steps; i++ {
		r := ps.Step(cfg.TimeStep)
		outcomes[r.Outcome]++
		contacts += r.Contacts
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(*steps)
	fmt.Printf("%-14s %4d boxes: %8v/step (%.3f ms) | %6d contacts | accepted %d corrected %d rolled back %d integrated %d\n",
		mode, n, perStep.Round(time.Microsecond), float64(perStep)/float64(time.Millisecond), contacts,
		outcomes[physics.OutcomeAccepted], outcomes[physics.OutcomeCorrected],
		outcomes[physics.OutcomeRolledBack], outcomes[physics.OutcomeIntegrated])
}
