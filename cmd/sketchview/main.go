// Command sketchview opens a scenario in a raylib window. The right hand
// tracker is driven from the keyboard and the simulation settings can be
// changed from the side panel or by editing the config file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"sketchbio/internal/camera"
	"sketchbio/internal/config"
	"sketchbio/internal/geometry"
	"sketchbio/internal/physics"
	"sketchbio/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	configPath   = flag.String("config", "", "Simulation config, reloaded when it changes")
	scenarioPath = flag.String("scenario", "", "Scenario file (required)")
	snapshotPath = flag.String("snapshot", "poses.json", "Where the Save button writes poses")
)

const (
	screenWidth  = 1280
	screenHeight = 720
	panelWidth   = 240
	trackerSpeed = 60.0 // units per second

	duplicateOffset = 30
)

type viewer struct {
	ps       *physics.PhysicsWorld
	hand     *physics.Hand
	cam      *camera.OrbitCamera
	renderer *world.Renderer

	reloads chan config.SimulationConfig
	last    physics.StepReport
	status  string
}

func main() {
	flag.Parse()
	if *scenarioPath == "" {
		log.Fatal("sketchview: -scenario is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("sketchview: %v", err)
		}
		cfg = loaded
	}

	sc, err := world.LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("sketchview: %v", err)
	}
	ps := physics.NewPhysicsWorld(cfg)
	if err := sc.Build(ps, geometry.NewModelManager()); err != nil {
		log.Fatalf("sketchview: %v", err)
	}

	v := &viewer{
		ps:       ps,
		hand:     physics.NewHand(ps, physics.RightHand),
		cam:      camera.New(rl.Vector3{}, 300),
		renderer: world.NewRenderer(),
		reloads:  make(chan config.SimulationConfig, 1),
	}
	ps.Stepped.AddListener(func(r physics.StepReport) { v.last = r })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if *configPath != "" {
		err := config.Watch(ctx, *configPath,
			func(c config.SimulationConfig) { v.reloads <- c },
			func(err error) { log.Printf("Config: %v", err) })
		if err != nil {
			log.Printf("Config: not watching: %v", err)
		}
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(screenWidth, screenHeight, "sketchview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		v.applyReloads()
		v.handleInput(rl.GetFrameTime())
		ps.Step(ps.Config().TimeStep)
		v.draw()
	}
}

// applyReloads hands config changes from the watcher goroutine to the world
// on the main loop.
func (v *viewer) applyReloads() {
	select {
	case cfg := <-v.reloads:
		if err := v.ps.SetConfig(cfg); err != nil {
			log.Printf("Config: rejected: %v", err)
			return
		}
		v.hand.SetStiffness(cfg.HandSpringStiffness)
		v.status = "config reloaded"
	default:
	}
}

func (v *viewer) handleInput(dt float32) {
	// The panel owns the mouse while it is over it.
	if rl.GetMouseX() > panelWidth {
		v.cam.Update()
	}

	forward, right := v.cam.Directions()
	var move rl.Vector3
	if rl.IsKeyDown(rl.KeyW) {
		move = rl.Vector3Add(move, forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = rl.Vector3Subtract(move, forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = rl.Vector3Add(move, right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = rl.Vector3Subtract(move, right)
	}
	if rl.IsKeyDown(rl.KeyE) {
		move.Y++
	}
	if rl.IsKeyDown(rl.KeyQ) {
		move.Y--
	}
	tracker := v.hand.Tracker()
	if move != (rl.Vector3{}) {
		pos := rl.Vector3Add(tracker.Position(), rl.Vector3Scale(rl.Vector3Normalize(move), trackerSpeed*dt))
		v.hand.SetTrackerPose(pos, tracker.Orientation())
	}

	if v.hand.State() == physics.GrabNothing {
		v.hand.ComputeNearest()
	}
	switch {
	case rl.IsKeyPressed(rl.KeyG):
		if v.hand.GrabNearestObject() {
			v.status = "grabbed " + v.hand.Grabbed().Name()
		}
	case rl.IsKeyPressed(rl.KeyC):
		if v.hand.GrabNearestConnector() {
			v.status = "holding connector"
		}
	case rl.IsKeyPressed(rl.KeyR):
		v.hand.ComputeNearest()
		v.hand.Release()
		v.status = "released"
	case rl.IsKeyPressed(rl.KeyF):
		if obj, _ := v.hand.NearestObject(); obj != nil {
			dup := v.ps.Duplicate(obj, rl.Vector3{Y: duplicateOffset})
			v.status = "copied " + dup.Name()
		}
	case rl.IsKeyPressed(rl.KeyTab):
		v.hand.SelectSubObject()
	case rl.IsKeyPressed(rl.KeyBackspace):
		v.hand.SelectParent()
	}
	obj, _ := v.hand.NearestObject()
	v.renderer.Selected = obj
}

func (v *viewer) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.NewColor(24, 24, 32, 255))

	aspect := float32(rl.GetScreenWidth()) / float32(rl.GetScreenHeight())
	rl.BeginMode3D(v.cam.GetRaylibCamera())
	rl.DrawGrid(20, 20)
	v.renderer.Draw(v.ps, v.cam.GetRaylibCamera(), aspect)
	rl.DrawSphere(v.hand.Tracker().Position(), 2, rl.White)
	rl.EndMode3D()

	v.drawPanel()
}

func (v *viewer) drawPanel() {
	rl.DrawRectangle(0, 0, panelWidth, int32(rl.GetScreenHeight()), rl.NewColor(18, 18, 24, 245))

	cfg := v.ps.Config()
	y := float32(12)
	row := func(h float32) rl.Rectangle {
		r := rl.Rectangle{X: 12, Y: y, Width: panelWidth - 24, Height: h}
		y += h + 8
		return r
	}
	box := func() rl.Rectangle {
		r := row(20)
		r.Width = 20
		return r
	}

	if on := gui.CheckBox(box(), "Physics", cfg.PhysicsEnabled); on != cfg.PhysicsEnabled {
		v.ps.SetPhysicsEnabled(on)
	}
	if on := gui.CheckBox(box(), "Collisions", cfg.CollisionCheckEnabled); on != cfg.CollisionCheckEnabled {
		v.ps.SetCollisionCheckEnabled(on)
	}
	v.renderer.ShowBounds = gui.CheckBox(box(), "Bounds", v.renderer.ShowBounds)
	v.renderer.ShowWireframe = gui.CheckBox(box(), "Wireframe", v.renderer.ShowWireframe)
	v.renderer.ShowConnectors = gui.CheckBox(box(), "Connectors", v.renderer.ShowConnectors)

	if gui.Button(row(24), "Mode: "+v.ps.Mode().String()) {
		modes := config.Modes()
		v.ps.SetMode(modes[(int(v.ps.Mode())+1)%len(modes)])
	}

	stiffness := gui.Slider(sliderRow(row(20)), "k", fmt.Sprintf("%.1f", v.hand.Stiffness()), v.hand.Stiffness(), 0, 20)
	if stiffness != v.hand.Stiffness() {
		v.hand.SetStiffness(stiffness)
	}
	force := gui.Slider(sliderRow(row(20)), "F", fmt.Sprintf("%.1f", cfg.CollisionForce), cfg.CollisionForce, 0, 50)
	if force != cfg.CollisionForce {
		cfg.CollisionForce = force
		if err := v.ps.SetConfig(cfg); err != nil {
			v.status = err.Error()
		}
	}

	if gui.Button(row(24), "Save poses") {
		if err := world.SaveSnapshot(*snapshotPath, v.ps); err != nil {
			v.status = err.Error()
		} else {
			v.status = "saved " + *snapshotPath
		}
	}

	drawn, culled := v.renderer.Stats()
	lines := []string{
		fmt.Sprintf("step: %s", v.last.Outcome),
		fmt.Sprintf("contacts: %d", v.last.Contacts),
		fmt.Sprintf("objects: %d (%d drawn, %d culled)", v.ps.NumInstances(), drawn, culled),
		fmt.Sprintf("hand: %s", v.hand.State()),
		v.status,
		"",
		"WASD/QE move tracker",
		"G grab  C connector  R release",
		"F copy selection",
		"Tab/Backspace change selection",
	}
	for _, l := range lines {
		rl.DrawText(l, 12, int32(y), 14, rl.LightGray)
		y += 18
	}
}

// sliderRow leaves room for the left and right slider labels.
func sliderRow(r rl.Rectangle) rl.Rectangle {
	r.X += 16
	r.Width -= 56
	return r
}
