package physics

import (
	"iter"
	"log"
	"slices"
	"time"

	"sketchbio/internal/config"
	"sketchbio/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Side selects one of the two hands.
type Side int

const (
	RightHand Side = iota
	LeftHand
)

func (s Side) String() string {
	if s == LeftHand {
		return "left"
	}
	return "right"
}

// PhysicsWorld owns the top-level objects, the persistent connectors and the
// per-hand connector sets, and advances them one step at a time. It is not
// safe for concurrent use.
type PhysicsWorld struct {
	cfg      config.SimulationConfig
	strategy Strategy

	scene      *engine.Scene
	connectors []*Connector
	hands      [2][]*Connector

	maxGroup int

	ObjectAdded      engine.EventWithArg[engine.SceneObject]
	ObjectRemoved    engine.EventWithArg[engine.SceneObject]
	ConnectorAdded   engine.EventWithArg[*Connector]
	ConnectorRemoved engine.EventWithArg[*Connector]
	Stepped          engine.EventWithArg[StepReport]

	rollbacks   int       // rollbacks since the last log line
	lastLogTime time.Time // rate-limit rollback logs
}

func NewPhysicsWorld(cfg config.SimulationConfig) *PhysicsWorld {
	return &PhysicsWorld{
		cfg:        cfg,
		strategy:   NewStrategy(cfg.Mode),
		scene:      engine.NewScene("physics"),
		connectors: make([]*Connector, 0),
		maxGroup:   engine.NoGroup,
	}
}

func (w *PhysicsWorld) Config() config.SimulationConfig { return w.cfg }

// SetConfig replaces the whole configuration. An invalid config is rejected
// and the current one kept.
func (w *PhysicsWorld) SetConfig(cfg config.SimulationConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode := w.cfg.Mode
	w.cfg = cfg
	if cfg.Mode != mode {
		w.setStrategy(cfg.Mode)
	}
	return nil
}

func (w *PhysicsWorld) SetPhysicsEnabled(enabled bool) { w.cfg.PhysicsEnabled = enabled }

func (w *PhysicsWorld) SetCollisionCheckEnabled(enabled bool) {
	w.cfg.CollisionCheckEnabled = enabled
}

// SetMode switches the step strategy. Unknown modes are ignored.
func (w *PhysicsWorld) SetMode(mode config.PhysicsMode) {
	if !mode.Valid() || mode == w.cfg.Mode {
		return
	}
	w.cfg.Mode = mode
	w.setStrategy(mode)
}

func (w *PhysicsWorld) setStrategy(mode config.PhysicsMode) {
	w.strategy = NewStrategy(mode)
	log.Printf("Physics: mode %s", w.strategy.Mode())
}

func (w *PhysicsWorld) Mode() config.PhysicsMode { return w.strategy.Mode() }

// NextGroupID returns a collision group id not used by any object added so
// far.
func (w *PhysicsWorld) NextGroupID() int {
	w.maxGroup++
	return w.maxGroup
}

// AddObject adds a parentless object at the top level. Objects without a
// collision group get a fresh one, which their members then share.
func (w *PhysicsWorld) AddObject(obj engine.SceneObject) bool {
	if !w.scene.Add(obj) {
		return false
	}
	if obj.PrimaryCollisionGroup() == engine.NoGroup {
		obj.SetPrimaryCollisionGroup(w.NextGroupID())
	}
	w.maxGroup = max(w.maxGroup, slices.Max(obj.CollisionGroups()))
	w.ObjectAdded.Invoke(obj)
	return true
}

// Duplicate adds a copy of obj, moved by offset, as a new top-level object.
// The copy gets its own collision group.
func (w *PhysicsWorld) Duplicate(obj engine.SceneObject, offset rl.Vector3) engine.SceneObject {
	dup := engine.Copy(obj)
	if dup == nil {
		return nil
	}
	dup.SetWorldPosAndOrient(rl.Vector3Add(obj.Position(), offset), obj.Orientation())
	w.AddObject(dup)
	return dup
}

// RemoveObject removes a top-level object, or takes a member out of a
// top-level group. Connectors attached to anything removed are dropped.
func (w *PhysicsWorld) RemoveObject(obj engine.SceneObject) bool {
	if obj == nil {
		return false
	}
	switch parent := obj.Parent(); {
	case parent == nil:
		if !w.scene.Remove(obj) {
			return false
		}
	case parent.Parent() == nil && w.scene.Contains(parent):
		if !parent.RemoveObject(obj) {
			return false
		}
	default:
		return false
	}

	w.connectors = w.dropTouching(w.connectors, obj, true)
	for side := range w.hands {
		w.hands[side] = w.dropTouching(w.hands[side], obj, false)
	}
	w.ObjectRemoved.Invoke(obj)
	return true
}

// MoveIntoGroup takes a top-level object out of the world's top-level list
// and makes it a member of g, which must already be in the world. Connectors
// on obj stay attached. It returns false and changes nothing when obj is not
// top-level, g is not in the world, or g lies inside obj.
func (w *PhysicsWorld) MoveIntoGroup(g *engine.Group, obj engine.SceneObject) bool {
	if g == nil || obj == nil || obj.Parent() != nil || !w.scene.Contains(obj) {
		return false
	}
	root, ok := w.scene.Root(g)
	if !ok || root == obj {
		return false
	}
	w.scene.Remove(obj)
	if !g.AddObject(obj) {
		w.scene.Add(obj)
		return false
	}
	return true
}

func (w *PhysicsWorld) dropTouching(list []*Connector, obj engine.SceneObject, notify bool) []*Connector {
	kept := list[:0]
	for _, c := range list {
		if c.Touches(obj) {
			if notify {
				w.ConnectorRemoved.Invoke(c)
			}
			continue
		}
		kept = append(kept, c)
	}
	clear(list[len(kept):])
	return kept
}

func (w *PhysicsWorld) Objects() iter.Seq[engine.SceneObject] { return w.scene.All() }

func (w *PhysicsWorld) NumObjects() int { return w.scene.Len() }

// NumInstances counts leaf instances across all top-level objects.
func (w *PhysicsWorld) NumInstances() int {
	n := 0
	for obj := range w.scene.All() {
		n += obj.NumInstances()
	}
	return n
}

func (w *PhysicsWorld) FindByUID(uid uint64) engine.SceneObject { return w.scene.FindByUID(uid) }

func (w *PhysicsWorld) FindByName(name string) engine.SceneObject { return w.scene.FindByName(name) }

// Contains reports whether obj is a top-level object of the world or lies
// inside one.
func (w *PhysicsWorld) Contains(obj engine.SceneObject) bool {
	_, ok := w.scene.Root(obj)
	return ok
}

// AddConnector registers a persistent connector. Duplicates are ignored.
func (w *PhysicsWorld) AddConnector(c *Connector) bool {
	if c == nil || slices.Contains(w.connectors, c) {
		return false
	}
	w.connectors = append(w.connectors, c)
	w.ConnectorAdded.Invoke(c)
	return true
}

func (w *PhysicsWorld) RemoveConnector(c *Connector) bool {
	i := slices.Index(w.connectors, c)
	if i < 0 {
		return false
	}
	w.connectors = slices.Delete(w.connectors, i, i+1)
	w.ConnectorRemoved.Invoke(c)
	return true
}

func (w *PhysicsWorld) Connectors() iter.Seq[*Connector] { return slices.Values(w.connectors) }

func (w *PhysicsWorld) NumConnectors() int { return len(w.connectors) }

// AddHandConnector adds a transient connector driven by one hand.
func (w *PhysicsWorld) AddHandConnector(side Side, c *Connector) {
	if c != nil {
		w.hands[side] = append(w.hands[side], c)
	}
}

func (w *PhysicsWorld) ClearHandConnectors(side Side) {
	clear(w.hands[side])
	w.hands[side] = w.hands[side][:0]
}

func (w *PhysicsWorld) HandConnectors(side Side) []*Connector { return w.hands[side] }

func (w *PhysicsWorld) newBodies() *bodies {
	return &bodies{objects: w.scene.Objects()}
}

// Step advances the world by dt using the current mode. A non-positive dt
// falls back to the configured time step.
func (w *PhysicsWorld) Step(dt float32) StepReport {
	if !(dt > 0) {
		dt = w.cfg.TimeStep
	}
	report := w.strategy.Step(w, dt)
	report.Mode = w.strategy.Mode()
	report.Objects = w.scene.Len()

	if report.Outcome == OutcomeRolledBack {
		w.rollbacks++
		if time.Since(w.lastLogTime) >= time.Second {
			w.lastLogTime = time.Now()
			log.Printf("Physics: %d step(s) rolled back (groups %v, %d contacts)", w.rollbacks, report.AffectedGroups, report.Contacts)
			w.rollbacks = 0
		}
	}
	if w.cfg.LogSteps {
		log.Printf("Physics: %s step %s (%d objects, %d contacts, %d integrations)",
			report.Mode, report.Outcome, report.Objects, report.Contacts, report.Attempts)
	}

	w.Stepped.Invoke(report)
	return report
}
