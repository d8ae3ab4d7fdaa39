package physics

import (
	"sketchbio/internal/config"
	"sketchbio/internal/engine"
)

// Outcome is how a step ended.
type Outcome int

const (
	// OutcomeIdle: no connector applied any force, nothing moved.
	OutcomeIdle Outcome = iota
	// OutcomeAccepted: the moved objects were free of contacts.
	OutcomeAccepted
	// OutcomeCorrected: contacts were found and the response pass cleared them.
	OutcomeCorrected
	// OutcomeRolledBack: the step could not be made collision free and every
	// moved object was put back.
	OutcomeRolledBack
	// OutcomeIntegrated: full dynamics ran without a collision guarantee.
	OutcomeIntegrated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeCorrected:
		return "corrected"
	case OutcomeRolledBack:
		return "rolled back"
	case OutcomeIntegrated:
		return "integrated"
	}
	return "unknown"
}

// StepReport summarizes one Step.
type StepReport struct {
	Outcome        Outcome
	Mode           config.PhysicsMode
	AffectedGroups []int
	Contacts       int // contacts found by the first collision test
	Objects        int
	Attempts       int // integrations performed
}

// Strategy runs one step of the world under a particular physics mode.
type Strategy interface {
	Mode() config.PhysicsMode
	Step(w *PhysicsWorld, dt float32) StepReport
}

// NewStrategy returns the strategy for mode, falling back to pose mode for
// unknown values.
func NewStrategy(mode config.PhysicsMode) Strategy {
	switch mode {
	case config.ModeOriginal:
		return simpleStrategy{}
	case config.ModeBinarySearch:
		return binarySearchStrategy{}
	case config.ModePosePCA:
		return poseStrategy{mode: config.ModePosePCA, respond: PCAResponse}
	}
	return poseStrategy{mode: config.ModePoseTryOne, respond: NormalResponse}
}

// applyConnectors adds the force of every connector in list and records the
// collision groups of the objects they pushed. Objects that keep their own
// forces inside a group mark their ancestors in b.
func applyConnectors(list []*Connector, affected GroupSet, b *bodies) bool {
	applied := false
	for _, c := range list {
		if !c.AddForce() {
			continue
		}
		applied = true
		for _, o := range [2]engine.SceneObject{c.End1.Object, c.End2.Object} {
			if o == nil {
				continue
			}
			affected.Add(o.PrimaryCollisionGroup())
			b.addParentsOf(o)
		}
	}
	return applied
}

// applySources runs the right hand, left hand and, when physics is enabled,
// the persistent connectors in that order.
func applySources(w *PhysicsWorld, affected GroupSet, b *bodies) bool {
	applied := applyConnectors(w.hands[RightHand], affected, b)
	applied = applyConnectors(w.hands[LeftHand], affected, b) || applied
	if w.cfg.PhysicsEnabled {
		applied = applyConnectors(w.connectors, affected, b) || applied
	}
	return applied
}

// simpleStrategy is unconstrained dynamics: integrate, respond to every
// contact in a full scan, integrate again.
type simpleStrategy struct{}

func (simpleStrategy) Mode() config.PhysicsMode { return config.ModeOriginal }

func (simpleStrategy) Step(w *PhysicsWorld, dt float32) StepReport {
	b := w.newBodies()
	b.clearForces()
	affected := GroupSet{}
	applySources(w, affected, b)

	report := StepReport{Outcome: OutcomeIntegrated, AffectedGroups: affected.Sorted()}
	b.integrate(dt, true)
	report.Attempts = 1
	if w.cfg.CollisionCheckEnabled {
		full := GroupSet{}
		results := b.collide(full, AllContacts)
		report.Contacts = CountContacts(results)
		NormalResponse(results, full, w.cfg.CollisionForce)
		b.integrate(dt, true)
		report.Attempts++
	}
	return report
}

// poseStrategy moves only what the connectors pushed, tries one correction
// on contact, and rolls the whole step back if the correction fails.
type poseStrategy struct {
	mode    config.PhysicsMode
	respond Response
}

func (s poseStrategy) Mode() config.PhysicsMode { return s.mode }

func (s poseStrategy) Step(w *PhysicsWorld, dt float32) StepReport {
	b := w.newBodies()
	b.clearForces()
	affected := GroupSet{}
	if !applySources(w, affected, b) {
		return StepReport{Outcome: OutcomeIdle}
	}

	report := StepReport{Outcome: OutcomeAccepted, AffectedGroups: affected.Sorted()}
	b.snapshot()
	b.integrate(dt, true)
	report.Attempts = 1
	if !w.cfg.CollisionCheckEnabled {
		b.snapshot()
		return report
	}

	results := b.collide(affected, AllContacts)
	if len(results) == 0 {
		b.snapshot()
		return report
	}
	report.Contacts = CountContacts(results)

	s.respond(results, affected, w.cfg.CollisionForce)
	b.integrate(dt, true)
	report.Attempts++

	if len(b.collide(affected, FirstContact)) > 0 {
		b.restore()
		report.Outcome = OutcomeRolledBack
		return report
	}
	b.snapshot()
	report.Outcome = OutcomeCorrected
	return report
}

const maxForceHalvings = 10

// binarySearchStrategy halves the applied force until the step is collision
// free, giving up after a fixed number of attempts.
type binarySearchStrategy struct{}

func (binarySearchStrategy) Mode() config.PhysicsMode { return config.ModeBinarySearch }

func (binarySearchStrategy) Step(w *PhysicsWorld, dt float32) StepReport {
	b := w.newBodies()
	b.clearForces()
	affected := GroupSet{}
	if !applySources(w, affected, b) {
		return StepReport{Outcome: OutcomeIdle}
	}
	defer b.clearForces()

	report := StepReport{Outcome: OutcomeAccepted, AffectedGroups: affected.Sorted()}
	b.snapshot()
	b.integrate(dt, false)
	report.Attempts = 1
	if !w.cfg.CollisionCheckEnabled {
		b.snapshot()
		return report
	}

	colliding := len(b.collide(affected, FirstContact)) > 0
	if colliding {
		report.Contacts = 1
	}
	for colliding && report.Attempts < maxForceHalvings {
		b.restore()
		b.halveForces()
		b.integrate(dt, false)
		report.Attempts++
		colliding = len(b.collide(affected, FirstContact)) > 0
		if !colliding {
			report.Outcome = OutcomeCorrected
		}
	}

	if colliding {
		b.restore()
		report.Outcome = OutcomeRolledBack
		return report
	}
	b.snapshot()
	return report
}
