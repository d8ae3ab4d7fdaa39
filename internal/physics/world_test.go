package physics

import (
	"testing"

	"sketchbio/internal/config"
	"sketchbio/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestStepIdleWithoutConnectors(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := boxAt("a", boxModel(10, 1), rl.Vector3{X: 3})
	w.AddObject(a)

	report := w.Step(1.0 / 60.0)
	if report.Outcome != OutcomeIdle {
		t.Errorf("Expected idle step, got %v", report.Outcome)
	}
	if a.Position() != (rl.Vector3{X: 3}) {
		t.Errorf("Expected a to stay at (3,0,0), got %v", a.Position())
	}
}

func TestStepClearsExternalForcesInPoseMode(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := boxAt("a", boxModel(10, 1), rl.Vector3{})
	w.AddObject(a)
	a.AddForce(rl.Vector3{}, rl.Vector3{X: 100})

	w.Step(1.0 / 60.0)
	if a.Force() != (rl.Vector3{}) {
		t.Errorf("Expected forces cleared, got %v", a.Force())
	}
	if a.Position() != (rl.Vector3{}) {
		t.Errorf("Expected a not to move, got %v", a.Position())
	}
}

func TestStepClearsExternalForcesInOriginalMode(t *testing.T) {
	w := testWorld(config.ModeOriginal)
	a := boxAt("a", boxModel(10, 1), rl.Vector3{})
	w.AddObject(a)
	a.AddForce(rl.Vector3{}, rl.Vector3{X: 600})

	report := w.Step(1.0 / 60.0)
	if report.Outcome != OutcomeIntegrated {
		t.Errorf("Expected integrated step, got %v", report.Outcome)
	}
	if a.Position() != (rl.Vector3{}) {
		t.Errorf("Expected force added between steps to be ignored, got %v", a.Position())
	}
}

func TestPoseStepRollsBackWhenCorrectionFails(t *testing.T) {
	for _, mode := range []config.PhysicsMode{config.ModePoseTryOne, config.ModePosePCA} {
		t.Run(mode.String(), func(t *testing.T) {
			w := testWorld(mode)
			mover := boxAt("mover", boxModel(40, 1), rl.Vector3{})
			mover.SetOrientation(rl.QuaternionFromAxisAngle(rl.Vector3{X: 1, Y: 1}, 0.1))
			wall := boxAt("wall", boxModel(40, 0), rl.Vector3{X: 20, Y: 10, Z: 5})
			w.AddObject(mover)
			w.AddObject(wall)
			w.AddConnector(NewSpring(mover, nil, rl.Vector3{X: 3}, rl.Vector3{X: -100}, false, 1, 0))

			pos, orient := mover.Position(), mover.Orientation()
			wallPos := wall.Position()

			report := w.Step(1.0 / 60.0)
			if report.Outcome != OutcomeRolledBack {
				t.Fatalf("Expected rollback, got %v", report.Outcome)
			}
			if mover.Position() != pos || mover.Orientation() != orient {
				t.Errorf("Expected exact pre-step pose, got %v %v", mover.Position(), mover.Orientation())
			}
			if wall.Position() != wallPos {
				t.Errorf("Expected wall untouched, got %v", wall.Position())
			}
			if mover.Force() != (rl.Vector3{}) {
				t.Errorf("Expected forces cleared after rollback, got %v", mover.Force())
			}
			if len(report.AffectedGroups) != 1 || report.AffectedGroups[0] != mover.PrimaryCollisionGroup() {
				t.Errorf("Expected affected groups [%d], got %v", mover.PrimaryCollisionGroup(), report.AffectedGroups)
			}
			if report.Contacts == 0 || report.Attempts != 2 {
				t.Errorf("Expected contacts and two integrations, got %+v", report)
			}
		})
	}
}

func TestPoseStepAcceptsFreeMotion(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := boxAt("a", boxModel(10, 1), rl.Vector3{})
	far := boxAt("far", boxModel(10, 1), rl.Vector3{X: 100})
	w.AddObject(a)
	w.AddObject(far)
	w.AddConnector(NewSpring(a, nil, rl.Vector3{}, rl.Vector3{Y: 60}, false, 1, 0))

	report := w.Step(1.0 / 60.0)
	if report.Outcome != OutcomeAccepted {
		t.Fatalf("Expected accepted step, got %v", report.Outcome)
	}
	if !approxVec(a.Position(), rl.Vector3{Y: 1}) {
		t.Errorf("Expected a at (0,1,0), got %v", a.Position())
	}
	if last, _ := a.LastLocation(); last != a.Position() {
		t.Errorf("Expected the accepted pose to become the snapshot, got %v", last)
	}
	if far.Position() != (rl.Vector3{X: 100}) {
		t.Errorf("Expected far untouched, got %v", far.Position())
	}
}

func TestPhysicsDisabledSkipsPersistentConnectors(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	w.SetPhysicsEnabled(false)
	a := engine.NewInstance("a", nil)
	w.AddObject(a)
	w.AddConnector(NewSpring(a, nil, rl.Vector3{}, rl.Vector3{X: 50}, false, 1, 0))

	if report := w.Step(1.0 / 60.0); report.Outcome != OutcomeIdle {
		t.Errorf("Expected idle step, got %v", report.Outcome)
	}

	// Hand connectors still apply.
	w.AddHandConnector(LeftHand, NewSpring(a, nil, rl.Vector3{}, rl.Vector3{X: 60}, false, 1, 0))
	w.Step(1.0 / 60.0)
	if !approxVec(a.Position(), rl.Vector3{X: 1}) {
		t.Errorf("Expected a at (1,0,0), got %v", a.Position())
	}
}

func TestBinarySearchHalvesForce(t *testing.T) {
	w := testWorld(config.ModeBinarySearch)
	m := boxModel(10, 1)
	a := boxAt("a", m, rl.Vector3{})
	wall := boxAt("wall", boxModel(10, 0), rl.Vector3{X: 12, Y: 3, Z: 1})
	w.AddObject(a)
	w.AddObject(wall)
	// 180 units of force move a by 3 in one step, into the wall.
	w.AddConnector(NewSpring(a, nil, rl.Vector3{}, rl.Vector3{X: 100}, false, 1.8, 0))

	report := w.Step(1.0 / 60.0)
	if report.Outcome != OutcomeCorrected {
		t.Fatalf("Expected corrected step, got %v", report.Outcome)
	}
	if report.Attempts != 2 {
		t.Errorf("Expected 2 integrations, got %d", report.Attempts)
	}
	if !approx(a.Position().X, 1.5, 1e-3) {
		t.Errorf("Expected a at x=1.5, got %v", a.Position())
	}
	if a.Force() != (rl.Vector3{}) {
		t.Errorf("Expected forces cleared, got %v", a.Force())
	}
}

func TestBinarySearchRollsBackAfterTenTries(t *testing.T) {
	w := testWorld(config.ModeBinarySearch)
	a := boxAt("a", boxModel(40, 1), rl.Vector3{})
	wall := boxAt("wall", boxModel(40, 0), rl.Vector3{X: 20, Y: 10, Z: 5})
	w.AddObject(a)
	w.AddObject(wall)
	w.AddConnector(NewSpring(a, nil, rl.Vector3{}, rl.Vector3{X: -100}, false, 1, 0))

	report := w.Step(1.0 / 60.0)
	if report.Outcome != OutcomeRolledBack || report.Attempts != maxForceHalvings {
		t.Errorf("Expected rollback after %d attempts, got %+v", maxForceHalvings, report)
	}
	if a.Position() != (rl.Vector3{}) {
		t.Errorf("Expected a restored to the origin, got %v", a.Position())
	}
}

func TestOriginalModeIntegratesWithoutRollback(t *testing.T) {
	w := testWorld(config.ModeOriginal)
	a := boxAt("a", boxModel(40, 1), rl.Vector3{})
	b := boxAt("b", boxModel(40, 1), rl.Vector3{X: 20, Y: 10, Z: 5})
	w.AddObject(a)
	w.AddObject(b)

	report := w.Step(1.0 / 60.0)
	if report.Outcome != OutcomeIntegrated || report.Contacts == 0 {
		t.Fatalf("Expected integrated step with contacts, got %+v", report)
	}
	if a.Position().X >= 0 || b.Position().X <= 20 {
		t.Errorf("Expected full dynamics to push both boxes apart, got %v and %v", a.Position(), b.Position())
	}
}

func TestOriginalModeConvergesToRestLength(t *testing.T) {
	w := testWorld(config.ModeOriginal)
	a := engine.NewInstance("a", nil)
	w.AddObject(a)
	fixed := rl.Vector3{Z: 10}
	w.AddConnector(NewSpring(a, nil, rl.Vector3{}, fixed, false, 1, 5))

	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60.0)
	}
	if d := rl.Vector3Distance(a.Position(), fixed); !approx(d, 5, 0.01) {
		t.Errorf("Expected distance within 0.01 of 5, got %v", d)
	}
}

func TestGroupMemberKeepingItsForceMovesAlone(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := engine.NewInstance("a", nil)
	b := engine.NewInstance("b", nil)
	a.SetPosition(rl.Vector3{X: -5})
	b.SetPosition(rl.Vector3{X: 5})
	g := engine.NewGroup("g")
	g.AddObject(a)
	g.AddObject(b)
	a.SetPropagateForceToParent(false)
	w.AddObject(g)
	w.AddConnector(NewSpring(a, nil, rl.Vector3{}, rl.Vector3{X: -65}, false, 1, 0))

	w.Step(1.0 / 60.0)
	if !approxVec(a.Position(), rl.Vector3{X: -6}) {
		t.Errorf("Expected a at (-6,0,0), got %v", a.Position())
	}
	if !approxVec(b.Position(), rl.Vector3{X: 5}) {
		t.Errorf("Expected b to stay at (5,0,0), got %v", b.Position())
	}
	if !approxVec(g.Position(), rl.Vector3{X: -0.5}) {
		t.Errorf("Expected group centroid (-0.5,0,0), got %v", g.Position())
	}
}

func TestGroupMovesAsOneBody(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := engine.NewInstance("a", nil)
	b := engine.NewInstance("b", nil)
	a.SetPosition(rl.Vector3{X: -5})
	b.SetPosition(rl.Vector3{X: 5})
	g := engine.NewGroup("g")
	g.AddObject(a)
	g.AddObject(b)
	w.AddObject(g)
	// Pull through the centroid so the group translates without turning.
	w.AddConnector(NewSpring(g, nil, rl.Vector3{}, rl.Vector3{Y: 60}, false, 1, 0))

	w.Step(1.0 / 60.0)
	if !approxVec(a.Position(), rl.Vector3{X: -5, Y: 1}) || !approxVec(b.Position(), rl.Vector3{X: 5, Y: 1}) {
		t.Errorf("Expected both members raised by 1, got %v and %v", a.Position(), b.Position())
	}
}

func TestAddObjectAssignsGroups(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := engine.NewInstance("a", nil)
	b := engine.NewInstance("b", nil)
	b.SetPrimaryCollisionGroup(10)
	c := engine.NewInstance("c", nil)

	var added []engine.SceneObject
	w.ObjectAdded.AddListener(func(o engine.SceneObject) { added = append(added, o) })

	if !w.AddObject(a) || !w.AddObject(b) || !w.AddObject(c) {
		t.Fatal("Expected all adds to succeed")
	}
	if w.AddObject(a) {
		t.Error("Expected duplicate add to fail")
	}
	if a.PrimaryCollisionGroup() != 0 || b.PrimaryCollisionGroup() != 10 || c.PrimaryCollisionGroup() != 11 {
		t.Errorf("Unexpected groups %d %d %d", a.PrimaryCollisionGroup(), b.PrimaryCollisionGroup(), c.PrimaryCollisionGroup())
	}
	if len(added) != 3 {
		t.Errorf("Expected 3 ObjectAdded events, got %d", len(added))
	}

	g := engine.NewGroup("g")
	child := engine.NewInstance("child", nil)
	g.AddObject(child)
	if w.AddObject(child) {
		t.Error("Expected adding a group member to fail")
	}
}

func TestDuplicate(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	m := boxModel(10, 1)
	g := engine.NewGroup("g")
	g.AddObject(boxAt("a", m, rl.Vector3{X: -10}))
	g.AddObject(boxAt("b", m, rl.Vector3{X: 10}))
	w.AddObject(g)

	dup, ok := w.Duplicate(g, rl.Vector3{Y: 50}).(*engine.Group)
	if !ok {
		t.Fatal("Expected a group copy")
	}
	if dup.UID() == g.UID() || dup.Len() != 2 {
		t.Fatalf("Expected a distinct two-member copy, got %v members", dup.Len())
	}
	if w.NumObjects() != 2 || w.NumInstances() != 4 {
		t.Errorf("Expected 2 objects and 4 instances, got %d and %d", w.NumObjects(), w.NumInstances())
	}
	if !approxVec(dup.Children()[1].Position(), rl.Vector3{X: 10, Y: 50}) {
		t.Errorf("Expected copied member at (10,50,0), got %v", dup.Children()[1].Position())
	}
	if dup.PrimaryCollisionGroup() == g.PrimaryCollisionGroup() {
		t.Error("Expected the copy in its own collision group")
	}
	if w.Duplicate(nil, rl.Vector3{}) != nil {
		t.Error("Expected nil for a nil object")
	}
}

func TestRemoveObjectDropsConnectors(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := engine.NewInstance("a", nil)
	b := engine.NewInstance("b", nil)
	member := engine.NewInstance("member", nil)
	g := engine.NewGroup("g")
	g.AddObject(member)
	w.AddObject(a)
	w.AddObject(b)
	w.AddObject(g)

	ab := NewSpring(a, b, rl.Vector3{}, rl.Vector3{}, false, 1, 0)
	bm := NewSpring(b, member, rl.Vector3{}, rl.Vector3{}, false, 1, 0)
	fixed := NewSpring(b, nil, rl.Vector3{}, rl.Vector3{X: 1}, false, 1, 0)
	for _, c := range []*Connector{ab, bm, fixed} {
		w.AddConnector(c)
	}
	w.AddHandConnector(RightHand, NewSpring(a, nil, rl.Vector3{}, rl.Vector3{}, false, 1, 0))

	var removed []*Connector
	w.ConnectorRemoved.AddListener(func(c *Connector) { removed = append(removed, c) })

	if !w.RemoveObject(a) {
		t.Fatal("Expected removing a to succeed")
	}
	if w.NumConnectors() != 2 || len(removed) != 1 || removed[0] != ab {
		t.Errorf("Expected only a's connector dropped, got %d left, removed %v", w.NumConnectors(), removed)
	}
	if len(w.HandConnectors(RightHand)) != 0 {
		t.Error("Expected hand connectors on a dropped")
	}

	if !w.RemoveObject(member) {
		t.Fatal("Expected removing a member of a top-level group to succeed")
	}
	if member.Parent() != nil || g.Len() != 0 {
		t.Error("Expected member taken out of its group")
	}
	if w.NumConnectors() != 1 {
		t.Errorf("Expected 1 connector left, got %d", w.NumConnectors())
	}
	if w.RemoveObject(a) {
		t.Error("Expected removing an absent object to fail")
	}
	if w.NumObjects() != 2 {
		t.Errorf("Expected 2 objects, got %d", w.NumObjects())
	}
}

func TestSetConfigRejectsInvalid(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	bad := config.Default()
	bad.TimeStep = 0
	if err := w.SetConfig(bad); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
	if w.Config().TimeStep != config.DefaultTimeStep {
		t.Errorf("Expected config unchanged, got %v", w.Config().TimeStep)
	}

	good := config.Default()
	good.Mode = config.ModeBinarySearch
	if err := w.SetConfig(good); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if w.Mode() != config.ModeBinarySearch {
		t.Errorf("Expected binary search mode, got %v", w.Mode())
	}
}

func TestSteppedEvent(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	var reports []StepReport
	id := w.Stepped.AddListener(func(r StepReport) { reports = append(reports, r) })

	w.Step(0)
	w.Stepped.RemoveListener(id)
	w.Step(0)
	if len(reports) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(reports))
	}
	if reports[0].Mode != config.ModePoseTryOne {
		t.Errorf("Expected pose mode in report, got %v", reports[0].Mode)
	}
}

func TestQueries(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	m := boxModel(10, 1)
	a := boxAt("a", m, rl.Vector3{})
	member := boxAt("member", m, rl.Vector3{X: 50})
	other := boxAt("other", m, rl.Vector3{X: 70})
	g := engine.NewGroup("g")
	g.AddObject(member)
	g.AddObject(other)
	w.AddObject(a)
	w.AddObject(g)

	obj, d := w.ClosestObject(rl.Vector3{X: 8})
	if obj != a || !approx(d, 3, eps) {
		t.Errorf("Expected a at distance 3, got %v at %v", obj, d)
	}
	obj, d = w.ClosestObject(rl.Vector3{X: 52})
	if obj != g || !approx(d, -3, eps) {
		t.Errorf("Expected the group at -3 (inside member), got %v at %v", obj, d)
	}

	hit, ok := w.Raycast(rl.Vector3{X: -100}, rl.Vector3{X: 1}, 1000)
	if !ok || hit.Object != a || !approx(hit.Distance, 95, eps) {
		t.Fatalf("Expected ray to hit a at 95, got %+v", hit)
	}
	if hit.Normal != (rl.Vector3{X: -1}) {
		t.Errorf("Expected normal (-1,0,0), got %v", hit.Normal)
	}
	hit, ok = w.Raycast(rl.Vector3{X: 100}, rl.Vector3{X: -1}, 1000)
	if !ok || hit.Object != other || hit.Root != g {
		t.Errorf("Expected ray from +X to hit other inside g, got %+v", hit)
	}
	if _, ok := w.Raycast(rl.Vector3{Y: 100}, rl.Vector3{Y: 1}, 1000); ok {
		t.Error("Expected ray pointing away to miss")
	}

	c := NewSpring(a, nil, rl.Vector3{}, rl.Vector3{Y: 20}, false, 1, 0)
	w.AddConnector(c)
	got, dist, end1 := w.ClosestConnector(rl.Vector3{X: 1, Y: 15})
	if got != c || !approx(dist, 1, eps) || end1 {
		t.Errorf("Expected connector at 1 near end 2, got %v %v %v", got, dist, end1)
	}

	poses := w.Snapshot()
	if len(poses) != 4 {
		t.Fatalf("Expected 4 poses, got %d", len(poses))
	}
	if poses[1].UID != g.UID() || poses[2].Parent != g.UID() {
		t.Errorf("Expected group before its members, got %+v", poses)
	}
}

func TestMoveIntoGroup(t *testing.T) {
	w := testWorld(config.ModePoseTryOne)
	a := boxAt("a", boxModel(10, 1), rl.Vector3{X: 5})
	b := boxAt("b", boxModel(10, 1), rl.Vector3{})
	g := engine.NewGroup("g")
	g.AddObject(b)
	w.AddObject(a)
	w.AddObject(g)

	if w.MoveIntoGroup(engine.NewGroup("outside"), a) {
		t.Error("Expected a group outside the world to be rejected")
	}
	if w.MoveIntoGroup(g, b) {
		t.Error("Expected a member to be rejected")
	}
	if w.MoveIntoGroup(g, g) {
		t.Error("Expected a group moving into itself to be rejected")
	}
	if !w.MoveIntoGroup(g, a) {
		t.Fatal("Expected a to join g")
	}
	if w.NumObjects() != 1 || a.Parent() != g || !w.Contains(a) {
		t.Fatalf("Expected a only inside g, got %d top-level objects, parent %v", w.NumObjects(), a.Parent())
	}
	if a.PrimaryCollisionGroup() != g.PrimaryCollisionGroup() {
		t.Errorf("Expected a to share g's collision group")
	}

	w.AddConnector(NewSpring(a, nil, rl.Vector3{}, rl.Vector3{X: 5, Y: 60}, false, 1, 0))
	report := w.Step(1.0 / 60.0)
	if report.Outcome != OutcomeAccepted {
		t.Fatalf("Expected the overlapping members not to collide, got %v", report.Outcome)
	}
	if !approx(a.Position().Y, 1, 0.01) || !approx(b.Position().Y, 1, 0.01) {
		t.Errorf("Expected a and b to move up together, got %v and %v", a.Position(), b.Position())
	}
}
