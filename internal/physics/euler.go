package physics

import (
	"slices"

	"sketchbio/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Integrate advances obj one explicit Euler step from its accumulated force
// and model-space torque. Objects with no force and no torque are left alone.
func Integrate(obj engine.SceneObject, dt float32) {
	f, t := obj.Force(), obj.Torque()
	if f == (rl.Vector3{}) && t == (rl.Vector3{}) {
		return
	}

	pos := rl.Vector3Add(obj.Position(), rl.Vector3Scale(f, dt*obj.InverseMass()))

	q := obj.Orientation()
	w := rl.Vector3Scale(t, obj.InverseMomentOfInertia())
	spin := rl.QuaternionMultiply(q, rl.Quaternion{X: w.X, Y: w.Y, Z: w.Z})
	h := 0.5 * dt
	q = rl.QuaternionNormalize(rl.Quaternion{
		X: q.X + h*spin.X,
		Y: q.Y + h*spin.Y,
		Z: q.Z + h*spin.Z,
		W: q.W + h*spin.W,
	})

	obj.SetWorldPosAndOrient(pos, q)
}

// bodies is the set of objects that move during a step: the top-level
// objects plus the members of groups whose children were pushed directly.
type bodies struct {
	objects []engine.SceneObject
	parents []*engine.Group // outermost first
}

// addParentsOf records every group above obj when obj keeps its own forces.
func (b *bodies) addParentsOf(obj engine.SceneObject) {
	if obj == nil || obj.Parent() == nil || obj.PropagatesForceToParent() {
		return
	}
	for p := obj.Parent(); p != nil; p = p.Parent() {
		if !slices.Contains(b.parents, p) {
			b.parents = append(b.parents, p)
		}
	}
	slices.SortStableFunc(b.parents, func(x, y *engine.Group) int {
		return x.GroupingLevel() - y.GroupingLevel()
	})
}

func (b *bodies) each(fn func(engine.SceneObject)) {
	for _, o := range b.objects {
		fn(o)
	}
	for _, g := range b.parents {
		for _, c := range g.Children() {
			fn(c)
		}
	}
}

func (b *bodies) integrate(dt float32, clear bool) {
	b.each(func(o engine.SceneObject) { Integrate(o, dt) })
	if clear {
		b.clearForces()
	}
}

func (b *bodies) clearForces() {
	for _, o := range b.objects {
		o.ClearForces()
	}
}

func (b *bodies) snapshot() {
	b.each(engine.SceneObject.SetLastLocation)
}

func (b *bodies) restore() {
	b.each(engine.SceneObject.RestoreToLastLocation)
}

// halveForces scales every accumulated force and torque by one half.
func (b *bodies) halveForces() {
	b.each(func(o engine.SceneObject) {
		o.SetForceAndTorque(rl.Vector3Scale(o.Force(), 0.5), rl.Vector3Scale(o.Torque(), 0.5))
	})
}

// collide tests the top-level objects and the members of each pushed group.
func (b *bodies) collide(affected GroupSet, mode ScanMode) []PairResult {
	results := TestCollisions(b.objects, affected, mode)
	for _, g := range b.parents {
		if mode == FirstContact && len(results) > 0 {
			break
		}
		results = append(results, TestCollisions(g.Children(), affected, mode)...)
	}
	return results
}
