package physics

import (
	"math"

	"sketchbio/internal/engine"
	"sketchbio/internal/geometry"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ClosestObject returns the top-level object nearest to point and its signed
// distance (negative when point is inside).
func (w *PhysicsWorld) ClosestObject(point rl.Vector3) (engine.SceneObject, float32) {
	return ClosestObjectIn(w.scene.Objects(), point)
}

// ClosestObjectIn picks the object of list nearest to point. Instances are
// measured against their model box in model space. A group is measured
// against its world box, and when the point is inside that box the distance
// becomes the distance to its nearest member; the group itself is returned.
func ClosestObjectIn(list []engine.SceneObject, point rl.Vector3) (engine.SceneObject, float32) {
	var best engine.SceneObject
	bestDist := float32(math.MaxFloat32)
	for _, obj := range list {
		if d := distanceTo(obj, point); best == nil || d < bestDist {
			best, bestDist = obj, d
		}
	}
	return best, bestDist
}

func distanceTo(obj engine.SceneObject, point rl.Vector3) float32 {
	switch o := obj.(type) {
	case *engine.Instance:
		return o.ModelBounds().DistanceOutside(o.WorldPointToModel(point))
	case *engine.Group:
		d := o.WorldBounds().DistanceOutside(point)
		if d < 0 && o.Len() > 0 {
			_, d = ClosestObjectIn(o.Children(), point)
		}
		return d
	}
	return math.MaxFloat32
}

// ClosestConnector returns the persistent connector nearest to point, the
// distance to its segment, and whether end 1 is the nearer end.
func (w *PhysicsWorld) ClosestConnector(point rl.Vector3) (*Connector, float32, bool) {
	var best *Connector
	bestDist := float32(math.MaxFloat32)
	bestEnd1 := false
	for _, c := range w.connectors {
		if d, end1 := c.distanceToPoint(point); best == nil || d < bestDist {
			best, bestDist, bestEnd1 = c, d, end1
		}
	}
	return best, bestDist, bestEnd1
}

// RaycastHit is the nearest instance box crossed by a ray.
type RaycastHit struct {
	Object   *engine.Instance
	Root     engine.SceneObject // top-level object holding Object
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast checks the world boxes of every instance and returns the closest
// hit within maxDistance.
func (w *PhysicsWorld) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	direction = rl.Vector3Normalize(direction)
	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, root := range w.scene.Objects() {
		visitInstances(root, func(inst *engine.Instance) {
			if inst.Model() == nil {
				return
			}
			if h, ok := raycastBox(origin, direction, inst.WorldBounds(), closestHit.Distance); ok {
				closestHit = h
				closestHit.Object = inst
				closestHit.Root = root
				hit = true
			}
		})
	}
	return closestHit, hit
}

func visitInstances(obj engine.SceneObject, fn func(*engine.Instance)) {
	switch o := obj.(type) {
	case *engine.Instance:
		fn(o)
	case *engine.Group:
		for _, c := range o.Children() {
			visitInstances(c, fn)
		}
	}
}

// raycastBox is the slab test against an axis-aligned box.
func raycastBox(origin, direction rl.Vector3, box geometry.AABB, maxDistance float32) (RaycastHit, bool) {
	if box.IsEmpty() {
		return RaycastHit{}, false
	}
	o := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{direction.X, direction.Y, direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	tmin, tmax := float32(-math.MaxFloat32), float32(math.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			if o[axis] < lo[axis] || o[axis] > hi[axis] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (lo[axis] - o[axis]) / d[axis]
		t2 := (hi[axis] - o[axis]) / d[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	return RaycastHit{Point: point, Normal: boxFaceNormal(point, box), Distance: t}, true
}

// boxFaceNormal returns the outward normal of the face nearest to point.
func boxFaceNormal(point rl.Vector3, box geometry.AABB) rl.Vector3 {
	const epsilon = 0.001
	switch {
	case math32.Abs(point.X-box.Min.X) < epsilon:
		return rl.Vector3{X: -1}
	case math32.Abs(point.X-box.Max.X) < epsilon:
		return rl.Vector3{X: 1}
	case math32.Abs(point.Y-box.Min.Y) < epsilon:
		return rl.Vector3{Y: -1}
	case math32.Abs(point.Y-box.Max.Y) < epsilon:
		return rl.Vector3{Y: 1}
	case math32.Abs(point.Z-box.Min.Z) < epsilon:
		return rl.Vector3{Z: -1}
	}
	return rl.Vector3{Z: 1}
}

// Pose is the world transform of one object after a step.
type Pose struct {
	UID         uint64        `json:"uid"`
	Name        string        `json:"name"`
	Kind        string        `json:"kind"`
	Parent      uint64        `json:"parent,omitempty"`
	Position    rl.Vector3    `json:"position"`
	Orientation rl.Quaternion `json:"orientation"`
}

// Snapshot lists every object, top-level objects before their members.
func (w *PhysicsWorld) Snapshot() []Pose {
	poses := make([]Pose, 0, w.scene.Len())
	var visit func(obj engine.SceneObject)
	visit = func(obj engine.SceneObject) {
		p := Pose{
			UID:         obj.UID(),
			Name:        obj.Name(),
			Kind:        obj.Kind().String(),
			Position:    obj.Position(),
			Orientation: obj.Orientation(),
		}
		if obj.Parent() != nil {
			p.Parent = obj.Parent().UID()
		}
		poses = append(poses, p)
		if g, ok := obj.(*engine.Group); ok {
			for _, c := range g.Children() {
				visit(c)
			}
		}
	}
	for _, obj := range w.scene.Objects() {
		visit(obj)
	}
	return poses
}
