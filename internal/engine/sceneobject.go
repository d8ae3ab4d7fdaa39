package engine

import (
	"sync/atomic"

	"sketchbio/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// NoGroup is the collision group id of an object that was never added to a
// world.
const NoGroup = -1

// Kind tags the two SceneObject variants.
type Kind int

const (
	KindInstance Kind = iota
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindInstance:
		return "instance"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// SceneObject is a rigid body in the scene tree. It is implemented only by
// *Instance and *Group.
//
// Position and orientation are stored relative to the parent group; the
// accessors without a Local prefix return world values.
type SceneObject interface {
	UID() uint64
	Kind() Kind
	Name() string
	SetName(name string)
	Parent() *Group

	Position() rl.Vector3
	Orientation() rl.Quaternion
	LocalPosition() rl.Vector3
	LocalOrientation() rl.Quaternion
	SetPosition(pos rl.Vector3)
	SetOrientation(orient rl.Quaternion)
	SetPosAndOrient(pos rl.Vector3, orient rl.Quaternion)
	SetWorldPosAndOrient(pos rl.Vector3, orient rl.Quaternion)

	SetLastLocation()
	RestoreToLastLocation()
	LastLocation() (rl.Vector3, rl.Quaternion)

	AddForce(modelPoint, worldForce rl.Vector3)
	SetForceAndTorque(force, torque rl.Vector3)
	Force() rl.Vector3
	Torque() rl.Vector3
	ClearForces()
	PropagatesForceToParent() bool
	SetPropagateForceToParent(propagate bool)

	ModelPointToWorld(p rl.Vector3) rl.Vector3
	WorldPointToModel(p rl.Vector3) rl.Vector3
	ModelVectorToWorld(v rl.Vector3) rl.Vector3
	WorldVectorToModel(v rl.Vector3) rl.Vector3

	CollisionGroups() []int
	PrimaryCollisionGroup() int
	SetPrimaryCollisionGroup(id int)
	AddToCollisionGroup(id int)
	RemoveFromCollisionGroup(id int)
	IsInCollisionGroup(id int) bool

	InverseMass() float32
	InverseMomentOfInertia() float32
	NumInstances() int
	GroupingLevel() int
	WorldBounds() geometry.AABB

	base() *object
}

var nextUID atomic.Uint64

func newUID() uint64 {
	return nextUID.Add(1)
}

// object holds the state shared by both variants.
type object struct {
	uid    uint64
	name   string
	parent *Group

	position    rl.Vector3
	orientation rl.Quaternion

	lastPosition    rl.Vector3
	lastOrientation rl.Quaternion

	force  rl.Vector3
	torque rl.Vector3

	propagateForce  bool
	collisionGroups []int
}

func newObject(name string) object {
	return object{
		uid:             newUID(),
		name:            name,
		orientation:     rl.QuaternionIdentity(),
		lastOrientation: rl.QuaternionIdentity(),
	}
}

func (o *object) base() *object { return o }

func (o *object) UID() uint64 { return o.uid }

func (o *object) Name() string { return o.name }

func (o *object) SetName(name string) { o.name = name }

func (o *object) Parent() *Group { return o.parent }

func (o *object) LocalPosition() rl.Vector3 { return o.position }

func (o *object) LocalOrientation() rl.Quaternion { return o.orientation }

func (o *object) Position() rl.Vector3 {
	if o.parent == nil {
		return o.position
	}
	return o.parent.ModelPointToWorld(o.position)
}

func (o *object) Orientation() rl.Quaternion {
	if o.parent == nil {
		return o.orientation
	}
	return rl.QuaternionMultiply(o.parent.Orientation(), o.orientation)
}

func (o *object) SetPosition(pos rl.Vector3) {
	o.position = pos
	o.parentChanged()
}

func (o *object) SetOrientation(orient rl.Quaternion) {
	o.orientation = normalize(orient)
	o.parentChanged()
}

func (o *object) SetPosAndOrient(pos rl.Vector3, orient rl.Quaternion) {
	o.position = pos
	o.orientation = normalize(orient)
	o.parentChanged()
}

// SetWorldPosAndOrient places the object at a world pose, converting it to
// the parent's frame when the object belongs to a group.
func (o *object) SetWorldPosAndOrient(pos rl.Vector3, orient rl.Quaternion) {
	o.setWorldPose(pos, orient)
	o.parentChanged()
}

// setWorldPose writes the parent-relative pose matching a world pose without
// touching the ancestors.
func (o *object) setWorldPose(pos rl.Vector3, orient rl.Quaternion) {
	if o.parent == nil {
		o.position = pos
		o.orientation = normalize(orient)
		return
	}
	o.position = o.parent.WorldPointToModel(pos)
	o.orientation = normalize(rl.QuaternionMultiply(conjugate(o.parent.Orientation()), orient))
}

// parentChanged keeps the group centroid invariant after a direct edit.
func (o *object) parentChanged() {
	if o.parent != nil {
		o.parent.recenter()
	}
}

func (o *object) SetLastLocation() {
	o.lastPosition = o.Position()
	o.lastOrientation = o.Orientation()
}

func (o *object) RestoreToLastLocation() {
	if o.parent == nil {
		o.position = o.lastPosition
		o.orientation = o.lastOrientation
		return
	}
	o.SetWorldPosAndOrient(o.lastPosition, o.lastOrientation)
}

func (o *object) LastLocation() (rl.Vector3, rl.Quaternion) {
	return o.lastPosition, o.lastOrientation
}

// AddForce accumulates a world-space force applied at a model-space point.
// When force propagation is on, the force is handed to the parent group with
// the point expressed in the parent's model space.
func (o *object) AddForce(modelPoint, worldForce rl.Vector3) {
	if o.propagateForce && o.parent != nil {
		parentPoint := rl.Vector3Add(o.position, rl.Vector3RotateByQuaternion(modelPoint, o.orientation))
		o.parent.AddForce(parentPoint, worldForce)
		return
	}
	o.force = rl.Vector3Add(o.force, worldForce)
	local := o.WorldVectorToModel(worldForce)
	o.torque = rl.Vector3Add(o.torque, rl.Vector3CrossProduct(modelPoint, local))
}

func (o *object) SetForceAndTorque(force, torque rl.Vector3) {
	o.force = force
	o.torque = torque
}

func (o *object) Force() rl.Vector3 { return o.force }

func (o *object) Torque() rl.Vector3 { return o.torque }

func (o *object) clearOwnForces() {
	o.force = rl.Vector3{}
	o.torque = rl.Vector3{}
}

func (o *object) PropagatesForceToParent() bool { return o.propagateForce }

func (o *object) SetPropagateForceToParent(propagate bool) { o.propagateForce = propagate }

func (o *object) ModelPointToWorld(p rl.Vector3) rl.Vector3 {
	return rl.Vector3Add(o.Position(), rl.Vector3RotateByQuaternion(p, o.Orientation()))
}

func (o *object) WorldPointToModel(p rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3Subtract(p, o.Position()), conjugate(o.Orientation()))
}

func (o *object) ModelVectorToWorld(v rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, o.Orientation())
}

func (o *object) WorldVectorToModel(v rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, conjugate(o.Orientation()))
}

// root returns the top-level ancestor's shared state; objects inside a group
// report the collision groups of that ancestor.
func (o *object) root() *object {
	r := o
	for r.parent != nil {
		r = &r.parent.object
	}
	return r
}

func (o *object) CollisionGroups() []int {
	return append([]int(nil), o.root().collisionGroups...)
}

func (o *object) PrimaryCollisionGroup() int {
	r := o.root()
	if len(r.collisionGroups) == 0 {
		return NoGroup
	}
	return r.collisionGroups[0]
}

// SetPrimaryCollisionGroup moves id to the front of the object's own list.
// Group members report their root's groups, so the call is ignored for them.
func (o *object) SetPrimaryCollisionGroup(id int) {
	if id == NoGroup || o.parent != nil {
		return
	}
	o.RemoveFromCollisionGroup(id)
	o.collisionGroups = append([]int{id}, o.collisionGroups...)
}

func (o *object) AddToCollisionGroup(id int) {
	if id == NoGroup || o.inOwnGroup(id) {
		return
	}
	o.collisionGroups = append(o.collisionGroups, id)
}

func (o *object) RemoveFromCollisionGroup(id int) {
	kept := o.collisionGroups[:0]
	for _, g := range o.collisionGroups {
		if g != id {
			kept = append(kept, g)
		}
	}
	o.collisionGroups = kept
}

func (o *object) inOwnGroup(id int) bool {
	for _, g := range o.collisionGroups {
		if g == id {
			return true
		}
	}
	return false
}

func (o *object) IsInCollisionGroup(id int) bool {
	return o.root().inOwnGroup(id)
}

// GroupingLevel returns the number of groups above the object.
func (o *object) GroupingLevel() int {
	level := 0
	for p := o.parent; p != nil; p = p.parent {
		level++
	}
	return level
}

func conjugate(q rl.Quaternion) rl.Quaternion {
	return rl.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// normalize returns q scaled to unit length, or identity for a zero quaternion.
func normalize(q rl.Quaternion) rl.Quaternion {
	if q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0 {
		return rl.QuaternionIdentity()
	}
	return rl.QuaternionNormalize(q)
}
