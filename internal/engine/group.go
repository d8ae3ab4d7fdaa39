package engine

import (
	"sketchbio/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Group is a composite rigid body. Its position is kept at the mean of its
// direct children's world positions; its orientation is stored and starts as
// identity. Children are expressed relative to the group frame.
type Group struct {
	object
	children []SceneObject
}

func NewGroup(name string) *Group {
	return &Group{object: newObject(name)}
}

func (g *Group) Kind() Kind { return KindGroup }

// Children returns the direct members in insertion order. The slice must not
// be modified.
func (g *Group) Children() []SceneObject { return g.children }

func (g *Group) Len() int { return len(g.children) }

// AddObject makes obj a member while keeping its world pose. It returns false
// and changes nothing when obj is nil, already has a parent, or is the group
// itself or one of its ancestors.
// A Scene does not notice the move: take obj out of any scene listing it at
// the top level first, or use PhysicsWorld.MoveIntoGroup.
func (g *Group) AddObject(obj SceneObject) bool {
	if obj == nil || obj.Parent() != nil {
		return false
	}
	for p := g; p != nil; p = p.parent {
		if obj.base() == &p.object {
			return false
		}
	}

	pos, orient := obj.Position(), obj.Orientation()
	b := obj.base()
	b.parent = g
	b.propagateForce = true
	g.children = append(g.children, obj)
	b.setWorldPose(pos, orient)

	g.recenter()
	return true
}

// RemoveObject detaches a direct member, leaving it at its current world pose.
// Objects that are not direct members are ignored.
func (g *Group) RemoveObject(obj SceneObject) bool {
	if obj == nil {
		return false
	}
	for i, c := range g.children {
		if c != obj {
			continue
		}
		pos, orient := obj.Position(), obj.Orientation()
		g.children = append(g.children[:i:i], g.children[i+1:]...)

		b := obj.base()
		b.parent = nil
		b.propagateForce = false
		b.position = pos
		b.orientation = orient

		g.recenter()
		return true
	}
	return false
}

// Contains reports whether obj is a member at any depth.
func (g *Group) Contains(obj SceneObject) bool {
	for _, c := range g.children {
		if c == obj {
			return true
		}
		if sub, ok := c.(*Group); ok && sub.Contains(obj) {
			return true
		}
	}
	return false
}

// Walk calls fn for every member at any depth, parents before children.
func (g *Group) Walk(fn func(SceneObject)) {
	for _, c := range g.children {
		fn(c)
		if sub, ok := c.(*Group); ok {
			sub.Walk(fn)
		}
	}
}

// recenter moves the group origin to the centroid of its children and
// re-expresses every child so that no child moves in world space. Ancestors
// are recentered in turn since this group's position fed their centroid.
func (g *Group) recenter() {
	n := len(g.children)
	if n == 0 {
		return
	}

	type worldPose struct {
		pos    rl.Vector3
		orient rl.Quaternion
	}
	poses := make([]worldPose, n)
	var sum rl.Vector3
	for i, c := range g.children {
		poses[i] = worldPose{c.Position(), c.Orientation()}
		sum = rl.Vector3Add(sum, poses[i].pos)
	}
	mean := rl.Vector3Scale(sum, 1/float32(n))

	g.setWorldPose(mean, g.Orientation())
	for i, c := range g.children {
		c.base().setWorldPose(poses[i].pos, poses[i].orient)
	}

	if g.parent != nil {
		g.parent.recenter()
	}
}

// ClearForces zeroes the accumulators of the group and all members.
func (g *Group) ClearForces() {
	g.clearOwnForces()
	for _, c := range g.children {
		c.ClearForces()
	}
}

func (g *Group) NumInstances() int {
	n := 0
	for _, c := range g.children {
		n += c.NumInstances()
	}
	return n
}

func (g *Group) InverseMass() float32 { return geometry.DefaultInverseMass }

func (g *Group) InverseMomentOfInertia() float32 { return geometry.DefaultInverseMoment }

// WorldBounds is the union of the members' world boxes.
func (g *Group) WorldBounds() geometry.AABB {
	if len(g.children) == 0 {
		pos := g.Position()
		return geometry.AABB{Min: pos, Max: pos}
	}
	out := geometry.EmptyAABB()
	for _, c := range g.children {
		out = out.Union(c.WorldBounds())
	}
	return out
}

// DeepCopy duplicates the group and every member with fresh UIDs. The copy is
// unparented, sits at the original's world pose and has no collision groups.
func (g *Group) DeepCopy() *Group {
	cp := NewGroup(g.name)
	cp.position = g.Position()
	cp.orientation = g.Orientation()
	cp.lastPosition = g.lastPosition
	cp.lastOrientation = g.lastOrientation

	for _, c := range g.children {
		var dup SceneObject
		switch v := c.(type) {
		case *Instance:
			dup = v.Copy()
		case *Group:
			dup = v.DeepCopy()
		}
		b := dup.base()
		b.parent = cp
		b.position = c.LocalPosition()
		b.orientation = c.LocalOrientation()
		b.propagateForce = c.PropagatesForceToParent()
		cp.children = append(cp.children, dup)
	}
	return cp
}

// Copy duplicates any scene object.
func Copy(obj SceneObject) SceneObject {
	switch v := obj.(type) {
	case *Instance:
		return v.Copy()
	case *Group:
		return v.DeepCopy()
	}
	return nil
}
