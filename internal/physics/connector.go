package physics

import (
	"sketchbio/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Epsilon is the shortest connector length that still has a direction.
const Epsilon = 1e-6

// Endpoint is one end of a connector. With a nil Object, Point is a fixed
// world point; otherwise it is an attachment point in the object's model
// space.
type Endpoint struct {
	Object engine.SceneObject
	Point  rl.Vector3
}

func (e Endpoint) Fixed() bool { return e.Object == nil }

func (e Endpoint) WorldPosition() rl.Vector3 {
	if e.Object == nil {
		return e.Point
	}
	return e.Object.ModelPointToWorld(e.Point)
}

func (e *Endpoint) setWorldPosition(p rl.Vector3) {
	if e.Object == nil {
		e.Point = p
		return
	}
	e.Point = e.Object.WorldPointToModel(p)
}

// setObject swaps the attached object, keeping the endpoint where it is in
// world space.
func (e *Endpoint) setObject(obj engine.SceneObject) {
	w := e.WorldPosition()
	e.Object = obj
	e.setWorldPosition(w)
}

// Connector is a spring with a dead band: it pulls or pushes only while its
// length is outside [MinRestLength, MaxRestLength].
type Connector struct {
	End1, End2    Endpoint
	Stiffness     float32
	MinRestLength float32
	MaxRestLength float32
}

// NewConnector joins o1 and o2 (either may be nil for a fixed point). When
// worldRelative is set, p1 and p2 are world positions and are converted into
// each object's model space.
func NewConnector(o1, o2 engine.SceneObject, p1, p2 rl.Vector3, worldRelative bool, k, minRest, maxRest float32) *Connector {
	c := &Connector{
		End1:          Endpoint{Object: o1, Point: p1},
		End2:          Endpoint{Object: o2, Point: p2},
		Stiffness:     max(k, 0),
		MinRestLength: min(minRest, maxRest),
		MaxRestLength: max(minRest, maxRest),
	}
	if worldRelative {
		c.End1.setWorldPosition(p1)
		c.End2.setWorldPosition(p2)
	}
	return c
}

// NewSpring is a connector with a single rest length.
func NewSpring(o1, o2 engine.SceneObject, p1, p2 rl.Vector3, worldRelative bool, k, rest float32) *Connector {
	return NewConnector(o1, o2, p1, p2, worldRelative, k, rest, rest)
}

// AddForce accumulates the spring force on both attached objects and reports
// whether any force was applied. Connectors whose ends share an object, whose
// ends coincide, or whose length is inside the rest band do nothing.
func (c *Connector) AddForce() bool {
	if c.End1.Object == c.End2.Object {
		return false
	}
	end1, end2 := c.End1.WorldPosition(), c.End2.WorldPosition()
	diff := rl.Vector3Subtract(end2, end1)
	length := rl.Vector3Length(diff)
	if length < Epsilon {
		return false
	}

	var displacement float32
	switch {
	case length < c.MinRestLength:
		displacement = c.MinRestLength - length
	case length > c.MaxRestLength:
		displacement = c.MaxRestLength - length
	}
	if displacement == 0 || c.Stiffness == 0 {
		return false
	}

	f2 := rl.Vector3Scale(diff, displacement*c.Stiffness/length)
	f1 := rl.Vector3Negate(f2)
	if c.End1.Object != nil {
		c.End1.Object.AddForce(c.End1.Point, f1)
	}
	if c.End2.Object != nil {
		c.End2.Object.AddForce(c.End2.Point, f2)
	}
	return true
}

func (c *Connector) End1WorldPosition() rl.Vector3 { return c.End1.WorldPosition() }

func (c *Connector) End2WorldPosition() rl.Vector3 { return c.End2.WorldPosition() }

func (c *Connector) SetEnd1WorldPosition(p rl.Vector3) { c.End1.setWorldPosition(p) }

func (c *Connector) SetEnd2WorldPosition(p rl.Vector3) { c.End2.setWorldPosition(p) }

// SetObject1 reattaches end 1 to obj at the end's current world position.
func (c *Connector) SetObject1(obj engine.SceneObject) { c.End1.setObject(obj) }

// SetObject2 reattaches end 2 to obj at the end's current world position.
func (c *Connector) SetObject2(obj engine.SceneObject) { c.End2.setObject(obj) }

func (c *Connector) Object1() engine.SceneObject { return c.End1.Object }

func (c *Connector) Object2() engine.SceneObject { return c.End2.Object }

// Length is the current world distance between the two ends.
func (c *Connector) Length() float32 {
	return rl.Vector3Distance(c.End1WorldPosition(), c.End2WorldPosition())
}

// Touches reports whether either end is attached to obj or to something
// inside obj.
func (c *Connector) Touches(obj engine.SceneObject) bool {
	return endTouches(c.End1.Object, obj) || endTouches(c.End2.Object, obj)
}

func endTouches(end, obj engine.SceneObject) bool {
	if end == nil || obj == nil {
		return false
	}
	if end == obj {
		return true
	}
	g, ok := obj.(*engine.Group)
	return ok && g.Contains(end)
}

// distanceToPoint returns the distance from p to the segment and whether the
// closest point lies in the half nearer end 1.
func (c *Connector) distanceToPoint(p rl.Vector3) (float32, bool) {
	a, b := c.End1WorldPosition(), c.End2WorldPosition()
	seg := rl.Vector3Subtract(b, a)
	rel := rl.Vector3Subtract(p, a)
	lenSq := rl.Vector3DotProduct(seg, seg)
	if lenSq == 0 {
		return rl.Vector3Length(rel), true
	}
	proj := rl.Vector3DotProduct(rel, seg) / lenSq
	switch {
	case proj < 0:
		return rl.Vector3Length(rel), true
	case proj > 1:
		return rl.Vector3Distance(p, b), false
	}
	return rl.Vector3Length(rl.Vector3Subtract(rel, rl.Vector3Scale(seg, proj))), proj < 0.5
}
