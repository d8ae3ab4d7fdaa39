package physics

import (
	"sketchbio/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pitchfork geometry: each grab spring runs from a point this far out on the
// tracker to the same world point on the grabbed object, spaced 120° apart
// around the tracker's Y axis. The zero rest length locks the relative pose.
const (
	pitchforkTrackerArm = 200
	pitchforkObjectArm  = 200
	pitchforkSprings    = 3
)

// GrabState is what a hand is currently holding.
type GrabState int

const (
	GrabNothing GrabState = iota
	GrabObject
	GrabConnector
)

func (s GrabState) String() string {
	switch s {
	case GrabNothing:
		return "nothing"
	case GrabObject:
		return "object"
	case GrabConnector:
		return "connector"
	}
	return "unknown"
}

// Hand drives one tracker. Grabbing an object registers three springs between
// the tracker and the object as the world's hand connectors for that side;
// grabbing a connector moves its nearer end onto the tracker.
type Hand struct {
	side    Side
	world   *PhysicsWorld
	tracker *engine.Instance

	state     GrabState
	grabbed   engine.ObjectRef
	springs   []*Connector
	stiffness float32

	nearestObject     engine.SceneObject
	objectDistance    float32
	nearestConnector  *Connector
	connectorDistance float32
	closerToEnd1      bool
}

// NewHand creates a hand whose tracker starts at the origin. The tracker is a
// model-less instance and never joins the world.
func NewHand(world *PhysicsWorld, side Side) *Hand {
	return &Hand{
		side:      side,
		world:     world,
		tracker:   engine.NewInstance(side.String()+" tracker", nil),
		stiffness: world.Config().HandSpringStiffness,
	}
}

func (h *Hand) Side() Side { return h.side }

func (h *Hand) Tracker() *engine.Instance { return h.tracker }

func (h *Hand) State() GrabState { return h.state }

// Grabbed returns the held object, or nil when no object is held or the held
// object has left the world.
func (h *Hand) Grabbed() engine.SceneObject { return h.grabbed.Get(h.world.scene) }

// Springs returns the live grab springs.
func (h *Hand) Springs() []*Connector { return h.springs }

// SetTrackerPose moves the tracker. Grab springs follow automatically since
// they are attached to it.
func (h *Hand) SetTrackerPose(pos rl.Vector3, orient rl.Quaternion) {
	h.tracker.SetPosAndOrient(pos, orient)
	// The tracker never integrates, so whatever the springs pushed on it is
	// discarded here.
	h.tracker.ClearForces()
}

// SetStiffness updates the grab springs in place.
func (h *Hand) SetStiffness(k float32) {
	h.stiffness = max(k, 0)
	for _, s := range h.springs {
		s.Stiffness = h.stiffness
	}
}

func (h *Hand) Stiffness() float32 { return h.stiffness }

// ComputeNearest refreshes the nearest object and connector to the tracker.
// While something is held the corresponding choice is frozen.
func (h *Hand) ComputeNearest() {
	if h.state == GrabObject && h.Grabbed() == nil {
		h.Release()
	}
	pos := h.tracker.Position()
	if h.state == GrabNothing && h.world.NumConnectors() > 0 {
		h.nearestConnector, h.connectorDistance, h.closerToEnd1 = h.world.ClosestConnector(pos)
	}
	if h.state != GrabObject && h.world.NumObjects() > 0 {
		// Once a member of a group is selected, keep searching among its
		// siblings while the tracker stays inside.
		if h.nearestObject != nil && h.nearestObject.Parent() != nil &&
			h.objectDistance < h.world.Config().GrabDistanceThreshold {
			h.nearestObject, h.objectDistance = ClosestObjectIn(h.nearestObject.Parent().Children(), pos)
		} else {
			h.nearestObject, h.objectDistance = h.world.ClosestObject(pos)
		}
	}
}

// NearestObject returns the last computed nearest object and its distance.
func (h *Hand) NearestObject() (engine.SceneObject, float32) {
	return h.nearestObject, h.objectDistance
}

// NearestConnector returns the last computed nearest connector.
func (h *Hand) NearestConnector() (*Connector, float32, bool) {
	return h.nearestConnector, h.connectorDistance, h.closerToEnd1
}

// SelectSubObject narrows the selection to the nearest member of the selected
// group.
func (h *Hand) SelectSubObject() bool {
	g, ok := h.nearestObject.(*engine.Group)
	if !ok || h.state == GrabObject || g.Len() == 0 {
		return false
	}
	h.nearestObject, h.objectDistance = ClosestObjectIn(g.Children(), h.tracker.Position())
	return true
}

// SelectParent widens the selection to the group holding the selected object.
func (h *Hand) SelectParent() bool {
	if h.nearestObject == nil || h.nearestObject.Parent() == nil || h.state == GrabObject {
		return false
	}
	h.nearestObject = h.nearestObject.Parent()
	return true
}

// GrabNearestObject grabs the current nearest object if the tracker is within
// the grab threshold of it.
func (h *Hand) GrabNearestObject() bool {
	if h.state != GrabNothing || h.nearestObject == nil ||
		h.objectDistance >= h.world.Config().GrabDistanceThreshold {
		return false
	}
	return h.GrabObject(h.nearestObject)
}

// GrabObject attaches the three pitchfork springs between tracker and obj.
func (h *Hand) GrabObject(obj engine.SceneObject) bool {
	if h.state != GrabNothing || obj == nil {
		return false
	}
	h.springs = h.springs[:0]
	arm := rl.Vector3{X: pitchforkTrackerArm}
	objArm := rl.Vector3{X: pitchforkObjectArm}
	step := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 2*rl.Pi/pitchforkSprings)
	rest := float32(pitchforkTrackerArm - pitchforkObjectArm)
	for range pitchforkSprings {
		world := h.tracker.ModelPointToWorld(objArm)
		s := NewSpring(h.tracker, obj, arm, obj.WorldPointToModel(world), false, h.stiffness, rest)
		h.springs = append(h.springs, s)
		h.world.AddHandConnector(h.side, s)
		arm = rl.Vector3RotateByQuaternion(arm, step)
		objArm = rl.Vector3RotateByQuaternion(objArm, step)
	}
	h.state = GrabObject
	h.grabbed.Set(obj)
	return true
}

// GrabNearestConnector moves the nearer end of the nearest connector onto the
// tracker origin.
func (h *Hand) GrabNearestConnector() bool {
	if h.state != GrabNothing || h.nearestConnector == nil ||
		h.connectorDistance >= h.world.Config().ConnectorGrabDistance {
		return false
	}
	c := h.nearestConnector
	if h.closerToEnd1 {
		c.End1 = Endpoint{Object: h.tracker}
	} else {
		c.End2 = Endpoint{Object: h.tracker}
	}
	h.state = GrabConnector
	return true
}

// Release lets go of whatever is held. A held connector end is dropped onto
// the nearest object when the tracker is within the grab threshold of it, and
// becomes a fixed point otherwise.
func (h *Hand) Release() {
	switch h.state {
	case GrabObject:
		h.world.ClearHandConnectors(h.side)
		h.springs = h.springs[:0]
		h.grabbed.Clear()
	case GrabConnector:
		var target engine.SceneObject
		if h.nearestObject != nil && h.objectDistance < h.world.Config().GrabDistanceThreshold {
			target = h.nearestObject
		}
		if h.closerToEnd1 {
			h.nearestConnector.SetObject1(target)
		} else {
			h.nearestConnector.SetObject2(target)
		}
	}
	h.state = GrabNothing
}
