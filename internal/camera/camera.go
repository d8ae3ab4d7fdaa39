package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OrbitCamera circles a target point. Yaw and pitch are in degrees.
type OrbitCamera struct {
	Target    rl.Vector3
	Distance  float32
	Yaw       float32
	Pitch     float32
	LookSpeed float32
	ZoomSpeed float32

	MinDistance float32
	MaxDistance float32
}

func New(target rl.Vector3, distance float32) *OrbitCamera {
	return &OrbitCamera{
		Target:      target,
		Distance:    distance,
		Yaw:         -135.0,
		Pitch:       -30.0,
		LookSpeed:   0.3,
		ZoomSpeed:   0.1,
		MinDistance: 5,
		MaxDistance: 5000,
	}
}

// Update orbits while the right mouse button is held and zooms with the
// wheel.
func (c *OrbitCamera) Update() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		c.Orbit(d.X*c.LookSpeed, -d.Y*c.LookSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(1 - wheel*c.ZoomSpeed)
	}
}

// Orbit turns the view, clamping pitch short of the poles.
func (c *OrbitCamera) Orbit(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = min(max(c.Pitch+dpitch, -89), 89)
}

// Zoom scales the distance to the target.
func (c *OrbitCamera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance = min(max(c.Distance*factor, c.MinDistance), c.MaxDistance)
}

// Forward is the viewing direction.
func (c *OrbitCamera) Forward() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180
	return rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
}

// Directions returns the horizontal forward and right vectors, used to move
// things relative to the view.
func (c *OrbitCamera) Directions() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	forward = rl.Vector3{
		X: float32(math.Cos(yawRad)),
		Z: float32(math.Sin(yawRad)),
	}
	right = rl.Vector3{
		X: float32(-math.Sin(yawRad)),
		Z: float32(math.Cos(yawRad)),
	}
	return
}

func (c *OrbitCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   rl.Vector3Subtract(c.Target, rl.Vector3Scale(c.Forward(), c.Distance)),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
