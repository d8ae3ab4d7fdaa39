package world

import (
	"sketchbio/internal/engine"
	"sketchbio/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorConnectorSlack = rl.NewColor(120, 200, 120, 255)
	colorConnectorTaut  = rl.NewColor(230, 90, 70, 255)
	colorHandSpring     = rl.Yellow
	colorSelection      = rl.NewColor(108, 99, 255, 255)
)

// palette is indexed by an object's primary collision group.
var palette = []rl.Color{
	rl.Red, rl.Blue, rl.Green, rl.Purple, rl.Orange,
	rl.Pink, rl.SkyBlue, rl.Lime, rl.Magenta, rl.Gold,
}

// Renderer draws a physics world with raylib immediate-mode calls. It must
// be used between rl.BeginMode3D and rl.EndMode3D.
type Renderer struct {
	ShowBounds     bool
	ShowWireframe  bool
	ShowConnectors bool

	Selected engine.SceneObject

	frustum Frustum
	drawn   int
	culled  int
}

func NewRenderer() *Renderer {
	return &Renderer{ShowConnectors: true}
}

// Draw renders every instance of ps visible from camera, then its connectors
// and the springs of any active hands.
func (r *Renderer) Draw(ps *physics.PhysicsWorld, camera rl.Camera3D, aspect float32) {
	r.frustum = ExtractFrustum(camera, aspect)
	r.drawn, r.culled = 0, 0

	for obj := range ps.Objects() {
		r.drawObject(obj, obj)
	}

	if !r.ShowConnectors {
		return
	}
	for c := range ps.Connectors() {
		drawConnector(c, connectorColor(c))
	}
	for _, side := range []physics.Side{physics.RightHand, physics.LeftHand} {
		for _, c := range ps.HandConnectors(side) {
			drawConnector(c, colorHandSpring)
		}
	}
}

// Stats returns how many instances the last Draw rendered and culled.
func (r *Renderer) Stats() (drawn, culled int) {
	return r.drawn, r.culled
}

func (r *Renderer) drawObject(obj, root engine.SceneObject) {
	switch o := obj.(type) {
	case *engine.Group:
		for _, c := range o.Children() {
			r.drawObject(c, root)
		}
		if r.ShowBounds && o == r.Selected {
			drawBox(o.WorldBounds().Min, o.WorldBounds().Max, colorSelection)
		}
	case *engine.Instance:
		bounds := o.WorldBounds()
		if !r.frustum.ContainsAABB(bounds) {
			r.culled++
			return
		}
		r.drawn++
		color := colorForGroup(root.PrimaryCollisionGroup())
		if obj == r.Selected || root == r.Selected {
			color = colorSelection
		}
		r.drawInstance(o, color)
		if r.ShowBounds {
			drawBox(bounds.Min, bounds.Max, rl.Fade(color, 0.5))
		}
	}
}

func (r *Renderer) drawInstance(inst *engine.Instance, color rl.Color) {
	m := inst.Model()
	if m == nil {
		rl.DrawSphere(inst.Position(), 1, color)
		return
	}
	edge := rl.Fade(rl.Black, 0.4)
	for _, t := range m.Mesh.Triangles {
		v0 := inst.ModelPointToWorld(t.V0)
		v1 := inst.ModelPointToWorld(t.V1)
		v2 := inst.ModelPointToWorld(t.V2)
		if r.ShowWireframe {
			rl.DrawLine3D(v0, v1, color)
			rl.DrawLine3D(v1, v2, color)
			rl.DrawLine3D(v2, v0, color)
			continue
		}
		rl.DrawTriangle3D(v0, v1, v2, color)
		rl.DrawLine3D(v0, v1, edge)
	}
}

func drawConnector(c *physics.Connector, color rl.Color) {
	p1, p2 := c.End1WorldPosition(), c.End2WorldPosition()
	rl.DrawLine3D(p1, p2, color)
	rl.DrawSphere(p1, 0.5, color)
	rl.DrawSphere(p2, 0.5, color)
}

func drawBox(min, max rl.Vector3, color rl.Color) {
	rl.DrawBoundingBox(rl.BoundingBox{Min: min, Max: max}, color)
}

// connectorColor shows whether a connector is currently pulling.
func connectorColor(c *physics.Connector) rl.Color {
	l := c.Length()
	if l < c.MinRestLength || l > c.MaxRestLength {
		return colorConnectorTaut
	}
	return colorConnectorSlack
}

func colorForGroup(id int) rl.Color {
	if id < 0 {
		return rl.Gray
	}
	return palette[id%len(palette)]
}
