package physics

import (
	"sketchbio/internal/config"
	"sketchbio/internal/engine"
	"sketchbio/internal/geometry"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const eps = 1e-4

func approxVec(a, b rl.Vector3) bool {
	d := rl.Vector3Subtract(a, b)
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z < eps*eps
}

func approx(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

func boxModel(size, invMass float32) *geometry.Model {
	tris := geometry.BoxTriangles(rl.Vector3{X: size, Y: size, Z: size})
	return geometry.NewModel("box", tris, invMass, geometry.DefaultInverseMoment)
}

func boxAt(name string, model *geometry.Model, pos rl.Vector3) *engine.Instance {
	inst := engine.NewInstance(name, model)
	inst.SetPosition(pos)
	return inst
}

func testWorld(mode config.PhysicsMode) *PhysicsWorld {
	cfg := config.Default()
	cfg.Mode = mode
	return NewPhysicsWorld(cfg)
}
