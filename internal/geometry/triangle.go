package geometry

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Triangle is a model-space triangle with a precomputed outward normal.
// Vertices are wound counter-clockwise when seen from outside the surface.
type Triangle struct {
	V0, V1, V2 rl.Vector3
	Normal     rl.Vector3
}

// NewTriangle computes the unit normal from the winding.
func NewTriangle(v0, v1, v2 rl.Vector3) Triangle {
	edge1 := rl.Vector3Subtract(v1, v0)
	edge2 := rl.Vector3Subtract(v2, v0)
	normal := rl.Vector3Normalize(rl.Vector3CrossProduct(edge1, edge2))
	return Triangle{V0: v0, V1: v1, V2: v2, Normal: normal}
}

func (t Triangle) Centroid() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(t.V0, t.V1), t.V2), 1.0/3.0)
}

func (t Triangle) Bounds() AABB {
	return EmptyAABB().Extend(t.V0).Extend(t.V1).Extend(t.V2)
}

// Vertices returns the corners in winding order.
func (t Triangle) Vertices() [3]rl.Vector3 {
	return [3]rl.Vector3{t.V0, t.V1, t.V2}
}

// Degenerate reports whether the triangle has no area.
func (t Triangle) Degenerate() bool {
	area := rl.Vector3CrossProduct(rl.Vector3Subtract(t.V1, t.V0), rl.Vector3Subtract(t.V2, t.V0))
	return rl.Vector3DotProduct(area, area) < 1e-12
}
