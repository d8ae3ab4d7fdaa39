package geometry

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var unitAxes = [3]rl.Vector3{{X: 1}, {Y: 1}, {Z: 1}}

// boxFaces lists (normal axis, sign, u axis, v axis) with u x v == sign*normal.
var boxFaces = [6]struct {
	n    int
	sign float32
	u, v int
}{
	{0, 1, 1, 2},
	{0, -1, 2, 1},
	{1, 1, 2, 0},
	{1, -1, 0, 2},
	{2, 1, 0, 1},
	{2, -1, 1, 0},
}

// BoxTriangles returns the 12 outward-wound triangles of a box of the given
// full size centered on the origin.
func BoxTriangles(size rl.Vector3) []Triangle {
	half := rl.Vector3Scale(size, 0.5)
	h := [3]float32{half.X, half.Y, half.Z}

	tris := make([]Triangle, 0, 12)
	for _, f := range boxFaces {
		center := rl.Vector3Scale(unitAxes[f.n], f.sign*h[f.n])
		u := rl.Vector3Scale(unitAxes[f.u], h[f.u])
		v := rl.Vector3Scale(unitAxes[f.v], h[f.v])

		a := rl.Vector3Subtract(rl.Vector3Subtract(center, u), v)
		b := rl.Vector3Subtract(rl.Vector3Add(center, u), v)
		c := rl.Vector3Add(rl.Vector3Add(center, u), v)
		d := rl.Vector3Add(rl.Vector3Subtract(center, u), v)

		tris = append(tris, NewTriangle(a, b, c), NewTriangle(a, c, d))
	}
	return tris
}

// SphereTriangles tessellates a UV sphere. Triangles collapsing at the poles
// are skipped.
func SphereTriangles(radius float32, rings, segments int) []Triangle {
	rings = max(rings, 2)
	segments = max(segments, 3)

	point := func(i, j int) rl.Vector3 {
		theta := math32.Pi * float32(i) / float32(rings)
		phi := 2 * math32.Pi * float32(j%segments) / float32(segments)
		st, ct := math32.Sincos(theta)
		sp, cp := math32.Sincos(phi)
		return rl.Vector3{X: radius * st * cp, Y: radius * ct, Z: radius * st * sp}
	}

	var tris []Triangle
	add := func(a, b, c rl.Vector3) {
		t := NewTriangle(a, b, c)
		if t.Degenerate() {
			return
		}
		// keep the winding outward
		if rl.Vector3DotProduct(t.Normal, t.Centroid()) < 0 {
			t = NewTriangle(a, c, b)
		}
		tris = append(tris, t)
	}

	for i := 0; i < rings; i++ {
		for j := 0; j < segments; j++ {
			p00 := point(i, j)
			p10 := point(i+1, j)
			p11 := point(i+1, j+1)
			p01 := point(i, j+1)
			add(p00, p10, p11)
			add(p00, p11, p01)
		}
	}
	return tris
}

// Translate returns a copy of tris moved by offset.
func Translate(tris []Triangle, offset rl.Vector3) []Triangle {
	out := make([]Triangle, len(tris))
	for i, t := range tris {
		out[i] = Triangle{
			V0:     rl.Vector3Add(t.V0, offset),
			V1:     rl.Vector3Add(t.V1, offset),
			V2:     rl.Vector3Add(t.V2, offset),
			Normal: t.Normal,
		}
	}
	return out
}
