package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// parallelEpsilon rejects segments lying in the triangle's plane.
const parallelEpsilon = 1e-10

// trianglesIntersect reports whether two triangles cross. Two non-coplanar
// triangles intersect exactly when an edge of one pierces the other, so each
// edge is tested against the opposite triangle. Coplanar overlap is not
// reported.
func trianglesIntersect(a, b [3]rl.Vector3) bool {
	for i := 0; i < 3; i++ {
		if segmentHitsTriangle(a[i], a[(i+1)%3], b) {
			return true
		}
	}
	for i := 0; i < 3; i++ {
		if segmentHitsTriangle(b[i], b[(i+1)%3], a) {
			return true
		}
	}
	return false
}

// segmentHitsTriangle is the Möller–Trumbore ray test clamped to the segment
// p0-p1.
func segmentHitsTriangle(p0, p1 rl.Vector3, tri [3]rl.Vector3) bool {
	e1 := rl.Vector3Subtract(tri[1], tri[0])
	e2 := rl.Vector3Subtract(tri[2], tri[0])
	d := rl.Vector3Subtract(p1, p0)

	h := rl.Vector3CrossProduct(d, e2)
	det := rl.Vector3DotProduct(e1, h)
	if math32.Abs(det) < parallelEpsilon {
		return false
	}
	inv := 1 / det

	s := rl.Vector3Subtract(p0, tri[0])
	u := inv * rl.Vector3DotProduct(s, h)
	if u < 0 || u > 1 {
		return false
	}
	q := rl.Vector3CrossProduct(s, e1)
	v := inv * rl.Vector3DotProduct(d, q)
	if v < 0 || u+v > 1 {
		return false
	}
	t := inv * rl.Vector3DotProduct(e2, q)
	return t >= 0 && t <= 1
}
