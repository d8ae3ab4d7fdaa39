package physics

import (
	"sketchbio/internal/geometry"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // center in the frame the test runs in
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB wraps an axis-aligned box that lives in a frame rotated by orient and
// offset by translation relative to the test frame.
func NewOBB(box geometry.AABB, orient rl.Quaternion, translation rl.Vector3) OBB {
	return OBB{
		Center:   rl.Vector3Add(rl.Vector3RotateByQuaternion(box.Center(), orient), translation),
		HalfSize: box.HalfSize(),
		Axes: [3]rl.Vector3{
			rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, orient),
			rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, orient),
			rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, orient),
		},
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(box geometry.AABB) OBB {
	return OBB{
		Center:   box.Center(),
		HalfSize: box.HalfSize(),
		Axes: [3]rl.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	t := rl.Vector3Subtract(b.Center, a.Center)

	// 15 axes: 3 face normals of each box and 9 edge cross products.
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, a.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				axis = rl.Vector3Normalize(axis)
				if !overlapOnAxis(a, b, axis, t) {
					return false
				}
			}
		}
	}

	return true
}

// overlapOnAxis checks if two OBBs overlap when projected onto a given axis
func overlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	return math32.Abs(rl.Vector3DotProduct(t, axis)) <= a.projectedRadius(axis)+b.projectedRadius(axis)
}

func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*math32.Abs(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*math32.Abs(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*math32.Abs(rl.Vector3DotProduct(o.Axes[2], axis))
}
