package geometry

import (
	"math"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: rl.Vector3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32},
		Max: rl.Vector3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32},
	}
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3Scale(size, 0.5)
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// IsEmpty reports whether the box has never been extended.
func (a AABB) IsEmpty() bool {
	return a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Extend grows the box to include p.
func (a AABB) Extend(p rl.Vector3) AABB {
	return AABB{Min: vector3Min(a.Min, p), Max: vector3Max(a.Max, p)}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return AABB{Min: vector3Min(a.Min, b.Min), Max: vector3Max(a.Max, b.Max)}
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Size() rl.Vector3 {
	return rl.Vector3Subtract(a.Max, a.Min)
}

func (a AABB) HalfSize() rl.Vector3 {
	return rl.Vector3Scale(a.Size(), 0.5)
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Corners returns the eight corners of the box.
func (a AABB) Corners() [8]rl.Vector3 {
	return [8]rl.Vector3{
		{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
	}
}

// DistanceOutside returns the distance from p to the box when p is outside,
// and the negated distance to the nearest face when p is inside.
func (a AABB) DistanceOutside(p rl.Vector3) float32 {
	if a.Contains(p) {
		d := p.X - a.Min.X
		d = math32.Min(d, a.Max.X-p.X)
		d = math32.Min(d, p.Y-a.Min.Y)
		d = math32.Min(d, a.Max.Y-p.Y)
		d = math32.Min(d, p.Z-a.Min.Z)
		d = math32.Min(d, a.Max.Z-p.Z)
		return -d
	}
	dx := math32.Max(math32.Max(a.Min.X-p.X, 0), p.X-a.Max.X)
	dy := math32.Max(math32.Max(a.Min.Y-p.Y, 0), p.Y-a.Max.Y)
	dz := math32.Max(math32.Max(a.Min.Z-p.Z, 0), p.Z-a.Max.Z)
	return math32.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Transform returns the world box enclosing a after rotating by orient and
// translating by pos.
func (a AABB) Transform(pos rl.Vector3, orient rl.Quaternion) AABB {
	if a.IsEmpty() {
		return a
	}
	out := EmptyAABB()
	for _, c := range a.Corners() {
		out = out.Extend(rl.Vector3Add(pos, rl.Vector3RotateByQuaternion(c, orient)))
	}
	return out
}

func getAxisValue(v rl.Vector3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func vector3Min(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: math32.Min(a.X, b.X),
		Y: math32.Min(a.Y, b.Y),
		Z: math32.Min(a.Z, b.Z),
	}
}

func vector3Max(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{
		X: math32.Max(a.X, b.X),
		Y: math32.Max(a.Y, b.Y),
		Z: math32.Max(a.Z, b.Z),
	}
}
