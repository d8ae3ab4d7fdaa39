package world

import (
	"sketchbio/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	frustumNear float32 = 0.1
	frustumFar  float32 = 5000.0
)

// Frustum represents the 6 planes of a view frustum for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane represents a plane in 3D space (ax + by + cz + d = 0)
type Plane struct {
	normal   rl.Vector3
	distance float32
}

// ExtractFrustum builds the frustum of camera for a viewport of the given
// aspect ratio.
func ExtractFrustum(camera rl.Camera3D, aspect float32) Frustum {
	view := rl.MatrixLookAt(camera.Position, camera.Target, camera.Up)

	var proj rl.Matrix
	if camera.Projection == rl.CameraPerspective {
		proj = rl.MatrixPerspective(camera.Fovy*rl.Deg2rad, aspect, frustumNear, frustumFar)
	} else {
		halfH := camera.Fovy / 2.0
		halfW := halfH * aspect
		proj = rl.MatrixOrtho(-halfW, halfW, -halfH, halfH, frustumNear, frustumFar)
	}

	return FrustumFromMatrix(rl.MatrixMultiply(view, proj))
}

// FrustumFromMatrix extracts the planes of a view-projection matrix
// (Gribb/Hartmann).
func FrustumFromMatrix(vp rl.Matrix) Frustum {
	row4 := rl.Vector3{X: vp.M3, Y: vp.M7, Z: vp.M11}
	rows := [3]rl.Vector3{
		{X: vp.M0, Y: vp.M4, Z: vp.M8},
		{X: vp.M1, Y: vp.M5, Z: vp.M9},
		{X: vp.M2, Y: vp.M6, Z: vp.M10},
	}
	offsets := [3]float32{vp.M12, vp.M13, vp.M14}

	var f Frustum
	for i := range rows {
		f.planes[2*i] = normalizePlane(Plane{
			normal:   rl.Vector3Add(row4, rows[i]),
			distance: vp.M15 + offsets[i],
		})
		f.planes[2*i+1] = normalizePlane(Plane{
			normal:   rl.Vector3Subtract(row4, rows[i]),
			distance: vp.M15 - offsets[i],
		})
	}
	return f
}

func normalizePlane(p Plane) Plane {
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	return Plane{
		normal:   rl.Vector3Scale(p.normal, 1.0/length),
		distance: p.distance / length,
	}
}

// ContainsPoint tests if a point is inside the frustum
func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	for i := 0; i < 6; i++ {
		dist := rl.Vector3DotProduct(f.planes[i].normal, point) + f.planes[i].distance
		if dist < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether any part of box may be visible. For each plane
// only the corner furthest along the plane normal is tested.
func (f *Frustum) ContainsAABB(box geometry.AABB) bool {
	if box.IsEmpty() {
		return false
	}
	for i := 0; i < 6; i++ {
		n := f.planes[i].normal
		p := box.Min
		if n.X >= 0 {
			p.X = box.Max.X
		}
		if n.Y >= 0 {
			p.Y = box.Max.Y
		}
		if n.Z >= 0 {
			p.Z = box.Max.Z
		}
		if rl.Vector3DotProduct(n, p)+f.planes[i].distance < 0 {
			return false
		}
	}
	return true
}
