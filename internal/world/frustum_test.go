package world

import (
	"testing"

	"sketchbio/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
)

func TestFrustumCulling(t *testing.T) {
	camera := rl.Camera3D{
		Position:   rl.Vector3{Z: 100},
		Target:     rl.Vector3{},
		Up:         rl.Vector3{Y: 1},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	f := ExtractFrustum(camera, 16.0/9.0)

	box := func(x, y, z float32) geometry.AABB {
		return geometry.NewAABBFromCenter(rl.Vector3{X: x, Y: y, Z: z}, rl.Vector3{X: 10, Y: 10, Z: 10})
	}

	assert.True(t, f.ContainsPoint(rl.Vector3{}))
	assert.True(t, f.ContainsAABB(box(0, 0, 0)), "box at the target")
	assert.False(t, f.ContainsAABB(box(0, 0, 200)), "box behind the camera")
	assert.False(t, f.ContainsAABB(box(500, 0, 0)), "box far to the side")
	assert.False(t, f.ContainsAABB(box(0, 0, -6000)), "box past the far plane")
	assert.False(t, f.ContainsAABB(geometry.EmptyAABB()))

	// Straddling the left edge of the view still counts as visible.
	assert.True(t, f.ContainsAABB(geometry.AABB{
		Min: rl.Vector3{X: -500, Y: -1, Z: -1},
		Max: rl.Vector3{X: 0, Y: 1, Z: 1},
	}))
}

func TestFrustumOrthographic(t *testing.T) {
	camera := rl.Camera3D{
		Position:   rl.Vector3{Y: 100},
		Target:     rl.Vector3{},
		Up:         rl.Vector3{Z: -1},
		Fovy:       40,
		Projection: rl.CameraOrthographic,
	}
	f := ExtractFrustum(camera, 1)

	assert.True(t, f.ContainsPoint(rl.Vector3{X: 19, Z: 19}))
	assert.False(t, f.ContainsPoint(rl.Vector3{X: 21}))
}
