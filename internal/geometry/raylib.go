package geometry

import (
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// TrianglesFromRaylibModel extracts model-space triangles from every mesh of a
// loaded raylib model. The model must still be resident in CPU memory.
func TrianglesFromRaylibModel(model rl.Model) []Triangle {
	if model.MeshCount == 0 || model.Meshes == nil {
		return nil
	}

	var tris []Triangle
	meshes := unsafe.Slice(model.Meshes, model.MeshCount)

	for _, mesh := range meshes {
		if mesh.Vertices == nil {
			continue
		}
		vertices := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
		vertex := func(i int32) rl.Vector3 {
			return rl.Vector3{X: vertices[i*3+0], Y: vertices[i*3+1], Z: vertices[i*3+2]}
		}

		if mesh.Indices != nil {
			// Indexed mesh
			indices := unsafe.Slice(mesh.Indices, mesh.TriangleCount*3)
			for i := int32(0); i < mesh.TriangleCount; i++ {
				tris = append(tris, NewTriangle(
					vertex(int32(indices[i*3+0])),
					vertex(int32(indices[i*3+1])),
					vertex(int32(indices[i*3+2])),
				))
			}
			continue
		}

		// Non-indexed mesh (every 3 vertices = 1 triangle)
		for i := int32(0); i < mesh.VertexCount/3; i++ {
			tris = append(tris, NewTriangle(vertex(i*3), vertex(i*3+1), vertex(i*3+2)))
		}
	}
	return tris
}
