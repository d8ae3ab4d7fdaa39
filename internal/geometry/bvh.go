package geometry

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxLeafTriangles = 4
	maxBVHDepth      = 20
)

// BVHNode is a node in the bounding volume hierarchy
type BVHNode struct {
	Bounds    AABB
	Left      *BVHNode
	Right     *BVHNode
	Triangles []int // indices into the triangle array (only for leaf nodes)
}

// IsLeaf reports whether the node stores triangles directly.
func (n *BVHNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Mesh is an immutable model-space triangle set with its BVH.
type Mesh struct {
	Triangles []Triangle
	Root      *BVHNode
}

// BuildMesh copies tris and builds the hierarchy. Degenerate triangles are
// dropped since they carry no normal.
func BuildMesh(tris []Triangle) *Mesh {
	m := &Mesh{Triangles: make([]Triangle, 0, len(tris))}
	for _, t := range tris {
		if t.Degenerate() {
			continue
		}
		m.Triangles = append(m.Triangles, t)
	}
	m.buildBVH()
	return m
}

// buildBVH constructs a bounding volume hierarchy for fast queries
func (m *Mesh) buildBVH() {
	if len(m.Triangles) == 0 {
		return
	}

	indices := make([]int, len(m.Triangles))
	for i := range indices {
		indices[i] = i
	}

	m.Root = m.buildBVHNode(indices, 0)
}

func (m *Mesh) buildBVHNode(indices []int, depth int) *BVHNode {
	node := &BVHNode{}
	node.Bounds = m.computeBounds(indices)

	if len(indices) <= maxLeafTriangles || depth > maxBVHDepth {
		node.Triangles = indices
		return node
	}

	// Find longest axis
	size := node.Bounds.Size()
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > getAxisValue(size, axis) {
		axis = 2
	}

	mid := m.partitionTriangles(indices, axis)

	if mid == 0 || mid == len(indices) {
		// Couldn't split, make leaf
		node.Triangles = indices
		return node
	}

	node.Left = m.buildBVHNode(indices[:mid], depth+1)
	node.Right = m.buildBVHNode(indices[mid:], depth+1)

	return node
}

func (m *Mesh) computeBounds(indices []int) AABB {
	bounds := EmptyAABB()
	for _, idx := range indices {
		tri := &m.Triangles[idx]
		bounds = bounds.Extend(tri.V0).Extend(tri.V1).Extend(tri.V2)
	}
	return bounds
}

// partitionTriangles splits indices in place around the mean centroid on axis
// and returns the index of the first element of the upper half.
func (m *Mesh) partitionTriangles(indices []int, axis int) int {
	center := float32(0)
	for _, idx := range indices {
		center += getAxisValue(m.Triangles[idx].Centroid(), axis)
	}
	center /= float32(len(indices))

	left := 0
	right := len(indices) - 1
	for left <= right {
		if getAxisValue(m.Triangles[indices[left]].Centroid(), axis) < center {
			left++
		} else {
			indices[left], indices[right] = indices[right], indices[left]
			right--
		}
	}
	return left
}

// Query returns the indices of triangles whose leaf boxes overlap the box.
func (m *Mesh) Query(box AABB) []int {
	return queryBVH(m.Root, box, nil)
}

func queryBVH(node *BVHNode, query AABB, out []int) []int {
	if node == nil || !node.Bounds.Intersects(query) {
		return out
	}
	if node.IsLeaf() {
		return append(out, node.Triangles...)
	}
	out = queryBVH(node.Left, query, out)
	return queryBVH(node.Right, query, out)
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Bounds returns the model-space AABB of the whole mesh
func (m *Mesh) Bounds() AABB {
	if m == nil || m.Root == nil {
		return EmptyAABB()
	}
	return m.Root.Bounds
}

// Depth returns the height of the hierarchy (0 for an empty mesh).
func (m *Mesh) Depth() int {
	return nodeDepth(m.Root)
}

func nodeDepth(n *BVHNode) int {
	if n == nil {
		return 0
	}
	return 1 + max(nodeDepth(n.Left), nodeDepth(n.Right))
}

// Vertices returns every triangle corner, in triangle order.
func (m *Mesh) Vertices() []rl.Vector3 {
	out := make([]rl.Vector3, 0, len(m.Triangles)*3)
	for _, t := range m.Triangles {
		out = append(out, t.V0, t.V1, t.V2)
	}
	return out
}
