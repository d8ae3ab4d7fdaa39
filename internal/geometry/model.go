package geometry

// Mass defaults used when an object has no model of its own. Groups always
// integrate with these.
const (
	DefaultInverseMass   = 1.0
	DefaultInverseMoment = 1.0 / 25000
)

// Model is one object type: collision mesh plus inverse mass properties.
// A zero inverse mass makes instances of the model immovable.
type Model struct {
	Name   string
	Source string // obj path or procedural description

	Mesh *Mesh

	InverseMass            float32
	InverseMomentOfInertia float32

	uses int
}

// NewModel builds the collision mesh for tris. Negative inverse mass values
// clamp to zero.
func NewModel(name string, tris []Triangle, invMass, invMoment float32) *Model {
	return &Model{
		Name:                   name,
		Mesh:                   BuildMesh(tris),
		InverseMass:            max(invMass, 0),
		InverseMomentOfInertia: max(invMoment, 0),
	}
}

// Bounds returns the model-space box of the mesh.
func (m *Model) Bounds() AABB {
	if m == nil {
		return EmptyAABB()
	}
	return m.Mesh.Bounds()
}

// Uses reports how many live instances share the model.
func (m *Model) Uses() int {
	return m.uses
}
