package physics

import (
	"slices"

	"sketchbio/internal/engine"
	"sketchbio/internal/geometry"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ScanMode chooses between collecting every contact and stopping at the
// first one.
type ScanMode int

const (
	AllContacts ScanMode = iota
	FirstContact
)

// GroupSet is a set of collision group ids. An empty set selects everything.
type GroupSet map[int]struct{}

func NewGroupSet(ids ...int) GroupSet {
	s := make(GroupSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id. NoGroup is ignored.
func (s GroupSet) Add(id int) {
	if id != engine.NoGroup {
		s[id] = struct{}{}
	}
}

func (s GroupSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

func (s GroupSet) Len() int { return len(s) }

// Sorted returns the ids in ascending order.
func (s GroupSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Covers reports whether obj is selected: the set is empty or obj belongs to
// one of its groups.
func (s GroupSet) Covers(obj engine.SceneObject) bool {
	if len(s) == 0 {
		return true
	}
	for _, id := range obj.CollisionGroups() {
		if s.Has(id) {
			return true
		}
	}
	return false
}

// accepts reports whether response force may be applied to obj.
func (s GroupSet) accepts(obj engine.SceneObject) bool {
	return len(s) == 0 || s.Has(obj.PrimaryCollisionGroup())
}

// Contact is one pair of intersecting triangles. Normals and centroids are
// given in world space, and the centroids also in each instance's model space.
type Contact struct {
	A, B                           *engine.Instance
	TriA, TriB                     int
	NormalA, NormalB               rl.Vector3
	CentroidA, CentroidB           rl.Vector3
	LocalCentroidA, LocalCentroidB rl.Vector3
}

// PairResult holds the contacts between two instances.
type PairResult struct {
	A, B     *engine.Instance
	Contacts []Contact
}

func (p PairResult) Len() int { return len(p.Contacts) }

// TestPair collides two scene objects, descending into groups, and returns one
// result per colliding instance pair. It never modifies either object.
func TestPair(a, b engine.SceneObject, mode ScanMode) []PairResult {
	if a == nil || b == nil || a == b {
		return nil
	}
	if !a.WorldBounds().Intersects(b.WorldBounds()) {
		return nil
	}
	var out []PairResult
	collect(a, b, mode, &out)
	return out
}

func collect(a, b engine.SceneObject, mode ScanMode, out *[]PairResult) {
	if mode == FirstContact && len(*out) > 0 {
		return
	}
	switch va := a.(type) {
	case *engine.Group:
		for _, c := range va.Children() {
			if c.WorldBounds().Intersects(b.WorldBounds()) {
				collect(c, b, mode, out)
			}
		}
		return
	case *engine.Instance:
		switch vb := b.(type) {
		case *engine.Group:
			for _, c := range vb.Children() {
				if c.WorldBounds().Intersects(a.WorldBounds()) {
					collect(a, c, mode, out)
				}
			}
		case *engine.Instance:
			if r, ok := testInstances(va, vb, mode); ok {
				*out = append(*out, r)
			}
		}
	}
}

// TestCollisions tests objects against each other. An empty affected set
// checks every unordered pair; otherwise only pairs with at least one side in
// an affected group are tested, each pair once.
func TestCollisions(objects []engine.SceneObject, affected GroupSet, mode ScanMode) []PairResult {
	covered := make([]bool, len(objects))
	for i, obj := range objects {
		covered[i] = affected.Covers(obj)
	}

	var out []PairResult
	for i, a := range objects {
		if !covered[i] {
			continue
		}
		for j, b := range objects {
			if j == i || (covered[j] && j < i) {
				continue
			}
			out = append(out, TestPair(a, b, mode)...)
			if mode == FirstContact && len(out) > 0 {
				return out
			}
		}
	}
	return out
}

// CountContacts sums the contacts of every result.
func CountContacts(results []PairResult) int {
	n := 0
	for _, r := range results {
		n += r.Len()
	}
	return n
}

// instancePair runs the BVH-vs-BVH descent in A's model frame.
type instancePair struct {
	a, b       *engine.Instance
	meshA      *geometry.Mesh
	meshB      *geometry.Mesh
	rel        rl.Quaternion // B model frame to A model frame
	trans      rl.Vector3
	mode       ScanMode
	trisB      map[int][3]rl.Vector3
	contactIdx [][2]int
}

func testInstances(a, b *engine.Instance, mode ScanMode) (PairResult, bool) {
	ma, mb := a.Model(), b.Model()
	if ma == nil || mb == nil || ma.Mesh == nil || mb.Mesh == nil ||
		ma.Mesh.Root == nil || mb.Mesh.Root == nil {
		return PairResult{}, false
	}
	if !a.WorldBounds().Intersects(b.WorldBounds()) {
		return PairResult{}, false
	}

	inv := rl.QuaternionInvert(a.Orientation())
	p := &instancePair{
		a:     a,
		b:     b,
		meshA: ma.Mesh,
		meshB: mb.Mesh,
		rel:   rl.QuaternionMultiply(inv, b.Orientation()),
		trans: rl.Vector3RotateByQuaternion(rl.Vector3Subtract(b.Position(), a.Position()), inv),
		mode:  mode,
		trisB: make(map[int][3]rl.Vector3),
	}
	p.descend(ma.Mesh.Root, mb.Mesh.Root)
	if len(p.contactIdx) == 0 {
		return PairResult{}, false
	}
	return PairResult{A: a, B: b, Contacts: p.contacts()}, true
}

func (p *instancePair) done() bool {
	return p.mode == FirstContact && len(p.contactIdx) > 0
}

func (p *instancePair) descend(na, nb *geometry.BVHNode) {
	if p.done() {
		return
	}
	if !NewAABBasOBB(na.Bounds).IntersectsOBB(NewOBB(nb.Bounds, p.rel, p.trans)) {
		return
	}

	switch {
	case na.IsLeaf() && nb.IsLeaf():
		p.leaves(na, nb)
	case na.IsLeaf():
		p.descendB(na, nb)
	case nb.IsLeaf():
		p.descendA(na, nb)
	case volume(na.Bounds) >= volume(nb.Bounds):
		p.descendA(na, nb)
	default:
		p.descendB(na, nb)
	}
}

func (p *instancePair) descendA(na, nb *geometry.BVHNode) {
	for _, c := range []*geometry.BVHNode{na.Left, na.Right} {
		if c != nil {
			p.descend(c, nb)
		}
	}
}

func (p *instancePair) descendB(na, nb *geometry.BVHNode) {
	for _, c := range []*geometry.BVHNode{nb.Left, nb.Right} {
		if c != nil {
			p.descend(na, c)
		}
	}
}

func (p *instancePair) leaves(na, nb *geometry.BVHNode) {
	for _, ia := range na.Triangles {
		ta := p.meshA.Triangles[ia].Vertices()
		for _, ib := range nb.Triangles {
			if trianglesIntersect(ta, p.triangleB(ib)) {
				p.contactIdx = append(p.contactIdx, [2]int{ia, ib})
				if p.done() {
					return
				}
			}
		}
	}
}

// triangleB returns B's triangle expressed in A's model frame.
func (p *instancePair) triangleB(i int) [3]rl.Vector3 {
	if t, ok := p.trisB[i]; ok {
		return t
	}
	var t [3]rl.Vector3
	for k, v := range p.meshB.Triangles[i].Vertices() {
		t[k] = rl.Vector3Add(rl.Vector3RotateByQuaternion(v, p.rel), p.trans)
	}
	p.trisB[i] = t
	return t
}

func (p *instancePair) contacts() []Contact {
	qa, qb := p.a.Orientation(), p.b.Orientation()
	out := make([]Contact, len(p.contactIdx))
	for k, idx := range p.contactIdx {
		ta, tb := p.meshA.Triangles[idx[0]], p.meshB.Triangles[idx[1]]
		ca, cb := ta.Centroid(), tb.Centroid()
		out[k] = Contact{
			A:              p.a,
			B:              p.b,
			TriA:           idx[0],
			TriB:           idx[1],
			NormalA:        rl.Vector3RotateByQuaternion(ta.Normal, qa),
			NormalB:        rl.Vector3RotateByQuaternion(tb.Normal, qb),
			CentroidA:      p.a.ModelPointToWorld(ca),
			CentroidB:      p.b.ModelPointToWorld(cb),
			LocalCentroidA: ca,
			LocalCentroidB: cb,
		}
	}
	return out
}

func volume(b geometry.AABB) float32 {
	s := b.Size()
	return s.X * s.Y * s.Z
}
