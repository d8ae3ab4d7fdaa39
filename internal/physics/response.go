package physics

import (
	"sketchbio/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Response turns collision results into forces on the colliding objects.
// Only objects accepted by the affected set receive force.
type Response func(results []PairResult, affected GroupSet, collisionForce float32)

// NormalResponse pushes each side along the other side's triangle normal at
// its own triangle centroid. The magnitude is divided by the pair's contact
// count so that large overlaps do not overshoot.
func NormalResponse(results []PairResult, affected GroupSet, collisionForce float32) {
	for _, r := range results {
		if r.Len() == 0 {
			continue
		}
		f := collisionForce * 40 / float32(r.Len())
		pushA, pushB := affected.accepts(r.A), affected.accepts(r.B)
		for _, c := range r.Contacts {
			if pushA {
				r.A.AddForce(c.LocalCentroidA, rl.Vector3Scale(c.NormalB, f))
			}
			if pushB {
				r.B.AddForce(c.LocalCentroidB, rl.Vector3Scale(c.NormalA, f))
			}
		}
	}
}

// PCAResponse applies one force per side along the flattest direction of the
// contact region: the eigenvector with the smallest eigenvalue of the
// covariance of the contact triangles' vertices, applied at their mean.
func PCAResponse(results []PairResult, affected GroupSet, collisionForce float32) {
	for _, r := range results {
		if r.Len() == 0 {
			continue
		}
		trisA := make([]int, r.Len())
		trisB := make([]int, r.Len())
		for k, c := range r.Contacts {
			trisA[k], trisB[k] = c.TriA, c.TriB
		}
		if affected.accepts(r.A) {
			pcaPush(r.A, trisA, collisionForce*30)
		}
		if affected.accepts(r.B) {
			pcaPush(r.B, trisB, collisionForce*30)
		}
	}
}

func pcaPush(inst *engine.Instance, tris []int, magnitude float32) {
	mean, cov, ok := contactCovariance(inst, tris)
	if !ok {
		return
	}
	values, vectors, _ := symmetricEigen(cov)
	k := smallestIndex(values)
	dir := rl.Vector3Normalize(rl.Vector3{X: vectors[0][k], Y: vectors[1][k], Z: vectors[2][k]})
	if rl.Vector3DotProduct(dir, mean) < 0 {
		dir = rl.Vector3Negate(dir)
	}
	inst.AddForce(mean, rl.Vector3Scale(inst.ModelVectorToWorld(dir), magnitude))
}

// contactCovariance returns the model-space mean and sample covariance of the
// vertices of the listed triangles.
func contactCovariance(inst *engine.Instance, tris []int) (rl.Vector3, [3][3]float32, bool) {
	var cov [3][3]float32
	m := inst.Model()
	if m == nil || m.Mesh == nil || len(tris) == 0 {
		return rl.Vector3{}, cov, false
	}

	total := float32(3 * len(tris))
	var sum rl.Vector3
	for _, t := range tris {
		for _, v := range m.Mesh.Triangles[t].Vertices() {
			sum = rl.Vector3Add(sum, v)
		}
	}
	mean := rl.Vector3Scale(sum, 1/total)

	for _, t := range tris {
		for _, v := range m.Mesh.Triangles[t].Vertices() {
			d := [3]float32{mean.X - v.X, mean.Y - v.Y, mean.Z - v.Z}
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					cov[i][j] += d[i] * d[j]
				}
			}
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cov[i][j] /= total - 1
		}
	}
	return mean, cov, true
}
