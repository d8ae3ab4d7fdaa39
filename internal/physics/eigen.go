package physics

import "github.com/chewxy/math32"

const jacobiSweeps = 50

// symmetricEigen diagonalizes a symmetric 3x3 matrix with cyclic Jacobi
// rotations. Eigenvalues come back in values and the matching eigenvectors
// are the columns of vectors. ok is false when the sweeps ran out before the
// off-diagonal vanished; the current estimate is still returned.
func symmetricEigen(a [3][3]float32) (values [3]float32, vectors [3][3]float32, ok bool) {
	var b, z [3]float32
	for i := 0; i < 3; i++ {
		vectors[i][i] = 1
		b[i] = a[i][i]
		values[i] = a[i][i]
	}

	for sweep := 0; sweep < jacobiSweeps; sweep++ {
		sm := math32.Abs(a[0][1]) + math32.Abs(a[0][2]) + math32.Abs(a[1][2])
		if sm == 0 {
			return values, vectors, true
		}

		var thresh float32
		if sweep < 3 {
			thresh = 0.2 * sm / 9
		}

		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				g := 100 * math32.Abs(a[p][q])
				if sweep > 3 &&
					math32.Abs(values[p])+g == math32.Abs(values[p]) &&
					math32.Abs(values[q])+g == math32.Abs(values[q]) {
					a[p][q] = 0
					continue
				}
				if math32.Abs(a[p][q]) <= thresh {
					continue
				}

				h := values[q] - values[p]
				var t float32
				if math32.Abs(h)+g == math32.Abs(h) {
					t = a[p][q] / h
				} else {
					theta := 0.5 * h / a[p][q]
					t = 1 / (math32.Abs(theta) + math32.Sqrt(1+theta*theta))
					if theta < 0 {
						t = -t
					}
				}
				c := 1 / math32.Sqrt(1+t*t)
				s := t * c
				tau := s / (1 + c)
				h = t * a[p][q]
				z[p] -= h
				z[q] += h
				values[p] -= h
				values[q] += h
				a[p][q] = 0

				for j := 0; j < p; j++ {
					rotate(&a, s, tau, j, p, j, q)
				}
				for j := p + 1; j < q; j++ {
					rotate(&a, s, tau, p, j, j, q)
				}
				for j := q + 1; j < 3; j++ {
					rotate(&a, s, tau, p, j, q, j)
				}
				for j := 0; j < 3; j++ {
					rotate(&vectors, s, tau, j, p, j, q)
				}
			}
		}

		for p := 0; p < 3; p++ {
			b[p] += z[p]
			values[p] = b[p]
			z[p] = 0
		}
	}
	return values, vectors, false
}

func rotate(m *[3][3]float32, s, tau float32, i, j, k, l int) {
	g, h := m[i][j], m[k][l]
	m[i][j] = g - s*(h+g*tau)
	m[k][l] = h + s*(g-h*tau)
}

// smallestIndex returns the index of the smallest of three values.
func smallestIndex(v [3]float32) int {
	idx := 0
	for i := 1; i < 3; i++ {
		if v[i] < v[idx] {
			idx = i
		}
	}
	return idx
}
