package geometry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrNoTriangles is returned when an OBJ source has no usable faces.
var ErrNoTriangles = errors.New("obj: no triangles")

// LoadOBJFile reads a Wavefront OBJ file from disk.
func LoadOBJFile(path string, scale float32) ([]Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	tris, err := LoadOBJ(f, scale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tris, nil
}

// LoadOBJ parses vertex and face records. Polygons are fan-triangulated and
// every other record type is ignored.
func LoadOBJ(r io.Reader, scale float32) ([]Triangle, error) {
	if scale == 0 {
		scale = 1
	}

	var verts []rl.Vector3
	var tris []Triangle

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var c [3]float32
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				c[i] = float32(f) * scale
			}
			verts = append(verts, rl.Vector3{X: c[0], Y: c[1], Z: c[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := faceIndex(ref, len(verts))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				t := NewTriangle(verts[idx[0]], verts[idx[k]], verts[idx[k+1]])
				if !t.Degenerate() {
					tris = append(tris, t)
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(tris) == 0 {
		return nil, ErrNoTriangles
	}
	return tris, nil
}

// faceIndex resolves a "v", "v/vt", "v//vn" or "v/vt/vn" reference to a
// zero-based vertex index. Negative references count back from the end.
func faceIndex(ref string, count int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad face index %q", ref)
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	}
	return 0, fmt.Errorf("face index %d out of range (%d vertices)", n, count)
}
