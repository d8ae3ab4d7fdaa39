package geometry

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

var (
	ErrDuplicateModel = errors.New("model already registered")
	ErrUnknownModel   = errors.New("unknown model")
)

// ModelManager owns the models of a project, keyed by name, and caches OBJ
// sources so a file is parsed once.
type ModelManager struct {
	models  map[string]*Model
	sources map[string]*Model
}

func NewModelManager() *ModelManager {
	return &ModelManager{
		models:  make(map[string]*Model),
		sources: make(map[string]*Model),
	}
}

// AddModel registers m under its name.
func (mm *ModelManager) AddModel(m *Model) error {
	if m == nil {
		return fmt.Errorf("add model: nil")
	}
	if _, exists := mm.models[m.Name]; exists {
		return fmt.Errorf("add model %q: %w", m.Name, ErrDuplicateModel)
	}
	mm.models[m.Name] = m
	if m.Source != "" {
		mm.sources[m.Source] = m
	}
	return nil
}

// ModelForOBJSource returns the model loaded from path, parsing the file on
// first use. The model is named after the path.
func (mm *ModelManager) ModelForOBJSource(path string, invMass, invMoment, scale float32) (*Model, error) {
	if m, ok := mm.sources[path]; ok {
		return m, nil
	}
	tris, err := LoadOBJFile(path, scale)
	if err != nil {
		return nil, fmt.Errorf("model for %s: %w", path, err)
	}
	m := NewModel(path, tris, invMass, invMoment)
	m.Source = path
	if err := mm.AddModel(m); err != nil {
		return nil, err
	}
	log.Printf("Models: loaded %s (%d triangles, BVH depth %d)", path, m.Mesh.TriangleCount(), m.Mesh.Depth())
	return m, nil
}

// Model looks a model up by name.
func (mm *ModelManager) Model(name string) (*Model, error) {
	m, ok := mm.models[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownModel)
	}
	return m, nil
}

func (mm *ModelManager) IncrementUses(m *Model) {
	if m != nil {
		m.uses++
	}
}

func (mm *ModelManager) DecrementUses(m *Model) {
	if m != nil && m.uses > 0 {
		m.uses--
	}
}

// Names returns the registered model names in sorted order.
func (mm *ModelManager) Names() []string {
	names := make([]string, 0, len(mm.models))
	for n := range mm.models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (mm *ModelManager) Len() int {
	return len(mm.models)
}
