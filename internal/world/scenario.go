package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"sketchbio/internal/engine"
	"sketchbio/internal/geometry"
	"sketchbio/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ErrUnknownObject    = errors.New("unknown object")
	ErrUnknownModelKind = errors.New("unknown model kind")
)

// --- Scenario JSON format ---

// Scenario describes the starting state of a simulation: the models it uses,
// the object tree and the persistent connectors between objects.
type Scenario struct {
	Models     []ModelDef     `json:"models"`
	Objects    []ObjectDef    `json:"objects"`
	Connectors []ConnectorDef `json:"connectors,omitempty"`
}

// ModelDef declares a model. Kind is "box", "sphere", "obj", or "mesh" for
// any format raylib can load; "mesh" needs an open window.
type ModelDef struct {
	Name          string     `json:"name"`
	Kind          string     `json:"kind"`
	Size          [3]float32 `json:"size,omitempty"`
	Radius        float32    `json:"radius,omitempty"`
	Path          string     `json:"path,omitempty"`
	Scale         float32    `json:"scale,omitempty"`
	InverseMass   *float32   `json:"inverse_mass,omitempty"`
	InverseMoment *float32   `json:"inverse_moment,omitempty"`
}

// ObjectDef is an instance of a model, or a group when Children is set.
// Model may also be the path of an OBJ file that no ModelDef declares.
// Positions are in world space. Orientation is x, y, z, w.
type ObjectDef struct {
	Name        string      `json:"name"`
	Model       string      `json:"model,omitempty"`
	Position    [3]float32  `json:"position"`
	Orientation *[4]float32 `json:"orientation,omitempty"`
	Children    []ObjectDef `json:"children,omitempty"`
	// Independent members move on their own instead of pushing their group.
	Independent bool `json:"independent,omitempty"`
}

// ConnectorDef joins two named objects. An empty Object2 pins end 2 to the
// world point Point2.
type ConnectorDef struct {
	Object1       string     `json:"object1"`
	Object2       string     `json:"object2,omitempty"`
	Point1        [3]float32 `json:"point1"`
	Point2        [3]float32 `json:"point2"`
	WorldRelative bool       `json:"world_relative,omitempty"`
	Stiffness     float32    `json:"stiffness"`
	MinRest       float32    `json:"min_rest"`
	MaxRest       float32    `json:"max_rest"`
}

const (
	sphereRings    = 12
	sphereSegments = 16
)

// --- Loading ---

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

// releasers records the worlds whose removals already return model uses to a
// manager, so building several scenarios into one world counts them once.
var releasers = map[releaser]bool{}

type releaser struct {
	ps     *physics.PhysicsWorld
	models *geometry.ModelManager
}

// Build registers the scenario's models with models and adds its objects and
// connectors to ps. Objects already in ps are left alone. Model use counts
// drop again as objects leave ps.
func (sc *Scenario) Build(ps *physics.PhysicsWorld, models *geometry.ModelManager) error {
	if key := (releaser{ps, models}); !releasers[key] {
		releasers[key] = true
		ps.ObjectRemoved.AddListener(func(obj engine.SceneObject) {
			releaseModels(models, obj)
		})
	}

	for _, def := range sc.Models {
		if err := loadModel(models, def); err != nil {
			return err
		}
	}

	for _, def := range sc.Objects {
		obj, err := buildObject(models, def)
		if err != nil {
			return err
		}
		ps.AddObject(obj)
	}

	for i, def := range sc.Connectors {
		c, err := buildConnector(ps, def)
		if err != nil {
			return fmt.Errorf("connector %d: %w", i, err)
		}
		ps.AddConnector(c)
	}

	log.Printf("Scenario: %d models, %d objects (%d instances), %d connectors",
		models.Len(), ps.NumObjects(), ps.NumInstances(), ps.NumConnectors())
	return nil
}

// releaseModels returns one use of the model of every instance in obj.
func releaseModels(models *geometry.ModelManager, obj engine.SceneObject) {
	release := func(o engine.SceneObject) {
		if inst, ok := o.(*engine.Instance); ok {
			models.DecrementUses(inst.Model())
		}
	}
	release(obj)
	if g, ok := obj.(*engine.Group); ok {
		g.Walk(release)
	}
}

func loadModel(models *geometry.ModelManager, def ModelDef) error {
	invMass := float32(geometry.DefaultInverseMass)
	if def.InverseMass != nil {
		invMass = *def.InverseMass
	}
	invMoment := float32(geometry.DefaultInverseMoment)
	if def.InverseMoment != nil {
		invMoment = *def.InverseMoment
	}

	var tris []geometry.Triangle
	switch def.Kind {
	case "box":
		tris = geometry.BoxTriangles(vec3(def.Size))
	case "sphere":
		tris = geometry.SphereTriangles(def.Radius, sphereRings, sphereSegments)
	case "obj":
		loaded, err := geometry.LoadOBJFile(def.Path, def.Scale)
		if err != nil {
			return fmt.Errorf("model %q: %w", def.Name, err)
		}
		tris = loaded
	case "mesh":
		rm := rl.LoadModel(def.Path)
		tris = geometry.TrianglesFromRaylibModel(rm)
		rl.UnloadModel(rm)
		if len(tris) == 0 {
			return fmt.Errorf("model %q: %s: %w", def.Name, def.Path, geometry.ErrNoTriangles)
		}
		if def.Scale != 0 {
			for i, t := range tris {
				tris[i] = geometry.NewTriangle(
					rl.Vector3Scale(t.V0, def.Scale), rl.Vector3Scale(t.V1, def.Scale), rl.Vector3Scale(t.V2, def.Scale))
			}
		}
	default:
		return fmt.Errorf("model %q: %q: %w", def.Name, def.Kind, ErrUnknownModelKind)
	}

	m := geometry.NewModel(def.Name, tris, invMass, invMoment)
	m.Source = def.Path
	if err := models.AddModel(m); err != nil {
		return err
	}
	return nil
}

func buildObject(models *geometry.ModelManager, def ObjectDef) (engine.SceneObject, error) {
	orient := rl.QuaternionIdentity()
	if def.Orientation != nil {
		o := def.Orientation
		orient = rl.QuaternionNormalize(rl.Quaternion{X: o[0], Y: o[1], Z: o[2], W: o[3]})
	}

	if len(def.Children) == 0 {
		m, err := modelFor(models, def.Model)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", def.Name, err)
		}
		inst := engine.NewInstance(def.Name, m)
		inst.SetPosAndOrient(vec3(def.Position), orient)
		models.IncrementUses(m)
		return inst, nil
	}

	g := engine.NewGroup(def.Name)
	for _, child := range def.Children {
		obj, err := buildObject(models, child)
		if err != nil {
			releaseModels(models, g)
			return nil, err
		}
		g.AddObject(obj)
		if child.Independent {
			obj.SetPropagateForceToParent(false)
		}
	}
	g.SetOrientation(orient)
	return g, nil
}

func modelFor(models *geometry.ModelManager, name string) (*geometry.Model, error) {
	m, err := models.Model(name)
	if err == nil || !strings.EqualFold(filepath.Ext(name), ".obj") {
		return m, err
	}
	return models.ModelForOBJSource(name, geometry.DefaultInverseMass, geometry.DefaultInverseMoment, 1)
}

func buildConnector(ps *physics.PhysicsWorld, def ConnectorDef) (*physics.Connector, error) {
	o1 := ps.FindByName(def.Object1)
	if o1 == nil {
		return nil, fmt.Errorf("%q: %w", def.Object1, ErrUnknownObject)
	}
	var o2 engine.SceneObject
	if def.Object2 != "" {
		if o2 = ps.FindByName(def.Object2); o2 == nil {
			return nil, fmt.Errorf("%q: %w", def.Object2, ErrUnknownObject)
		}
	}
	return physics.NewConnector(o1, o2, vec3(def.Point1), vec3(def.Point2),
		def.WorldRelative, def.Stiffness, def.MinRest, def.MaxRest), nil
}

// --- Saving ---

// SaveSnapshot writes the current pose of every object in ps as JSON.
func SaveSnapshot(path string, ps *physics.PhysicsWorld) error {
	data, err := json.MarshalIndent(ps.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func vec3(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}
