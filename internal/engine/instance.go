package engine

import (
	"sketchbio/internal/geometry"
)

// Instance is a leaf rigid body backed by a shared model. A nil model is
// allowed for trackers and other massless helpers: they integrate with the
// default mass and never collide.
type Instance struct {
	object
	model *geometry.Model
}

func NewInstance(name string, model *geometry.Model) *Instance {
	return &Instance{
		object: newObject(name),
		model:  model,
	}
}

func (i *Instance) Kind() Kind { return KindInstance }

func (i *Instance) Model() *geometry.Model { return i.model }

func (i *Instance) ClearForces() { i.clearOwnForces() }

func (i *Instance) NumInstances() int { return 1 }

func (i *Instance) InverseMass() float32 {
	if i.model == nil {
		return geometry.DefaultInverseMass
	}
	return i.model.InverseMass
}

func (i *Instance) InverseMomentOfInertia() float32 {
	if i.model == nil {
		return geometry.DefaultInverseMoment
	}
	return i.model.InverseMomentOfInertia
}

// WorldBounds encloses the model's box at the current world pose. Without a
// model it is the single point at the instance position.
func (i *Instance) WorldBounds() geometry.AABB {
	pos := i.Position()
	if i.model == nil || i.model.Mesh == nil || i.model.Mesh.Root == nil {
		return geometry.AABB{Min: pos, Max: pos}
	}
	return i.model.Bounds().Transform(pos, i.Orientation())
}

// Copy returns an unparented instance with the same model at the same world
// pose.
func (i *Instance) Copy() *Instance {
	c := NewInstance(i.name, i.model)
	c.position = i.Position()
	c.orientation = i.Orientation()
	c.lastPosition = i.lastPosition
	c.lastOrientation = i.lastOrientation
	return c
}

// ModelBounds returns the model-space box, empty without a model.
func (i *Instance) ModelBounds() geometry.AABB {
	return i.model.Bounds()
}
