package engine

import (
	"iter"
	"slices"
)

// Scene is the ordered list of top-level objects plus a UID index over them.
// Members of groups are found by walking their top-level ancestor.
type Scene struct {
	Name    string
	objects []SceneObject
	uidMap  map[uint64]SceneObject
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:    name,
		objects: make([]SceneObject, 0),
		uidMap:  make(map[uint64]SceneObject),
	}
}

// Add appends a parentless object. Duplicates and group members are ignored.
func (s *Scene) Add(obj SceneObject) bool {
	if obj == nil || obj.Parent() != nil {
		return false
	}
	if _, exists := s.uidMap[obj.UID()]; exists {
		return false
	}
	s.objects = append(s.objects, obj)
	s.uidMap[obj.UID()] = obj
	return true
}

// Remove drops a top-level object.
func (s *Scene) Remove(obj SceneObject) bool {
	if obj == nil {
		return false
	}
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i:i], s.objects[i+1:]...)
			delete(s.uidMap, obj.UID())
			return true
		}
	}
	return false
}

// Contains reports whether obj is a top-level member.
func (s *Scene) Contains(obj SceneObject) bool {
	if obj == nil {
		return false
	}
	found, ok := s.uidMap[obj.UID()]
	return ok && found == obj
}

// Root returns the top-level ancestor of obj when that ancestor belongs to the
// scene.
func (s *Scene) Root(obj SceneObject) (SceneObject, bool) {
	if obj == nil {
		return nil, false
	}
	var r SceneObject = obj
	for r.Parent() != nil {
		r = r.Parent()
	}
	return r, s.Contains(r)
}

// FindByUID looks through top-level objects first, then inside groups.
func (s *Scene) FindByUID(uid uint64) SceneObject {
	if obj, ok := s.uidMap[uid]; ok {
		return obj
	}
	var found SceneObject
	s.walk(func(o SceneObject) bool {
		if o.UID() == uid {
			found = o
			return false
		}
		return true
	})
	return found
}

// FindByName returns the first object with the given name, depth first.
func (s *Scene) FindByName(name string) SceneObject {
	var found SceneObject
	s.walk(func(o SceneObject) bool {
		if o.Name() == name {
			found = o
			return false
		}
		return true
	})
	return found
}

func (s *Scene) walk(fn func(SceneObject) bool) {
	var visit func(o SceneObject) bool
	visit = func(o SceneObject) bool {
		if !fn(o) {
			return false
		}
		if g, ok := o.(*Group); ok {
			for _, c := range g.children {
				if !visit(c) {
					return false
				}
			}
		}
		return true
	}
	for _, o := range s.objects {
		if !visit(o) {
			return
		}
	}
}

// Objects returns the top-level objects. The slice must not be modified.
func (s *Scene) Objects() []SceneObject { return s.objects }

// All iterates over the top-level objects.
func (s *Scene) All() iter.Seq[SceneObject] {
	return slices.Values(s.objects)
}

func (s *Scene) Len() int { return len(s.objects) }
