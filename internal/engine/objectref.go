package engine

// ObjectRef is a weak reference to a SceneObject by UID. It never keeps the
// object alive and resolves to nil once the object leaves the scene.
type ObjectRef struct {
	UID uint64 // 0 = none
}

// RefTo returns a reference to obj (or an empty one for nil).
func RefTo(obj SceneObject) ObjectRef {
	var r ObjectRef
	r.Set(obj)
	return r
}

// Get resolves the reference in scene.
// Returns nil if the reference is empty or the object is no longer there.
func (r ObjectRef) Get(scene *Scene) SceneObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// IsValid returns true if the reference points to something (UID != 0).
// It does not check that the object still exists.
func (r ObjectRef) IsValid() bool {
	return r.UID != 0
}

// Set points the reference at obj. Pass nil to clear it.
func (r *ObjectRef) Set(obj SceneObject) {
	if obj == nil {
		r.UID = 0
	} else {
		r.UID = obj.UID()
	}
}

func (r *ObjectRef) Clear() {
	r.UID = 0
}
