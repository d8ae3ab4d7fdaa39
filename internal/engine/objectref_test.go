package engine

import "testing"

func TestObjectRefGet(t *testing.T) {
	scene := NewScene("Test")
	obj := NewInstance("Target", nil)
	scene.Add(obj)

	ref := RefTo(obj)
	if found := ref.Get(scene); found != obj {
		t.Errorf("Get() failed: expected %v, got %v", obj, found)
	}

	scene.Remove(obj)
	if ref.Get(scene) != nil {
		t.Error("Get() should return nil once the object left the scene")
	}
}

func TestObjectRefGetNil(t *testing.T) {
	scene := NewScene("Test")

	if (ObjectRef{}).Get(scene) != nil {
		t.Error("Get() with UID=0 should return nil")
	}
	if (ObjectRef{UID: 99999}).Get(scene) != nil {
		t.Error("Get() with non-existent UID should return nil")
	}
	if (ObjectRef{UID: 123}).Get(nil) != nil {
		t.Error("Get() with nil scene should return nil")
	}
}

func TestObjectRefSetAndClear(t *testing.T) {
	obj := NewInstance("obj", nil)
	var ref ObjectRef

	if ref.IsValid() {
		t.Error("Zero ObjectRef should be invalid")
	}
	ref.Set(obj)
	if !ref.IsValid() || ref.UID != obj.UID() {
		t.Errorf("Expected UID %d, got %d", obj.UID(), ref.UID)
	}
	ref.Clear()
	if ref.IsValid() {
		t.Error("Cleared ObjectRef should be invalid")
	}
	ref.Set(nil)
	if ref.UID != 0 {
		t.Error("Set(nil) should clear the reference")
	}
}
