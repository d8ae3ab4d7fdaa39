package engine

import "testing"

func TestNewScene(t *testing.T) {
	scene := NewScene("TestScene")

	if scene.Name != "TestScene" {
		t.Errorf("Expected name 'TestScene', got '%s'", scene.Name)
	}
	if scene.Len() != 0 {
		t.Errorf("Expected empty scene, got %d objects", scene.Len())
	}
}

func TestSceneAddAndRemove(t *testing.T) {
	scene := NewScene("Test")
	a := NewInstance("a", nil)
	b := NewInstance("b", nil)

	if !scene.Add(a) || !scene.Add(b) {
		t.Fatal("Add should succeed")
	}
	if scene.Add(a) {
		t.Error("Adding the same object twice should fail")
	}
	if scene.Len() != 2 {
		t.Errorf("Expected 2 objects, got %d", scene.Len())
	}

	if !scene.Remove(a) {
		t.Error("Remove should succeed")
	}
	if scene.Remove(a) {
		t.Error("Removing twice should fail")
	}
	if scene.Len() != 1 || scene.Objects()[0] != b {
		t.Error("Only b should remain")
	}
	if scene.FindByUID(a.UID()) != nil {
		t.Error("Removed object still found by UID")
	}
}

func TestSceneRejectsGroupMembers(t *testing.T) {
	scene := NewScene("Test")
	g := NewGroup("g")
	child := NewInstance("child", nil)
	g.AddObject(child)

	if scene.Add(child) {
		t.Error("Objects inside a group cannot be top-level")
	}
	if scene.Add(nil) {
		t.Error("Adding nil should fail")
	}
}

func TestSceneFindInsideGroups(t *testing.T) {
	scene := NewScene("Test")
	g := NewGroup("g")
	child := NewInstance("child", nil)
	g.AddObject(child)
	scene.Add(g)

	if scene.FindByUID(child.UID()) != child {
		t.Error("FindByUID should search inside groups")
	}
	if scene.FindByName("child") != child {
		t.Error("FindByName should search inside groups")
	}
	if scene.FindByName("missing") != nil {
		t.Error("FindByName should return nil for non-existent name")
	}

	root, ok := scene.Root(child)
	if !ok || root != g {
		t.Errorf("Expected root g, got %v (%v)", root, ok)
	}
	if scene.Contains(child) {
		t.Error("Contains only reports top-level members")
	}

	scene.Remove(g)
	if scene.FindByUID(child.UID()) != nil {
		t.Error("Members of a removed group should no longer be found")
	}
}

func TestSceneAllIterator(t *testing.T) {
	scene := NewScene("Test")
	scene.Add(NewInstance("a", nil))
	scene.Add(NewGroup("b"))

	var names []string
	for obj := range scene.All() {
		names = append(names, obj.Name())
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Expected [a b], got %v", names)
	}
}
