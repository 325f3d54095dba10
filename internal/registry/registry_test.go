package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/isoworld/internal/core"
)

type fakeGame struct{ id string }

func (f *fakeGame) ID() string                           { return f.id }
func (f *fakeGame) Title() string                        { return "Fake " + f.id }
func (f *fakeGame) Reset(core.RuntimeConfig)             {}
func (f *fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (f *fakeGame) Render(*core.Screen)                  {}
func (f *fakeGame) State() core.GameState                { return core.GameState{} }

func factory(id string) Factory {
	return func() Game { return &fakeGame{id: id} }
}

func TestRegisterAndCreate(t *testing.T) {
	if err := Register(SceneInfo{ID: "zz_test_b"}, factory("zz_test_b")); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := Register(SceneInfo{ID: "zz_test_a"}, factory("zz_test_a")); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if !Exists("zz_test_a") {
		t.Fatal("registered scene not found")
	}
	g, err := Create("zz_test_b")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if g.ID() != "zz_test_b" {
		t.Errorf("ID() = %q", g.ID())
	}

	list := List()
	var ids []string
	for _, info := range list {
		ids = append(ids, info.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("List not sorted: %v", ids)
		}
	}
}

func TestRegisterFillsInfo(t *testing.T) {
	err := Register(SceneInfo{ID: "zz_info", Description: "A test room"}, factory("zz_info"))
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	info, ok := Lookup("zz_info")
	if !ok {
		t.Fatal("Lookup() found nothing")
	}
	if info.Title != "Fake zz_info" {
		t.Errorf("Title = %q, expected the scene's own title", info.Title)
	}
	if info.Description != "A test room" {
		t.Errorf("Description = %q", info.Description)
	}
	if info.Source != SourceBuiltin {
		t.Errorf("Source = %q, expected %q", info.Source, SourceBuiltin)
	}

	if _, ok := Lookup("does-not-exist"); ok {
		t.Error("Lookup() of unknown scene succeeded")
	}
}

func TestRegisterInvalid(t *testing.T) {
	if err := Register(SceneInfo{}, factory("x")); err == nil {
		t.Error("expected error for empty ID")
	}
	if err := Register(SceneInfo{ID: "zz_nil"}, nil); err == nil {
		t.Error("expected error for nil factory")
	}
	if Exists("zz_nil") {
		t.Error("failed registration must not be listed")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("does-not-exist"); err == nil {
		t.Error("expected error for unknown scene")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	if err := Register(SceneInfo{ID: "zz_dup", Title: "First"}, factory("zz_dup")); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	err := Register(SceneInfo{ID: "zz_dup", Title: "Second", Source: "/tmp/scenes"}, factory("zz_dup"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate Register() = %v, expected ErrDuplicate", err)
	}
	if info, _ := Lookup("zz_dup"); info.Title != "First" {
		t.Errorf("duplicate replaced the original: %+v", info)
	}
}
