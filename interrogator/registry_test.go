package interrogator

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rushteam/tagkit/core"
)

func TestRegistry_DiscoveryAcceptsOnlyManifested(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "accepted", true)
	writeProject(t, root, "no-manifest", false)
	// 根目录下的普通文件不是候选
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(WithProjectsRoot(root))
	names, err := r.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"accepted"}) {
		t.Errorf("Refresh() = %v, want [accepted]", names)
	}
}

func TestRegistry_RefreshIsWholesale(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, "first", true)

	r := NewRegistry(WithProjectsRoot(root))
	if _, err := r.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if _, err := r.Get("first"); err != nil {
		t.Fatalf("Get(first) error = %v", err)
	}

	// 盘上消失的项目在下一次 refresh 后必须消失，且 refresh 不报错
	if err := os.RemoveAll(filepath.Join(root, "first")); err != nil {
		t.Fatal(err)
	}
	writeProject(t, root, "second", true)

	names, err := r.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"second"}) {
		t.Errorf("Refresh() = %v, want [second]", names)
	}
	if _, err := r.Get("first"); !core.IsNotFound(err) {
		t.Errorf("Get(first) after removal error = %v, want NOT_FOUND", err)
	}
}

func TestRegistry_BuiltinVectorModels(t *testing.T) {
	r := NewRegistry(
		WithVectorModel("wd14-vit", "m.onnx", "l.csv"),
		WithVectorModel("wd14-convnext", "m2.onnx", "l2.csv"),
	)
	names, err := r.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"wd14-convnext", "wd14-vit"}) {
		t.Errorf("Refresh() = %v, want sorted builtin names", names)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	_, err := r.Get("nope")
	if !core.IsNotFound(err) {
		t.Errorf("Get(nope) error = %v, want NOT_FOUND", err)
	}
}

func TestRegistry_CreatesProjectsRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "not-yet", "deepdanbooru")
	r := NewRegistry(WithProjectsRoot(root))
	if _, err := r.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		t.Errorf("projects root not created: %v", err)
	}
}
