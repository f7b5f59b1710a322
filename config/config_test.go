package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rushteam/tagkit/core"
)

const sampleSpec = `
interrogator: wd14-vit
projects_path: /data/projects
models:
  - name: wd14-vit
    model: /models/wd14-vit.onnx
    labels: /models/wd14-vit.csv
batch:
  input_glob: /data/images/**
  recursive: true
  on_conflict: append
  save_json: true
postprocess:
  threshold: 0.35
  additional_tags: [anime]
  replace_underscore: true
cache:
  type: memory
  ttl: 600
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(sampleSpec), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if spec.Interrogator != "wd14-vit" {
		t.Errorf("Interrogator = %q", spec.Interrogator)
	}
	if len(spec.Models) != 1 || spec.Models[0].Labels != "/models/wd14-vit.csv" {
		t.Errorf("Models = %+v", spec.Models)
	}

	job, err := spec.Batch.Job()
	if err != nil {
		t.Fatalf("Job() error = %v", err)
	}
	want := core.BatchJob{
		InputGlob:  "/data/images/**",
		Recursive:  true,
		OnConflict: core.ConflictAppend,
		SaveJSON:   true,
	}
	if !reflect.DeepEqual(job, want) {
		t.Errorf("Job() = %+v, want %+v", job, want)
	}

	cfg := spec.Postprocess.Config()
	if cfg.Threshold != 0.35 || !cfg.ReplaceUnderscore {
		t.Errorf("Config() = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AdditionalTags, []string{"anime"}) {
		t.Errorf("AdditionalTags = %v", cfg.AdditionalTags)
	}

	if spec.Cache == nil || spec.Cache.Type != "memory" || spec.Cache.TTL != 600 {
		t.Errorf("Cache = %+v", spec.Cache)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load(missing) expected error")
	}
}

func TestBatchSpec_UnknownPolicy(t *testing.T) {
	_, err := BatchSpec{OnConflict: "merge"}.Job()
	if !core.IsInvalidInput(err) {
		t.Errorf("Job() error = %v, want INVALID_INPUT", err)
	}
}

func TestBuildCache(t *testing.T) {
	spec := &RunSpec{}
	s, err := spec.BuildCache()
	if s != nil || err != nil {
		t.Fatalf("BuildCache() without cache = %v, %v; want nil, nil", s, err)
	}

	spec.Cache = &CacheSpec{Type: "memory"}
	s, err = spec.BuildCache()
	if err != nil || s == nil || s.Name() != "memory" {
		t.Fatalf("BuildCache(memory) = %v, %v", s, err)
	}
	s.Close()

	spec.Cache = &CacheSpec{Type: "etcd"}
	if _, err := spec.BuildCache(); !core.IsNotSupported(err) {
		t.Errorf("BuildCache(etcd) error = %v, want NOT_SUPPORTED", err)
	}
}

func TestBuildRegistry(t *testing.T) {
	root := t.TempDir()
	spec := &RunSpec{
		ProjectsPath: root,
		Models: []VectorModel{
			{Name: "wd14-vit", Model: "m.onnx", Labels: "l.csv"},
		},
	}
	r := spec.BuildRegistry()
	names, err := r.Refresh()
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"wd14-vit"}) {
		t.Errorf("Refresh() = %v, want [wd14-vit]", names)
	}
}
