package preset

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rushteam/tagkit/core"
)

func TestDir_SaveListApply(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "presets"))

	// 目录尚不存在时 List 返回空，不报错
	names, err := d.List()
	if err != nil || names != nil {
		t.Fatalf("List() on missing dir = %v, %v; want nil, nil", names, err)
	}

	job := core.BatchJob{
		InputGlob:  "/data/images",
		Recursive:  true,
		OnConflict: core.ConflictAppend,
		SaveJSON:   true,
	}
	cfg := core.PostprocessConfig{
		Threshold:         0.35,
		AdditionalTags:    []string{"anime"},
		ReplaceUnderscore: true,
		Weighted:          true,
	}
	if err := d.Save("anime-sfw", FieldsFrom(job, cfg)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := d.Save("default", FieldsFrom(core.BatchJob{}, core.PostprocessConfig{})); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	names, err = d.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"anime-sfw", "default"}) {
		t.Errorf("List() = %v, want sorted names", names)
	}

	fields, err := d.Apply("anime-sfw")
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	gotJob, err := JobFromFields(fields)
	if err != nil {
		t.Fatalf("JobFromFields() error = %v", err)
	}
	if !reflect.DeepEqual(gotJob, job) {
		t.Errorf("job roundtrip = %+v, want %+v", gotJob, job)
	}
	gotCfg := PostprocessFromFields(fields)
	if !reflect.DeepEqual(gotCfg, cfg) {
		t.Errorf("config roundtrip = %+v, want %+v", gotCfg, cfg)
	}
}

func TestDir_ApplyUnknown(t *testing.T) {
	d := NewDir(t.TempDir())
	_, err := d.Apply("missing")
	if !core.IsNotFound(err) {
		t.Errorf("Apply(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestDir_SaveOverwrites(t *testing.T) {
	d := NewDir(t.TempDir())
	if err := d.Save("p", map[string]any{FieldThreshold: 0.1}); err != nil {
		t.Fatal(err)
	}
	if err := d.Save("p", map[string]any{FieldThreshold: 0.9}); err != nil {
		t.Fatal(err)
	}
	fields, err := d.Apply("p")
	if err != nil {
		t.Fatal(err)
	}
	if got := PostprocessFromFields(fields).Threshold; got != 0.9 {
		t.Errorf("Threshold after overwrite = %v, want 0.9", got)
	}
}

func TestDir_SaveEmptyName(t *testing.T) {
	d := NewDir(t.TempDir())
	if err := d.Save("  ", nil); !core.IsInvalidInput(err) {
		t.Errorf("Save(blank) error = %v, want INVALID_INPUT", err)
	}
}

func TestJobFromFields_UnknownPolicy(t *testing.T) {
	_, err := JobFromFields(map[string]any{FieldOnConflict: "merge"})
	if !core.IsInvalidInput(err) {
		t.Errorf("JobFromFields error = %v, want INVALID_INPUT", err)
	}
}

func TestJobFromFields_EmptyPolicyDefaultsToIgnore(t *testing.T) {
	job, err := JobFromFields(map[string]any{})
	if err != nil {
		t.Fatalf("JobFromFields() error = %v", err)
	}
	if job.OnConflict != core.ConflictIgnore {
		t.Errorf("OnConflict = %q, want ignore", job.OnConflict)
	}
}
