package interrogator

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
)

// fakeModel 是测试注入的 Model：固定输出向量，不碰 ONNX Runtime。
type fakeModel struct {
	size   int
	output []float32
	runs   int
	closed bool
}

func (f *fakeModel) InputSize() int { return f.size }

func (f *fakeModel) Run(input []float32) ([]float32, error) {
	f.runs++
	if want := f.size * f.size * 3; len(input) != want {
		panic("bad input tensor length")
	}
	return f.output, nil
}

func (f *fakeModel) Close() error {
	f.closed = true
	return nil
}

func fakeLoader(m *fakeModel) modelLoader {
	return func(path string, fallbackSize int) (Model, error) {
		if m.size == 0 {
			m.size = fallbackSize
		}
		return m, nil
	}
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestVectorInterrogator_PartitionsRatingsAndTags(t *testing.T) {
	dir := t.TempDir()
	labelPath := filepath.Join(dir, "selected_tags.csv")
	csv := "tag_id,name,category\n" +
		"0,general,9\n1,sensitive,9\n2,questionable,9\n3,explicit,9\n" +
		"4,long_hair,0\n5,smile,0\n"
	if err := os.WriteFile(labelPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	model := &fakeModel{size: 16, output: []float32{0.9, 0.05, 0.03, 0.02, 0.8, 0.4}}
	in := NewVectorInterrogator("wd-test", filepath.Join(dir, "model.onnx"), labelPath)
	in.loadModel = fakeLoader(model)

	ratings, tags, err := in.Interrogate(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Interrogate() error = %v", err)
	}

	if len(ratings) != 4 {
		t.Errorf("ratings = %v, want 4 entries", ratings)
	}
	if got := ratings["general"]; got < 0.89 || got > 0.91 {
		t.Errorf("ratings[general] = %v, want 0.9", got)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %v, want 2 entries", tags)
	}
	if _, ok := tags["general"]; ok {
		t.Error("rating leaked into tag mapping")
	}
	if got := tags["long_hair"]; got < 0.79 || got > 0.81 {
		t.Errorf("tags[long_hair] = %v, want 0.8", got)
	}
}

func TestVectorInterrogator_LazyLoadOnce(t *testing.T) {
	dir := t.TempDir()
	labelPath := filepath.Join(dir, "labels.csv")
	if err := os.WriteFile(labelPath, []byte("tag_id,name,category\n0,a,9\n1,b,9\n2,c,9\n3,d,9\n4,t,0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loads := 0
	model := &fakeModel{size: 8, output: []float32{1, 1, 1, 1, 1}}
	in := NewVectorInterrogator("wd-test", "model.onnx", labelPath)
	in.loadModel = func(path string, fallbackSize int) (Model, error) {
		loads++
		return model, nil
	}

	for i := 0; i < 3; i++ {
		if _, _, err := in.Interrogate(context.Background(), testImage()); err != nil {
			t.Fatalf("Interrogate() error = %v", err)
		}
	}
	if loads != 1 {
		t.Errorf("model loaded %d times, want 1", loads)
	}
	if model.runs != 3 {
		t.Errorf("model ran %d times, want 3", model.runs)
	}
}

func writeProject(t *testing.T, root, name string, withManifest bool) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		t.Fatal(err)
	}
	if withManifest {
		if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(`{"width":32,"height":32}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestProjectInterrogator_RatingPrefix(t *testing.T) {
	root := t.TempDir()
	dir := writeProject(t, root, "booru-test", true)
	tagsTxt := "rating:safe\nrating:explicit\nlong_hair\nsmile\n"
	if err := os.WriteFile(filepath.Join(dir, projectTagsName), []byte(tagsTxt), 0o644); err != nil {
		t.Fatal(err)
	}

	model := &fakeModel{output: []float32{0.7, 0.1, 0.9, 0.2}}
	in := NewProjectInterrogator(dir)
	in.loadModel = fakeLoader(model)

	ratings, tags, err := in.Interrogate(context.Background(), testImage())
	if err != nil {
		t.Fatalf("Interrogate() error = %v", err)
	}

	if in.Name() != "booru-test" {
		t.Errorf("Name() = %q, want directory name", in.Name())
	}
	// manifest 里的 width 传给了模型加载
	if model.size != 32 {
		t.Errorf("model size = %d, want 32 from manifest", model.size)
	}
	if got := ratings["safe"]; got < 0.69 || got > 0.71 {
		t.Errorf("ratings[safe] = %v, want 0.7", got)
	}
	if _, ok := tags["rating:safe"]; ok {
		t.Error("rating prefix not stripped")
	}
	if got := tags["long_hair"]; got < 0.89 || got > 0.91 {
		t.Errorf("tags[long_hair] = %v, want 0.9", got)
	}
}
