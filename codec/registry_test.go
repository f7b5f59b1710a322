package codec

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/tagkit/core"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExtensions(t *testing.T) {
	exts := New().Extensions()
	want := map[string]bool{"jpg": false, "jpeg": false, "png": false, "webp": false}
	for _, e := range exts {
		if _, ok := want[e]; ok {
			want[e] = true
		}
	}
	for e, found := range want {
		if !found {
			t.Errorf("Extensions() missing %q", e)
		}
	}
}

func TestSupported(t *testing.T) {
	r := New()
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"dir/b.JPG", true}, // 扩展名大小写不敏感
		{"c.tiff", true},
		{"d.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := r.Supported(tt.path); got != tt.want {
			t.Errorf("Supported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	r := New()

	t.Run("valid png", func(t *testing.T) {
		path := filepath.Join(dir, "ok.png")
		writePNG(t, path, 4, 6)
		img, err := r.Decode(path)
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 6 {
			t.Errorf("Decode() bounds = %v, want 4x6", b)
		}
	})

	t.Run("garbage bytes", func(t *testing.T) {
		path := filepath.Join(dir, "junk.png")
		if err := os.WriteFile(path, []byte("this is not an image at all"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := r.Decode(path)
		if !core.IsUnsupportedImage(err) {
			t.Errorf("Decode() error = %v, want UNSUPPORTED_IMAGE", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := r.Decode(filepath.Join(dir, "missing.png"))
		if err == nil || core.IsUnsupportedImage(err) {
			t.Errorf("Decode() error = %v, want plain read error", err)
		}
	})
}
