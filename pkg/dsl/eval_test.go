package dsl

import (
	"testing"

	"github.com/rushteam/tagkit/core"
)

func TestCompileAndKeep(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		tag        string
		confidence float64
		want       bool
	}{
		{"string prefix", `tag.startsWith("blue")`, "blue_eyes", 0.5, true},
		{"string prefix miss", `tag.startsWith("blue")`, "red_eyes", 0.5, false},
		{"confidence compare", `confidence > 0.8`, "any", 0.9, true},
		{"combined", `tag.contains("hair") && confidence >= 0.5`, "long_hair", 0.5, true},
		{"combined miss", `tag.contains("hair") && confidence >= 0.5`, "long_hair", 0.4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.expr, err)
			}
			got, err := sel.Keep(tt.tag, tt.confidence)
			if err != nil {
				t.Fatalf("Keep() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Keep(%q, %v) = %v, want %v", tt.tag, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile("tag ==="); !core.IsInvalidInput(err) {
		t.Errorf("syntax error: got %v, want INVALID_INPUT", err)
	}
	if _, err := Compile("unknown_var > 1"); !core.IsInvalidInput(err) {
		t.Errorf("unknown variable: got %v, want INVALID_INPUT", err)
	}
}

func TestKeepNonBoolean(t *testing.T) {
	sel, err := Compile(`tag + "x"`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if _, err := sel.Keep("a", 0.5); err == nil {
		t.Error("Keep() expected error for non-boolean expression")
	}
}
