package utils

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single", "cat", []string{"cat"}},
		{"trims spaces", " a, b ,c ", []string{"a", "b", "c"}},
		{"drops empty items", "a,,b,", []string{"a", "b"}},
		{"keeps inner underscores", "0_0, ^_^", []string{"0_0", "^_^"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJoinTags(t *testing.T) {
	if got := JoinTags([]string{"a", "b", "c"}); got != "a, b, c" {
		t.Errorf("JoinTags() = %q, want %q", got, "a, b, c")
	}
	if got := JoinTags(nil); got != "" {
		t.Errorf("JoinTags(nil) = %q, want empty", got)
	}
}
