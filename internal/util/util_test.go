// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSONCreatesDirs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	if err := WriteJSON(path, map[string]int{"x": 1}); err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != "{\n  \"x\": 1\n}\n" {
		t.Fatalf("unexpected file contents: %q", got)
	}

	var back map[string]int
	if err := ReadJSON(path, &back); err != nil || back["x"] != 1 {
		t.Fatalf("ReadJSON = %v, %v", back, err)
	}
}

func TestStem(t *testing.T) {
	t.Parallel()

	if got := Stem("data/puzzle-29001.pdf"); got != "puzzle-29001" {
		t.Fatalf("Stem=%q", got)
	}
	if got := Stem("noext"); got != "noext" {
		t.Fatalf("Stem=%q", got)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "openai/gpt-4o", want: "openai_gpt_4o"},
		{in: "  Llama 3.1:8B  ", want: "llama_3_1_8b"},
		{in: "///", want: "unknown"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Fatalf("Slugify(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "hello", max: 10, want: "hello"},
		{name: "ascii truncation", in: "helloworld", max: 5, want: "hello…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち…"},
		{name: "zero width", in: "abc", max: 0, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
