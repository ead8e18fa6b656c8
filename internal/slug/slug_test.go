package slug_test

import (
	"testing"

	"github.com/blog-content-api/internal/slug"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"already normalized", "hello-world", "hello-world"},
		{"surrounding whitespace", "  Hello World  ", "hello-world"},
		{"interior whitespace run", "hello \t\n world", "hello-world"},
		{"punctuation", "Go: The Good Parts!", "go-the-good-parts"},
		{"reserved hash stripped", "post#meta#comment", "post-meta-comment"},
		{"hyphen runs collapsed", "a---b----c", "a-b-c"},
		{"edge hyphens stripped", "--hello--", "hello"},
		{"unicode replaced", "café Ölçü", "caf-l"},
		{"digits kept", "top 10 tips 2024", "top-10-tips-2024"},
		{"empty", "", ""},
		{"only punctuation", "!!! ???", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := slug.Normalize(tc.input); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello World",
		"  --Weird -- Input!!  ",
		"já-normalizado",
		"POST#slug",
		"",
	}
	for _, in := range inputs {
		once := slug.Normalize(in)
		twice := slug.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestFromTitleNeverEmpty(t *testing.T) {
	if got := slug.FromTitle("My First Post"); got != "my-first-post" {
		t.Errorf("FromTitle = %q, want %q", got, "my-first-post")
	}

	// A title with no usable characters falls back to a generated id.
	got := slug.FromTitle("!!!")
	if got == "" {
		t.Fatal("FromTitle returned empty slug")
	}
	if len(got) != 36 {
		t.Errorf("Expected uuid fallback (36 chars), got %q", got)
	}
}
