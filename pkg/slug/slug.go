// Package slug turns file names into folder-safe project identifiers.
package slug

import (
	"path/filepath"
	"regexp"
	"strings"

	goslug "github.com/goliatone/go-slug"

	"github.com/matzehuels/mdscaffold/pkg/errors"
)

var (
	// punctuation is dropped before normalisation so "v2.0" stays "v20"
	// instead of gaining a separator.
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	separators  = regexp.MustCompile(`[\s_-]+`)
	nonASCII    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphens     = regexp.MustCompile(`-{2,}`)
)

// Slugify returns a lowercase, hyphen-delimited ASCII form of s.
//
// Punctuation is dropped, runs of whitespace, underscores and hyphens
// become one hyphen, and go-slug folds accents and case. Anything still
// outside [a-z0-9-] is removed.
//
//	Slugify("My Cool_Project") // "my-cool-project"
//	Slugify("Café Menü!")      // "cafe-menu"
func Slugify(s string) string {
	s = punctuation.ReplaceAllString(s, "")
	s = strings.Trim(separators.ReplaceAllString(s, "-"), "-")
	if s == "" {
		return ""
	}

	normalized, err := goslug.Normalize(s)
	if err != nil {
		return ""
	}

	out := nonASCII.ReplaceAllString(strings.ToLower(normalized), "")
	out = hyphens.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// ProjectDirName derives the project folder name from a markdown file path
// by slugifying its base name without extension.
func ProjectDirName(markdownPath string) (string, error) {
	base := filepath.Base(markdownPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	name := Slugify(stem)
	if name == "" {
		return "", errors.New(errors.ErrCodeInput, "cannot derive a project folder name from %q", markdownPath)
	}
	return name, nil
}
