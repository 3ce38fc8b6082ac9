package markdown

import (
	"regexp"
	"strings"

	"github.com/matzehuels/mdscaffold/pkg/errors"
)

// File is a code block annotated with the path it should be written to.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

var (
	// blockPattern matches ```<lang> file="<path>"\n<content>``` with the
	// content ending at the first closing fence.
	blockPattern = regexp.MustCompile("```[^\\s`]+[ \\t]+file=\"([^\"]*)\"\\r?\\n([\\s\\S]*?)```")

	projectPattern = regexp.MustCompile(`<ReactProject\s+id="([^"]+)"\s*>`)
)

// Extract returns the annotated code blocks of a project document in
// document order.
//
// A block whose file attribute is empty or whitespace fails the whole
// document with an [errors.ErrCodeFormat] error and no partial result.
// A document without annotated blocks yields an empty slice. Blocks that
// repeat a path are all returned; writing them in order makes the last
// one win.
func Extract(text string) ([]File, error) {
	matches := blockPattern.FindAllStringSubmatch(text, -1)

	files := make([]File, 0, len(matches))
	for i, m := range matches {
		if strings.TrimSpace(m[1]) == "" {
			return nil, errors.New(errors.ErrCodeFormat, "missing file name in code block %d: file=\"\"", i+1)
		}
		files = append(files, File{Path: m[1], Content: m[2]})
	}
	return files, nil
}

// ProjectID returns the id of the first <ReactProject id="..."> tag.
func ProjectID(text string) (string, error) {
	m := projectPattern.FindStringSubmatch(text)
	if m == nil {
		return "", errors.New(errors.ErrCodeFormat, `<ReactProject id="..."> tag not found, wrap the markdown with this tag`)
	}
	return m[1], nil
}

// Duplicates returns the paths that appear in more than one block, in the
// order their second occurrence is seen.
func Duplicates(files []File) []string {
	seen := make(map[string]int, len(files))
	var dups []string
	for _, f := range files {
		seen[f.Path]++
		if seen[f.Path] == 2 {
			dups = append(dups, f.Path)
		}
	}
	return dups
}
