package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var fileAttrPattern = regexp.MustCompile(`(^|\s)file="[^"]*"`)

// Fence is a fenced code block as seen by a CommonMark parser.
type Fence struct {
	Info string // Info string after the opening fence, e.g. `tsx file="a.ts"`
	Line int    // 1-based line of the opening fence
}

// HasFile reports whether the fence carries a file attribute.
func (f Fence) HasFile() bool {
	return fileAttrPattern.MatchString(f.Info)
}

// Fences returns every fenced code block in the document, in order.
func Fences(src string) []Fence {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var fences []Fence
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		fence := Fence{Line: fenceLine(source, block)}
		if block.Info != nil {
			fence.Info = string(block.Info.Segment.Value(source))
		}
		fences = append(fences, fence)
		return ast.WalkSkipChildren, nil
	})
	return fences
}

// Unannotated returns the fences that lack a file attribute and are
// therefore skipped by [Extract].
func Unannotated(src string) []Fence {
	var out []Fence
	for _, f := range Fences(src) {
		if !f.HasFile() {
			out = append(out, f)
		}
	}
	return out
}

func fenceLine(source []byte, block *ast.FencedCodeBlock) int {
	var offset int
	switch {
	case block.Info != nil:
		offset = block.Info.Segment.Start
	case block.Lines().Len() > 0:
		// Content starts on the line after the opening fence.
		return bytes.Count(source[:block.Lines().At(0).Start], []byte("\n"))
	default:
		return 0
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
