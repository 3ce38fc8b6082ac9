package markdown

import (
	"path"
	"strings"
)

// scriptLabel is the fence label shared by the JavaScript/TypeScript family.
const scriptLabel = "tsx"

// Label returns the fence language label for a file path.
// js, jsx, ts and tsx all map to "tsx"; other extensions are used as-is and
// files without an extension are labelled "text".
func Label(p string) string {
	ext := strings.TrimPrefix(path.Ext(p), ".")
	switch strings.ToLower(ext) {
	case "js", "jsx", "ts", "tsx":
		return scriptLabel
	case "":
		return "text"
	}
	return ext
}

// Format renders files as a project document with the given id.
//
// Contents are written verbatim between the opening line and the closing
// fence, so [Extract] returns the same paths and contents as long as no
// content contains a literal ``` sequence, no content ends in a backtick
// and no path contains a quote. A trailing backtick with no newline after
// it joins the closing fence, and [Extract] ends the block one character
// early.
func Format(projectID string, files []File) string {
	var b strings.Builder

	b.WriteString(`<ReactProject id="`)
	b.WriteString(projectID)
	b.WriteString("\">\n\n")

	for _, f := range files {
		b.WriteString("```")
		b.WriteString(Label(f.Path))
		b.WriteString(` file="`)
		b.WriteString(f.Path)
		b.WriteString("\"\n")
		b.WriteString(f.Content)
		b.WriteString("```\n\n")
	}

	b.WriteString("</ReactProject>\n")
	return b.String()
}
