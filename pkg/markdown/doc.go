// Package markdown reads and writes project documents: markdown files that
// carry a whole web project as fenced code blocks.
//
// # Document Format
//
// A project document is wrapped in a single tag carrying the project id and
// embeds one fenced block per file:
//
//	<ReactProject id="demo">
//
//	```tsx file="app/page.tsx"
//	export default function Page() { return null }
//	```
//
//	</ReactProject>
//
// The language tag may be any word; the file attribute is what makes a
// fence part of the project. Fences without it are ignored.
//
// # Reading and Writing
//
// [Extract] returns the annotated blocks in document order and [ProjectID]
// returns the wrapper tag's id. [Format] is the inverse of [Extract]: it
// renders file records into a document that extracts back to the same
// paths and contents.
//
// [Fences] lists every fenced block as a CommonMark parser sees it, which
// lets callers report fences that were skipped for lacking a file attribute.
package markdown
