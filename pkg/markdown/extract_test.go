package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mdscaffold/pkg/errors"
)

func TestExtract(t *testing.T) {
	doc := "<ReactProject id=\"demo\">\n\n" +
		"```ts file=\"a.ts\"\nimport z from 'zod'```\n\n" +
		"```ts file=\"b/c.ts\"\nimport './local'```\n\n" +
		"</ReactProject>\n"

	files, err := Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, []File{
		{Path: "a.ts", Content: "import z from 'zod'"},
		{Path: "b/c.ts", Content: "import './local'"},
	}, files)
}

func TestExtract_ContentVerbatim(t *testing.T) {
	content := "export const x = 1\n\n  // indented\n\tconst y = `template`\n"
	doc := "```tsx file=\"lib/x.tsx\"\n" + content + "```\n"

	files, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, content, files[0].Content)
}

func TestExtract_AnyLanguageTag(t *testing.T) {
	tags := []string{"tsx", "css", "json", "c++", "objective-c", "x.y"}
	for _, tag := range tags {
		t.Run(tag, func(t *testing.T) {
			files, err := Extract("```" + tag + " file=\"f\"\nbody\n```")
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, "f", files[0].Path)
		})
	}
}

func TestExtract_NoBlocks(t *testing.T) {
	files, err := Extract("# just a heading\n\n```go\nfmt.Println()\n```\n")
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NotNil(t, files)
}

func TestExtract_SkipsFencesWithoutFile(t *testing.T) {
	doc := "```bash\nnpm run dev\n```\n\n```ts file=\"a.ts\"\nx\n```\n"

	files, err := Extract(doc)
	require.NoError(t, err)
	assert.Equal(t, []File{{Path: "a.ts", Content: "x\n"}}, files)
}

func TestExtract_EmptyPathFailsWholeDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "```ts file=\"a.ts\"\nok\n```\n```ts file=\"\"\nbad\n```\n"},
		{"whitespace", "```ts file=\"  \"\nbad\n```\n```ts file=\"a.ts\"\nok\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := Extract(tt.doc)
			require.Error(t, err)
			assert.Nil(t, files)
			assert.True(t, errors.Is(err, errors.ErrCodeFormat))
		})
	}
}

func TestExtract_FirstClosingFenceEndsBlock(t *testing.T) {
	doc := "```md file=\"README.md\"\nsee ```inline``` here\n```\n"

	files, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "see ", files[0].Content)
}

func TestExtract_DuplicatePathsKeptInOrder(t *testing.T) {
	doc := "```ts file=\"a.ts\"\none\n```\n```ts file=\"a.ts\"\ntwo\n```\n"

	files, err := Extract(doc)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "one\n", files[0].Content)
	assert.Equal(t, "two\n", files[1].Content)
	assert.Equal(t, []string{"a.ts"}, Duplicates(files))
}

func TestExtract_CRLF(t *testing.T) {
	files, err := Extract("```ts file=\"a.ts\"\r\nx\r\n```")
	require.NoError(t, err)
	assert.Equal(t, []File{{Path: "a.ts", Content: "x\r\n"}}, files)
}

func TestProjectID(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr bool
	}{
		{"simple", `<ReactProject id="demo">`, "demo", false},
		{"spaces", "intro\n<ReactProject   id=\"my-app\" >\nbody", "my-app", false},
		{"first wins", `<ReactProject id="one"><ReactProject id="two">`, "one", false},
		{"missing", "# no tag here", "", true},
		{"no id", "<ReactProject>", "", true},
		{"empty id", `<ReactProject id="">`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProjectID(tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
