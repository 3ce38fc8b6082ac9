package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/markdown"
	"github.com/matzehuels/mdscaffold/pkg/scaffold"
)

// extractOpts holds the flags of the extract command.
type extractOpts struct {
	out    string
	asJSON bool
}

// extractedDoc is the --json output of the extract command.
type extractedDoc struct {
	ID    string          `json:"id"`
	Files []markdown.File `json:"files"`
}

// extractCommand creates the extract command.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract <markdown-file>",
		Short: "List or write the annotated code blocks of a project document",
		Long: `List or write the annotated code blocks of a project document.

No project folder is created and no subprocess is run. With --out the blocks
are written below the given directory, later blocks replacing earlier ones
with the same path.`,
		Example: `  mdscaffold extract landing-page.md
  mdscaffold extract landing-page.md --out ./landing
  mdscaffold extract landing-page.md --json | jq '.files[].path'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "", "write blocks below this directory")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print blocks as JSON")

	return cmd
}

func (c *CLI) runExtract(cmd *cobra.Command, path string, opts extractOpts) error {
	content, err := scaffold.ReadMarkdown(path)
	if err != nil {
		return err
	}

	id, err := markdown.ProjectID(content)
	if err != nil {
		return err
	}
	files, err := markdown.Extract(content)
	if err != nil {
		return err
	}
	for _, f := range markdown.Unannotated(content) {
		c.Logger.Warn("Code block without file attribute", "line", f.Line, "info", f.Info)
	}
	for _, p := range markdown.Duplicates(files) {
		c.Logger.Warn("File appears more than once; the last block wins", "path", p)
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(extractedDoc{ID: id, Files: files})
	}

	if opts.out != "" {
		if err := os.MkdirAll(opts.out, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInput, err, "create %s", opts.out)
		}
		if err := scaffold.WriteFiles(opts.out, files, c.Logger); err != nil {
			return err
		}
		printSuccess("Wrote %d files for %s", len(files), StyleHighlight.Render(id))
		printFile(opts.out)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d files)\n", id, len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  %-48s %4d lines  %6d bytes\n", f.Path, lineCount(f.Content), len(f.Content))
	}
	return nil
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
