package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdscaffold/pkg/deps"
	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/markdown"
	"github.com/matzehuels/mdscaffold/pkg/scaffold"
)

// depsOpts holds the flags of the deps command.
type depsOpts struct {
	ignore    []string
	blacklist []string
}

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	var opts depsOpts

	cmd := &cobra.Command{
		Use:   "deps <markdown-file>",
		Short: "Print the npm packages a project document imports",
		Long: `Print the npm packages a project document imports, one per line.

Relative and alias imports are dropped, imports with a path keep their
first two segments and the configured ignore list and blacklisted prefixes
are applied. Flags add to the configured policy. Names npm would reject are
printed with a warning; scaffold leaves them out of the install.`,
		Example: `  mdscaffold deps landing-page.md
  mdscaffold deps landing-page.md --ignore react --blacklist @radix-ui/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeps(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.ignore, "ignore", nil, "exact import to leave out (repeatable)")
	cmd.Flags().StringSliceVar(&opts.blacklist, "blacklist", nil, "import prefix to leave out (repeatable)")

	return cmd
}

func (c *CLI) runDeps(cmd *cobra.Command, path string, opts depsOpts) error {
	content, err := scaffold.ReadMarkdown(path)
	if err != nil {
		return err
	}
	files, err := markdown.Extract(content)
	if err != nil {
		return err
	}

	policy := c.cfg.Policy()
	policy.Ignore = append(policy.Ignore, opts.ignore...)
	policy.BlacklistPrefixes = append(policy.BlacklistPrefixes, opts.blacklist...)

	out := cmd.OutOrStdout()
	for _, name := range deps.Infer(files, policy).Sorted() {
		if err := errors.ValidateNpmPackageName(name); err != nil {
			c.Logger.Warn("Not a valid npm package name; scaffold will not install it", "name", name)
		}
		fmt.Fprintln(out, name)
	}

	if deps.UsesToast(content) {
		c.Logger.Info("Document uses toast; shadcn will be pinned", "version", c.cfg.Scaffold.ToastVersion)
	}
	return nil
}
