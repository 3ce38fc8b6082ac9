package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdscaffold/pkg/command"
	"github.com/matzehuels/mdscaffold/pkg/scaffold"
)

// scaffoldOpts holds the flags of the scaffold command.
type scaffoldOpts struct {
	noDev bool
	dir   string
}

// scaffoldCommand creates the scaffold command.
func (c *CLI) scaffoldCommand() *cobra.Command {
	var opts scaffoldOpts

	cmd := &cobra.Command{
		Use:   "scaffold [markdown-file]",
		Short: "Create a Next.js project from a project document",
		Long: `Create a Next.js project from a project document.

The document must be wrapped in <ReactProject id="..."> and hold code blocks
annotated with file="path". A folder named after the document is created,
shadcn/ui is initialised, every block is written, the imported npm packages
are installed and the dev server is started.

Without an argument, the path is asked for interactively.`,
		Example: `  mdscaffold scaffold landing-page.md
  mdscaffold scaffold docs/dashboard.md --dir ~/projects --no-dev`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScaffold(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noDev, "no-dev", false, "do not start the dev server")
	cmd.Flags().StringVar(&opts.dir, "dir", ".", "directory in which the project folder is created")

	return cmd
}

func (c *CLI) runScaffold(cmd *cobra.Command, args []string, opts scaffoldOpts) error {
	var paths scaffold.PathProvider = promptPath{in: cmd.InOrStdin(), out: cmd.OutOrStderr()}
	if c.paths != nil {
		paths = c.paths
	}
	if len(args) == 1 {
		paths = scaffold.StaticPath(args[0])
	}

	var runner command.Runner = command.NewExecRunner(c.Logger)
	if c.runner != nil {
		runner = c.runner
	}

	cfg := c.cfg
	s := &scaffold.Scaffolder{
		Paths:   paths,
		Runner:  runner,
		Policy:  cfg.Policy(),
		Logger:  c.Logger,
		BaseDir: opts.dir,
		Options: scaffold.Options{
			DevServer:    cfg.Scaffold.DevServer && !opts.noDev,
			ToastVersion: cfg.Scaffold.ToastVersion,
		},
	}

	prog := newProgress(c.Logger)
	s.OnReady = func(res *scaffold.Result) {
		printSuccess("Project %s ready", StyleHighlight.Render(res.ProjectID))
		printKeyValue("Folder", res.Dir)
		printKeyValue("Files", fmt.Sprintf("%d", len(res.Files)))
		if len(res.Dependencies) > 0 {
			printKeyValue("Installed", strings.Join(res.Dependencies, " "))
		}
		for _, name := range res.Skipped {
			printWarning("Skipped invalid package name %q", name)
		}
		prog.done("Setup complete")
	}

	res, err := s.Run(cmd.Context())
	if err != nil {
		if res != nil && res.Dir != "" {
			printError("Setup stopped; %s was left as is", relOrAbs(res.Dir))
		}
		return err
	}

	if !s.Options.DevServer {
		printNewline()
		printNextStep("Start the dev server", "cd "+relOrAbs(res.Dir)+" && npm run dev")
	}
	return nil
}

// relOrAbs returns dir relative to the working directory when that is
// shorter to read.
func relOrAbs(dir string) string {
	wd, err := os.Getwd()
	if err != nil {
		return dir
	}
	if rel, err := filepath.Rel(wd, dir); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return rel
	}
	return dir
}
