package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/harvest"
	"github.com/matzehuels/mdscaffold/pkg/integrations/github"
	"github.com/matzehuels/mdscaffold/pkg/markdown"
	"github.com/matzehuels/mdscaffold/pkg/slug"
)

// harvestOpts holds the flags of the harvest command.
type harvestOpts struct {
	output     string
	skip       []string
	extensions []string
	branch     string
	id         string
	noCache    bool
	baseURL    string
}

// harvestCommand creates the harvest command.
func (c *CLI) harvestCommand() *cobra.Command {
	var opts harvestOpts

	cmd := &cobra.Command{
		Use:   "harvest [github-url]",
		Short: "Collect a GitHub repository's source files into a project document",
		Long: `Collect a GitHub repository's source files into a project document.

The repository is walked depth-first through the GitHub contents API. Paths
matching a skip pattern and files without a supported extension are left
out. Set GITHUB_TOKEN to raise the API rate limit.

The URL may point at a branch and subdirectory:
  https://github.com/<owner>/<repo>/tree/<branch>/<path>`,
		Example: `  mdscaffold harvest https://github.com/owner/repo
  mdscaffold harvest https://github.com/owner/repo/tree/dev/src -o src.md --skip 'src/legacy/*'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHarvest(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default from config, output.md)")
	cmd.Flags().StringSliceVar(&opts.skip, "skip", nil, "skip pattern, '*' crosses directories (repeatable; replaces configured patterns)")
	cmd.Flags().StringSliceVar(&opts.extensions, "ext", nil, "harvested file extension (repeatable; replaces configured list)")
	cmd.Flags().StringVar(&opts.branch, "branch", "", "branch to read (overrides the URL)")
	cmd.Flags().StringVar(&opts.id, "id", "", "project id written to the document (default: slug of the repo name)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "download every file even if cached")
	cmd.Flags().StringVar(&opts.baseURL, "api-url", "", "GitHub API base URL, for GitHub Enterprise")

	return cmd
}

func (c *CLI) runHarvest(cmd *cobra.Command, args []string, opts harvestOpts) error {
	ctx := cmd.Context()
	cfg := c.cfg.Harvest

	rawURL := cfg.URL
	if len(args) == 1 {
		rawURL = args[0]
	}
	if rawURL == "" {
		return errors.New(errors.ErrCodeInput, "no repository URL given (argument or [harvest] url in config)")
	}

	ref, err := github.ParseRepoURL(rawURL)
	if err != nil {
		return err
	}
	if branch := firstNonEmpty(opts.branch, cfg.Branch); branch != "" {
		ref.Branch = branch
	}

	skip := cfg.Skip
	if cmd.Flags().Changed("skip") {
		skip = opts.skip
	}
	extensions := cfg.Extensions
	if cmd.Flags().Changed("ext") {
		extensions = opts.extensions
	}
	output := firstNonEmpty(opts.output, cfg.Output, "output.md")

	var srcOpts []github.Option
	if opts.baseURL != "" {
		srcOpts = append(srcOpts, github.WithBaseURL(opts.baseURL))
	}
	token := os.Getenv(tokenEnv)
	src, err := github.NewSource(ctx, ref, token, srcOpts...)
	if err != nil {
		return err
	}

	printInfo("Fetching %s", StyleHighlight.Render(ref.Owner+"/"+ref.Repo))
	printKeyValue("Branch", ref.Branch)
	printKeyValue("Path", firstNonEmpty(ref.Path, "/"))
	if len(skip) > 0 {
		printKeyValue("Skip", fmt.Sprintf("%v", skip))
	}
	if token == "" {
		c.Logger.Debug("No " + tokenEnv + " set; unauthenticated requests are limited to 60 per hour")
	}

	spinner := newSpinnerWithContext(ctx, "Harvesting...")
	crawler, err := harvest.NewCrawler(src, harvest.Options{
		Skip:       skip,
		Extensions: extensions,
		Cache:      c.newCache(opts.noCache),
		Logger:     c.Logger,
		OnFile: func(path string) {
			spinner.SetMessage("Harvested " + path)
		},
	})
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner.Start()
	files, err := crawler.Crawl(ctx, ref.Path)
	if err != nil {
		spinner.StopWithError("Harvest failed")
		return err
	}
	spinner.Stop()

	stats := crawler.Stats()
	if len(files) == 0 {
		printWarning("No files were downloaded or all files were skipped")
		printStats(stats.Files, stats.Skipped, stats.Failed, stats.Cached)
		return nil
	}

	id := firstNonEmpty(opts.id, slug.Slugify(ref.Repo), ref.Repo)
	if err := writeOutput(output, markdown.Format(id, files)); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Harvested %d files", len(files)))

	printSuccess("Output written")
	printFile(output)
	printStats(stats.Files, stats.Skipped, stats.Failed, stats.Cached)
	printNewline()
	printNextStep("Scaffold it", appName+" scaffold "+output)
	return nil
}

func writeOutput(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
