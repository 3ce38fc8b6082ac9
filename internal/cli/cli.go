// Package cli implements the mdscaffold command-line interface.
//
// This package provides commands for scaffolding a Next.js project from a
// project document, harvesting a GitHub repository into such a document,
// and inspecting documents without touching the filesystem. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - scaffold: Create a project folder from a document and start it
//   - harvest: Collect a repository's source files into a document
//   - extract: List or write the annotated code blocks of a document
//   - deps: Print the npm packages a document imports
//   - cache: Manage the harvested file cache
//
// # Configuration
//
// Settings are read from mdscaffold.toml in the working directory, or from
// the file named by --config. Flags override config values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mdscaffold/pkg/buildinfo"
	"github.com/matzehuels/mdscaffold/pkg/command"
	"github.com/matzehuels/mdscaffold/pkg/config"
	"github.com/matzehuels/mdscaffold/pkg/httputil"
	"github.com/matzehuels/mdscaffold/pkg/scaffold"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "mdscaffold"

	// tokenEnv names the environment variable holding the GitHub token.
	tokenEnv = "GITHUB_TOKEN"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config

	// runner and paths replace subprocess execution and the interactive
	// prompt when set.
	runner command.Runner
	paths  scaffold.PathProvider
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the loaded settings.
func (c *CLI) Config() *config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mdscaffold turns project documents into running Next.js apps",
		Long:         `mdscaffold reads a markdown document of annotated code blocks, creates a Next.js project from it with shadcn/ui and the packages it imports, and can harvest a GitHub repository back into such a document.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.FileName+")")

	// Register all subcommands
	root.AddCommand(c.scaffoldCommand())
	root.AddCommand(c.harvestCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if c.configPath != "" {
		c.Logger.Debug("Loaded config", "path", c.configPath)
	}
	return nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the blob cache, or returns nil when caching is disabled.
// A cache that cannot be opened only disables caching.
func (c *CLI) newCache(noCache bool) *httputil.Cache {
	if noCache || c.cfg.Cache.Disabled {
		return nil
	}
	ttl, err := c.cfg.CacheTTL()
	if err != nil {
		ttl = 7 * 24 * time.Hour
	}
	cache, err := httputil.NewCache("", ttl)
	if err != nil {
		c.Logger.Warn("Cache unavailable", "err", err)
		return nil
	}
	return cache
}
