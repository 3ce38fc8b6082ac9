// Package config loads mdscaffold settings from a TOML file.
//
// Settings are optional: without a file [Default] is used. A file only needs
// the keys it changes:
//
//	[deps]
//	ignore = ["react", "react-dom"]
//	blacklist_prefixes = ["next/", "node:"]
//
//	[harvest]
//	url = "https://github.com/owner/repo/tree/main/src"
//	output = "output.md"
//	skip = ["components/ui/*", "node_modules/*"]
//
//	[scaffold]
//	dev_server = false
//
//	[cache]
//	ttl = "72h"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mdscaffold/pkg/deps"
	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/harvest"
	"github.com/matzehuels/mdscaffold/pkg/scaffold"
)

// FileName is the config file looked up in the working directory.
const FileName = "mdscaffold.toml"

// Config is the complete set of settings.
type Config struct {
	Deps     Deps     `toml:"deps"`
	Harvest  Harvest  `toml:"harvest"`
	Scaffold Scaffold `toml:"scaffold"`
	Cache    Cache    `toml:"cache"`
}

// Deps configures dependency inference.
type Deps struct {
	Ignore            []string `toml:"ignore"`
	BlacklistPrefixes []string `toml:"blacklist_prefixes"`
}

// Harvest configures the repository crawler.
type Harvest struct {
	URL        string   `toml:"url"`
	Output     string   `toml:"output"`
	Skip       []string `toml:"skip"`
	Extensions []string `toml:"extensions"`
	// Branch overrides the branch parsed from URL when set.
	Branch string `toml:"branch"`
}

// Scaffold configures project scaffolding.
type Scaffold struct {
	DevServer    bool   `toml:"dev_server"`
	ToastVersion string `toml:"toast_version"`
}

// Cache configures the harvested blob cache.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	TTL      string `toml:"ttl"`
}

// Default returns the built-in settings.
func Default() *Config {
	policy := deps.DefaultPolicy()
	return &Config{
		Deps: Deps{
			BlacklistPrefixes: policy.BlacklistPrefixes,
		},
		Harvest: Harvest{
			Output:     "output.md",
			Skip:       slices.Clone(harvest.DefaultSkip),
			Extensions: slices.Clone(harvest.DefaultExtensions),
		},
		Scaffold: Scaffold{
			DevServer:    true,
			ToastVersion: scaffold.DefaultToastVersion,
		},
		Cache: Cache{
			TTL: "168h",
		},
	}
}

// Load reads settings from path on top of [Default]. With an empty path,
// [FileName] in the working directory is used when it exists; otherwise
// the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "cannot determine working dir")
		}
		candidate := filepath.Join(wd, FileName)
		if _, err := os.Stat(candidate); err != nil {
			return cfg, nil
		}
		path = candidate
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if _, err := cfg.CacheTTL(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Policy returns the dependency inference policy.
func (c *Config) Policy() deps.Policy {
	return deps.Policy{
		Ignore:            c.Deps.Ignore,
		BlacklistPrefixes: c.Deps.BlacklistPrefixes,
	}
}

// CacheTTL parses the cache TTL. An empty value means entries never expire.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeConfig, err, "invalid cache ttl %q", c.Cache.TTL)
	}
	return ttl, nil
}
