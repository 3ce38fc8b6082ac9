package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mdscaffold/pkg/command"
	"github.com/matzehuels/mdscaffold/pkg/deps"
	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/markdown"
)

// ShadcnCommands returns the shadcn/ui setup sequence run in dir.
//
// Toast documents install the pinned release first and then call the
// unpinned package without template flags, so the local install is used.
// Everything else runs the latest release with the Next.js template.
func ShadcnCommands(dir string, usesToast bool, toastVersion string) []command.Command {
	if toastVersion == "" {
		toastVersion = DefaultToastVersion
	}

	var cmds []command.Command
	pkg := "shadcn@latest"
	initArgs := []string{"init", "-t", "next", "-b", "neutral", "--cwd", "."}
	if usesToast {
		cmds = append(cmds, command.Command{Name: "npm", Args: []string{"install", "shadcn@" + toastVersion}, Dir: dir})
		pkg = "shadcn"
		initArgs = []string{"init"}
	}

	return append(cmds,
		command.Command{Name: "npx", Args: append([]string{pkg}, initArgs...), Dir: dir, Stdin: strings.NewReader(".\n")},
		command.Command{Name: "npx", Args: []string{pkg, "add", "-a"}, Dir: dir},
	)
}

func (s *Scaffolder) setupShadcn(ctx context.Context, dir string, usesToast bool) error {
	if usesToast {
		s.logger().Info("Toast is enabled", "version", s.toastVersion())
	}
	for _, cmd := range ShadcnCommands(dir, usesToast, s.toastVersion()) {
		if err := s.Runner.Run(ctx, cmd); err != nil {
			return err
		}
	}
	s.logger().Info("ShadCN setup complete")
	return nil
}

func (s *Scaffolder) toastVersion() string {
	if s.Options.ToastVersion != "" {
		return s.Options.ToastVersion
	}
	return DefaultToastVersion
}

// PackageManager returns "pnpm" when dir holds a pnpm lockfile and "npm"
// otherwise.
func PackageManager(dir string) string {
	if _, err := os.Stat(filepath.Join(dir, "pnpm-lock.yaml")); err == nil {
		return "pnpm"
	}
	return "npm"
}

// InstallCommand returns the single batched install for names, or false
// when there is nothing to install.
func InstallCommand(dir string, names []string) (command.Command, bool) {
	if len(names) == 0 {
		return command.Command{}, false
	}
	args := append([]string{"install"}, names...)
	return command.Command{Name: PackageManager(dir), Args: args, Dir: dir}, true
}

func (s *Scaffolder) installDependencies(ctx context.Context, dir string, set deps.Set) (installed, skipped []string, err error) {
	logger := s.logger()

	for _, name := range set.Sorted() {
		if err := errors.ValidateNpmPackageName(name); err != nil {
			logger.Warn("Skipping invalid package name", "name", name, "err", errors.UserMessage(err))
			skipped = append(skipped, name)
			continue
		}
		installed = append(installed, name)
	}

	cmd, ok := InstallCommand(dir, installed)
	if !ok {
		logger.Info("No external dependencies to install")
		return installed, skipped, nil
	}

	logger.Info("Detected dependencies", "packages", strings.Join(installed, " "))
	return installed, skipped, s.Runner.Run(ctx, cmd)
}

// WriteFiles writes files below dir in order, so a later block with the
// same path replaces an earlier one.
func WriteFiles(dir string, files []markdown.File, logger *log.Logger) error {
	for _, f := range files {
		if err := errors.ValidatePath(f.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInput, err, "refusing to write %q", f.Path)
		}

		full := filepath.Join(dir, filepath.FromSlash(f.Path))
		parent := filepath.Dir(full)
		if _, err := os.Stat(parent); os.IsNotExist(err) {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return errors.Wrap(errors.ErrCodeInput, err, "create directory %s", parent)
			}
			logger.Debug("Created directory", "dir", parent)
		}

		if err := os.WriteFile(full, []byte(f.Content), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInput, err, "write %s", full)
		}
		logger.Info("Created file", "path", f.Path)
	}
	return nil
}
