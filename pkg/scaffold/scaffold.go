// Package scaffold turns a project document into a running Next.js project.
//
// [Scaffolder.Run] reads the document, creates the project folder named after
// it, initialises shadcn/ui, writes every annotated code block, installs the
// inferred third-party packages and finally starts the dev server. Every
// step is fatal on failure; subprocesses run one at a time inside the
// project folder through a [command.Runner].
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
	"github.com/matzehuels/mdscaffold/pkg/slug"
)

// DefaultToastVersion is the shadcn release installed for documents that
// use the toast components.
const DefaultToastVersion = "v2.3.0"

// PathProvider supplies the path of the document to scaffold.
type PathProvider interface {
	MarkdownPath(ctx context.Context) (string, error)
}

// StaticPath is a PathProvider for a path known up front.
type StaticPath string

// MarkdownPath returns the path itself.
func (p StaticPath) MarkdownPath(context.Context) (string, error) {
	return string(p), nil
}

// Options tunes a scaffold run.
type Options struct {
	// DevServer starts "npm run dev" after setup.
	DevServer bool
	// ToastVersion pins the shadcn release for toast documents. Empty means
	// [DefaultToastVersion].
	ToastVersion string
}

// DefaultOptions starts the dev server and pins the default toast release.
func DefaultOptions() Options {
	return Options{DevServer: true, ToastVersion: DefaultToastVersion}
}

// Result describes a completed scaffold.
type Result struct {
	ProjectID    string
	MarkdownPath string
	Dir          string
	UsesToast    bool
	Files        []markdown.File
	Dependencies []string
	// Skipped holds names that were inferred but are not valid npm names.
	Skipped []string
}

// Scaffolder creates projects from documents.
type Scaffolder struct {
	Paths   PathProvider
	Runner  command.Runner
	Policy  deps.Policy
	Logger  *log.Logger
	BaseDir string
	Options Options

	// OnReady is called once the project is set up, before the dev server
	// starts.
	OnReady func(*Result)
}

// Run executes the whole workflow and returns what it created. With
// Options.DevServer set, Run returns only after the dev server exits.
func (s *Scaffolder) Run(ctx context.Context) (*Result, error) {
	logger := s.logger()

	path, err := s.Paths.MarkdownPath(ctx)
	if err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New(errors.ErrCodeInput, "no markdown file given")
	}

	logger.Info("Reading markdown file", "path", path)
	content, err := ReadMarkdown(path)
	if err != nil {
		return nil, err
	}

	id, err := markdown.ProjectID(content)
	if err != nil {
		return nil, err
	}

	name, err := slug.ProjectDirName(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Using project slug as folder name", "slug", name)

	dir, err := s.createProjectDir(name)
	if err != nil {
		return nil, err
	}
	logger.Info("Created project folder", "dir", dir)

	res := &Result{ProjectID: id, MarkdownPath: path, Dir: dir, UsesToast: deps.UsesToast(content)}

	if err := s.setupShadcn(ctx, dir, res.UsesToast); err != nil {
		return res, err
	}

	for _, f := range markdown.Unannotated(content) {
		logger.Warn("Code block without file attribute is not written", "line", f.Line, "info", f.Info)
	}
	files, err := markdown.Extract(content)
	if err != nil {
		return res, err
	}
	for _, p := range markdown.Duplicates(files) {
		logger.Warn("File appears more than once; the last block wins", "path", p)
	}
	if err := WriteFiles(dir, files, logger); err != nil {
		return res, err
	}
	res.Files = files

	installed, skipped, err := s.installDependencies(ctx, dir, deps.Infer(files, s.Policy))
	res.Dependencies, res.Skipped = installed, skipped
	if err != nil {
		return res, err
	}

	if s.OnReady != nil {
		s.OnReady(res)
	}

	if s.Options.DevServer {
		logger.Info("All setup complete. Launching dev server...")
		if err := s.Runner.Run(ctx, command.Command{Name: "npm", Args: []string{"run", "dev"}, Dir: dir}); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Scaffolder) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *Scaffolder) createProjectDir(name string) (string, error) {
	base := s.BaseDir
	if base == "" {
		base = "."
	}
	dir, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInput, err, "resolve project directory")
	}

	if _, err := os.Stat(dir); err == nil {
		return "", errors.New(errors.ErrCodeInput, "project directory already exists: %s", dir)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrap(errors.ErrCodeInput, err, "check project directory")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInput, err, "create project directory")
	}
	return dir, nil
}

// ReadMarkdown returns the text of the document at path. A missing file is
// an [errors.ErrCodeInput] error.
func ReadMarkdown(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeInput, "markdown file not found: %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeInput, err, "read markdown file %s", path)
	}
	return string(data), nil
}
