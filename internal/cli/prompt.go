package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mdscaffold/pkg/errors"
)

// maxSuggestions bounds the completion candidates offered per keystroke.
const maxSuggestions = 50

var promptLabelStyle = StyleTitle

// pathPromptModel asks for a file path, completing against the filesystem
// on tab.
type pathPromptModel struct {
	input     textinput.Model
	label     string
	value     string
	submitted bool
	cancelled bool
}

func newPathPromptModel(label string) pathPromptModel {
	ti := textinput.New()
	ti.Placeholder = "project.md"
	ti.Prompt = iconInfo + " "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.ShowSuggestions = true
	ti.Focus()

	m := pathPromptModel{input: ti, label: label}
	m.input.SetSuggestions(pathSuggestions(""))
	return m
}

func (m pathPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pathPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.input.SetSuggestions(pathSuggestions(v))
	}
	return m, cmd
}

func (m pathPromptModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	return promptLabelStyle.Render(m.label) + "\n" + m.input.View() + "\n" + StyleDim.Render("tab to complete · esc to cancel") + "\n"
}

// pathSuggestions returns filesystem entries starting with prefix.
// Directories carry a trailing separator so completion can continue.
func pathSuggestions(prefix string) []string {
	matches, err := filepath.Glob(prefix + "*")
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	for i, p := range matches {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			matches[i] = p + string(filepath.Separator)
		}
	}
	return matches
}

// promptPath asks for the markdown file interactively. It implements
// scaffold.PathProvider.
type promptPath struct {
	in  io.Reader
	out io.Writer
}

// MarkdownPath runs the prompt until the user submits or cancels.
func (p promptPath) MarkdownPath(ctx context.Context) (string, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}

	final, err := tea.NewProgram(newPathPromptModel("Enter the path to the markdown file"), opts...).Run()
	if err != nil {
		if ctx.Err() != nil || stderrors.Is(err, tea.ErrProgramKilled) {
			return "", context.Canceled
		}
		return "", errors.Wrap(errors.ErrCodeInput, err, "prompt failed")
	}
	return promptResult(final.(pathPromptModel))
}

func promptResult(m pathPromptModel) (string, error) {
	if m.cancelled {
		return "", errors.New(errors.ErrCodeInput, "user interrupted input")
	}
	if m.value == "" {
		return "", errors.New(errors.ErrCodeInput, "no markdown file given")
	}
	return m.value, nil
}
