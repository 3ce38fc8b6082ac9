package cli

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mdscaffold/pkg/errors"
)

func typeText(m pathPromptModel, text string) pathPromptModel {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(pathPromptModel)
	}
	return m
}

func press(m pathPromptModel, k tea.KeyType) pathPromptModel {
	next, _ := m.Update(tea.KeyMsg{Type: k})
	return next.(pathPromptModel)
}

func TestPathPrompt_Submit(t *testing.T) {
	m := newPathPromptModel("path")
	m = typeText(m, "  site.md ")
	m = press(m, tea.KeyEnter)

	got, err := promptResult(m)
	if err != nil {
		t.Fatalf("promptResult() error: %v", err)
	}
	if got != "site.md" {
		t.Errorf("promptResult() = %q, want %q", got, "site.md")
	}
	if m.View() != "" {
		t.Error("View() should be empty after submit")
	}
}

func TestPathPrompt_Cancel(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := typeText(newPathPromptModel("path"), "abc")
		m = press(m, k)

		_, err := promptResult(m)
		if !errors.Is(err, errors.ErrCodeInput) {
			t.Fatalf("promptResult() error = %v, want INPUT", err)
		}
		if errors.UserMessage(err) != "user interrupted input" {
			t.Errorf("UserMessage() = %q", errors.UserMessage(err))
		}
	}
}

func TestPathPrompt_EmptySubmit(t *testing.T) {
	m := press(newPathPromptModel("path"), tea.KeyEnter)
	if _, err := promptResult(m); !errors.Is(err, errors.ErrCodeInput) {
		t.Errorf("promptResult() error = %v, want INPUT", err)
	}
}

func TestPathPrompt_TabCompletes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "landing-page.md"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	m := typeText(newPathPromptModel("path"), filepath.Join(dir, "land"))
	m = press(m, tea.KeyTab)

	if got, want := m.input.Value(), filepath.Join(dir, "landing-page.md"); got != want {
		t.Errorf("value after tab = %q, want %q", got, want)
	}
}

func TestPathSuggestions(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dashboard.md"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got := pathSuggestions(filepath.Join(dir, "d"))
	want := []string{
		filepath.Join(dir, "dashboard.md"),
		filepath.Join(dir, "docs") + string(filepath.Separator),
	}
	if len(got) != len(want) {
		t.Fatalf("pathSuggestions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pathSuggestions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := pathSuggestions(filepath.Join(dir, "zzz")); len(got) != 0 {
		t.Errorf("pathSuggestions(no match) = %v, want empty", got)
	}
}
