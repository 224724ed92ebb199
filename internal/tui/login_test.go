package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoginModel_Update(t *testing.T) {
	tests := []struct {
		name         string
		key          tea.KeyMsg
		wantDone     bool
		wantCanceled bool
		wantQuit     bool
	}{
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, true, false, true},
		{"newline confirms", tea.KeyMsg{Type: tea.KeyCtrlJ}, true, false, true},
		{"ctrl+c cancels", tea.KeyMsg{Type: tea.KeyCtrlC}, false, true, true},
		{"esc cancels", tea.KeyMsg{Type: tea.KeyEsc}, false, true, true},
		{"other keys ignored", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewLoginModel("Login")
			next, cmd := m.Update(tt.key)
			got := next.(LoginModel)

			if got.done != tt.wantDone {
				t.Errorf("done = %v, want %v", got.done, tt.wantDone)
			}
			if got.canceled != tt.wantCanceled {
				t.Errorf("canceled = %v, want %v", got.canceled, tt.wantCanceled)
			}
			if (cmd != nil) != tt.wantQuit {
				t.Errorf("quit cmd = %v, want %v", cmd != nil, tt.wantQuit)
			}
		})
	}
}

func TestLoginModel_IgnoresNonKeyMessages(t *testing.T) {
	m := NewLoginModel("Login")
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if cmd != nil || next.(LoginModel).done {
		t.Error("window size message should not change state")
	}
}

func TestLoginModel_View(t *testing.T) {
	m := NewLoginModel("Login to Claude", "Log in in the browser window", "Press Enter here")
	view := m.View()

	for _, want := range []string{"Login to Claude", "1. Log in in the browser window", "2. Press Enter here", "enter: done"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(next.View(), "saving session") {
		t.Errorf("View() after Enter = %q", next.View())
	}
}
