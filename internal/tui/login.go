package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCanceled is returned when the user aborts the prompt
var ErrCanceled = errors.New("login canceled")

// LoginModel waits for the user to confirm they finished logging in
type LoginModel struct {
	title    string
	steps    []string
	done     bool
	canceled bool
}

// NewLoginModel creates the prompt with numbered instructions
func NewLoginModel(title string, steps ...string) LoginModel {
	return LoginModel{title: title, steps: steps}
}

// Init initializes the model
func (m LoginModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	// piped stdin delivers a bare newline
	case tea.KeyEnter, tea.KeyCtrlJ:
		m.done = true
		return m, tea.Quit
	case tea.KeyCtrlC, tea.KeyEsc:
		m.canceled = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the prompt
func (m LoginModel) View() string {
	if m.done {
		return successStyle.Render("✓ Closing browser and saving session...") + "\n"
	}
	if m.canceled {
		return errorStyle.Render("✗ Login canceled") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	for i, step := range m.steps {
		b.WriteString(stepStyle.Render(fmt.Sprintf("%d. %s", i+1, step)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter: done • esc/ctrl+c: cancel"))

	return boxStyle.Render(b.String()) + "\n"
}

// Done reports whether the user confirmed
func (m LoginModel) Done() bool {
	return m.done
}

// RunLogin shows the prompt on out and blocks until the user presses Enter.
// It returns ErrCanceled on Esc/Ctrl+C and ctx.Err() when ctx ends first.
func RunLogin(ctx context.Context, in io.Reader, out io.Writer, model LoginModel) error {
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("login prompt failed: %w", err)
	}

	if m, ok := final.(LoginModel); !ok || !m.Done() {
		return ErrCanceled
	}
	return nil
}
