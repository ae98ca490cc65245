// Package prompt implements the interactive overwrite/rename/cancel chooser
// shown when the output file already exists.
package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rxtech-lab/histdata/pkg/histdata"
)

// Style definitions.
var (
	// TitleStyle for the conflict header.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// CursorStyle for the selected choice.
	CursorStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)
)

// choice pairs a decision with its menu label.
type choice struct {
	decision histdata.ConflictDecision
	label    string
}

var choices = []choice{
	{histdata.DecisionOverwrite, "Overwrite - replace the existing file"},
	{histdata.DecisionRename, "Rename    - create a new file with a timestamp suffix"},
	{histdata.DecisionCancel, "Cancel    - abort the operation"},
}

// Model is the Bubble Tea model for the conflict chooser.
type Model struct {
	path      string
	info      os.FileInfo
	cursor    int
	decision  histdata.ConflictDecision
	done      bool
	cancelled bool
}

// NewModel creates a chooser for the given existing path.
func NewModel(path string, info os.FileInfo) Model {
	return Model{
		path:     path,
		info:     info,
		decision: histdata.DecisionCancel,
	}
}

// Decision returns the selected decision once the model is done.
func (m Model) Decision() histdata.ConflictDecision {
	return m.decision
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc", "c":
		m.decision = histdata.DecisionCancel
		m.done = true
		m.cancelled = true

		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(choices)-1 {
			m.cursor++
		}
	case "o":
		m.decision = histdata.DecisionOverwrite
		m.done = true

		return m, tea.Quit
	case "r":
		m.decision = histdata.DecisionRename
		m.done = true

		return m, tea.Quit
	case "enter":
		m.decision = choices[m.cursor].decision
		m.done = true

		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render("File conflict detected") + "\n\n")
	b.WriteString(fmt.Sprintf("Output file %q already exists", m.path))

	if m.info != nil {
		b.WriteString(fmt.Sprintf(" (modified: %s)", m.info.ModTime().Format("2006-01-02 15:04:05")))
	}

	if abs, err := filepath.Abs(m.path); err == nil {
		b.WriteString("\nFull path: " + abs)
	}

	b.WriteString("\n\n")

	for i, c := range choices {
		cursor := "  "
		line := c.label

		if i == m.cursor {
			cursor = "> "
			line = CursorStyle.Render(line)
		}

		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render("up/down to move, enter to select, o/r/c shortcuts, q to cancel") + "\n")

	return b.String()
}

// Run shows the chooser and blocks until the user picks a decision. It
// satisfies histdata.PromptFunc.
func Run(path string, info os.FileInfo) (histdata.ConflictDecision, error) {
	program := tea.NewProgram(NewModel(path, info))

	final, err := program.Run()
	if err != nil {
		return histdata.DecisionCancel, err
	}

	model, ok := final.(Model)
	if !ok {
		return histdata.DecisionCancel, fmt.Errorf("unexpected model type %T", final)
	}

	return model.Decision(), nil
}
