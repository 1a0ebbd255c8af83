package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"diagindex/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "f1"),
		key.WithHelp("esc/q/f1", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToLookupMsg{}
			}
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Diagram Lookup Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Lookup"))
	b.WriteString("\n")
	b.WriteString(helpLine("type", "Exact, case-sensitive identifier match"))
	b.WriteString(helpLine("↑ / ↓", "Move up/down"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Actions"))
	b.WriteString("\n")
	b.WriteString(helpLine("enter", "Open in $EDITOR at the diagram line"))
	b.WriteString(helpLine("ctrl+o", "Open in Obsidian"))
	b.WriteString(helpLine("ctrl+y", "Copy file:line to the clipboard"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("General"))
	b.WriteString("\n")
	b.WriteString(helpLine("f1", "Toggle help"))
	b.WriteString(helpLine("esc / ctrl+c", "Quit"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Matches"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  [MERMAID] sequence participant or flowchart node, with line"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  [CANVAS]  canvas node id"))
	b.WriteString("\n\n")

	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("f1"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
