package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"diagindex/internal/adapters/tui/styles"
	"diagindex/internal/domain"
)

// LookupKeyMap defines key bindings for the lookup view
type LookupKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Obsidian key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var LookupKeys = LookupKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open in editor"),
	),
	Obsidian: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open in Obsidian"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy location"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

const maxVisibleResults = 15

// LookupModel looks up node identifiers in a loaded index as the user types
type LookupModel struct {
	ViewState

	doc     *domain.IndexDocument
	input   textinput.Model
	results []domain.Location
	cursor  int

	copy func(string) error
}

// NewLookupModel creates a new lookup view over doc
func NewLookupModel(doc *domain.IndexDocument) *LookupModel {
	input := textinput.New()
	input.Placeholder = "Node identifier..."
	input.Focus()

	return &LookupModel{
		doc:   doc,
		input: input,
		copy:  clipboard.WriteAll,
	}
}

// Init initializes the lookup view
func (m *LookupModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetDocument replaces the index being searched and reruns the current query
func (m *LookupModel) SetDocument(doc *domain.IndexDocument) {
	m.doc = doc
	m.lookup()
}

// Results returns the current matches
func (m *LookupModel) Results() []domain.Location {
	return m.results
}

// Selected returns the highlighted result
func (m *LookupModel) Selected() (domain.Location, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return domain.Location{}, false
	}
	return m.results[m.cursor], true
}

// Update handles messages for the lookup view
func (m *LookupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, LookupKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, LookupKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}

		case key.Matches(msg, LookupKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, LookupKeys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, LookupKeys.Open):
			if loc, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return OpenEditorMsg{Location: loc}
				}
			}
			return m, nil

		case key.Matches(msg, LookupKeys.Obsidian):
			if loc, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return OpenObsidianMsg{Location: loc}
				}
			}
			return m, nil

		case key.Matches(msg, LookupKeys.Copy):
			if loc, ok := m.Selected(); ok {
				if err := m.copy(loc.String()); err != nil {
					m.SetMessage(fmt.Sprintf("copy failed: %v", err), true)
				} else {
					m.SetMessage("Copied "+loc.String(), false)
				}
			}
			return m, nil
		}
	}

	// Update input
	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)

	if m.input.Value() != before {
		m.ClearMessage()
		m.lookup()
	}

	return m, cmd
}

// lookup reruns the exact identifier match for the current input
func (m *LookupModel) lookup() {
	m.cursor = 0
	id := strings.TrimSpace(m.input.Value())
	if id == "" {
		m.results = nil
		return
	}
	m.results = domain.FindNode(m.doc, id)
}

// View renders the lookup view
func (m *LookupModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Diagram Lookup"))
	b.WriteString("\n")
	if m.doc != nil {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d indexed files", len(m.doc.Files))))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	if len(m.results) == 0 {
		if strings.TrimSpace(m.input.Value()) != "" {
			b.WriteString(styles.MutedText.Render("No results found"))
		} else {
			b.WriteString(styles.MutedText.Render("Type an identifier to look it up"))
		}
	} else {
		b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d results", len(m.results))))
		b.WriteString("\n\n")

		// Keep the cursor inside the visible window
		start := 0
		if m.cursor >= maxVisibleResults {
			start = m.cursor - maxVisibleResults + 1
		}
		end := min(start+maxVisibleResults, len(m.results))

		for i := start; i < end; i++ {
			b.WriteString(m.renderResult(m.results[i], i == m.cursor))
			b.WriteString("\n")
		}

		if rest := len(m.results) - end; rest > 0 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("... and %d more", rest)))
		}
	}

	if msg := m.RenderMessage(); msg != "" {
		b.WriteString("\n\n")
		b.WriteString(msg)
	}

	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s  %s %s  %s %s",
		styles.HelpKey.Render("↑/↓"),
		styles.HelpDesc.Render("navigate"),
		styles.HelpKey.Render("enter"),
		styles.HelpDesc.Render("edit"),
		styles.HelpKey.Render("ctrl+y"),
		styles.HelpDesc.Render("copy"),
		styles.HelpKey.Render("f1"),
		styles.HelpDesc.Render("help"),
		styles.HelpKey.Render("esc"),
		styles.HelpDesc.Render("quit"),
	))

	return styles.App.Render(b.String())
}

func (m *LookupModel) renderResult(loc domain.Location, selected bool) string {
	tag := styles.KindGraph.Render("[CANVAS]")
	if loc.Line != nil {
		tag = styles.KindDiagram.Render("[MERMAID]")
	}

	text := loc.String()
	if selected {
		return tag + " " + styles.NodeSelected.Render(text)
	}
	return tag + " " + text
}
