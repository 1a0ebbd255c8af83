package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"diagindex/internal/adapters/tui/views"
	"diagindex/internal/domain"
	"diagindex/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewLookup ViewState = iota
	ViewHelp
)

// App is the main TUI application model
type App struct {
	editor   ports.EditorOpener
	obsidian ports.ObsidianOpener

	state  ViewState
	lookup *views.LookupModel
	help   *views.HelpModel
}

// NewApp creates a new TUI application over a loaded index. Either opener
// may be nil, which disables the matching action.
func NewApp(doc *domain.IndexDocument, ed ports.EditorOpener, obs ports.ObsidianOpener) *App {
	return &App{
		editor:   ed,
		obsidian: obs,
		state:    ViewLookup,
		lookup:   views.NewLookupModel(doc),
		help:     views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.lookup.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.lookup.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToLookupMsg:
		a.state = ViewLookup
		return a, nil

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Location)

	case views.OpenObsidianMsg:
		return a, a.openObsidian(msg.Location)

	case openerFinishedMsg:
		if msg.err != nil {
			a.lookup.SetMessage(msg.err.Error(), true)
		}
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewLookup:
		_, cmd = a.lookup.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type openerFinishedMsg struct{ err error }

func (a *App) openEditor(loc domain.Location) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	line := 0
	if loc.Line != nil {
		line = *loc.Line
	}

	cmd, err := a.editor.Command(loc.File, line)
	if err != nil {
		return func() tea.Msg {
			return openerFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return openerFinishedMsg{err: err}
	})
}

func (a *App) openObsidian(loc domain.Location) tea.Cmd {
	if a.obsidian == nil {
		return nil
	}
	return func() tea.Msg {
		return openerFinishedMsg{err: a.obsidian.OpenFile(loc.File)}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.lookup.View()
	}
}
