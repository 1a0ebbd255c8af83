package tui

import (
	"errors"
	"os/exec"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagindex/internal/adapters/tui/views"
	"diagindex/internal/domain"
)

type fakeEditor struct {
	path string
	line int
	err  error
}

func (f *fakeEditor) OpenFile(path string, line int) error { return nil }

func (f *fakeEditor) Command(path string, line int) (*exec.Cmd, error) {
	f.path, f.line = path, line
	if f.err != nil {
		return nil, f.err
	}
	return exec.Command("true"), nil
}

type fakeObsidian struct {
	opened []string
	err    error
}

func (f *fakeObsidian) OpenFile(filePath string) error {
	f.opened = append(f.opened, filePath)
	return f.err
}

func TestApp_SwitchesViews(t *testing.T) {
	app := NewApp(domain.NewIndexDocument(), nil, nil)

	app.Update(views.SwitchToHelpMsg{})
	assert.Equal(t, ViewHelp, app.state)
	assert.Contains(t, app.View(), "Help")

	app.Update(views.SwitchToLookupMsg{})
	assert.Equal(t, ViewLookup, app.state)
	assert.Contains(t, app.View(), "Diagram Lookup")
}

func TestApp_OpenEditorPassesLine(t *testing.T) {
	ed := &fakeEditor{}
	app := NewApp(domain.NewIndexDocument(), ed, nil)

	line := 12
	_, cmd := app.Update(views.OpenEditorMsg{Location: domain.Location{File: "docs/a.md", Line: &line}})
	require.NotNil(t, cmd)

	assert.Equal(t, "docs/a.md", ed.path)
	assert.Equal(t, 12, ed.line)
}

func TestApp_OpenEditorCanvasHasNoLine(t *testing.T) {
	ed := &fakeEditor{}
	app := NewApp(domain.NewIndexDocument(), ed, nil)

	app.Update(views.OpenEditorMsg{Location: domain.Location{File: "b.canvas"}})
	assert.Equal(t, 0, ed.line)
}

func TestApp_EditorErrorShownInLookup(t *testing.T) {
	ed := &fakeEditor{err: errors.New("no editor found")}
	app := NewApp(domain.NewIndexDocument(), ed, nil)

	_, cmd := app.Update(views.OpenEditorMsg{Location: domain.Location{File: "a.md"}})
	require.NotNil(t, cmd)

	app.Update(cmd())
	assert.Contains(t, app.View(), "no editor found")
}

func TestApp_OpenObsidian(t *testing.T) {
	obs := &fakeObsidian{}
	app := NewApp(domain.NewIndexDocument(), nil, obs)

	_, cmd := app.Update(views.OpenObsidianMsg{Location: domain.Location{File: "notes/a.md"}})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"notes/a.md"}, obs.opened)
}

func TestApp_NilOpenersAreIgnored(t *testing.T) {
	app := NewApp(domain.NewIndexDocument(), nil, nil)

	_, cmd := app.Update(views.OpenEditorMsg{Location: domain.Location{File: "a.md"}})
	assert.Nil(t, cmd)

	_, cmd = app.Update(views.OpenObsidianMsg{Location: domain.Location{File: "a.md"}})
	assert.Nil(t, cmd)
}

func TestApp_WindowSize(t *testing.T) {
	app := NewApp(domain.NewIndexDocument(), nil, nil)
	_, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
}
