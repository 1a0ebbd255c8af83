package ports

import "os/exec"

// EditorOpener defines the interface for opening files in an external editor
type EditorOpener interface {
	// OpenFile opens the file in the user's preferred editor, positioned at
	// line when line > 0 and the editor supports it
	OpenFile(path string, line int) error

	// Command returns an exec.Cmd for opening a file in the editor
	// This is useful for integrating with bubbletea's ExecProcess
	Command(path string, line int) (*exec.Cmd, error)
}
