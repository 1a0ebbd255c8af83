package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"diagindex/internal/ports"
)

// Opener implements ports.EditorOpener
type Opener struct {
	lookupEnv func(string) string
	lookPath  func(string) (string, error)
}

// Ensure Opener implements EditorOpener
var _ ports.EditorOpener = (*Opener)(nil)

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{
		lookupEnv: os.Getenv,
		lookPath:  exec.LookPath,
	}
}

// OpenFile opens a file in the user's preferred editor
func (o *Opener) OpenFile(path string, line int) error {
	cmd, err := o.Command(path, line)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file in the editor
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string, line int) (*exec.Cmd, error) {
	editor := o.findEditor()
	if len(editor) == 0 {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	args := append(editor[1:], lineArgs(editor[0], path, line)...)

	cmd := exec.Command(editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

// findEditor returns the editor command split into program and arguments
func (o *Opener) findEditor() []string {
	// Check $EDITOR first
	if editor := strings.Fields(o.lookupEnv("EDITOR")); len(editor) > 0 {
		return editor
	}

	// Check $VISUAL
	if visual := strings.Fields(o.lookupEnv("VISUAL")); len(visual) > 0 {
		return visual
	}

	// Try common editors
	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := o.lookPath(editor); err == nil {
			return []string{path}
		}
	}

	return nil
}

// lineArgs returns the arguments that open path at line for the given
// editor program. Unknown editors just get the path.
func lineArgs(program, path string, line int) []string {
	if line <= 0 {
		return []string{path}
	}

	switch filepath.Base(program) {
	case "vi", "vim", "nvim", "nano", "emacs", "emacsclient", "micro", "kak", "hx", "helix":
		return []string{"+" + strconv.Itoa(line), path}
	case "code", "code-insiders", "codium", "cursor":
		return []string{"--goto", fmt.Sprintf("%s:%d", path, line)}
	case "subl", "zed":
		return []string{fmt.Sprintf("%s:%d", path, line)}
	default:
		return []string{path}
	}
}
