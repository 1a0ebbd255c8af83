package obsidian

import (
	"fmt"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"diagindex/internal/ports"
)

// Opener implements ports.ObsidianOpener. The indexed root is treated as
// the Obsidian vault.
type Opener struct {
	rootPath  string
	vaultName string
	run       func(*exec.Cmd) error
}

// Ensure Opener implements ObsidianOpener
var _ ports.ObsidianOpener = (*Opener)(nil)

// NewOpener creates a new Obsidian opener for the given root directory
func NewOpener(rootPath string) *Opener {
	if abs, err := filepath.Abs(rootPath); err == nil {
		rootPath = abs
	}
	return &Opener{
		rootPath:  rootPath,
		vaultName: filepath.Base(rootPath),
		run:       (*exec.Cmd).Run,
	}
}

// OpenFile opens a file in Obsidian using the obsidian:// URI scheme
func (o *Opener) OpenFile(filePath string) error {
	uri, err := o.BuildURI(filePath)
	if err != nil {
		return err
	}

	cmd, err := openCommand(runtime.GOOS, uri)
	if err != nil {
		return err
	}
	return o.run(cmd)
}

// BuildURI constructs the obsidian:// URI for a file under the root.
// Relative paths are resolved against the working directory, which is
// how the index stores them.
func (o *Opener) BuildURI(filePath string) (string, error) {
	if abs, err := filepath.Abs(filePath); err == nil {
		filePath = abs
	}

	relPath, err := filepath.Rel(o.rootPath, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}

	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("file is outside the vault: %s", filePath)
	}

	// Obsidian expects forward slashes in paths
	relPath = filepath.ToSlash(relPath)

	uri := fmt.Sprintf("obsidian://open?vault=%s&file=%s",
		escape(o.vaultName),
		escape(relPath),
	)

	return uri, nil
}

// escape is query escaping with spaces as %20, which Obsidian requires
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func openCommand(goos, uri string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", uri), nil
	case "linux":
		return exec.Command("xdg-open", uri), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", uri), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}
