package shell

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const maxDedupeAttempts = 100

// OSShell shells out to the platform's opener commands. Save destinations
// resolve into a downloads directory; the host process has no native dialog
// of its own, so destination choice is non-interactive here and callers may
// inject an interactive implementation instead.
type OSShell struct {
	downloadsDir string
}

// NewOSShell creates an OS shell writing downloads under downloadsDir.
// An empty dir falls back to ~/Downloads.
func NewOSShell(downloadsDir string) (*OSShell, error) {
	downloadsDir = strings.TrimSpace(downloadsDir)
	if downloadsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		downloadsDir = filepath.Join(home, "Downloads")
	}
	abs, err := filepath.Abs(downloadsDir)
	if err != nil {
		return nil, err
	}
	return &OSShell{downloadsDir: abs}, nil
}

// OpenPath opens path with the OS default application.
func (s *OSShell) OpenPath(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	return cmd.Run()
}

// RevealPath shows path in the OS file browser.
func (s *OSShell) RevealPath(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", "-R", path).Run()
	case "windows":
		return exec.CommandContext(ctx, "explorer", "/select,"+path).Run()
	default:
		// No portable select-in-browser on Linux; open the directory.
		return exec.CommandContext(ctx, "xdg-open", filepath.Dir(path)).Run()
	}
}

// ChooseSavePath resolves the suggested file name into the downloads
// directory, deduplicating against existing files.
func (s *OSShell) ChooseSavePath(ctx context.Context, suggestedFileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	suggestedFileName = filepath.Base(strings.TrimSpace(suggestedFileName))
	if suggestedFileName == "" || suggestedFileName == "." {
		return "", fmt.Errorf("suggested file name is required")
	}
	if err := os.MkdirAll(s.downloadsDir, 0o755); err != nil {
		return "", err
	}

	candidate := filepath.Join(s.downloadsDir, suggestedFileName)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	ext := filepath.Ext(suggestedFileName)
	stem := strings.TrimSuffix(suggestedFileName, ext)
	for i := 1; i <= maxDedupeAttempts; i++ {
		candidate = filepath.Join(s.downloadsDir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free destination name for %q", suggestedFileName)
}

var _ Shell = (*OSShell)(nil)
