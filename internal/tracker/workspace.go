package tracker

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"ptt/internal/structures"
	"strings"
)

// Workspace provides the raw identity signals of the currently open folder.
// Every accessor reports ok=false when the signal is unavailable.
type Workspace interface {
	FolderName() (string, bool)
	FolderPath() (string, bool)
	GitRemoteURL() (string, bool)
}

// LocalWorkspace reads signals from a configured workspace root on the local
// filesystem.
type LocalWorkspace struct {
	root string
}

func NewLocalWorkspace(conf *structures.Config) Workspace {
	return &LocalWorkspace{root: conf.Tracker.WorkspaceRoot}
}

func (w *LocalWorkspace) FolderName() (string, bool) {
	path, ok := w.FolderPath()
	if !ok {
		return "", false
	}
	return filepath.Base(path), true
}

func (w *LocalWorkspace) FolderPath() (string, bool) {
	if w.root == "" {
		return "", false
	}
	abs, err := filepath.Abs(w.root)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", false
	}
	return abs, true
}

// GitRemoteURL returns the origin fetch URL from .git/config, if any.
// The quoted-subsection INI dialect of git config is parsed with a plain
// line scan; ini libraries choke on the `[remote "origin"]` section names.
func (w *LocalWorkspace) GitRemoteURL() (string, bool) {
	path, ok := w.FolderPath()
	if !ok {
		return "", false
	}
	file, err := os.Open(filepath.Join(path, ".git", "config"))
	if err != nil {
		return "", false
	}
	defer file.Close()

	return parseOriginURL(file)
}

func parseOriginURL(file io.Reader) (string, bool) {
	inOrigin := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inOrigin = line == `[remote "origin"]`
			continue
		}
		if !inOrigin {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if found && strings.TrimSpace(key) == "url" {
			url := strings.TrimSpace(value)
			if url != "" {
				return url, true
			}
		}
	}
	return "", false
}
