package tracker

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"ptt/internal/models"
)

// ActivityProbe supplies an activity signal when the editor is not sending
// heartbeats, together with the time the activity was observed.
type ActivityProbe interface {
	Probe() (models.Activity, time.Time, bool)
}

var languageByExtension = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescriptreact",
	".js":   "javascript",
	".jsx":  "javascriptreact",
	".py":   "python",
	".rs":   "rust",
	".java": "java",
	".kt":   "kotlin",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
	".rb":   "ruby",
	".php":  "php",
	".css":  "css",
	".html": "html",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".md":   "markdown",
	".sh":   "shell",
	".sql":  "sql",
}

// FileProbe reports the most recently modified regular file under the
// workspace root. Dot directories are skipped, so .git churn does not read
// as editing.
type FileProbe struct {
	workspace Workspace
}

func NewFileProbe(workspace Workspace) *FileProbe {
	return &FileProbe{workspace: workspace}
}

func (p *FileProbe) Probe() (models.Activity, time.Time, bool) {
	root, ok := p.workspace.FolderPath()
	if !ok {
		return models.Activity{}, time.Time{}, false
	}

	var newest string
	var newestAt time.Time
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(newestAt) {
			newestAt = info.ModTime()
			newest = path
		}
		return nil
	})
	if newest == "" {
		return models.Activity{}, time.Time{}, false
	}

	rel, err := filepath.Rel(root, newest)
	if err != nil {
		rel = filepath.Base(newest)
	}
	return models.Activity{
		Language: languageByExtension[strings.ToLower(filepath.Ext(newest))],
		File:     filepath.ToSlash(rel),
	}, newestAt, true
}
