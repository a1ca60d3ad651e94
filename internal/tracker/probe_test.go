package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptt/internal/testutil"
)

func writeFileAt(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestFileProbe_ReportsMostRecentFile(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeFileAt(t, filepath.Join(dir, "old.go"), base)
	writeFileAt(t, filepath.Join(dir, "sub", "fresh.ts"), base.Add(30*time.Minute))

	probe := NewFileProbe(&testutil.MockWorkspace{Path: dir})
	activity, at, ok := probe.Probe()
	require.True(t, ok)
	assert.Equal(t, "sub/fresh.ts", activity.File)
	assert.Equal(t, "typescript", activity.Language)
	assert.WithinDuration(t, base.Add(30*time.Minute), at, time.Second)
}

func TestFileProbe_SkipsDotDirectories(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	writeFileAt(t, filepath.Join(dir, "main.go"), base)
	// .git churn is newer but must not read as editing.
	writeFileAt(t, filepath.Join(dir, ".git", "index"), base.Add(30*time.Minute))

	probe := NewFileProbe(&testutil.MockWorkspace{Path: dir})
	activity, _, ok := probe.Probe()
	require.True(t, ok)
	assert.Equal(t, "main.go", activity.File)
	assert.Equal(t, "go", activity.Language)
}

func TestFileProbe_UnknownExtensionHasNoLanguage(t *testing.T) {
	dir := t.TempDir()
	writeFileAt(t, filepath.Join(dir, "NOTES.weird"), time.Now().Add(-time.Minute))

	probe := NewFileProbe(&testutil.MockWorkspace{Path: dir})
	activity, _, ok := probe.Probe()
	require.True(t, ok)
	assert.Equal(t, "NOTES.weird", activity.File)
	assert.Empty(t, activity.Language)
}

func TestFileProbe_NoWorkspace(t *testing.T) {
	probe := NewFileProbe(&testutil.MockWorkspace{})
	_, _, ok := probe.Probe()
	assert.False(t, ok)
}

func TestFileProbe_EmptyWorkspace(t *testing.T) {
	probe := NewFileProbe(&testutil.MockWorkspace{Path: t.TempDir()})
	_, _, ok := probe.Probe()
	assert.False(t, ok)
}
