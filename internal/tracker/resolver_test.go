package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptt/internal/models"
	"ptt/internal/testutil"
)

func TestResolver_BuildsFingerprint(t *testing.T) {
	r := NewResolver(testConfig(), devWorkspace())

	fp, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, currentFingerprint(), fp)
}

func TestResolver_NoFolderOpen(t *testing.T) {
	r := NewResolver(testConfig(), &testutil.MockWorkspace{})
	_, ok := r.Current()
	assert.False(t, ok)
}

func TestResolver_MissingRemoteIsNotAnError(t *testing.T) {
	ws := devWorkspace()
	ws.Remote = ""
	r := NewResolver(testConfig(), ws)

	fp, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, models.MatchInfo{ParentPath: "/home/u/src", FolderName: "proj"}, fp)
}

func TestResolver_CachesUntilInvalidated(t *testing.T) {
	ws := devWorkspace()
	r := NewResolver(testConfig(), ws)

	fp, ok := r.Current()
	require.True(t, ok)
	require.Equal(t, "git@host:u/proj.git", fp.GitRemoteURL)

	ws.Remote = "git@host:u/moved.git"

	fp, ok = r.Current()
	require.True(t, ok)
	assert.Equal(t, "git@host:u/proj.git", fp.GitRemoteURL, "cached fingerprint should be served")

	r.Invalidate()
	fp, ok = r.Current()
	require.True(t, ok)
	assert.Equal(t, "git@host:u/moved.git", fp.GitRemoteURL)
}

func TestResolver_CacheExpires(t *testing.T) {
	ws := devWorkspace()
	r := NewResolver(testConfig(), ws)

	base := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return base }

	_, ok := r.Current()
	require.True(t, ok)

	ws.Remote = "git@host:u/moved.git"
	r.now = func() time.Time { return base.Add(2 * time.Minute) }

	fp, ok := r.Current()
	require.True(t, ok)
	assert.Equal(t, "git@host:u/moved.git", fp.GitRemoteURL)
}
