package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptt/internal/structures"
	"ptt/internal/testutil"
)

func newFileState(t *testing.T, path string) *FileState {
	t.Helper()
	conf := testConfig()
	conf.Persistence = structures.Persistence{FilePath: path}
	compressor, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(compressor.Close)
	return NewFileState(conf, compressor, &testutil.MockLogger{})
}

func TestFileState_LoadMissingFileIsFreshInstall(t *testing.T) {
	fs := newFileState(t, filepath.Join(t.TempDir(), "state.bin"))
	require.NoError(t, fs.Load())
	assert.Empty(t, fs.Keys())
}

func TestFileState_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.bin")
	fs := newFileState(t, path)

	require.NoError(t, fs.Set("timerStorageV2-dev-1-a", []byte(`{"deviceId":"dev-1"}`)))
	require.NoError(t, fs.Set("other", []byte(`1`)))
	require.NoError(t, fs.SetSyncKeys([]string{"timerStorageV2-dev-1-a"}))
	require.NoError(t, fs.Save())

	loaded := newFileState(t, path)
	require.NoError(t, loaded.Load())

	val, ok := loaded.Get("timerStorageV2-dev-1-a")
	require.True(t, ok)
	assert.JSONEq(t, `{"deviceId":"dev-1"}`, string(val))
	assert.Equal(t, []string{"other", "timerStorageV2-dev-1-a"}, loaded.Keys())
	assert.Equal(t, []string{"timerStorageV2-dev-1-a"}, loaded.SyncKeys())
}

func TestFileState_FileIsCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	fs := newFileState(t, path)

	require.NoError(t, fs.Set("key", []byte(`"value"`)))
	require.NoError(t, fs.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// Short inputs may be stored as raw literals inside the frame, so check
	// the zstd magic rather than absence of the plaintext.
	require.GreaterOrEqual(t, len(raw), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, raw[:4])
}

func TestFileState_SaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	fs := newFileState(t, path)

	require.NoError(t, fs.Set("key", []byte(`1`)))
	require.NoError(t, fs.Save())
	first, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, fs.Save())
	second, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, first.ModTime(), second.ModTime())
}

func TestFileState_DeleteMarksDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	fs := newFileState(t, path)

	require.NoError(t, fs.Set("key", []byte(`1`)))
	require.NoError(t, fs.Save())
	require.NoError(t, fs.Delete("key"))
	require.NoError(t, fs.Save())

	loaded := newFileState(t, path)
	require.NoError(t, loaded.Load())
	_, ok := loaded.Get("key")
	assert.False(t, ok)
}

func TestFileState_LoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.bin")
	require.NoError(t, os.WriteFile(path, []byte("not zstd at all"), 0644))

	fs := newFileState(t, path)
	assert.Error(t, fs.Load())
}
