package tracker

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	json "github.com/goccy/go-json"

	"ptt/internal/providers"
	"ptt/internal/structures"
	"ptt/internal/tracker/interfaces"
)

// stateFile is the on-disk envelope: all entries plus the declared sync keys,
// serialized as JSON and zstd-compressed.
type stateFile struct {
	Entries  map[string]json.RawMessage `json:"entries"`
	SyncKeys []string                   `json:"syncKeys"`
}

// FileState is the file-backed StateStore. Mutations are applied in memory;
// Save writes the whole state atomically (tmp file + rename). The cloud sync
// agent watches the file and propagates the declared sync keys.
type FileState struct {
	mu         sync.RWMutex
	path       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	entries    map[string]json.RawMessage
	syncKeys   []string
	dirty      bool
}

func NewFileState(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *FileState {
	return &FileState{
		path:       conf.Persistence.FilePath,
		compressor: compressor,
		logger:     logger,
		entries:    make(map[string]json.RawMessage),
	}
}

// Load reads the state file. A missing file is a fresh install, not an error.
func (f *FileState) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var sf stateFile
	if err := json.Unmarshal(decompressed, &sf); err != nil {
		return err
	}
	if sf.Entries == nil {
		sf.Entries = make(map[string]json.RawMessage)
	}
	f.entries = sf.Entries
	f.syncKeys = sf.SyncKeys
	f.dirty = false
	return nil
}

// Save persists the state atomically. A no-op when nothing changed since the
// last save.
func (f *FileState) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dirty {
		return nil
	}

	jsonData, err := json.Marshal(stateFile{Entries: f.entries, SyncKeys: f.syncKeys})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err := os.Rename(tmpFile, f.path); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

func (f *FileState) Get(key string) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	val, ok := f.entries[key]
	return val, ok
}

func (f *FileState) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = value
	f.dirty = true
	return nil
}

func (f *FileState) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	f.dirty = true
	return nil
}

func (f *FileState) Keys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.entries))
	for key := range f.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (f *FileState) SetSyncKeys(keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncKeys = keys
	f.dirty = true
	return nil
}

// SyncKeys returns the currently declared sync key set.
func (f *FileState) SyncKeys() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.syncKeys))
	copy(out, f.syncKeys)
	return out
}
