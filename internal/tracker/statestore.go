package tracker

// StateStore is the persistence contract the tracker core runs against: an
// opaque mapping from string key to JSON blob with best-effort cross-device
// synchronization of a declared key subset. The production implementation is
// FileState; tests use an in-memory substitute.
type StateStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() []string
	// SetSyncKeys declares which keys the sync transport propagates across
	// devices. Must be called after every structural change to the set of
	// live records.
	SetSyncKeys(keys []string) error
}
