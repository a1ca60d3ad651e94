package providers

import (
	"os"
	"path/filepath"
	"ptt/internal/structures"
	"strings"

	"github.com/google/uuid"
)

const deviceIDFileName = "device-id"

// NewDeviceProvider resolves the stable per-install device identity.
// The ID is taken from config when set; otherwise it is read from a
// sidecar file next to the persistence file, generated on first run.
func NewDeviceProvider(conf *structures.Config, logger Logger) (*structures.DeviceIdentity, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	if conf.Tracker.DeviceID != "" {
		return &structures.DeviceIdentity{ID: conf.Tracker.DeviceID, Name: hostname}, nil
	}

	path := filepath.Join(filepath.Dir(conf.Persistence.FilePath), deviceIDFileName)
	if raw, err := os.ReadFile(path); err == nil {
		id := strings.TrimSpace(string(raw))
		if id != "" {
			return &structures.DeviceIdentity{ID: id, Name: hostname}, nil
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return nil, err
	}
	logger.Infof(TypeApp, "Generated new device id %s", id)

	return &structures.DeviceIdentity{ID: id, Name: hostname}, nil
}
