package models

import "strings"

const (
	// KeyPrefixV2 prefixes current-schema storage keys:
	// timerStorageV2-{deviceId}-{projectUUID}
	KeyPrefixV2 = "timerStorageV2-"
	// KeyPrefixLegacy prefixes pre-fingerprint storage keys:
	// timerStorage-{projectName}
	KeyPrefixLegacy = "timerStorage-"
)

// DeviceProjectData is the atomic storage record: one device's view of one
// project. It is self-contained: merging or deleting it never requires
// touching any other key. Only the owning device may write it; other devices
// read it for aggregation only.
type DeviceProjectData struct {
	DeviceID    string    `json:"deviceId"`
	ProjectUUID string    `json:"projectUUID"`
	DisplayName string    `json:"displayName,omitempty"`
	DeviceName  string    `json:"deviceName,omitempty"`
	MatchInfo   MatchInfo `json:"matchInfo"`
	History     History   `json:"history"`
}

// Clone returns a deep copy; the history maps are not shared.
func (d *DeviceProjectData) Clone() *DeviceProjectData {
	out := *d
	out.History = d.History.Clone()
	return &out
}

func (d *DeviceProjectData) StorageKey() string {
	return DeviceProjectKey(d.DeviceID, d.ProjectUUID)
}

func DeviceProjectKey(deviceID, projectUUID string) string {
	return KeyPrefixV2 + deviceID + "-" + projectUUID
}

// DeviceKeyPrefix returns the key prefix of all records owned by a device.
func DeviceKeyPrefix(deviceID string) string {
	return KeyPrefixV2 + deviceID + "-"
}

// Name returns the user-facing project name, falling back to the folder name.
func (d *DeviceProjectData) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.MatchInfo.FolderName
}

func IsV2Key(key string) bool {
	return strings.HasPrefix(key, KeyPrefixV2)
}

func IsLegacyKey(key string) bool {
	return strings.HasPrefix(key, KeyPrefixLegacy)
}

// ProjectTimeInfo is the legacy (pre-fingerprint) schema: a single record
// per project name, no device attribution.
type ProjectTimeInfo struct {
	ProjectName string  `json:"project_name"`
	History     History `json:"history"`
}
