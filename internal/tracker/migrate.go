package tracker

import (
	json "github.com/goccy/go-json"

	"ptt/internal/models"
	"ptt/internal/providers"
)

// migrateRecord lifts a legacy record into the current schema. The parent
// path and git remote stay unset; that is the marker the match ladder uses
// to recognize migrated records until the folder is opened again.
func (s *Store) migrateRecord(legacy *models.ProjectTimeInfo) *models.DeviceProjectData {
	history := legacy.History
	if history == nil {
		history = models.History{}
	}
	return &models.DeviceProjectData{
		DeviceID:    s.device.ID,
		ProjectUUID: s.newUUID(),
		DisplayName: legacy.ProjectName,
		DeviceName:  s.device.Name,
		MatchInfo:   models.MatchInfo{FolderName: legacy.ProjectName},
		History:     history,
	}
}

// MigrateLegacy upgrades every pre-fingerprint record to the current schema
// and deletes the legacy keys. Runs once at startup before any
// fingerprint-based logic touches the store. Returns the number of records
// migrated.
func (s *Store) MigrateLegacy() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var legacyKeys []string
	for _, key := range s.state.Keys() {
		if models.IsLegacyKey(key) {
			legacyKeys = append(legacyKeys, key)
		}
	}
	if len(legacyKeys) == 0 {
		s.logger.Infof(providers.TypeApp, "No legacy records to migrate")
		return 0, nil
	}

	migrated := 0
	for _, key := range legacyKeys {
		raw, ok := s.state.Get(key)
		if !ok {
			continue
		}
		var legacy models.ProjectTimeInfo
		if err := json.Unmarshal(raw, &legacy); err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping unreadable legacy record %s: %s", key, err)
			continue
		}
		if err := s.putRecord(s.migrateRecord(&legacy)); err != nil {
			return migrated, err
		}
		migrated++
	}

	for _, key := range legacyKeys {
		if err := s.state.Delete(key); err != nil {
			return migrated, err
		}
	}

	s.logger.Infof(providers.TypeApp, "Migrated %d legacy records", migrated)
	return migrated, nil
}
