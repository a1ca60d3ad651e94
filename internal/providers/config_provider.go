package providers

import (
	"fmt"
	"path/filepath"
	"ptt/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PTT_LOG_LEVEL")
	viper.BindEnv("tracker.workspaceRoot", "PTT_WORKSPACE_ROOT")
	viper.BindEnv("tracker.deviceId", "PTT_DEVICE_ID")
	viper.BindEnv("tracker.flushInterval", "PTT_FLUSH_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "PTT_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "PTT_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PTT_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	applyTrackerDefaults(&conf.Tracker)

	conf.AppName = "ProjectTimeTracker"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func applyTrackerDefaults(tc *structures.TrackerConfig) {
	if tc.FingerprintTTL <= 0 {
		tc.FingerprintTTL = 60 * time.Second
	}
	if tc.AggregateTTL <= 0 {
		tc.AggregateTTL = 30 * time.Second
	}
	if tc.TickInterval <= 0 {
		tc.TickInterval = time.Second
	}
	if tc.IdleThreshold <= 0 {
		tc.IdleThreshold = 5 * time.Minute
	}
	if tc.ForceRefreshDelay <= 0 {
		tc.ForceRefreshDelay = 5 * time.Second
	}
}
