package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type TrackerConfig struct {
	WorkspaceRoot     string        `yaml:"workspaceRoot"`
	DeviceID          string        `yaml:"deviceId"`
	FlushInterval     time.Duration `yaml:"flushInterval" validate:"required|min:1"`
	FingerprintTTL    time.Duration `yaml:"fingerprintTTL"`
	AggregateTTL      time.Duration `yaml:"aggregateTTL"`
	TickInterval      time.Duration `yaml:"tickInterval"`
	IdleThreshold     time.Duration `yaml:"idleThreshold"`
	ForceRefreshDelay time.Duration `yaml:"forceRefreshDelay"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Tracker     TrackerConfig `yaml:"tracker"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

// DeviceIdentity is the stable per-install identity of this device.
// ID never changes once assigned; Name follows the current hostname.
type DeviceIdentity struct {
	ID   string
	Name string
}
