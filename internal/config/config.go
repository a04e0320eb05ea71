package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	API       APIConfig
	Storage   StorageConfig
	Interview InterviewConfig
	Audio     AudioConfig
	Stub      StubConfig
	Log       LogConfig
}

type APIConfig struct {
	BaseURL string
	UserID  string
	Timeout string
}

type StorageConfig struct {
	DataDir string
}

type InterviewConfig struct {
	MaxFollowUps int
}

type AudioConfig struct {
	RecordCommand string
}

type StubConfig struct {
	Port int
}

type LogConfig struct {
	Level string
}

// DefaultTimeout bounds one analysis call. Resume scoring and question
// generation can take well over a minute on the remote side.
const DefaultTimeout = 2 * time.Minute

func defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8787",
			Timeout: DefaultTimeout.String(),
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Interview: InterviewConfig{
			MaxFollowUps: 5,
		},
		Stub: StubConfig{
			Port: 8787,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "jobprep-data"
		}
	}
	return filepath.Join(dir, "jobprep")
}

// ParsedTimeout parses the configured API timeout, falling back to the
// default when unparseable.
func (c APIConfig) ParsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// Load reads configuration from the JSON config file at
// $XDG_CONFIG_HOME/jobprep/config.json, with JOBPREP_* environment
// variables overriding file values. A .env file in the working directory is
// loaded first if present.
//
// The user identifier sent with analysis requests is generated on first
// load and persisted, so one installation keeps a stable identity.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)

	if cfg.API.UserID == "" {
		cfg.API.UserID = uuid.New().String()
		if err := b.SetString("api.user_id", cfg.API.UserID); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}
