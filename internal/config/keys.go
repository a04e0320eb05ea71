package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "api.base_url", typ: kString, env: "JOBPREP_API_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.API.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.API.BaseURL },
	},
	{
		key: "api.user_id", typ: kString, env: "JOBPREP_API_USER_ID",
		apply:   func(cfg *Config, v any) { cfg.API.UserID = v.(string) },
		extract: func(cfg Config) any { return cfg.API.UserID },
	},
	{
		key: "api.timeout", typ: kString, env: "JOBPREP_API_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.API.Timeout = v.(string) },
		extract: func(cfg Config) any { return cfg.API.Timeout },
	},
	{
		key: "storage.data_dir", typ: kString, env: "JOBPREP_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "interview.max_follow_ups", typ: kInt, env: "JOBPREP_INTERVIEW_MAX_FOLLOW_UPS",
		apply:   func(cfg *Config, v any) { cfg.Interview.MaxFollowUps = v.(int) },
		extract: func(cfg Config) any { return cfg.Interview.MaxFollowUps },
	},
	{
		key: "audio.record_command", typ: kString, env: "JOBPREP_AUDIO_RECORD_COMMAND",
		apply:   func(cfg *Config, v any) { cfg.Audio.RecordCommand = v.(string) },
		extract: func(cfg Config) any { return cfg.Audio.RecordCommand },
	},
	{
		key: "stub.port", typ: kInt, env: "JOBPREP_STUB_PORT",
		apply:   func(cfg *Config, v any) { cfg.Stub.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Stub.Port },
	},
	{
		key: "log.level", typ: kString, env: "JOBPREP_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
