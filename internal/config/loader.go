package config

import (
	"fmt"
	"os"
	"strings"

	json5 "github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v3"
)

// Load reads a config file (YAML, or JSON5 when the path ends in .json or
// .json5), merges it over Default(), and layers the RLM_API_BASE environment
// override on top. An empty path returns the defaults with that override
// applied.
//
// Grounded on the teacher's internal/config/loader.go merge-over-defaults
// shape; $include resolution is not needed since this config is flat.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		applyEnv(&cfg)
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))

	if err := unmarshalInto(&cfg, []byte(expanded), path); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func unmarshalInto(cfg *Config, data []byte, path string) error {
	if strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".json5") {
		return json5.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv overrides the transport base URL from RLM_API_BASE. It applies no
// secret: the API key never enters Config and is resolved separately by
// APIKey. Absent key is handled by the
// caller that resolves LLMClient credentials (§6: "Absent key → fatal
// initialization error"); Load itself does not fail on a missing key so that
// Config can still be constructed and validated in isolation (e.g. in tests).
func applyEnv(cfg *Config) {
	if base := os.Getenv("RLM_API_BASE"); base != "" {
		cfg.APIBase = base
	}
}

// APIKey resolves the LLM transport credential from the environment. It is
// kept separate from Config because Config is a passive, loggable record and
// must never carry a secret value.
func APIKey() (string, error) {
	key := os.Getenv("RLM_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return "", fmt.Errorf("config: no API key set (RLM_API_KEY or OPENAI_API_KEY)")
	}
	return key, nil
}
