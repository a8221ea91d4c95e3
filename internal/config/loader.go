package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults where the
// value is consumed (main for server knobs, reservation.Settings for slot rules).
type Config struct {
	Addr        string   `json:"addr" yaml:"addr" toml:"addr" env:"FORMD_ADDR"`
	DBPath      string   `json:"db_path" yaml:"db_path" toml:"db_path" env:"FORMD_DB_PATH"`
	MaxBodyMB   int      `json:"max_body_mb" yaml:"max_body_mb" toml:"max_body_mb" env:"FORMD_MAX_BODY_MB"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins" env:"FORMD_CORS_ORIGINS" envSeparator:","`
	LogLevel    string   `json:"log_level" yaml:"log_level" toml:"log_level" env:"FORMD_LOG_LEVEL"`

	// LINE Messaging API credentials. Both must be set for the webhook and the
	// owner push sink to be enabled; the contact flow works without them.
	LineChannelSecret string `json:"line_channel_secret" yaml:"line_channel_secret" toml:"line_channel_secret" env:"LINE_CHANNEL_SECRET"`
	LineChannelToken  string `json:"line_channel_token" yaml:"line_channel_token" toml:"line_channel_token" env:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineOwnerID       string `json:"line_owner_id" yaml:"line_owner_id" toml:"line_owner_id" env:"FORMD_LINE_OWNER_ID"`

	// Reservation slot rules, e.g. open "10:00" close "22:00".
	OpenTime       string `json:"open_time" yaml:"open_time" toml:"open_time" env:"FORMD_OPEN_TIME"`
	CloseTime      string `json:"close_time" yaml:"close_time" toml:"close_time" env:"FORMD_CLOSE_TIME"`
	SlotMinutes    int    `json:"slot_minutes" yaml:"slot_minutes" toml:"slot_minutes" env:"FORMD_SLOT_MINUTES"`
	SlotCapacity   int    `json:"slot_capacity" yaml:"slot_capacity" toml:"slot_capacity" env:"FORMD_SLOT_CAPACITY"`
	MinLeadMinutes int    `json:"min_lead_minutes" yaml:"min_lead_minutes" toml:"min_lead_minutes" env:"FORMD_MIN_LEAD_MINUTES"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
