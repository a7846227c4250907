package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds every runtime setting. Values come from defaults, then the
// optional YAML file, then environment variables.
type Config struct {
	Port           string   `yaml:"port"`
	Store          string   `yaml:"store"`
	MongoURI       string   `yaml:"mongodb_uri"`
	DBName         string   `yaml:"db_name"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	EventName      string   `yaml:"event_name"`
	EventScanCode  string   `yaml:"event_scan_code"`
	TokenSecret    string   `yaml:"token_secret"`
	ResendAPIKey   string   `yaml:"resend_api_key"`
	FromEmail      string   `yaml:"from_email"`
	LiveEnabled    bool     `yaml:"live_enabled"`
	LogLevel       string   `yaml:"log_level"`
	LogDevelopment bool     `yaml:"log_development"`
}

func Default() *Config {
	return &Config{
		Port:           "8080",
		Store:          StoreMongo,
		DBName:         "techhub",
		AllowedOrigins: []string{"*"},
		EventName:      "Tech Guru Meetup 2025",
		EventScanCode:  "TechGuruMeetup2025",
		LiveEnabled:    true,
		LogLevel:       "info",
	}
}

// Load reads .env (if present), the YAML file at path (if present) and the
// process environment, then validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	// Load .env if present; in production env vars are set directly
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Store, "STORE")
	setString(&c.MongoURI, "MONGODB_URI")
	setString(&c.DBName, "DB_NAME")
	setString(&c.EventName, "EVENT_NAME")
	setString(&c.EventScanCode, "EVENT_SCAN_CODE")
	setString(&c.TokenSecret, "TOKEN_SECRET")
	setString(&c.ResendAPIKey, "RESEND_API_KEY")
	setString(&c.FromEmail, "FROM_EMAIL")
	setString(&c.LogLevel, "LOG_LEVEL")

	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	if err := setBool(&c.LiveEnabled, "LIVE_ENABLED"); err != nil {
		return err
	}
	return setBool(&c.LogDevelopment, "LOG_DEVELOPMENT")
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var missing, invalid []string

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		invalid = append(invalid, "PORT")
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
		if c.DBName == "" {
			missing = append(missing, "DB_NAME")
		}
	case StoreMemory:
	default:
		invalid = append(invalid, "STORE")
	}
	if c.EventScanCode == "" {
		missing = append(missing, "EVENT_SCAN_CODE")
	}
	if c.ResendAPIKey != "" && c.FromEmail == "" {
		missing = append(missing, "FROM_EMAIL")
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required settings: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("invalid settings: %s", strings.Join(invalid, ", ")))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

func setString(dst *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*dst = value
	}
}

func setBool(dst *bool, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	*dst = value
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
