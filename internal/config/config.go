package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const configFileName = "portal.yaml"

// Storage backend selectors.
const (
	StorageSheets   = "sheets"
	StoragePostgres = "postgres"
)

// Duration wraps time.Duration so YAML values like "12h" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// CloudinaryConfig identifies the unsigned upload target for payment-proof
// images.
type CloudinaryConfig struct {
	CloudName    string `yaml:"cloudName" validate:"required"`
	UploadPreset string `yaml:"uploadPreset" validate:"required"`
}

// Config represents the application configuration.
type Config struct {
	ListenAddr string `yaml:"listenAddr"`

	EventName string `yaml:"eventName" validate:"required"`
	EventDate string `yaml:"eventDate,omitempty"`

	Storage       string `yaml:"storage" validate:"required,oneof=sheets postgres"`
	SpreadsheetID string `yaml:"spreadsheetID" validate:"required_if=Storage sheets"`
	SheetTab      string `yaml:"sheetTab"`

	// CredentialsFile is the local service-account key file, used only when
	// GOOGLE_CREDENTIALS is not set in the environment.
	CredentialsFile string `yaml:"credentialsFile,omitempty"`

	DatabaseURL string `yaml:"databaseURL,omitempty"`

	AdminPassphrase string   `yaml:"adminPassphrase"`
	SessionSecret   string   `yaml:"sessionSecret"`
	SessionTTL      Duration `yaml:"sessionTTL"`

	Cloudinary CloudinaryConfig `yaml:"cloudinary" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from portal.yaml, looking in
// the current directory first, then in the user's home directory.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Secrets may be supplied via the environment and override the file, so a
// config file checked into a deployment never has to carry them.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation plus the cross-field checks the tags
// cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Storage == StoragePostgres && cfg.DatabaseURL == "" {
		return fmt.Errorf("config validation failed: databaseURL (or DATABASE_URL) is required for postgres storage")
	}
	if cfg.AdminPassphrase == "" {
		return fmt.Errorf("config validation failed: adminPassphrase (or ADMIN_PASSPHRASE) is required")
	}
	if cfg.SessionSecret == "" {
		return fmt.Errorf("config validation failed: sessionSecret (or SESSION_SECRET) is required")
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.SheetTab == "" {
		cfg.SheetTab = "Sheet1"
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = Duration(12 * time.Hour)
	}
}

// applyEnv overlays environment values onto the file config. PORT matches
// the convention of the hosting platforms this runs on.
func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if v := os.Getenv("ADMIN_PASSPHRASE"); v != "" {
		cfg.AdminPassphrase = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SHEET_ID"); v != "" {
		cfg.SpreadsheetID = v
	}
}

// findConfigFile searches for portal.yaml in the current directory and the
// home directory.
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
