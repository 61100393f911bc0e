package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	IDFormatUUID   = "uuid"
	IDFormatMillis = "millis"
)

type RuntimeConfig struct {
	DataPath             string `yaml:"data_path"`
	LogPath              string `yaml:"log_path"`
	LogLevel             string `yaml:"log_level"`
	Reminders            bool   `yaml:"reminders"`
	DesktopNotifications bool   `yaml:"desktop_notifications"`
	ThemeSupport         bool   `yaml:"theme_support"`
	WriteTimeoutSeconds  int    `yaml:"write_timeout_seconds"`
	ReminderBuffer       int    `yaml:"reminder_buffer"`
	IDFormat             string `yaml:"id_format"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataPath:             ".habitd.db",
		LogPath:              ".habitd.log",
		LogLevel:             "info",
		Reminders:            true,
		DesktopNotifications: false,
		ThemeSupport:         true,
		WriteTimeoutSeconds:  5,
		ReminderBuffer:       8,
		IDFormat:             IDFormatUUID,
	}
}

func (c RuntimeConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// Validate rejects values no component can run with.
func (c RuntimeConfig) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return errors.New("config: data_path must not be empty")
	}
	if c.WriteTimeoutSeconds <= 0 {
		return fmt.Errorf("config: write_timeout_seconds must be positive, got %d", c.WriteTimeoutSeconds)
	}
	if c.ReminderBuffer <= 0 {
		return fmt.Errorf("config: reminder_buffer must be positive, got %d", c.ReminderBuffer)
	}
	switch c.IDFormat {
	case IDFormatUUID, IDFormatMillis:
	default:
		return fmt.Errorf("config: unknown id_format %q", c.IDFormat)
	}
	return nil
}

// LoadFile overlays the YAML file at path onto base. A missing file is not an
// error; keys absent from the file keep their base value.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv copies the variables of a .env file into the process
// environment. Variables already set are left alone, so the real environment
// wins over the file.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load resolves defaults, then the YAML file, then .env, then HABITD_*
// variables. Flags are applied by the caller on top of the result.
func Load(configPath, dotEnvPath string) (RuntimeConfig, error) {
	cfg, err := LoadFile(DefaultRuntimeConfig(), configPath)
	if err != nil {
		return cfg, err
	}
	if err := LoadDotEnv(dotEnvPath); err != nil {
		return cfg, err
	}
	return RuntimeConfigFromEnv(cfg), nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("HABITD_DATA_PATH"); ok {
		cfg.DataPath = v
	}
	if v, ok := getEnvString("HABITD_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("HABITD_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvBool("HABITD_REMINDERS"); ok {
		cfg.Reminders = v
	}
	if v, ok := getEnvBool("HABITD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvBool("HABITD_THEME_SUPPORT"); ok {
		cfg.ThemeSupport = v
	}
	if v, ok := getEnvInt("HABITD_WRITE_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.WriteTimeoutSeconds = v
	}
	if v, ok := getEnvInt("HABITD_REMINDER_BUFFER"); ok && v > 0 {
		cfg.ReminderBuffer = v
	}
	if v, ok := getEnvString("HABITD_ID_FORMAT"); ok {
		cfg.IDFormat = strings.ToLower(v)
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
