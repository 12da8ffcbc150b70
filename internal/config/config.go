package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Theme      string           `yaml:"theme" mapstructure:"theme"`
}

type StoreConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	Quarantine bool   `yaml:"quarantine" mapstructure:"quarantine"`
}

type ExportConfig struct {
	CSVPath  string `yaml:"csv_path" mapstructure:"csv_path"`
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
	Sheet    string `yaml:"sheet" mapstructure:"sheet"`
}

type ValidationConfig struct {
	StrictEmail bool `yaml:"strict_email" mapstructure:"strict_email"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// maxSheetName is the longest worksheet name Excel accepts.
const maxSheetName = 31

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:       "contacts.json",
			Quarantine: true,
		},
		Export: ExportConfig{
			CSVPath:  "contacts.csv",
			XLSXPath: "contacts.xlsx",
			Sheet:    "Contacts",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Theme:  "green",
	}
}

// UserConfigPath is where `contactbook config init` writes by default.
func UserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contactbook", "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "contactbook", "config.yaml")
}

// Load reads config.yaml from path, or when path is empty from the current
// directory, $XDG_CONFIG_HOME/contactbook and ~/.config/contactbook.
// CONTACTBOOK_* environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "contactbook"))
		}
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "contactbook"))
	}

	v.SetEnvPrefix("CONTACTBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Store.Path = os.ExpandEnv(cfg.Store.Path)
	cfg.Export.CSVPath = os.ExpandEnv(cfg.Export.CSVPath)
	cfg.Export.XLSXPath = os.ExpandEnv(cfg.Export.XLSXPath)
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.quarantine", cfg.Store.Quarantine)
	v.SetDefault("export.csv_path", cfg.Export.CSVPath)
	v.SetDefault("export.xlsx_path", cfg.Export.XLSXPath)
	v.SetDefault("export.sheet", cfg.Export.Sheet)
	v.SetDefault("validation.strict_email", cfg.Validation.StrictEmail)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("theme", cfg.Theme)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("config: store.path is required")
	}
	if c.Export.CSVPath == "" {
		return fmt.Errorf("config: export.csv_path is required")
	}
	if c.Export.XLSXPath == "" {
		return fmt.Errorf("config: export.xlsx_path is required")
	}
	if c.Export.Sheet == "" {
		c.Export.Sheet = "Contacts"
	}
	if len([]rune(c.Export.Sheet)) > maxSheetName {
		return fmt.Errorf("config: export.sheet %q is longer than %d characters", c.Export.Sheet, maxSheetName)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid (must be debug, info, warn or error)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format %q is invalid (must be text or json)", c.Log.Format)
	}
	if c.Theme == "" {
		c.Theme = "green"
	}
	return nil
}
