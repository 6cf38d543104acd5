package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPath = "gadgetctl.toml"
	EnvPath     = "DBGADGETS_CONFIG"
)

// Config is the gadgetctl file configuration.
type Config struct {
	BaseDir      string
	SearchPath   bool
	DefaultPaths []string
	OptionDir    string
	LogLevel     string
	MetricsFile  string
	Gadgets      []string
	Server       ServerConfig
}

type ServerConfig struct {
	Tool string
	Host string
	Port int
}

type fileConfig struct {
	BaseDir      string     `toml:"base_dir"`
	SearchPath   bool       `toml:"search_path"`
	DefaultPaths []string   `toml:"default_paths"`
	OptionDir    string     `toml:"option_dir"`
	LogLevel     string     `toml:"log_level"`
	MetricsFile  string     `toml:"metrics_file"`
	Gadgets      []string   `toml:"gadgets"`
	Server       fileServer `toml:"server"`
}

type fileServer struct {
	Tool string `toml:"tool"`
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

func Default() Config {
	return Config{
		SearchPath: true,
		LogLevel:   "info",
		Server: ServerConfig{
			Tool: "mysqld",
			Host: "127.0.0.1",
			Port: 3306,
		},
	}
}

// Resolve returns the config path to use and whether it was chosen explicitly.
func Resolve(flagPath string) (string, bool) {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p, true
	}
	if p := strings.TrimSpace(os.Getenv(EnvPath)); p != "" {
		return p, true
	}
	return DefaultPath, false
}

// LoadOrDefault loads path; a missing implicit config yields defaults.
func LoadOrDefault(path string, explicit bool) (Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
	}
	return Load(path)
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("base_dir") {
		cfg.BaseDir = strings.TrimSpace(raw.BaseDir)
	}
	if meta.IsDefined("search_path") {
		cfg.SearchPath = raw.SearchPath
	}
	if meta.IsDefined("default_paths") {
		cfg.DefaultPaths = normalizeList(raw.DefaultPaths)
	}
	if meta.IsDefined("option_dir") {
		cfg.OptionDir = strings.TrimSpace(raw.OptionDir)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics_file") {
		cfg.MetricsFile = strings.TrimSpace(raw.MetricsFile)
	}
	if meta.IsDefined("gadgets") {
		cfg.Gadgets = normalizeList(raw.Gadgets)
	}
	if meta.IsDefined("server", "tool") {
		cfg.Server.Tool = strings.TrimSpace(raw.Server.Tool)
	}
	if meta.IsDefined("server", "host") {
		cfg.Server.Host = strings.TrimSpace(raw.Server.Host)
	}
	if meta.IsDefined("server", "port") {
		cfg.Server.Port = raw.Server.Port
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Server.Tool) == "" {
		return fmt.Errorf("server.tool is required")
	}
	if strings.TrimSpace(cfg.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
