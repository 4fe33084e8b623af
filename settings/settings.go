// Package settings loads application settings from an optional YAML file,
// MAZEGAME_* environment variables, and built-in defaults.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. MAZEGAME_SERVER_PORT
	EnvPrefix = "MAZEGAME"

	// DefaultFileName is looked up in the settings directory
	DefaultFileName = "mazegame"
)

// Settings is the full application configuration
type Settings struct {
	Debug   bool            `mapstructure:"debug"`
	Server  ServerSettings  `mapstructure:"server"`
	Maze    MazeSettings    `mapstructure:"maze"`
	Metrics MetricsSettings `mapstructure:"metrics"`
}

// ServerSettings configures the HTTP server used by serve and mcp modes
type ServerSettings struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MazeSettings selects where maze definitions come from
type MazeSettings struct {
	// Path is an explicit maze file; empty means maze.json next to the executable
	Path string `mapstructure:"path"`
	// Dir is a directory of maze files exposed as a catalog
	Dir string `mapstructure:"dir"`
}

// MetricsSettings configures the prometheus endpoint
type MetricsSettings struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// Addr returns host:port
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("maze.path", "")
	v.SetDefault("maze.dir", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "mazegame")
}

// Load reads settings. path may be a settings file, a directory containing
// mazegame.yaml, or empty to search the working directory. A missing file is
// not an error.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path == "":
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
		v.SetConfigFile(path)
	default:
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	// Port 0 asks the OS for a free port
	if s.Server.Port < 0 || s.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server.port %d", s.Server.Port)
	}

	return &s, nil
}
