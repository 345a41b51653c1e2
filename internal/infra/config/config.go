package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Download DownloadConfig `mapstructure:"download" yaml:"download"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Events   EventsConfig   `mapstructure:"events" yaml:"events"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

type DownloadConfig struct {
	Root        string        `mapstructure:"root" yaml:"root"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	Retry       int           `mapstructure:"retry" yaml:"retry"`
	GlobalLimit int           `mapstructure:"global_limit" yaml:"global_limit"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type EventsConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LogsDir holds the event log, the server log and the history database.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Download.Root, "logs")
}

// SetDefaults registers every key so env and flag bindings resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3030)
	v.SetDefault("download.root", "./downloads")
	v.SetDefault("download.concurrency", 3)
	v.SetDefault("download.retry", 2)
	v.SetDefault("download.global_limit", 0)
	v.SetDefault("download.timeout", 30*time.Second)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("events.path", "")
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.dsn", "")
}

// Load reads an optional YAML file and JDVIDEO_ environment variables into v.
// Flags bound to v beforehand take precedence.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}

		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("JDVIDEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Download.Concurrency < 1 {
		return errors.New("download.concurrency must be at least 1")
	}

	if c.Download.Retry < 0 {
		return errors.New("download.retry must not be negative")
	}

	if c.Download.GlobalLimit < 0 {
		c.Download.GlobalLimit = 0
	}

	if c.Download.Timeout <= 0 {
		c.Download.Timeout = 30 * time.Second
	}

	if c.Download.Root == "" {
		c.Download.Root = "./downloads"
	}

	root, err := filepath.Abs(c.Download.Root)
	if err != nil {
		return fmt.Errorf("resolve download.root: %w", err)
	}
	c.Download.Root = root

	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(c.LogsDir(), "jdvideo-server.log")
	}

	if c.Events.Path == "" {
		c.Events.Path = filepath.Join(c.LogsDir(), "jdvideo.log")
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.DSN == "" {
			c.Store.DSN = filepath.Join(c.LogsDir(), "jdvideo.db")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	case DriverNone, "":
		c.Store.Driver = DriverNone
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	return nil
}
