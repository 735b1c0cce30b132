package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort            = 3000
	DefaultParallel        = 8
	DefaultCacheCapacity   = 100
	DefaultShutdownTimeout = 15 * time.Second
)

type Config struct {
	Root            string        `yaml:"root" json:"root"`
	Port            int           `yaml:"port" json:"port"`
	Parallel        int           `yaml:"parallel" json:"parallel"`
	PublicURL       string        `yaml:"public_url" json:"public_url"`
	CacheCapacity   int           `yaml:"cache_capacity" json:"cache_capacity"`
	LogLevel        string        `yaml:"log_level" json:"log_level"`
	LogFormat       string        `yaml:"log_format" json:"log_format"`
	Metrics         bool          `yaml:"metrics" json:"metrics"`
	QR              bool          `yaml:"qr" json:"qr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port:            DefaultPort,
		Parallel:        DefaultParallel,
		CacheCapacity:   DefaultCacheCapacity,
		LogLevel:        "info",
		LogFormat:       "json",
		Metrics:         true,
		QR:              true,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load читает YAML-конфигурацию (путь из аргумента или CONFIG_PATH), применяет
// ENV-переопределения и возвращает актуальную структуру. Без файла действуют
// только значения по умолчанию и ENV.
func Load(path string) (*Config, error) {
	c := Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// ENV override
	if v := os.Getenv("FILESHARE_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("FILESHARE_PORT"); v != "" {
		c.Port = atoi(v, c.Port)
	}
	if v := os.Getenv("FILESHARE_PARALLEL"); v != "" {
		c.Parallel = atoi(v, c.Parallel)
	}
	if v := os.Getenv("FILESHARE_PUBLIC_URL"); v != "" {
		c.PublicURL = v
	}
	if v := os.Getenv("FILESHARE_CACHE_CAPACITY"); v != "" {
		c.CacheCapacity = atoi(v, c.CacheCapacity)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}

	return &c, nil
}

// Resolve canonicalises Root (absolute, symlink free) and validates the rest.
// An empty Root means the working directory.
func (c *Config) Resolve() error {
	root := strings.TrimSpace(c.Root)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("root %q: %w", root, err)
	}
	canon, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("root %q does not exist", root)
		}
		return fmt.Errorf("root %q: %w", root, err)
	}
	c.Root = canon

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	if c.CacheCapacity < 1 {
		return fmt.Errorf("cache_capacity must be at least 1, got %d", c.CacheCapacity)
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	c.PublicURL = strings.TrimRight(strings.TrimSpace(c.PublicURL), "/")

	return nil
}

// ListenAddr binds every interface on the configured port.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(c.Port))
}

func atoi(s string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	return def
}
