package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr     = ":3001"
	DefaultHealthTimeout  = 5 * time.Second
	DefaultQueryTimeout   = 60 * time.Second
	DefaultAutoCloseDelay = 2 * time.Second
)

// DefaultSuggestions are the example questions offered under the input.
var DefaultSuggestions = []string{
	"What documents are available?",
	"Summarize the key points of the uploaded documents",
	"What are the main policies mentioned?",
	"Are there any deadlines or important dates?",
}

// Config holds settings shared by the console and the CLI.
type Config struct {
	// APIBase is the initial DocuMind API URL. Empty means "same origin".
	APIBase        string        `yaml:"api_url"`
	ListenAddr     string        `yaml:"listen_addr"`
	HealthTimeout  time.Duration `yaml:"health_timeout"`
	QueryTimeout   time.Duration `yaml:"query_timeout"`
	AutoCloseDelay time.Duration `yaml:"auto_close_delay"`
	LogLevel       string        `yaml:"log_level"`
	Suggestions    []string      `yaml:"suggestions"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:     DefaultListenAddr,
		HealthTimeout:  DefaultHealthTimeout,
		QueryTimeout:   DefaultQueryTimeout,
		AutoCloseDelay: DefaultAutoCloseDelay,
		LogLevel:       "info",
		Suggestions:    append([]string(nil), DefaultSuggestions...),
	}
}

// Load reads .env (if present), then the YAML file named by DOCUMIND_CONFIG,
// then environment variables. Later sources win.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg := Default()
	if path := os.Getenv("DOCUMIND_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fileCfg.APIBase != "" {
		c.APIBase = fileCfg.APIBase
	}
	if fileCfg.ListenAddr != "" {
		c.ListenAddr = fileCfg.ListenAddr
	}
	if fileCfg.HealthTimeout > 0 {
		c.HealthTimeout = fileCfg.HealthTimeout
	}
	if fileCfg.QueryTimeout > 0 {
		c.QueryTimeout = fileCfg.QueryTimeout
	}
	if fileCfg.AutoCloseDelay > 0 {
		c.AutoCloseDelay = fileCfg.AutoCloseDelay
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if len(fileCfg.Suggestions) > 0 {
		c.Suggestions = fileCfg.Suggestions
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v := strings.TrimSpace(os.Getenv("DOCUMIND_API_URL")); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("CONSOLE_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("DOCUMIND_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"DOCUMIND_HEALTH_TIMEOUT", &c.HealthTimeout},
		{"DOCUMIND_QUERY_TIMEOUT", &c.QueryTimeout},
		{"DOCUMIND_AUTO_CLOSE_DELAY", &c.AutoCloseDelay},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", d.key, v, err)
		}
		*d.dst = parsed
	}
	return nil
}
