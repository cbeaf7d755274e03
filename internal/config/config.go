package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DefaultFormat    string `mapstructure:"default_format" yaml:"default_format"`
	DefaultDelimiter string `mapstructure:"default_delimiter" yaml:"default_delimiter"`
	MaxRows          int    `mapstructure:"max_rows" yaml:"max_rows"`
	ProjectsDir      string `mapstructure:"projects_dir" yaml:"projects_dir"`

	// Dictionary service used to title-case column labels
	DictionaryEnabled bool   `mapstructure:"dictionary_enabled" yaml:"dictionary_enabled"`
	DictionaryBaseURL string `mapstructure:"dictionary_base_url" yaml:"dictionary_base_url"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Exploration defaults
	ExploreClusters int    `mapstructure:"explore_clusters" yaml:"explore_clusters"`
	ExploreDB       string `mapstructure:"explore_db" yaml:"explore_db"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.firereport/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".firereport")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FIREREPORT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("default_format", "table")
	v.SetDefault("default_delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("dictionary_enabled", true)
	v.SetDefault("dictionary_base_url", "https://api.dictionaryapi.dev")
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 5)
	v.SetDefault("retry_max_attempts", 2)
	v.SetDefault("retry_base_delay_ms", 200)
	v.SetDefault("retry_max_delay_ms", 2000)
	// Exploration defaults
	v.SetDefault("explore_clusters", 4)
	v.SetDefault("explore_db", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".firereport")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve projects_dir default: ~/.firereport/projects
	if c.ProjectsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.ProjectsDir = filepath.Join(home, ".firereport", "projects")
	}
	return &c, nil
}
