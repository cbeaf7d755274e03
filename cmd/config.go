package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/kai-do/fire-department-response-times-analysis/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set firereport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("default_format: %s\n", cfg.DefaultFormat)
		if cfg.DefaultDelimiter != "" {
			fmt.Printf("default_delimiter: %s\n", cfg.DefaultDelimiter)
		}
		fmt.Printf("max_rows: %d\n", cfg.MaxRows)
		fmt.Printf("dictionary_enabled: %t\n", cfg.DictionaryEnabled)
		fmt.Printf("dictionary_base_url: %s\n", cfg.DictionaryBaseURL)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Printf("retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Printf("retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		fmt.Printf("explore_clusters: %d\n", cfg.ExploreClusters)
		if cfg.ExploreDB != "" {
			fmt.Printf("explore_db: %s\n", cfg.ExploreDB)
		}
		fmt.Printf("projects_dir: %s\n", cfg.ProjectsDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "default_format":
			switch val {
			case "table", "markdown", "md", "html", "json":
				cfg.DefaultFormat = val
			default:
				return fmt.Errorf("invalid default_format: %s (use table|markdown|html|json)", val)
			}
		case "default_delimiter":
			if _, err := parseDelimiter(val); err != nil {
				return fmt.Errorf("invalid default_delimiter: %s (use ','|';'|'|'|'tab')", val)
			}
			cfg.DefaultDelimiter = val
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			cfg.MaxRows = i
		case "dictionary_enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for dictionary_enabled: %v", val)
			}
			cfg.DictionaryEnabled = b
		case "dictionary_base_url":
			cfg.DictionaryBaseURL = val
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		case "retry_max_attempts":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for retry_max_attempts: %v", val)
			}
			cfg.RetryMaxAttempts = i
		case "retry_base_delay_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for retry_base_delay_ms: %v", val)
			}
			cfg.RetryBaseDelayMs = i
		case "retry_max_delay_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for retry_max_delay_ms: %v", val)
			}
			cfg.RetryMaxDelayMs = i
		case "explore_clusters":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for explore_clusters: %v", val)
			}
			cfg.ExploreClusters = i
		case "explore_db":
			cfg.ExploreDB = val
		case "projects_dir":
			cfg.ProjectsDir = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
