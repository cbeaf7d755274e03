package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/kai-do/fire-department-response-times-analysis/internal/dictionary"
	"github.com/kai-do/fire-department-response-times-analysis/internal/labels"
	"github.com/kai-do/fire-department-response-times-analysis/internal/project"
	"github.com/kai-do/fire-department-response-times-analysis/internal/utils"
)

// parseDelimiter maps a --delimiter flag value to the rune the readers
// need. Empty means "infer from the file extension".
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'|'|'tab')", s)
	}
}

// dictionaryClient builds the lookup client from config. An explicit
// baseURL wins over the configured one.
func dictionaryClient(baseURL string) *dictionary.Client {
	timeout := 5 * time.Second
	retryMax := 2
	baseDelay := 200 * time.Millisecond
	maxDelay := 2 * time.Second
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			timeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.RetryMaxAttempts > 0 {
			retryMax = cfg.RetryMaxAttempts
		}
		if cfg.RetryBaseDelayMs > 0 {
			baseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		}
		if cfg.RetryMaxDelayMs > 0 {
			maxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
		}
	}
	if baseURL == "" {
		baseURL = dictionary.DefaultBaseURL
		if cfg != nil && cfg.DictionaryBaseURL != "" {
			baseURL = cfg.DictionaryBaseURL
		}
	}
	return dictionary.NewClientWithBaseURL(timeout, retryMax, baseDelay, maxDelay, baseURL)
}

// newTitler builds the column titler, backed by the dictionary service
// unless disabled by flag or config.
func newTitler(noDict bool) *labels.Titler {
	if noDict {
		return labels.NewTitler(nil)
	}
	if cfg != nil && !cfg.DictionaryEnabled {
		return labels.NewTitler(nil)
	}
	return labels.NewTitler(dictionaryClient(""))
}

// writeOutput writes report bytes atomically, creating parent directories.
func writeOutput(path string, data []byte) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return utils.SafeWriteFile(path, data)
}

// printWarnings relays loader and titler warnings to stderr.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
	}
}

// recordRun appends a run to a loaded project's ledger.
func recordRun(p *project.Project, run project.Run) error {
	rec := p.AddRun(run)
	if err := p.Save(); err != nil {
		return err
	}
	fmt.Printf("✓ Recorded %s run in project '%s'\n", rec.Kind, p.Name)
	return nil
}
