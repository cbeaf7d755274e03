package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dictBaseURL string

var dictCmd = &cobra.Command{
	Use:   "dict <word>...",
	Short: "Probe the dictionary service used for header title-casing",
	Example: `  firereport dict state county fdid
  firereport dict --base-url http://localhost:8080 state`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := dictionaryClient(dictBaseURL)
		for _, word := range args {
			found, err := client.Lookup(cmd.Context(), word)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", word, err)
			}
			if found {
				fmt.Printf("✓ %s: found (will title-case)\n", word)
			} else {
				fmt.Printf("- %s: not found (will upper-case)\n", word)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dictCmd)
	dictCmd.Flags().StringVar(&dictBaseURL, "base-url", "", "override the dictionary service base URL")
}
