package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
)

var (
	colOutputPath string
	colNoDict     bool
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Print the registry schema: required columns, display labels, kinds",
	RunE: func(cmd *cobra.Command, args []string) error {
		titler := newTitler(colNoDict)

		tbl := table.NewWriter()
		tbl.AppendHeader(table.Row{"Column", "Label", "Kind"})
		for _, col := range registry.RequiredColumns() {
			label := titler.Titleize(cmd.Context(), col)
			tbl.AppendRow(table.Row{col, label, registry.ColumnKind(col)})
		}
		out := tbl.RenderMarkdown()
		printWarnings(titler.Warnings)

		if colOutputPath != "" {
			if err := writeOutput(colOutputPath, []byte(out+"\n")); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote schema to %s\n", colOutputPath)
			return nil
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().StringVarP(&colOutputPath, "output", "o", "", "optional path to write the schema table")
	columnsCmd.Flags().BoolVar(&colNoDict, "no-dict", false, "skip dictionary lookups when title-casing labels")
}
