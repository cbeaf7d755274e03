package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kai-do/fire-department-response-times-analysis/internal/crosstab"
	"github.com/kai-do/fire-department-response-times-analysis/internal/freqtable"
	"github.com/kai-do/fire-department-response-times-analysis/internal/project"
	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
	"github.com/kai-do/fire-department-response-times-analysis/internal/utils"
)

var (
	ctProject    string
	ctOutputPath string
	ctFormat     string
	ctDelimiter  string
	ctRowsDim    string
	ctColsDim    string
	ctSheetName  string
	ctSheetIndex int
	ctMaxRows    int
	ctNoDict     bool
	ctCachePath  string
	ctFromCache  string
	ctQuiet      bool
)

var crosstabCmd = &cobra.Command{
	Use:   "crosstab [registry-file]",
	Short: "Cross-tabulate a registry and report counts with relative frequencies",
	Example: `  firereport crosstab usfa-census.csv
  firereport crosstab usfa-census.csv --rows hq_state --cols dept_type
  firereport crosstab usfa-census.csv --format markdown -o report.md
  firereport crosstab usfa-census.csv --cache tab.json
  firereport crosstab --from-cache tab.json --format html -o report.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			res      *crosstab.Result
			source   string
			rowsRead int
			warnings []string
		)

		var proj *project.Project
		if ctProject != "" {
			dir, err := resolveProjectDirByName(ctProject)
			if err != nil {
				return err
			}
			proj, err = project.LoadProject(dir)
			if err != nil {
				return err
			}
		}

		if ctFromCache != "" {
			if len(args) > 0 {
				return fmt.Errorf("pass either a registry file or --from-cache, not both")
			}
			if cmd.Flags().Changed("rows") || cmd.Flags().Changed("cols") {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: --rows/--cols are ignored with --from-cache\n")
			}
			cache, err := crosstab.ReadCache(ctFromCache)
			if err != nil {
				return err
			}
			res = cache.Result
			source = cache.Source
			rowsRead = res.GrandTotal
		} else {
			var path string
			switch {
			case len(args) > 0:
				path = args[0]
			case proj != nil && proj.Config != nil && proj.Config.Registry != "":
				path = proj.Config.Registry
			default:
				return fmt.Errorf("registry file is required unless --from-cache is set or the project has a default registry")
			}

			rowDim, err := registry.ParseField(ctRowsDim)
			if err != nil {
				return fmt.Errorf("--rows: %w", err)
			}
			colDim, err := registry.ParseField(ctColsDim)
			if err != nil {
				return fmt.Errorf("--cols: %w", err)
			}

			delimFlag := ctDelimiter
			if delimFlag == "" && proj != nil && proj.Config != nil {
				delimFlag = proj.Config.Delimiter
			}
			if delimFlag == "" && cfg != nil {
				delimFlag = cfg.DefaultDelimiter
			}
			delim, err := parseDelimiter(delimFlag)
			if err != nil {
				return err
			}
			maxRows := ctMaxRows
			if maxRows == 0 && cfg != nil {
				maxRows = cfg.MaxRows
			}

			loaded, err := registry.LoadFile(path, registry.Options{
				Delimiter:  delim,
				MaxRows:    maxRows,
				Sheet:      ctSheetName,
				SheetIndex: ctSheetIndex,
			})
			if err != nil {
				return err
			}
			warnings = append(warnings, loaded.Warnings...)

			res, err = crosstab.Tabulate(loaded.Records, rowDim, colDim)
			if err != nil {
				return err
			}
			source = filepath.Base(path)
			rowsRead = loaded.Rows
		}

		if ctCachePath != "" {
			if err := crosstab.WriteCache(ctCachePath, res, source); err != nil {
				return err
			}
			if !ctQuiet {
				fmt.Printf("✓ Cached tabulation to %s\n", ctCachePath)
			}
		}

		format := strings.ToLower(strings.TrimSpace(ctFormat))
		if format == "" {
			format = "table"
			if cfg != nil && cfg.DefaultFormat != "" {
				format = cfg.DefaultFormat
			}
		}

		rdr := freqtable.NewRenderer(newTitler(ctNoDict))
		ctx := cmd.Context()

		var out string
		switch format {
		case "table":
			out = rdr.Render(ctx, res)
		case "markdown", "md":
			out = rdr.Document(ctx, res, source)
		case "html":
			out = rdr.RenderHTML(ctx, res)
		case "json":
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			out = string(b)
		default:
			return fmt.Errorf("unsupported --format: %s (use table|markdown|html|json)", format)
		}
		warnings = append(warnings, rdr.Warnings()...)
		printWarnings(warnings)

		written := false
		if ctOutputPath != "" {
			if err := writeOutput(ctOutputPath, []byte(out)); err != nil {
				return err
			}
			if !ctQuiet {
				fmt.Printf("✓ Wrote %s report to %s\n", format, ctOutputPath)
			}
			written = true
		}
		if !written {
			fmt.Println(out)
		}

		if proj != nil {
			run := project.Run{
				Kind:       project.RunCrosstab,
				Input:      source,
				Rows:       rowsRead,
				GrandTotal: res.GrandTotal,
				Warnings:   len(warnings),
			}
			if ctOutputPath != "" {
				run.Outputs = append(run.Outputs, ctOutputPath)
			}
			if ctCachePath != "" {
				run.Outputs = append(run.Outputs, ctCachePath)
			}
			if err := recordRun(proj, run); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crosstabCmd)
	crosstabCmd.Flags().StringVarP(&ctProject, "project", "p", "", "project name to record this run")
	crosstabCmd.Flags().StringVarP(&ctOutputPath, "output", "o", "", "optional path to write the report")
	crosstabCmd.Flags().StringVar(&ctFormat, "format", "", "output format: table|markdown|html|json (default from config)")
	crosstabCmd.Flags().StringVar(&ctDelimiter, "delimiter", "", "field delimiter: ','|';'|'|'|'tab' (inferred from extension if omitted)")
	crosstabCmd.Flags().StringVar(&ctRowsDim, "rows", "organization_type", "row dimension column")
	crosstabCmd.Flags().StringVar(&ctColsDim, "cols", "dept_type", "column dimension column")
	crosstabCmd.Flags().StringVar(&ctSheetName, "sheet-name", "", "XLSX: sheet name to read")
	crosstabCmd.Flags().IntVar(&ctSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	crosstabCmd.Flags().IntVar(&ctMaxRows, "max-rows", 0, "maximum rows to process (0 = unlimited)")
	crosstabCmd.Flags().BoolVar(&ctNoDict, "no-dict", false, "skip dictionary lookups when title-casing headers")
	crosstabCmd.Flags().StringVar(&ctCachePath, "cache", "", "write the tabulation as JSON to this path")
	crosstabCmd.Flags().StringVar(&ctFromCache, "from-cache", "", "render from a cached tabulation instead of a registry file")
	crosstabCmd.Flags().BoolVar(&ctQuiet, "quiet", false, "suppress non-essential output")
}
