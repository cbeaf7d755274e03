package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kai-do/fire-department-response-times-analysis/internal/explore"
	"github.com/kai-do/fire-department-response-times-analysis/internal/project"
	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
)

var (
	exProject    string
	exIncidents  []string
	exClusters   int
	exOutputPath string
	exDBPath     string
	exDelimiter  string
	exSheetName  string
	exSheetIndex int
	exMaxRows    int
	exQuiet      bool
)

var exploreCmd = &cobra.Command{
	Use:   "explore <registry-file>",
	Short: "Cluster departments by staffing and incident volume into an HTML report",
	Example: `  firereport explore usfa-census.csv --incidents "nfirs-*.csv"
  firereport explore usfa-census.csv --incidents 2019.csv --incidents 2020.csv --clusters 5
  firereport explore usfa-census.csv --incidents "nfirs-*.csv" --db explore.db -o clusters.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(exIncidents) == 0 {
			return fmt.Errorf("--incidents is required (per-year incident count files)")
		}

		// Expand incident globs, de-duplicated and in stable order.
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range exIncidents {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no incident files matched")
		}
		sort.Strings(files)

		var p *project.Project
		if exProject != "" {
			projDir, err := resolveProjectDirByName(exProject)
			if err != nil {
				return err
			}
			pp, err := project.LoadProject(projDir)
			if err != nil {
				return err
			}
			p = pp
		}

		delimFlag := exDelimiter
		if delimFlag == "" && p != nil && p.Config != nil {
			delimFlag = p.Config.Delimiter
		}
		if delimFlag == "" && cfg != nil {
			delimFlag = cfg.DefaultDelimiter
		}
		delim, err := parseDelimiter(delimFlag)
		if err != nil {
			return err
		}
		maxRows := exMaxRows
		if maxRows == 0 && cfg != nil {
			maxRows = cfg.MaxRows
		}

		path := args[0]
		loaded, err := registry.LoadFile(path, registry.Options{
			Delimiter:  delim,
			MaxRows:    maxRows,
			Sheet:      exSheetName,
			SheetIndex: exSheetIndex,
		})
		if err != nil {
			return err
		}
		warnings := append([]string{}, loaded.Warnings...)

		dbPath := exDBPath
		if dbPath == "" && cfg != nil {
			dbPath = cfg.ExploreDB
		}
		if dbPath == "" {
			dbPath = ":memory:"
		}
		st, err := explore.OpenStore(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.LoadRegistry(loaded.Records); err != nil {
			return err
		}

		total := len(files)
		for i, f := range files {
			if !exQuiet {
				fmt.Printf("[%d/%d] Loading %s...\n", i+1, total, filepath.Base(f))
			}
			counts, ws, err := explore.LoadIncidentFile(f, delim)
			if err != nil {
				return err
			}
			warnings = append(warnings, ws...)
			if err := st.AddIncidentCounts(counts); err != nil {
				return err
			}
		}

		sum, err := st.Summarize()
		if err != nil {
			return err
		}
		if !exQuiet {
			fmt.Printf("Loaded %d departments; %d with incident data across %d year(s)\n",
				sum.Departments, sum.WithIncidentData, sum.Years)
		}

		rows, err := st.AverageIncidents()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("no departments matched between the registry and the incident files")
		}
		if missing := sum.Departments - len(rows); missing > 0 {
			warnings = append(warnings, fmt.Sprintf("%d department(s) have no incident data and were left out of the clustering", missing))
		}

		matrix, err := explore.Standardize(rows)
		if err != nil {
			return err
		}

		k := exClusters
		if k == 0 && p != nil && p.Config != nil && p.Config.Clusters > 0 {
			k = p.Config.Clusters
		}
		if k == 0 && cfg != nil && cfg.ExploreClusters > 0 {
			k = cfg.ExploreClusters
		}
		if k == 0 {
			k = 4
		}
		if k > len(rows) {
			warnings = append(warnings, fmt.Sprintf("only %d department(s) to cluster; reducing --clusters from %d to %d", len(rows), k, len(rows)))
			k = len(rows)
		}

		cl, err := explore.Cluster(matrix, k)
		if err != nil {
			return err
		}
		proj, err := explore.Project(matrix)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		title := fmt.Sprintf("Department Clusters: %s", filepath.Base(path))
		if err := explore.RenderCharts(&buf, rows, cl, proj, title); err != nil {
			return err
		}
		if err := writeOutput(exOutputPath, buf.Bytes()); err != nil {
			return err
		}

		printWarnings(warnings)
		if !exQuiet {
			sizes := make([]string, cl.K)
			for i, n := range cl.Sizes {
				sizes[i] = fmt.Sprintf("%d", n)
			}
			fmt.Printf("Cluster sizes: %s\n", strings.Join(sizes, ", "))
			fmt.Printf("✓ Wrote cluster report to %s\n", exOutputPath)
		}

		if p != nil {
			if err := recordRun(p, project.Run{
				Kind:     project.RunExplore,
				Input:    filepath.Base(path),
				Outputs:  []string{exOutputPath},
				Rows:     len(rows),
				Warnings: len(warnings),
			}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVarP(&exProject, "project", "p", "", "project name to record this run")
	exploreCmd.Flags().StringSliceVar(&exIncidents, "incidents", nil, "per-year incident count files (globs allowed, repeatable)")
	exploreCmd.Flags().IntVar(&exClusters, "clusters", 0, "number of k-means clusters (default from config)")
	exploreCmd.Flags().StringVarP(&exOutputPath, "output", "o", "clusters.html", "path for the HTML cluster report")
	exploreCmd.Flags().StringVar(&exDBPath, "db", "", "SQLite path for the staging store (default in-memory)")
	exploreCmd.Flags().StringVar(&exDelimiter, "delimiter", "", "field delimiter: ','|';'|'|'|'tab' (inferred from extension if omitted)")
	exploreCmd.Flags().StringVar(&exSheetName, "sheet-name", "", "XLSX: sheet name to read")
	exploreCmd.Flags().IntVar(&exSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	exploreCmd.Flags().IntVar(&exMaxRows, "max-rows", 0, "maximum registry rows to process (0 = unlimited)")
	exploreCmd.Flags().BoolVar(&exQuiet, "quiet", false, "suppress progress output")
}
