package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kai-do/fire-department-response-times-analysis/internal/project"
	"github.com/kai-do/fire-department-response-times-analysis/internal/utils"
)

var (
	pmProject string
	pmClear   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings",
}

// loadNamedOrNearestProject loads by --project name, or walks up from the
// working directory to the enclosing project.json.
func loadNamedOrNearestProject(name string) (*project.Project, error) {
	if name != "" {
		dir, err := resolveProjectDirByName(name)
		if err != nil {
			return nil, err
		}
		return project.LoadProject(dir)
	}
	dir, err := utils.FindProjectRoot("")
	if err != nil {
		return nil, fmt.Errorf("no --project given and %w", err)
	}
	return project.LoadProject(dir)
}

var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a project's settings and run counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadNamedOrNearestProject(pmProject)
		if err != nil {
			return err
		}
		fmt.Printf("name: %s\n", p.Name)
		if p.Description != "" {
			fmt.Printf("description: %s\n", p.Description)
		}
		if p.Config != nil {
			if p.Config.Registry != "" {
				fmt.Printf("registry: %s\n", p.Config.Registry)
			}
			if p.Config.Delimiter != "" {
				fmt.Printf("delimiter: %s\n", p.Config.Delimiter)
			}
			if p.Config.Clusters > 0 {
				fmt.Printf("clusters: %d\n", p.Config.Clusters)
			}
		}
		fmt.Printf("runs: %d\n", len(p.Runs))
		fmt.Printf("updated: %s\n", p.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var projectSetRegistryCmd = &cobra.Command{
	Use:   "set-registry <path>",
	Short: "Set or clear a project's default registry file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadNamedOrNearestProject(pmProject)
		if err != nil {
			return err
		}
		if p.Config == nil {
			p.Config = &project.ProjectConfig{}
		}
		if pmClear {
			p.Config.Registry = ""
		} else {
			if len(args) == 0 || args[0] == "" {
				return fmt.Errorf("path is required unless --clear is set")
			}
			p.Config.Registry = args[0]
		}
		if err := p.Save(); err != nil {
			return err
		}
		if pmClear {
			fmt.Printf("✓ Cleared registry for %s\n", p.Name)
		} else {
			fmt.Printf("✓ Set registry for %s: %s\n", p.Name, p.Config.Registry)
		}
		return nil
	},
}

var projectSetClustersCmd = &cobra.Command{
	Use:   "set-clusters <n>",
	Short: "Set or clear a project's cluster count for explore runs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadNamedOrNearestProject(pmProject)
		if err != nil {
			return err
		}
		if p.Config == nil {
			p.Config = &project.ProjectConfig{}
		}
		if pmClear {
			p.Config.Clusters = 0
		} else {
			if len(args) == 0 {
				return fmt.Errorf("cluster count is required unless --clear is set")
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid cluster count: %s", args[0])
			}
			p.Config.Clusters = n
		}
		if err := p.Save(); err != nil {
			return err
		}
		if pmClear {
			fmt.Printf("✓ Cleared clusters for %s\n", p.Name)
		} else {
			fmt.Printf("✓ Set clusters for %s: %d\n", p.Name, p.Config.Clusters)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectSetRegistryCmd)
	projectCmd.AddCommand(projectSetClustersCmd)

	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name (default: nearest project.json)")
	projectSetRegistryCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the setting")
	projectSetClustersCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the setting")
}
