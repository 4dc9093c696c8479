package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/adam-cli/internal/project"
)

var (
	listParent string
	listRoot   bool

	createParent      string
	createName        string
	createDescription string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage remote projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, optionally only the children of a parent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		parentSet := cmd.Flags().Changed("parent")
		if parentSet && listRoot {
			return fmt.Errorf("--parent and --root are mutually exclusive")
		}
		svc, err := newProjects()
		if err != nil {
			return err
		}
		var ps []*project.Project
		switch {
		case parentSet:
			ps, err = svc.ListSub(cmd.Context(), project.String(listParent))
		case listRoot:
			ps, err = svc.ListSub(cmd.Context(), nil)
		default:
			ps, err = svc.List(cmd.Context())
		}
		if err != nil {
			return err
		}
		return writeProjects(cmd.OutOrStdout(), cfg.Output, ps)
	},
}

var projectGetCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Show a single project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProjects()
		if err != nil {
			return err
		}
		p, err := svc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("project %s not found", args[0])
		}
		return writeProject(cmd.OutOrStdout(), cfg.Output, p)
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project; omitted fields are sent as null",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProjects()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		p, err := svc.Create(cmd.Context(),
			optionalFlag(f.Changed("parent"), createParent),
			optionalFlag(f.Changed("name"), createName),
			optionalFlag(f.Changed("description"), createDescription),
		)
		if err != nil {
			return err
		}
		if cfg.Output == "table" || cfg.Output == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created project %s\n", p.UUID())
			return nil
		}
		return writeProject(cmd.OutOrStdout(), cfg.Output, p)
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <uuid>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newProjects()
		if err != nil {
			return err
		}
		if err := svc.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted project %s\n", args[0])
		return nil
	},
}

func optionalFlag(changed bool, val string) *string {
	if !changed {
		return nil
	}
	return project.String(val)
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd, projectGetCmd, projectCreateCmd, projectDeleteCmd)

	projectListCmd.Flags().StringVar(&listParent, "parent", "", "only list projects whose parent is this uuid")
	projectListCmd.Flags().BoolVar(&listRoot, "root", false, "only list projects without a parent")

	projectCreateCmd.Flags().StringVar(&createParent, "parent", "", "parent project uuid")
	projectCreateCmd.Flags().StringVarP(&createName, "name", "n", "", "project name")
	projectCreateCmd.Flags().StringVarP(&createDescription, "description", "d", "", "project description")
}
