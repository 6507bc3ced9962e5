package commands

import (
	"github.com/spf13/cobra"
	"github.com/vitalratel/wasm-slim-sub001/internal/app"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a " + domain.ConfigFileName + " for the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := c.getwd()
			if err != nil {
				return err
			}
			template, _ := cmd.Flags().GetString("template")
			force, _ := cmd.Flags().GetBool("force")
			return c.app.Init(root, app.InitOptions{Template: template, Force: force})
		},
	}
	cmd.Flags().StringP("template", "t", domain.DefaultTemplateName, "Template to start from")
	cmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	return cmd
}

func (c *CLI) newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Apply fixes from a dependency analysis report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := c.getwd()
			if err != nil {
				return err
			}
			report, _ := cmd.Flags().GetString("report")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return c.app.Fix(root, app.FixOptions{Report: report, DryRun: dryRun})
		},
	}
	cmd.Flags().StringP("report", "r", "", "Path to the JSON dependency report")
	cmd.Flags().Bool("dry-run", false, "Count applicable fixes without editing Cargo.toml")
	_ = cmd.MarkFlagRequired("report")
	return cmd
}

func (c *CLI) newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [backup]",
		Short: "Restore Cargo.toml from a backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := c.getwd()
			if err != nil {
				return err
			}
			list, _ := cmd.Flags().GetBool("list")
			opts := app.RestoreOptions{List: list}
			if len(args) == 1 {
				opts.Backup = args[0]
			}
			return c.app.Restore(root, opts)
		},
	}
	cmd.Flags().Bool("list", false, "List backups instead of restoring")
	return cmd
}

func (c *CLI) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded build sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := c.getwd()
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")
			return c.app.History(root, app.HistoryOptions{JSON: jsonOut, Limit: limit})
		},
	}
	cmd.Flags().Bool("json", false, "Write the history as JSON")
	cmd.Flags().IntP("limit", "n", 0, "Show only the most recent entries")
	return cmd
}
