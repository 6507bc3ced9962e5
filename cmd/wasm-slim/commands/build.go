package commands

import (
	"github.com/spf13/cobra"
	"github.com/vitalratel/wasm-slim-sub001/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the crate and shrink the WebAssembly output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := c.getwd()
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			check, _ := cmd.Flags().GetBool("check")
			jsonOut, _ := cmd.Flags().GetBool("json")
			targetDir, _ := cmd.Flags().GetString("target-dir")
			template, _ := cmd.Flags().GetString("template")
			rollback, _ := cmd.Flags().GetBool("rollback-on-failure")

			return c.app.Build(cmd.Context(), root, app.BuildOptions{
				DryRun:            dryRun,
				Check:             check,
				JSON:              jsonOut,
				Template:          template,
				TargetDir:         targetDir,
				RollbackOnFailure: rollback,
			})
		},
	}
	cmd.Flags().BoolP("dry-run", "d", false, "Print the planned steps without running them")
	cmd.Flags().Bool("check", false, "Fail when the size budget is exceeded")
	cmd.Flags().Bool("json", false, "Write the outcome as JSON")
	cmd.Flags().StringP("target-dir", "t", "", "Cargo target directory")
	cmd.Flags().String("template", "", "Template to use instead of the configured one")
	cmd.Flags().Bool("rollback-on-failure", false, "Restore Cargo.toml when a later step fails")
	return cmd
}
