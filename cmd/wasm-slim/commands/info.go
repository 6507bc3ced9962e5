package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vitalratel/wasm-slim-sub001/internal/build"
)

func (c *CLI) newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.Templates()
		},
	}
}

func (c *CLI) newToolchainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toolchain",
		Short: "Report which pipeline tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Toolchain(cmd.Context())
		},
	}
}

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.wasm>",
		Short: "Show the sections, imports and exports of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Inspect(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmdo := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(cmdo, "wasm-slim version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
		},
	}
}
