// Package commands implements the CLI commands for wasm-slim.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vitalratel/wasm-slim-sub001/internal/app"
	"github.com/vitalratel/wasm-slim-sub001/internal/build"
)

// CLI represents the command line interface for wasm-slim.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	getwd   func() (string, error)
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, root string, opts app.BuildOptions) error
	Init(root string, opts app.InitOptions) error
	Fix(root string, opts app.FixOptions) error
	Restore(root string, opts app.RestoreOptions) error
	History(root string, opts app.HistoryOptions) error
	Templates() error
	Toolchain(ctx context.Context) error
	Inspect(ctx context.Context, path string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "wasm-slim",
		Short:         "Shrink Rust WebAssembly builds",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
		getwd:   os.Getwd,
	}

	rootCmd.AddCommand(
		c.newBuildCmd(),
		c.newInitCmd(),
		c.newFixCmd(),
		c.newRestoreCmd(),
		c.newHistoryCmd(),
		c.newTemplatesCmd(),
		c.newToolchainCmd(),
		c.newInspectCmd(),
		c.newVersionCmd(),
	)

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetRoot pins the project directory instead of the working directory. Used for testing.
func (c *CLI) SetRoot(root string) {
	c.getwd = func() (string, error) { return root, nil }
}
