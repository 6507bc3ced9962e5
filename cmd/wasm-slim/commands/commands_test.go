package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalratel/wasm-slim-sub001/cmd/wasm-slim/commands"
	"github.com/vitalratel/wasm-slim-sub001/internal/app"
	"github.com/vitalratel/wasm-slim-sub001/internal/build"
)

const root = "/work/crate"

type mockApp struct {
	buildFunc   func(ctx context.Context, root string, opts app.BuildOptions) error
	initFunc    func(root string, opts app.InitOptions) error
	fixFunc     func(root string, opts app.FixOptions) error
	restoreFunc func(root string, opts app.RestoreOptions) error
	historyFunc func(root string, opts app.HistoryOptions) error
	inspectFunc func(ctx context.Context, path string) error
	templates   int
	toolchain   int
}

func (m *mockApp) Build(ctx context.Context, root string, opts app.BuildOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, root, opts)
	}
	return nil
}

func (m *mockApp) Init(root string, opts app.InitOptions) error {
	if m.initFunc != nil {
		return m.initFunc(root, opts)
	}
	return nil
}

func (m *mockApp) Fix(root string, opts app.FixOptions) error {
	if m.fixFunc != nil {
		return m.fixFunc(root, opts)
	}
	return nil
}

func (m *mockApp) Restore(root string, opts app.RestoreOptions) error {
	if m.restoreFunc != nil {
		return m.restoreFunc(root, opts)
	}
	return nil
}

func (m *mockApp) History(root string, opts app.HistoryOptions) error {
	if m.historyFunc != nil {
		return m.historyFunc(root, opts)
	}
	return nil
}

func (m *mockApp) Templates() error {
	m.templates++
	return nil
}

func (m *mockApp) Toolchain(context.Context) error {
	m.toolchain++
	return nil
}

func (m *mockApp) Inspect(ctx context.Context, path string) error {
	if m.inspectFunc != nil {
		return m.inspectFunc(ctx, path)
	}
	return nil
}

func newCLI(m *mockApp, args ...string) (*commands.CLI, *bytes.Buffer) {
	cli := commands.New(m)
	cli.SetRoot(root)
	cli.SetArgs(args)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	return cli, buf
}

func TestCommands_Build(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var capturedRoot string
		var capturedOpts app.BuildOptions
		mock := &mockApp{
			buildFunc: func(_ context.Context, r string, opts app.BuildOptions) error {
				capturedRoot = r
				capturedOpts = opts
				return nil
			},
		}

		cli, _ := newCLI(mock, "build", "-d", "--check", "--json",
			"-t", "out", "--template", "aggressive", "--rollback-on-failure")
		require.NoError(t, cli.Execute(context.Background()))

		assert.Equal(t, root, capturedRoot)
		assert.Equal(t, app.BuildOptions{
			DryRun:            true,
			Check:             true,
			JSON:              true,
			Template:          "aggressive",
			TargetDir:         "out",
			RollbackOnFailure: true,
		}, capturedOpts)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(context.Context, string, app.BuildOptions) error {
				return errors.New("simulated error")
			},
		}

		cli, _ := newCLI(mock, "build")
		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		cli, _ := newCLI(&mockApp{}, "build", "extra")
		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Init(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.InitOptions
	}{
		{"defaults to balanced", []string{"init"}, app.InitOptions{Template: "balanced"}},
		{"template and force", []string{"init", "-t", "minimal", "--force"}, app.InitOptions{Template: "minimal", Force: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got app.InitOptions
			mock := &mockApp{initFunc: func(r string, opts app.InitOptions) error {
				assert.Equal(t, root, r)
				got = opts
				return nil
			}}
			cli, _ := newCLI(mock, tt.args...)
			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommands_Fix(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var got app.FixOptions
		mock := &mockApp{fixFunc: func(_ string, opts app.FixOptions) error {
			got = opts
			return nil
		}}
		cli, _ := newCLI(mock, "fix", "-r", "deps.json", "--dry-run")
		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, app.FixOptions{Report: "deps.json", DryRun: true}, got)
	})

	t.Run("requires a report", func(t *testing.T) {
		mock := &mockApp{fixFunc: func(string, app.FixOptions) error {
			panic("should not be called")
		}}
		cli, _ := newCLI(mock, "fix")
		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report")
	})
}

func TestCommands_Restore(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.RestoreOptions
	}{
		{"newest", []string{"restore"}, app.RestoreOptions{}},
		{"named", []string{"restore", "Cargo.toml.1.backup"}, app.RestoreOptions{Backup: "Cargo.toml.1.backup"}},
		{"list", []string{"restore", "--list"}, app.RestoreOptions{List: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got app.RestoreOptions
			mock := &mockApp{restoreFunc: func(_ string, opts app.RestoreOptions) error {
				got = opts
				return nil
			}}
			cli, _ := newCLI(mock, tt.args...)
			require.NoError(t, cli.Execute(context.Background()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommands_History(t *testing.T) {
	var got app.HistoryOptions
	mock := &mockApp{historyFunc: func(_ string, opts app.HistoryOptions) error {
		got = opts
		return nil
	}}
	cli, _ := newCLI(mock, "history", "--json", "-n", "5")
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, app.HistoryOptions{JSON: true, Limit: 5}, got)
}

func TestCommands_Info(t *testing.T) {
	mock := &mockApp{}

	cli, _ := newCLI(mock, "templates")
	require.NoError(t, cli.Execute(context.Background()))
	cli, _ = newCLI(mock, "toolchain")
	require.NoError(t, cli.Execute(context.Background()))

	assert.Equal(t, 1, mock.templates)
	assert.Equal(t, 1, mock.toolchain)
}

func TestCommands_Inspect(t *testing.T) {
	var got string
	mock := &mockApp{inspectFunc: func(_ context.Context, path string) error {
		got = path
		return nil
	}}
	cli, _ := newCLI(mock, "inspect", "pkg/app_bg.wasm")
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "pkg/app_bg.wasm", got)

	cli, _ = newCLI(mock, "inspect")
	require.Error(t, cli.Execute(context.Background()))
}

func TestCommands_Version(t *testing.T) {
	cli, buf := newCLI(&mockApp{}, "version")
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, buf.String(), "wasm-slim version "+build.Version)
	assert.Contains(t, buf.String(), "commit: "+build.Commit)
}
