package manifest_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/backup"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports/mocks"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/manifest"
	"go.uber.org/mock/gomock"
)

const cargoConfigPath = "/project/.cargo/config.toml"

const buildStdConfig = "[unstable]\n" +
	"build-std = [\"std\", \"panic_abort\", \"core\", \"alloc\"]\n" +
	"build-std-features = [\"panic_immediate_abort\"]\n"

func newBuildStdMutator(src *string) (*manifest.BuildStdMutator, *fs.MemFS) {
	mem := fs.NewMemFS(root)
	if src != nil {
		mem.Seed(cargoConfigPath, []byte(*src))
	}
	return manifest.NewBuildStdMutator(mem, backup.NewManager(mem)), mem
}

func TestBuildStdMutator_CreatesConfig(t *testing.T) {
	m, mem := newBuildStdMutator(nil)

	res, err := m.Mutate(root, false)
	require.NoError(t, err)
	assert.Nil(t, res.Backup)
	assert.Equal(t, []string{
		`Set build-std = ["std" "panic_abort" "core" "alloc"] in .cargo/config.toml (10-20% reduction)`,
		`Set build-std-features = ["panic_immediate_abort"] in .cargo/config.toml (smaller panic handler)`,
	}, messagesOf(res))

	data, err := mem.ReadFile(cargoConfigPath)
	require.NoError(t, err)
	assert.Equal(t, buildStdConfig, string(data))
}

func TestBuildStdMutator_PreservesExistingConfig(t *testing.T) {
	src := "# shared settings\n[build]\ntarget = \"wasm32-unknown-unknown\"\n"
	m, mem := newBuildStdMutator(&src)

	res, err := m.Mutate(root, false)
	require.NoError(t, err)
	require.Len(t, res.Changes, 2)
	require.NotNil(t, res.Backup)

	data, err := mem.ReadFile(cargoConfigPath)
	require.NoError(t, err)
	assert.Equal(t, src+"\n"+buildStdConfig, string(data))

	saved, err := mem.ReadFile(res.Backup.Path)
	require.NoError(t, err)
	assert.Equal(t, src, string(saved))
}

func TestBuildStdMutator_KeepsUserChoices(t *testing.T) {
	src := "[unstable]\nbuild-std = [\"std\", \"panic_abort\"] # minimal\n"
	m, mem := newBuildStdMutator(&src)

	res, err := m.Mutate(root, false)
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, "build-std-features", res.Changes[0].Field)

	data, err := mem.ReadFile(cargoConfigPath)
	require.NoError(t, err)
	assert.Equal(t,
		"[unstable]\nbuild-std = [\"std\", \"panic_abort\"] # minimal\nbuild-std-features = [\"panic_immediate_abort\"]\n",
		string(data))
}

func TestBuildStdMutator_Idempotent(t *testing.T) {
	m, mem := newBuildStdMutator(nil)

	_, err := m.Mutate(root, false)
	require.NoError(t, err)
	writes := mem.Writes()

	res, err := m.Mutate(root, false)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Nil(t, res.Backup)
	assert.Equal(t, writes, mem.Writes())
}

func TestBuildStdMutator_DryRunWritesNothing(t *testing.T) {
	tests := []struct {
		name string
		src  *string
	}{
		{name: "no config"},
		{name: "existing config", src: ptr("[build]\njobs = 2\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mem := newBuildStdMutator(tt.src)

			res, err := m.Mutate(root, true)
			require.NoError(t, err)
			assert.Len(t, res.Changes, 2)
			assert.Nil(t, res.Backup)
			assert.Equal(t, 0, mem.Writes())

			data, err := mem.ReadFile(cargoConfigPath)
			if tt.src == nil {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tt.src, string(data))
		})
	}
}

func TestBuildStdMutator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{name: "invalid toml", src: "[unstable\n", wantErr: domain.ErrManifestParse},
		{name: "unstable is a string", src: "unstable = \"yes\"\n", wantErr: domain.ErrManifestStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mem := newBuildStdMutator(&tt.src)

			_, err := m.Mutate(root, false)
			require.ErrorContains(t, err, tt.wantErr.Error())
			assert.Equal(t, 0, mem.Writes())
		})
	}
}

func TestBuildStdMutator_SnapshotFailurePreventsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	backups := mocks.NewMockBackupManager(ctrl)
	backups.EXPECT().Snapshot(cargoConfigPath).Return(nil, errors.New("disk full"))

	mem := fs.NewMemFS(root)
	mem.Seed(cargoConfigPath, []byte("[build]\njobs = 2\n"))

	_, err := manifest.NewBuildStdMutator(mem, backups).Mutate(root, false)
	require.ErrorContains(t, err, "disk full")
	assert.Equal(t, 0, mem.Writes())
}

func messagesOf(res domain.MutationResult) []string {
	out := make([]string, 0, len(res.Changes))
	for _, c := range res.Changes {
		out = append(out, c.String())
	}
	return out
}
