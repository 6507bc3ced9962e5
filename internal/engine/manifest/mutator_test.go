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

const (
	root         = "/project"
	manifestPath = "/project/Cargo.toml"
	freshCargo   = "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"
)

func balanced() domain.Profile {
	return domain.Profile{
		Name:         "balanced",
		OptLevel:     "s",
		LTO:          "fat",
		Strip:        true,
		CodegenUnits: 1,
		Panic:        "abort",
	}
}

func newMutator(src string) (*manifest.Mutator, *fs.MemFS) {
	mem := fs.NewMemFS(root)
	mem.Seed(manifestPath, []byte(src))
	return manifest.NewMutator(mem, backup.NewManager(mem)), mem
}

func TestMutator_AppliesProfile(t *testing.T) {
	m, mem := newMutator(freshCargo)

	res, err := m.Mutate(manifestPath, balanced(), []string{"-Oz"}, false)
	require.NoError(t, err)

	messages := make([]string, 0, len(res.Changes))
	for _, c := range res.Changes {
		messages = append(messages, c.String())
	}
	assert.Equal(t, []string{
		`Set lto = "fat" (15-30% reduction)`,
		`Set codegen-units = 1 (better optimization)`,
		`Set opt-level = "s" (size-optimized)`,
		`Set strip = true (remove debug symbols)`,
		`Set panic = "abort" (smaller panic handler)`,
		`Set wasm-opt flags (1 optimizations)`,
	}, messages)

	data, err := mem.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, freshCargo+`
[profile.release]
lto = "fat"
codegen-units = 1
opt-level = "s"
strip = true
panic = "abort"

[package.metadata.wasm-pack.profile.release]
wasm-opt = ["-Oz"]
`, string(data))

	require.NotNil(t, res.Backup)
	original, err := mem.ReadFile(res.Backup.Path)
	require.NoError(t, err)
	assert.Equal(t, freshCargo, string(original))
}

func TestMutator_Idempotent(t *testing.T) {
	m, mem := newMutator(freshCargo)

	_, err := m.Mutate(manifestPath, balanced(), []string{"-Oz", "--strip-debug"}, false)
	require.NoError(t, err)
	first, err := mem.ReadFile(manifestPath)
	require.NoError(t, err)
	writes := mem.Writes()

	res, err := m.Mutate(manifestPath, balanced(), []string{"-Oz", "--strip-debug"}, false)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
	assert.Nil(t, res.Backup)
	assert.Equal(t, writes, mem.Writes())

	second, err := mem.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMutator_DryRunWritesNothing(t *testing.T) {
	m, mem := newMutator(freshCargo)

	res, err := m.Mutate(manifestPath, balanced(), []string{"-Oz"}, true)
	require.NoError(t, err)
	assert.Len(t, res.Changes, 6)
	assert.Nil(t, res.Backup)
	assert.Equal(t, 0, mem.Writes())

	data, err := mem.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, freshCargo, string(data))
}

func TestMutator_EquivalentValuesAreNotChanges(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "typed variants",
			src:  "[profile.release]\nlto = true\nopt-level = 's'\ncodegen-units = \"1\"\nstrip = \"symbols\"\npanic = \"abort\"\n",
		},
		{
			name: "dotted keys",
			src:  "profile.release.lto = \"fat\"\nprofile.release.opt-level = \"s\"\nprofile.release.codegen-units = 1\nprofile.release.strip = true\nprofile.release.panic = \"abort\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mem := newMutator(tt.src)

			res, err := m.Mutate(manifestPath, balanced(), nil, false)
			require.NoError(t, err)
			assert.Empty(t, res.Changes)
			assert.Equal(t, 0, mem.Writes())
		})
	}
}

func TestMutator_NumericOptLevel(t *testing.T) {
	m, mem := newMutator("[profile.release]\nopt-level = \"z\" # tiny\n")
	profile := domain.Profile{OptLevel: "3", Strip: false}

	res, err := m.Mutate(manifestPath, profile, nil, false)
	require.NoError(t, err)
	require.Len(t, res.Changes, 2)
	assert.Equal(t, "opt-level", res.Changes[0].Field)
	assert.Equal(t, "Set strip = false", res.Changes[1].Message)

	data, err := mem.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, "[profile.release]\nopt-level = 3 # tiny\nstrip = false\n", string(data))

	res, err = m.Mutate(manifestPath, profile, nil, false)
	require.NoError(t, err)
	assert.Empty(t, res.Changes)
}

func TestMutator_VirtualWorkspaceGetsNoPackage(t *testing.T) {
	src := "[workspace]\nmembers = [\"app\"]\n"
	m, mem := newMutator(src)

	res, err := m.Mutate(manifestPath, balanced(), []string{"-Oz"}, false)
	require.NoError(t, err)
	assert.Len(t, res.Changes, 5)

	data, err := mem.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "[package")
}

func TestMutator_NilToolFlagsLeaveWasmPackAlone(t *testing.T) {
	src := freshCargo + "\n[package.metadata.wasm-pack.profile.release]\nwasm-opt = false\n"
	m, _ := newMutator(src)

	res, err := m.Mutate(manifestPath, balanced(), nil, true)
	require.NoError(t, err)
	for _, c := range res.Changes {
		assert.NotEqual(t, "wasm-opt", c.Field)
	}
}

func TestMutator_ReplacesDifferentWasmOptList(t *testing.T) {
	src := freshCargo + "\n[package.metadata.wasm-pack.profile.release]\nwasm-opt = [\"-O\"] # old\n"
	m, mem := newMutator(src)

	res, err := m.Mutate(manifestPath, balanced(), []string{"-Oz", "--vacuum"}, false)
	require.NoError(t, err)
	last := res.Changes[len(res.Changes)-1]
	assert.Equal(t, "Set wasm-opt flags (2 optimizations)", last.Message)

	data, err := mem.ReadFile(manifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wasm-opt = [\"-Oz\", \"--vacuum\"] # old\n")
}

func TestMutator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     *string
		wantErr error
	}{
		{name: "missing manifest", wantErr: domain.ErrManifestRead},
		{name: "invalid toml", src: ptr("[package\n"), wantErr: domain.ErrManifestParse},
		{name: "profile is a string", src: ptr("profile = \"x\"\n"), wantErr: domain.ErrManifestStructure},
		{name: "profile is an array", src: ptr("[[profile]]\nname = \"a\"\n"), wantErr: domain.ErrManifestStructure},
		{name: "release is a string", src: ptr("[profile]\nrelease = \"fast\"\n"), wantErr: domain.ErrManifestStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := fs.NewMemFS(root)
			if tt.src != nil {
				mem.Seed(manifestPath, []byte(*tt.src))
			}
			m := manifest.NewMutator(mem, backup.NewManager(mem))

			_, err := m.Mutate(manifestPath, balanced(), nil, false)
			require.ErrorContains(t, err, tt.wantErr.Error())
			assert.Equal(t, 0, mem.Writes())
		})
	}
}

func TestMutator_SnapshotFailurePreventsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	backups := mocks.NewMockBackupManager(ctrl)
	backups.EXPECT().Snapshot(manifestPath).Return(nil, errors.New("disk full"))

	mem := fs.NewMemFS(root)
	mem.Seed(manifestPath, []byte(freshCargo))

	_, err := manifest.NewMutator(mem, backups).Mutate(manifestPath, balanced(), nil, false)
	require.ErrorContains(t, err, "disk full")
	assert.Equal(t, 0, mem.Writes())
}

func ptr[T any](v T) *T { return &v }
