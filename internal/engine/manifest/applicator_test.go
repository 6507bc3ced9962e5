package manifest_test

import (
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

func report(pkgs ...string) domain.DependencyReport {
	r := domain.DependencyReport{}
	for _, p := range pkgs {
		r.Issues = append(r.Issues, domain.DependencyIssue{Package: p, Severity: "high", Issue: "heavy"})
	}
	return r
}

func newApplicator(t *testing.T, src string) (*manifest.Applicator, *fs.MemFS) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	mem := fs.NewMemFS(root)
	if src != "" {
		mem.Seed(manifestPath, []byte(src))
	}
	return manifest.NewApplicator(mem, backup.NewManager(mem), log), mem
}

func TestApplicator_Apply(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		report domain.DependencyReport
		fixes  int
		want   string
	}{
		{
			name:   "feature minimization on version string",
			src:    "[dependencies]\nimage = \"0.24\" # decoding\n",
			report: report("image"),
			fixes:  1,
			want:   "[dependencies]\nimage = { version = \"0.24\", default-features = false, features = [\"png\"] } # decoding\n",
		},
		{
			name:   "feature minimization without known features",
			src:    "[dependencies]\nregex = \"1\"\n",
			report: report("regex"),
			fixes:  1,
			want:   "[dependencies]\nregex = { version = \"1\", default-features = false }\n",
		},
		{
			name:   "feature minimization on inline table",
			src:    "[dependencies]\nlopdf = { version = \"0.31\" }\n",
			report: report("lopdf"),
			fixes:  1,
			want:   "[dependencies]\nlopdf = { version = \"0.31\", default-features = false, features = [\"pom_parser\"] }\n",
		},
		{
			name:   "feature minimization on dependency section",
			src:    "[dependencies.image]\nversion = \"0.24\"\nfeatures = [\"jpeg\"]\n",
			report: report("image"),
			fixes:  1,
			want:   "[dependencies.image]\nversion = \"0.24\"\nfeatures = [\"jpeg\"]\ndefault-features = false\n",
		},
		{
			name:   "existing default-features is respected",
			src:    "[dependencies]\nimage = { version = \"0.24\", default_features = true }\n",
			report: report("image"),
			fixes:  0,
			want:   "[dependencies]\nimage = { version = \"0.24\", default_features = true }\n",
		},
		{
			name:   "wasm fix for getrandom 0.2",
			src:    "[dependencies]\ngetrandom = \"0.2.15\"\n",
			report: report("getrandom"),
			fixes:  1,
			want:   "[dependencies]\ngetrandom = { version = \"0.2.15\", features = [\"js\"] }\n",
		},
		{
			name:   "wasm fix merges features",
			src:    "[dependencies]\ngetrandom = { version = \"0.3\", features = [\"std\"] }\n",
			report: report("getrandom"),
			fixes:  1,
			want:   "[dependencies]\ngetrandom = { version = \"0.3\", features = [\"std\", \"wasm_js\"] }\n",
		},
		{
			name:   "wasm fix already present",
			src:    "[dependencies]\ngetrandom = { version = \"0.2\", features = [\"js\"] }\n",
			report: report("getrandom"),
			fixes:  0,
			want:   "[dependencies]\ngetrandom = { version = \"0.2\", features = [\"js\"] }\n",
		},
		{
			name:   "manual remedies are not applied",
			src:    "[dependencies]\nprintpdf = \"0.7\"\nswc_core = \"1\"\nrustybuzz = \"0.1\"\ntokio = \"1\"\n",
			report: report("printpdf", "swc_core", "rustybuzz", "tokio"),
			fixes:  0,
			want:   "[dependencies]\nprintpdf = \"0.7\"\nswc_core = \"1\"\nrustybuzz = \"0.1\"\ntokio = \"1\"\n",
		},
		{
			name:   "unknown and undeclared packages are skipped",
			src:    "[dependencies]\nserde = \"1\"\n",
			report: report("serde", "image"),
			fixes:  0,
			want:   "[dependencies]\nserde = \"1\"\n",
		},
		{
			name:   "duplicate issues count once",
			src:    "[dependencies]\nregex = \"1\"\nimage = \"0.24\"\n",
			report: report("regex", "image", "regex"),
			fixes:  2,
			want:   "[dependencies]\nregex = { version = \"1\", default-features = false }\nimage = { version = \"0.24\", default-features = false, features = [\"png\"] }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mem := newApplicator(t, tt.src)

			fixes, err := a.Apply(root, tt.report, false)
			require.NoError(t, err)
			assert.Equal(t, tt.fixes, fixes)

			data, err := mem.ReadFile(manifestPath)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			if tt.fixes == 0 {
				assert.Equal(t, 0, mem.Writes())
			}
		})
	}
}

func TestApplicator_BacksUpBeforeWriting(t *testing.T) {
	src := "[dependencies]\nregex = \"1\"\n"
	a, mem := newApplicator(t, src)

	_, err := a.Apply(root, report("regex"), false)
	require.NoError(t, err)

	backups, err := backup.NewManager(mem).List(manifestPath)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	data, err := mem.ReadFile(backups[0].Path)
	require.NoError(t, err)
	assert.Equal(t, src, string(data))
}

func TestApplicator_DryRun(t *testing.T) {
	src := "[dependencies]\nregex = \"1\"\n"
	a, mem := newApplicator(t, src)

	fixes, err := a.Apply(root, report("regex"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, fixes)
	assert.Equal(t, 0, mem.Writes())
}

func TestApplicator_MissingManifest(t *testing.T) {
	a, _ := newApplicator(t, "")

	_, err := a.Apply(root, report("regex"), false)
	require.ErrorContains(t, err, "Cargo.toml not found")
}

func TestBestAlternative(t *testing.T) {
	alt, ok := manifest.BestAlternative("chrono")
	require.True(t, ok)
	assert.Equal(t, domain.FixWasm, alt.Kind)
	assert.Equal(t, 70, alt.SavingsPercent)

	alt, ok = manifest.BestAlternative("printpdf")
	require.True(t, ok)
	assert.Equal(t, "pdf-writer", alt.Crate)

	_, ok = manifest.BestAlternative("serde")
	assert.False(t, ok)
}

func TestParseReport(t *testing.T) {
	r, err := manifest.ParseReport([]byte(`{"total_deps":12,"direct_deps":3,"issues":[{"package":"image","version":"0.24","severity":"high","issue":"heavy","suggestion":"disable defaults"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 12, r.TotalDeps)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, "image", r.Issues[0].Package)

	_, err = manifest.ParseReport([]byte(`{"issues":`))
	require.ErrorContains(t, err, domain.ErrReportParse.Error())
}
