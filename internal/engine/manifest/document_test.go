package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/manifest"
)

func TestDocument_Set(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		path  []string
		value any
		want  string
	}{
		{
			name:  "replaces value and keeps trailing comment",
			src:   "[profile.release]\nopt-level = 3 # fast\nlto = false\n",
			path:  []string{"profile", "release", "opt-level"},
			value: "z",
			want:  "[profile.release]\nopt-level = \"z\" # fast\nlto = false\n",
		},
		{
			name:  "appends after last key of section",
			src:   "[package]\nname = \"demo\"\n\n[profile.release]\nopt-level = \"z\"\n\n[dependencies]\nserde = \"1\"\n",
			path:  []string{"profile", "release", "lto"},
			value: "fat",
			want:  "[package]\nname = \"demo\"\n\n[profile.release]\nopt-level = \"z\"\nlto = \"fat\"\n\n[dependencies]\nserde = \"1\"\n",
		},
		{
			name:  "creates missing section at end",
			src:   "[package]\nname = \"demo\"\n",
			path:  []string{"profile", "release", "lto"},
			value: "fat",
			want:  "[package]\nname = \"demo\"\n\n[profile.release]\nlto = \"fat\"\n",
		},
		{
			name:  "creates section in empty document",
			src:   "",
			path:  []string{"profile", "release", "panic"},
			value: "abort",
			want:  "[profile.release]\npanic = \"abort\"\n",
		},
		{
			name:  "adds dotted key next to dotted sibling",
			src:   "[profile]\nrelease.opt-level = \"s\"\n",
			path:  []string{"profile", "release", "lto"},
			value: "fat",
			want:  "[profile]\nrelease.opt-level = \"s\"\nrelease.lto = \"fat\"\n",
		},
		{
			name:  "adds key inside inline table",
			src:   "[profile]\nrelease = { opt-level = \"s\" }\n",
			path:  []string{"profile", "release", "lto"},
			value: "fat",
			want:  "[profile]\nrelease = { opt-level = \"s\", lto = \"fat\" }\n",
		},
		{
			name:  "fills empty inline table",
			src:   "[profile]\nrelease = {}\n",
			path:  []string{"profile", "release", "strip"},
			value: true,
			want:  "[profile]\nrelease = { strip = true }\n",
		},
		{
			name:  "keeps CRLF line endings",
			src:   "[package]\r\nname = \"demo\"\r\n",
			path:  []string{"profile", "release", "strip"},
			value: true,
			want:  "[package]\r\nname = \"demo\"\r\n\r\n[profile.release]\r\nstrip = true\r\n",
		},
		{
			name:  "terminates last line before appending",
			src:   "[profile.release]\nopt-level = \"s\"",
			path:  []string{"profile", "release", "lto"},
			value: "fat",
			want:  "[profile.release]\nopt-level = \"s\"\nlto = \"fat\"\n",
		},
		{
			name:  "writes integers and string arrays",
			src:   "[profile.release]\ncodegen-units = \"16\"\n",
			path:  []string{"profile", "release", "codegen-units"},
			value: 1,
			want:  "[profile.release]\ncodegen-units = 1\n",
		},
		{
			name:  "replaces multi-line array",
			src:   "[x]\nflags = [\n  \"-O\", # old\n]\nafter = 1\n",
			path:  []string{"x", "flags"},
			value: []string{"-Oz", "--strip-debug"},
			want:  "[x]\nflags = [\"-Oz\", \"--strip-debug\"]\nafter = 1\n",
		},
		{
			name:  "quotes keys that are not bare",
			src:   "[package]\nname = \"demo\"\n",
			path:  []string{"package", "metadata", "a.b"},
			value: "v",
			want:  "[package]\nname = \"demo\"\n\n[package.metadata]\n\"a.b\" = \"v\"\n",
		},
		{
			name: "writes inline table value",
			src:  "[dependencies]\nimage = \"0.24\"\n",
			path: []string{"dependencies", "image"},
			value: manifest.InlineTable{
				{Key: "version", Value: "0.24"},
				{Key: "default-features", Value: false},
				{Key: "features", Value: []string{"png"}},
			},
			want: "[dependencies]\nimage = { version = \"0.24\", default-features = false, features = [\"png\"] }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := manifest.Parse([]byte(tt.src))
			require.NoError(t, err)

			require.NoError(t, doc.Set(tt.path, tt.value))
			assert.Equal(t, tt.want, string(doc.Bytes()))

			got, ok := doc.Get(tt.path...)
			require.True(t, ok)
			assert.NotNil(t, got)
		})
	}
}

func TestDocument_PreservesUntouchedRegions(t *testing.T) {
	src := `# Top comment
[package]
name    = "demo"   # aligned
version = '0.1.0'
description = """
multi "line"
"""

[dependencies]
serde = { version = "1", features = ["derive"] }
when = 1979-05-27 07:32:00

[[bin]]
name = "tool"

[profile.release]
opt-level = 3
`
	doc, err := manifest.Parse([]byte(src))
	require.NoError(t, err)
	require.NoError(t, doc.Set([]string{"profile", "release", "opt-level"}, "z"))

	want := src[:len(src)-2] + "\"z\"\n"
	assert.Equal(t, want, string(doc.Bytes()))
}

func TestDocument_ArrayTablesAreNotEditTargets(t *testing.T) {
	src := "[[bin]]\nname = \"tool\"\n"
	doc, err := manifest.Parse([]byte(src))
	require.NoError(t, err)

	require.NoError(t, doc.Set([]string{"package", "name"}, "demo"))
	assert.Equal(t, src+"\n[package]\nname = \"demo\"\n", string(doc.Bytes()))
}

func TestDocument_Table(t *testing.T) {
	doc, err := manifest.Parse([]byte("[profile.release]\nlto = true\n"))
	require.NoError(t, err)

	release, ok, err := doc.Table("profile", "release")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, true, release["lto"])

	_, ok, err = doc.Table("profile", "dev")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = doc.Table("profile", "release", "lto")
	require.ErrorContains(t, err, domain.ErrManifestStructure.Error())
}

func TestDocument_SetRejectsNonTableParent(t *testing.T) {
	doc, err := manifest.Parse([]byte("profile = \"x\"\n"))
	require.NoError(t, err)

	err = doc.Set([]string{"profile", "release", "lto"}, "fat")
	require.ErrorContains(t, err, domain.ErrManifestStructure.Error())
	assert.Equal(t, "profile = \"x\"\n", string(doc.Bytes()))
}

func TestDocument_SetRejectsUnsupportedValue(t *testing.T) {
	doc, err := manifest.Parse([]byte("[a]\n"))
	require.NoError(t, err)

	err = doc.Set([]string{"a", "b"}, 1.5)
	require.ErrorContains(t, err, domain.ErrManifestEdit.Error())
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{
		"[package\nname = 1\n",
		"name = \n",
		"a = 1\na = 2\n",
	} {
		_, err := manifest.Parse([]byte(src))
		require.ErrorContains(t, err, domain.ErrManifestParse.Error(), src)
	}
}
