package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

func TestStage_IDs(t *testing.T) {
	tests := []struct {
		stage domain.Stage
		id    domain.StageID
	}{
		{domain.BindgenStage{Target: domain.BindgenWeb}, domain.StageBindgen},
		{domain.OptimizeStage{Level: domain.OptLevelOz}, domain.StageOptimize},
		{domain.SnipStage{}, domain.StageSnip},
		{domain.VerifyStage{}, domain.StageVerify},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.id, tt.stage.ID())
		})
	}
}

func TestEnums_String(t *testing.T) {
	assert.Equal(t, "wasm32-unknown-unknown", domain.TargetWasm32Unknown.String())
	assert.Equal(t, "wasm32-wasi", domain.TargetWasm32Wasi.String())
	assert.Equal(t, "wasm32-unknown-emscripten", domain.TargetWasm32Emscripten.String())
	assert.Equal(t, "no-modules", domain.BindgenNoModules.String())
	assert.Equal(t, "-Oz", domain.OptLevelOz.Arg())
	assert.Equal(t, "-O3", domain.OptLevelO3.Arg())
	assert.Len(t, domain.Targets(), 3)
	assert.Len(t, domain.BindgenTargets(), 5)
	assert.Len(t, domain.OptLevels(), 5)
}

func TestPipelineSettings_HasStage(t *testing.T) {
	s := domain.DefaultPipelineSettings()
	assert.True(t, s.HasStage(domain.StageBindgen))
	assert.True(t, s.HasStage(domain.StageOptimize))
	assert.False(t, s.HasStage(domain.StageSnip))
	assert.Equal(t, domain.TargetWasm32Unknown, s.Target)
}

func TestToolchain_Lookup(t *testing.T) {
	tc := domain.Toolchain{Tools: []domain.ToolStatus{
		{Tool: domain.Tool{Binary: domain.ToolCargo}, Installed: true},
		{Tool: domain.Tool{Binary: domain.ToolWasmOpt}},
	}}

	assert.True(t, tc.Installed(domain.ToolCargo))
	assert.False(t, tc.Installed(domain.ToolWasmOpt))
	assert.False(t, tc.Installed(domain.ToolWasmSnip))
}
