package manifest

import (
	"strings"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// Alternative is one known remedy for a heavy crate.
type Alternative struct {
	Kind           domain.FixKind
	Crate          string
	SavingsPercent int
}

// heavyDeps maps crates that bloat WebAssembly builds to their remedies.
var heavyDeps = map[string][]Alternative{
	"swc_core":  {{Kind: domain.FixSplit, Crate: "swc_ecma_parser", SavingsPercent: 60}},
	"printpdf":  {{Kind: domain.FixReplacement, Crate: "pdf-writer", SavingsPercent: 50}, {Kind: domain.FixReplacement, Crate: "lopdf", SavingsPercent: 30}},
	"lopdf":     {{Kind: domain.FixFeatureMinimization, SavingsPercent: 25}},
	"tokio":     {{Kind: domain.FixWasm, Crate: "wasm-bindgen-futures", SavingsPercent: 80}},
	"async-std": {{Kind: domain.FixWasm, Crate: "wasm-bindgen-futures", SavingsPercent: 80}},
	"rustybuzz": {{Kind: domain.FixOptional, SavingsPercent: 100}},
	"chrono":    {{Kind: domain.FixReplacement, Crate: "time", SavingsPercent: 40}, {Kind: domain.FixWasm, Crate: "js-sys", SavingsPercent: 70}},
	"regex":     {{Kind: domain.FixFeatureMinimization, SavingsPercent: 60}},
	"image":     {{Kind: domain.FixFeatureMinimization, SavingsPercent: 50}},
	"getrandom": {{Kind: domain.FixWasm, SavingsPercent: 0}},
}

// minimalFeatures lists the features that keep a crate usable once its defaults are off.
var minimalFeatures = map[string][]string{
	"lopdf": {"pom_parser"},
	"image": {"png"},
}

// BestAlternative returns the remedy with the largest savings for crate.
// Ties keep the first listed.
func BestAlternative(crate string) (Alternative, bool) {
	alts, ok := heavyDeps[crate]
	if !ok || len(alts) == 0 {
		return Alternative{}, false
	}
	best := alts[0]
	for _, alt := range alts[1:] {
		if alt.SavingsPercent > best.SavingsPercent {
			best = alt
		}
	}
	return best, true
}

// wasmFeatures returns the features that enable WebAssembly support for crate at version.
func wasmFeatures(crate, version string) []string {
	if crate != "getrandom" {
		return nil
	}
	if strings.HasPrefix(version, "0.2") || strings.HasPrefix(version, "^0.2") {
		return []string{"js"}
	}
	return []string{"wasm_js"}
}
