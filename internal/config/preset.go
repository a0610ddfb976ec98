package config

import "fmt"

// SearchPreset represents a named search strength.
type SearchPreset string

const (
	PresetFast   SearchPreset = "fast"
	PresetNormal SearchPreset = "normal"
	PresetDeep   SearchPreset = "deep"
)

// Presets lists the known presets from weakest to strongest.
var Presets = []SearchPreset{PresetFast, PresetNormal, PresetDeep}

// DepthForPreset returns the expectimax depth for a preset.
func DepthForPreset(preset SearchPreset) int {
	switch preset {
	case PresetFast:
		return 2
	case PresetNormal:
		return 3
	case PresetDeep:
		return 4
	default:
		return 3
	}
}

// ParsePreset validates a preset name. The empty string is accepted and
// means no preset.
func ParsePreset(s string) (SearchPreset, error) {
	if s == "" {
		return "", nil
	}
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown preset %q (want fast, normal or deep)", s)
}

// ApplySearchPreset modifies the config based on a search preset.
func ApplySearchPreset(cfg *AgentConfig, preset SearchPreset) {
	if preset == "" {
		return
	}

	cfg.Search.Policy = "expectimax"
	cfg.Search.Depth = DepthForPreset(preset)

	// Deep games run long; cap them unless a limit is already set
	if preset == PresetDeep && cfg.Game.MaxMoves == 0 {
		cfg.Game.MaxMoves = 20000
	}
}
