package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadAgent loads agent configuration.
// Search order: customPath -> ~/.agent2048/agent.yaml -> ./configs/agent.yaml -> embedded default
// Each file is layered over the hardcoded defaults, so partial files are fine.
// The result is validated.
func LoadAgent(customPath string) (AgentConfig, error) {
	cfg, err := loadAgent(customPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadAgent(customPath string) (AgentConfig, error) {
	cfg := DefaultAgentConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(expandHome(customPath))
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("agent.yaml"); userCfgPath != "" {
		if c, ok := tryFile(userCfgPath); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := tryFile(filepath.Join("configs", "agent.yaml")); ok {
		return c, nil
	}

	// Use embedded default YAML
	embedded := DefaultAgentConfig()
	if err := yaml.Unmarshal(defaultAgentYAML, &embedded); err != nil {
		return DefaultAgentConfig(), nil // Fallback to hardcoded if embed fails
	}
	return embedded, nil
}

// tryFile loads path over the defaults. Missing or malformed files are skipped.
func tryFile(path string) (AgentConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AgentConfig{}, false
	}
	cfg := DefaultAgentConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AgentConfig{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agent2048", filename)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
