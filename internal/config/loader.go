package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the user and local directories.
const FileName = "gemfusion.yaml"

// Load loads the Gem Fusion configuration.
// Search order: customPath -> ~/.gemfusion/configs/gemfusion.yaml ->
// ./configs/gemfusion.yaml -> embedded default -> hardcoded default.
// Files are decoded over the hardcoded defaults, so partial files are fine.
func Load(customPath string) (GemFusionConfig, error) {
	if customPath != "" {
		return loadFile(customPath)
	}

	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if cfg, err := loadFile(userCfgPath); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := loadFile(filepath.Join("configs", FileName)); err == nil {
		return cfg, nil
	}

	cfg, err := parse(defaultGemFusionYAML)
	if err != nil {
		return DefaultGemFusionConfig(), nil
	}
	return cfg, nil
}

func loadFile(path string) (GemFusionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GemFusionConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := parse(data)
	if err != nil {
		return GemFusionConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func parse(data []byte) (GemFusionConfig, error) {
	cfg := DefaultGemFusionConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gemfusion", "configs", filename)
}

// ApplyPreset sets the difficulty preset of cfg.
func ApplyPreset(cfg *GemFusionConfig, preset DifficultyPreset) {
	cfg.Difficulty.Preset = preset
}
