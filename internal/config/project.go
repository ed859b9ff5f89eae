package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a .testforge.yaml file in a repository
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Suite name override; defaults to the source file name
	Name string `yaml:"name,omitempty"`

	// Enhancement focus applied after generation
	// (SECURITY, ACCESSIBILITY, PERFORMANCE, GENERAL)
	Focus string `yaml:"focus,omitempty"`

	// Emitters to run when exporting
	Emitters []string `yaml:"emitters,omitempty"`

	// Test generation settings
	Generation GenerationConfig `yaml:"generation"`

	// Output settings
	Output OutputConfig `yaml:"output,omitempty"`
}

// GenerationConfig holds test generation preferences
type GenerationConfig struct {
	// Whether to enhance generated cases with the configured focus
	Enhance bool `yaml:"enhance,omitempty"`

	// Step suggestion provider override (static, remote)
	AIProvider string `yaml:"ai_provider,omitempty"`
}

// OutputConfig holds export settings
type OutputConfig struct {
	// Directory exported files are written to
	Dir string `yaml:"dir,omitempty"`
}

// DefaultProjectConfig returns sensible defaults
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Version:  "1.0",
		Emitters: []string{"xlsx"},
		Generation: GenerationConfig{
			Enhance: true,
		},
		Output: OutputConfig{
			Dir: "generated-tests",
		},
	}
}

// LoadProjectConfig loads a .testforge.yaml from the given directory.
// A nil config without error means the directory carries none.
func LoadProjectConfig(repoPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(repoPath, ".testforge.yaml")

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Also try .testforge.yml
		configPath = filepath.Join(repoPath, ".testforge.yml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveProjectConfig saves the config to .testforge.yaml
func SaveProjectConfig(repoPath string, cfg *ProjectConfig) error {
	configPath := filepath.Join(repoPath, ".testforge.yaml")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Merge applies overrides from another config (e.g., CLI flags)
func (c *ProjectConfig) Merge(other *ProjectConfig) {
	if other == nil {
		return
	}

	if other.Name != "" {
		c.Name = other.Name
	}

	if other.Focus != "" {
		c.Focus = other.Focus
	}

	if len(other.Emitters) > 0 {
		c.Emitters = other.Emitters
	}

	if other.Generation.AIProvider != "" {
		c.Generation.AIProvider = other.Generation.AIProvider
	}

	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
}
