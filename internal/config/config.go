// Package config reads and writes vibe.toml, the per-project settings file.
// A project without vibe.toml uses the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const FileName = "vibe.toml"

type Config struct {
	Codegen   CodegenConfig   `toml:"codegen"`
	Toolchain ToolchainConfig `toml:"toolchain"`
}

type CodegenConfig struct {
	Target string `toml:"target"`
	// Comments annotates the generated assembly with source statements.
	Comments bool `toml:"comments"`
	// OutputDir is where vibec writes assembly when -o is not given. Empty means next to the source.
	OutputDir string `toml:"output_dir,omitempty"`
}

// ToolchainConfig names the external programs used to turn assembly into an executable.
type ToolchainConfig struct {
	Assembler      string   `toml:"assembler"`
	AssemblerFlags []string `toml:"assembler_flags,omitempty"`
	Linker         string   `toml:"linker"`
	LinkerFlags    []string `toml:"linker_flags,omitempty"`
}

func Default() *Config {
	return &Config{
		Codegen: CodegenConfig{
			Target:   "x86_64-linux",
			Comments: true,
		},
		Toolchain: ToolchainConfig{
			Assembler:      "as",
			AssemblerFlags: []string{"--64"},
			Linker:         "ld",
		},
	}
}

// Load reads vibe.toml from projectRoot. Keys missing from the file keep their default values.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()
	p := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}

// Save writes cfg to vibe.toml in projectRoot, replacing any existing file.
func Save(projectRoot string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", FileName, err)
	}
	p := filepath.Join(projectRoot, FileName)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Codegen.Target == "" {
		return fmt.Errorf("codegen.target must not be empty")
	}
	if c.Toolchain.Assembler == "" {
		return fmt.Errorf("toolchain.assembler must not be empty")
	}
	if c.Toolchain.Linker == "" {
		return fmt.Errorf("toolchain.linker must not be empty")
	}
	return nil
}
