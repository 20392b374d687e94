package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// cliConfig holds output defaults read from the --config file.
type cliConfig struct {
	Format  string `yaml:"format" toml:"format" json:"format"`
	Summary bool   `yaml:"summary" toml:"summary" json:"summary"`
	Quiet   bool   `yaml:"quiet" toml:"quiet" json:"quiet"`
}

// loadCLIConfig reads a YAML, TOML or JSON file chosen by extension.
func loadCLIConfig(path string) (cliConfig, error) {
	cfg := cliConfig{Format: formatJSON}
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	case ".toml":
		err = toml.Unmarshal(raw, &cfg)
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Format == "" {
		cfg.Format = formatJSON
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "evadts",
		Short:         "Decode EVA-DTS vending machine audit files",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML, TOML or JSON file with output defaults")

	root.AddCommand(newDecodeCmd(&cfgFile), newExportCmd(), newVersionCmd())
	return root
}
