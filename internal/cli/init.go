package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/checklist/pkg/store"
)

func newInitCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize checklist storage",
		Long:  "Record the resolved backend and data directory in config.yaml, then initialize the store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.resolveStoreConfig()
			if err != nil {
				return err
			}

			configPath := filepath.Join(e.configDir, configFileExt)
			if err := recordSettings(configPath, map[string]any{
				cfgKeyBackend: cfg.Backend,
				cfgKeyDataDir: cfg.DataDir,
			}); err != nil {
				return sysError("write config: %s", err)
			}

			s, err := store.Open(cfg)
			if err != nil {
				return sysError("initialize storage: %s", err)
			}
			if err := s.Close(); err != nil {
				return sysError("finalize storage: %s", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Checklist initialized (%s in %s)\n", cfg.Backend, cfg.DataDir)
			return nil
		},
	}
}

// recordSettings merges settings into the YAML file at path, keeping any
// other keys already present.
func recordSettings(path string, settings map[string]any) error {
	doc := map[string]any{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	}
	for k, v := range settings {
		doc[k] = v
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
