package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samzong/aigit/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage aigit configuration",
		Long: `Manage aigit configuration.

Valid keys: platform, model, api_key, base_url, port, api_base, render.style, render.width.
Every key can also be set through the environment, e.g. AIGIT_MODEL or AIGIT_RENDER_STYLE.`,
	}

	configGetCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Show the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadedConfig()
			if err != nil {
				return err
			}
			masked := cfg.Masked()

			if len(args) == 1 {
				if !config.IsValidKey(args[0]) {
					return &config.UnknownKeyError{Key: args[0]}
				}
				fmt.Fprintln(outWriter(), masked.Get(args[0]))
				return nil
			}

			data, err := yaml.Marshal(masked)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			if cfg.File != "" {
				fmt.Fprintf(errWriter(), "# %s\n", cfg.File)
			} else {
				fmt.Fprintln(errWriter(), "# no configuration file, showing defaults and environment")
			}
			_, err = outWriter().Write(data)
			return err
		},
	}

	configSetCmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			path, err := config.Set(cfgFile, key, value)
			if err != nil {
				return err
			}
			if key == config.KeyAPIKey {
				fmt.Fprintf(errWriter(), "Set %s in %s\n", key, path)
				return nil
			}
			fmt.Fprintf(errWriter(), "Set %s = %s in %s\n", key, value, path)
			return nil
		},
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.ResolvePath(cfgFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(outWriter(), path)
			return nil
		},
	}
)

func init() {
	configCmd.AddCommand(configGetCmd, configSetCmd, configPathCmd)
}
