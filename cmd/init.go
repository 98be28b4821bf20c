package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/samzong/aigit/internal/config"
	"github.com/samzong/aigit/internal/llm"
	"github.com/samzong/aigit/internal/reasoning"
	"github.com/samzong/aigit/internal/ui"
)

var (
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Initialize aigit configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := appConfig
			if current == nil {
				current = &config.Config{}
			}
			if err := runInitWizard(cmd.Context(), os.Stdin, outWriter(), current); err != nil {
				return err
			}
			fmt.Fprintln(outWriter(), "Initialization complete.")
			return nil
		},
	}

	saveConfigValues = func(values map[string]string) (string, error) {
		return config.Save(cfgFile, values)
	}

	// isInteractive reports whether the wizard can show a selection menu on in.
	isInteractive = func(in io.Reader, out io.Writer) bool {
		f, ok := in.(*os.File)
		return ok && ui.IsTerminal(f) && ui.IsTerminal(out)
	}

	selectPlatform = func(def string) (string, error) {
		options := make([]huh.Option[string], 0, len(config.SuggestedPlatforms()))
		for _, name := range config.SuggestedPlatforms() {
			options = append(options, huh.NewOption(name, name))
		}
		selected := def
		if err := huh.NewSelect[string]().Title("Select platform").Options(options...).Value(&selected).Run(); err != nil {
			return "", err
		}
		return selected, nil
	}

	testLLMConnection = func(ctx context.Context, cfg *config.Config) error {
		backend, ok := newRegistry(cfg).Lookup(cfg.Platform)
		if !ok {
			return fmt.Errorf("unknown platform %q", cfg.Platform)
		}
		raw, err := backend.Chat(ctx, cfg.Model, cfg.APIKey, []llm.ChatMessage{
			llm.User("Reply with the single word: ok"),
		})
		if err != nil {
			return err
		}
		_, err = reasoning.Answer(raw)
		return err
	}
)

func runInitWizard(ctx context.Context, in io.Reader, out io.Writer, current *config.Config) error {
	readLine := newTrimmedLineReader(in)
	fmt.Fprintln(out, "aigit init - configure your chat backend")

	platform, err := promptPlatform(out, current, readLine, isInteractive(in, out))
	if err != nil {
		return err
	}
	model, err := promptModel(out, current, platform, readLine)
	if err != nil {
		return err
	}
	apiKey, err := promptAPIKey(out, current, readLine)
	if err != nil {
		return err
	}

	values := map[string]string{
		config.KeyPlatform: platform,
		config.KeyModel:    model,
		config.KeyAPIKey:   apiKey,
	}
	result := &config.Config{Platform: platform, Model: model, APIKey: apiKey,
		BaseURL: current.BaseURL, Port: current.Port, APIBase: current.APIBase, Render: current.Render}

	switch platform {
	case llm.PlatformOllama:
		result.BaseURL, err = promptWithDefault(out, "Ollama base URL", orDefault(current.BaseURL, config.DefaultBaseURL), readLine)
		if err != nil {
			return err
		}
		result.Port, err = promptWithDefault(out, "Ollama port", orDefault(current.Port, config.DefaultPort), readLine)
		if err != nil {
			return err
		}
		values[config.KeyBaseURL] = result.BaseURL
		values[config.KeyPort] = result.Port
	case llm.PlatformOpenAI:
		result.APIBase, err = promptAPIBase(out, current, readLine)
		if err != nil {
			return err
		}
		values[config.KeyAPIBase] = result.APIBase
	}

	path, err := saveConfigValues(values)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	fmt.Fprintf(out, "Configuration saved to %s\n", path)

	return maybeTestConnection(ctx, out, result, readLine)
}

func newTrimmedLineReader(in io.Reader) func() (string, error) {
	reader := bufio.NewReader(in)
	return func() (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if errors.Is(err, io.EOF) && line == "" {
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func promptWithDefault(out io.Writer, label, def string, readLine func() (string, error)) (string, error) {
	fmt.Fprintf(out, "%s (default: %s): ", label, def)
	line, err := readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

func promptPlatform(out io.Writer, cfg *config.Config, readLine func() (string, error), menu bool) (string, error) {
	if menu {
		platform, err := selectPlatform(orDefault(cfg.Platform, llm.PlatformOllama))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(out, "Platform: %s\n", platform)
		return platform, nil
	}
	fmt.Fprintf(out, "Available platforms: %s\n", strings.Join(config.SuggestedPlatforms(), ", "))
	return promptWithDefault(out, "Platform", orDefault(cfg.Platform, llm.PlatformOllama), readLine)
}

func promptModel(out io.Writer, cfg *config.Config, platform string, readLine func() (string, error)) (string, error) {
	suggested := config.SuggestedModels(platform)
	def := cfg.Model
	if def == "" || cfg.Platform != platform {
		def = ""
		if len(suggested) > 0 {
			def = suggested[0]
		}
	}
	if len(suggested) > 0 {
		fmt.Fprintf(out, "Suggested models: %s\n", strings.Join(suggested, ", "))
	}

	for {
		if def != "" {
			fmt.Fprintf(out, "Model (default: %s): ", def)
		} else {
			fmt.Fprint(out, "Model (required): ")
		}
		line, err := readLine()
		if err != nil {
			return "", err
		}
		if line != "" {
			return line, nil
		}
		if def != "" {
			return def, nil
		}
		fmt.Fprintln(out, "Model is required.")
	}
}

func promptAPIKey(out io.Writer, cfg *config.Config, readLine func() (string, error)) (string, error) {
	for {
		if cfg.APIKey != "" {
			fmt.Fprint(out, "API Key (leave blank to keep current): ")
		} else {
			fmt.Fprint(out, "API Key (required, any value for a local ollama): ")
		}

		line, err := readLine()
		if err != nil {
			return "", err
		}
		if line == "" {
			if cfg.APIKey != "" {
				return cfg.APIKey, nil
			}
			fmt.Fprintln(out, "API key is required.")
			continue
		}
		return line, nil
	}
}

func promptAPIBase(out io.Writer, cfg *config.Config, readLine func() (string, error)) (string, error) {
	apiBaseLabel := cfg.APIBase
	if apiBaseLabel == "" {
		apiBaseLabel = "<empty>"
	}
	fmt.Fprintf(out, "API Base URL (default: %s): ", apiBaseLabel)

	line, err := readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return cfg.APIBase, nil
	}
	return line, nil
}

func maybeTestConnection(ctx context.Context, out io.Writer, cfg *config.Config, readLine func() (string, error)) error {
	for {
		fmt.Fprint(out, "Test connection now? [Y/n]: ")
		answer, err := readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "", "y", "yes":
			fmt.Fprintln(out, "Testing connection...")
			if err := testLLMConnection(ctx, cfg); err != nil {
				fmt.Fprintf(out, "Connection test failed: %v\n", err)
				fmt.Fprintln(out, "You can re-run `aigit init` or update config with `aigit config set`.")
			} else {
				fmt.Fprintln(out, "Connection test succeeded.")
			}
			return nil
		case "n", "no":
			return nil
		default:
			fmt.Fprintln(out, "Please enter y or n.")
		}
	}
}
