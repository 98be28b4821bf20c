package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/samzong/aigit/internal/config"
	"github.com/samzong/aigit/internal/git"
	"github.com/samzong/aigit/internal/llm"
	"github.com/samzong/aigit/internal/render"
	"github.com/samzong/aigit/internal/workflow"
)

var (
	cfgFile       string
	verbose       bool
	colorMode     string
	listPlatforms bool

	appConfig *config.Config
	configErr error

	rootCmd = &cobra.Command{
		Use:   "aigit",
		Short: "aigit - git with LLM explanations and commit messages",
		Long: `aigit wraps git diff, show and commit. It can explain changes in plain ` +
			`language and draft conventional commit messages using a chat model ` +
			`served by ollama or any OpenAI-compatible API.`,
		Version:           fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		PersistentPreRunE: preRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listPlatforms {
				return printPlatforms(outWriter())
			}
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	newGitClient = func() workflow.GitClient {
		return git.NewClient(git.Options{Verbose: verbose, Logger: errWriter()})
	}

	newRegistry = func(cfg *config.Config) *llm.Registry {
		return llm.DefaultRegistry(cfg.LLMSettings(), errWriter())
	}

	insideRepository = func(ctx context.Context) bool {
		return git.NewClient(git.Options{Verbose: verbose, Logger: errWriter()}).IsRepository(ctx)
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $XDG_CONFIG_HOME/aigit/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false,
		"Show git commands and debug logging")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", render.ColorAuto,
		"Colorize output: auto, always or never")
	rootCmd.Flags().BoolVar(&listPlatforms, "platforms", false, "List the available chat platforms")

	rootCmd.AddCommand(diffCmd, showCmd, commitCmd, listCmd, configCmd, initCmd, versionCmd, completionCmd)
}

// RootCmd returns the root command.
func RootCmd() *cobra.Command {
	return rootCmd
}

// Execute runs the CLI with ctx as the root context. Man pages come from
// cmd/gendoc, so fang's own man command is disabled.
func Execute(ctx context.Context) error {
	return fang.Execute(ctx, rootCmd, fang.WithVersion(rootCmd.Version), fang.WithoutManpage())
}

func preRun(_ *cobra.Command, _ []string) error {
	setupLogging(errWriter(), verbose)

	mode, err := render.ParseColorMode(colorMode)
	if err != nil {
		return err
	}
	colorMode = mode

	appConfig, configErr = config.Load(cfgFile)
	if configErr != nil {
		slog.Debug("configuration could not be loaded", "error", configErr)
	}
	return nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func loadedConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, fmt.Errorf("configuration error: %w", configErr)
	}
	if appConfig == nil {
		appConfig, configErr = config.Load(cfgFile)
		if configErr != nil {
			return nil, fmt.Errorf("configuration error: %w", configErr)
		}
	}
	return appConfig, nil
}

// printPlatforms lists the registered platforms. The names do not depend on
// configuration, so a broken config file only falls back to defaults.
func printPlatforms(w io.Writer) error {
	cfg, err := loadedConfig()
	if err != nil {
		slog.Debug("listing platforms without configuration", "error", err)
		cfg = &config.Config{}
	}
	for _, name := range newRegistry(cfg).Platforms() {
		fmt.Fprintln(w, name)
	}
	return nil
}

// newFlow builds the orchestrator. The backend is resolved, and the required
// configuration checked, only when needBackend is set.
func newFlow(needBackend bool) (*workflow.Flow, error) {
	cfg, err := loadedConfig()
	if err != nil {
		return nil, err
	}

	var backend llm.Backend
	if needBackend {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		backend = newRegistry(cfg).Resolve(cfg.Platform)
	}

	out, errOut := outWriter(), errWriter()
	width := cfg.Render.Width
	if width <= 0 {
		width = render.Width(out, render.DefaultWidth)
	}
	renderOpts := render.DefaultOptions().WithWidth(width)
	if cfg.Render.Style != "" {
		renderOpts = renderOpts.WithStyle(cfg.Render.Style)
	}

	return workflow.NewFlow(newGitClient(), backend, cfg, workflow.Options{
		OutWriter:   out,
		ErrWriter:   errOut,
		Color:       render.ResolveColorMode(colorMode, out),
		HeaderColor: render.ResolveColorMode(colorMode, errOut),
		Render:      renderOpts,
	}), nil
}

func handleErrors(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, workflow.ErrNoChanges) {
		return fmt.Errorf("%w\nHint: stage your changes with `git add` first", err)
	}
	if errors.Is(err, git.ErrNotARepository) {
		// git also exits 128 when HEAD is unborn.
		if insideRepository(ctx) {
			return fmt.Errorf("%w\nHint: HEAD may not exist yet; create the first commit with plain `git commit`", err)
		}
		return fmt.Errorf("%w\nHint: run aigit inside a git working tree", err)
	}
	return err
}
