package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/format"
	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/page"
	"github.com/germanamz/chatwidget/cmd/chatwidget/internal/widget"
	"github.com/germanamz/chatwidget/pkg/chatbot"
	"github.com/germanamz/chatwidget/pkg/config"
	"github.com/germanamz/chatwidget/pkg/logging"
)

// rootOptions holds the flags of the root command. Empty values leave the
// config file untouched.
type rootOptions struct {
	configPath string
	envFile    string
	endpoint   string
	logFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chatwidget",
		Short: "Terminal page with a toggleable chatbot panel",
		Long: `Open a terminal page with a chat panel in the bottom-right corner.

Press ? or Ctrl+T to open the panel, type a question and press Enter. The
question is posted to the configured endpoint as {"message": "..."} and the
"response" field of the JSON reply is shown in the panel.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "path to configuration file (ignored if missing)")
	flags.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "chatbot endpoint URL (overrides the config file)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write debug logs to this file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newInitCmd(opts))

	return cmd
}

// loadDotEnv loads environment variables from path. If the file does not exist
// it is silently ignored so that .env files remain optional.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// loadConfig reads the config file (defaults when missing), applies flag
// overrides and validates the result.
func loadConfig(opts *rootOptions) (config.Config, error) {
	if err := loadDotEnv(opts.envFile); err != nil {
		return config.Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}

	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newClient builds the chatbot client described by cfg.
func newClient(cfg config.Config, log zerolog.Logger) (*chatbot.Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	opts := []chatbot.Option{
		chatbot.WithTimeout(timeout),
		chatbot.WithLogger(log),
	}
	for k, v := range cfg.Headers {
		opts = append(opts, chatbot.WithHeader(k, v))
	}

	return chatbot.New(cfg.Endpoint, opts...), nil
}

// widgetConfig maps the file configuration onto the widget.
func widgetConfig(cfg config.Config, log zerolog.Logger) widget.Config {
	return widget.Config{
		Title:          cfg.Widget.Title,
		ToggleLabel:    cfg.Widget.ToggleLabel,
		Greeting:       cfg.Widget.Greeting,
		Placeholder:    cfg.Widget.Placeholder,
		PendingText:    cfg.Widget.PendingText,
		NoResponseText: cfg.Widget.NoResponseText,
		ErrorText:      cfg.Widget.ErrorText,
		Width:          cfg.Widget.Width,
		Height:         cfg.Widget.Height,
		RenderMarkdown: cfg.RenderMarkdown,
		Logger:         log,
	}
}

// hasDarkBackground queries the terminal. Tests replace it.
var hasDarkBackground = lipgloss.HasDarkBackground

// detectBackground picks the markdown style while the terminal is still
// ours to query; once bubbletea reads stdin the answer would be lost.
func detectBackground(cfg config.Config) {
	if cfg.RenderMarkdown {
		format.IsDarkBG = hasDarkBackground()
	}
}

// run loads the configuration, constructs the widget and its host page, and
// runs the program until the user quits.
func run(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, closer, err := logging.New(logging.Config{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	detectBackground(cfg)
	log.Info().Str("endpoint", client.Endpoint()).Bool("dark_bg", format.IsDarkBG).Msg("chatwidget starting")

	w := widget.New(ctx, widgetConfig(cfg, log), client)
	p := page.New(page.Config{Title: cfg.Widget.Title, Endpoint: cfg.Endpoint}, w)

	prog := tea.NewProgram(p, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}

	log.Info().Msg("chatwidget stopped")
	return nil
}
