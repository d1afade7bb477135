package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/germanamz/chatwidget/pkg/config"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(opts.configPath, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

// runInit asks for the endpoint and panel texts and saves them to path.
func runInit(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	cfg := config.Default()
	timeout := ""

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Chatbot endpoint").
				Description("Messages are posted here as JSON.").
				Validate(validateEndpoint).
				Value(&cfg.Endpoint),
			huh.NewInput().
				Title("Request timeout").
				Description("A duration such as 30s. Leave empty to wait indefinitely.").
				Validate(validateTimeout).
				Value(&timeout),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Panel title").
				Value(&cfg.Widget.Title),
			huh.NewText().
				Title("Greeting").
				Description("Shown as the first message. Each line becomes its own line in the panel.").
				Value(&cfg.Widget.Greeting),
			huh.NewConfirm().
				Title("Render bot replies as markdown?").
				Value(&cfg.RenderMarkdown),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg.Timeout = strings.TrimSpace(timeout)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func validateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an absolute http(s) URL")
	}
	return nil
}

func validateTimeout(s string) error {
	c := config.Config{Timeout: strings.TrimSpace(s)}
	d, err := c.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("enter a duration such as 30s")
	}
	if d < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
