package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/caseworks/blackout/internal/core/config"
	"github.com/caseworks/blackout/internal/core/overlay"
	"github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/core/styles"
)

type InitCmd struct {
	flags *Flags
}

// NewInitCmd creates a new init command
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Write a config file interactively",
		UsageText: "blackout init",
		Description: `Walks through the configuration options and writes the result to the
config path (override with --config).`,
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := config.DefaultConfig()

	themeOpts := make([]huh.Option[string], 0)
	for _, name := range styles.ThemeNames() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	typeOpts := make([]huh.Option[string], 0)
	for _, t := range redact.Types() {
		typeOpts = append(typeOpts, huh.NewOption(t.Label(), string(t)))
	}

	modeOpts := []huh.Option[string]{
		huh.NewOption("review", string(overlay.ModeReview)),
		huh.NewOption("final", string(overlay.ModeFinal)),
		huh.NewOption("color-coded", string(overlay.ModeColorCoded)),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Description("Color theme for the review screen").
				Options(themeOpts...).
				Value(&cfg.Theme),
			huh.NewSelect[string]().
				Title("Default redaction type").
				Description("Preselected when creating a manual redaction").
				Options(typeOpts...).
				Value(&cfg.DefaultType),
			huh.NewSelect[string]().
				Title("Start mode").
				Description("View mode the review screen opens in").
				Options(modeOpts...).
				Value(&cfg.Review.StartMode),
		),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return fmt.Errorf("form: %w", err)
	}

	if err := cfg.Save(cmd.flags.ConfigPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Wrote %s\n", cmd.flags.ConfigPath)
	return nil
}
