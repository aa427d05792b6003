package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/caseworks/blackout/internal/core/overlay"
	redactview "github.com/caseworks/blackout/internal/tui/views/redact"
)

type ViewCmd struct {
	flags *Flags

	// flags
	mode string
}

// NewViewCmd creates a new view command
func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags}
}

// Register adds the view command to the application
func (cmd *ViewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "Render a document to stdout",
		UsageText: "blackout view <doc-id> [--mode final|color-coded]",
		Description: `Renders the document through the same pipeline as the review screen,
without interactivity. Final mode shows committed redactions as opaque
blocks; color-coded mode colors the blocks by redaction type.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "mode",
				Usage:       "view mode (final, color-coded)",
				Value:       string(overlay.ModeFinal),
				Destination: &cmd.mode,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ViewCmd) run(ctx context.Context, c *cli.Command) error {
	mode := overlay.ViewMode(cmd.mode)
	if !mode.Valid() || mode == overlay.ModeReview {
		return fmt.Errorf("unknown view mode %q (want final or color-coded)", cmd.mode)
	}

	doc, err := resolveDocument(ctx, cmd.flags.Documents, c.Args().First())
	if err != nil {
		return err
	}

	spans, err := cmd.flags.Spans.ListSpans(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("list spans: %w", err)
	}

	marks, _ := overlay.ProjectMarks(spans, overlay.Projection{
		Mode:    mode,
		TextLen: len(doc.Text),
	})

	fmt.Fprintln(c.Root().Writer, redactview.Render(doc, marks))
	return nil
}
