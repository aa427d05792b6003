package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/caseworks/blackout/internal/core/redact"
)

type ExportCmd struct {
	flags *Flags

	// flags
	output string
	force  bool
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Write the final redacted text",
		UsageText: "blackout export <doc-id> [-o file]",
		Description: `Writes the disclosure copy of a document: accepted and manual spans
are replaced by block characters, or by their attached context text.
Pending and rejected suggestions pass through unredacted, so exporting
before review completes prints a warning.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "export even when pending suggestions remain",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	doc, err := resolveDocument(ctx, cmd.flags.Documents, c.Args().First())
	if err != nil {
		return err
	}

	spans, err := cmd.flags.Spans.ListSpans(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("list spans: %w", err)
	}

	counts := redact.CountByStatus(spans)
	if counts.Pending > 0 {
		if !cmd.force {
			return fmt.Errorf("%d pending suggestion(s) remain; review first or use --force", counts.Pending)
		}
		fmt.Fprintf(os.Stderr, "Warning: exporting with %d pending suggestion(s) unredacted\n", counts.Pending)
	}

	final := redact.FinalText(doc.Text, spans)

	if cmd.output == "" {
		fmt.Fprintln(c.Root().Writer, final)
		return nil
	}
	if err := os.WriteFile(cmd.output, []byte(final), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cmd.output, err)
	}
	fmt.Fprintf(c.Root().Writer, "Exported %s to %s\n", doc.Filename, cmd.output)
	return nil
}
