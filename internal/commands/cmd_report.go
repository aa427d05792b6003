package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/internal/core/styles"
)

type ReportCmd struct {
	flags *Flags

	// flags
	plain bool
}

// NewReportCmd creates a new report command
func NewReportCmd(flags *Flags) *ReportCmd {
	return &ReportCmd{flags: flags}
}

// Register adds the report command to the application
func (cmd *ReportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "report",
		Usage:     "Print a review summary",
		UsageText: "blackout report [doc-id]",
		Description: `Renders a markdown summary of the review state: status counts,
rejection reasons, and context substitutions. Without an argument the
report covers every document.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print raw markdown without terminal styling",
				Destination: &cmd.plain,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReportCmd) run(ctx context.Context, c *cli.Command) error {
	var docs []document.Document
	if ref := c.Args().First(); ref != "" {
		doc, err := resolveDocument(ctx, cmd.flags.Documents, ref)
		if err != nil {
			return err
		}
		docs = []document.Document{doc}
	} else {
		var err error
		docs, err = cmd.flags.Documents.ListDocuments(ctx)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents imported")
	}

	var md strings.Builder
	md.WriteString("# Redaction Review Report\n\n")
	for _, doc := range docs {
		spans, err := cmd.flags.Spans.ListSpans(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("list spans for %s: %w", doc.ID, err)
		}
		writeDocumentReport(&md, doc, spans)
	}

	if cmd.plain {
		fmt.Fprint(c.Root().Writer, md.String())
		return nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md.String())
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	fmt.Fprint(c.Root().Writer, out)
	return nil
}

func writeDocumentReport(md *strings.Builder, doc document.Document, spans []redact.Span) {
	counts := redact.CountByStatus(spans)

	fmt.Fprintf(md, "## %s\n\n", doc.Filename)
	fmt.Fprintf(md, "Status: **%s**\n\n", doc.Status)
	fmt.Fprintf(md, "| Pending | Accepted | Rejected | Manual | Total |\n")
	fmt.Fprintf(md, "|---|---|---|---|---|\n")
	fmt.Fprintf(md, "| %d | %d | %d | %d | %d |\n\n",
		counts.Pending, counts.Accepted, counts.Rejected, counts.Manual, counts.Total())

	var rejected, contexts []redact.Span
	for _, s := range spans {
		if s.Status() == redact.StatusRejected {
			rejected = append(rejected, s)
		}
		if s.Committed() && s.Context != nil {
			contexts = append(contexts, s)
		}
	}

	if len(rejected) > 0 {
		md.WriteString("### Rejected suggestions\n\n")
		for _, s := range rejected {
			fmt.Fprintf(md, "- %q (%s): %s\n", s.Text, s.Type.Label(), s.Justification)
		}
		md.WriteString("\n")
	}

	if len(contexts) > 0 {
		md.WriteString("### Context substitutions\n\n")
		for _, s := range contexts {
			fmt.Fprintf(md, "- %q → %q\n", s.Text, s.Context.Text)
		}
		md.WriteString("\n")
	}
}
