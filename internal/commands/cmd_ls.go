package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List imported documents",
		UsageText: "blackout ls [--json]",
		Description: `Displays a table of all documents with their review status and the
span counts partitioned by lifecycle state.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

type docListing struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Pending  int    `json:"pending"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Manual   int    `json:"manual"`
	Total    int    `json:"total"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	docs, err := cmd.flags.Documents.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if len(docs) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No documents imported\n")
		}
		return nil
	}

	listings := make([]docListing, 0, len(docs))
	for _, d := range docs {
		spans, err := cmd.flags.Spans.ListSpans(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("list spans for %s: %w", d.ID, err)
		}
		counts := redact.CountByStatus(spans)
		listings = append(listings, docListing{
			ID:       d.ID,
			Filename: d.Filename,
			Status:   string(d.Status),
			Pending:  counts.Pending,
			Accepted: counts.Accepted,
			Rejected: counts.Rejected,
			Manual:   counts.Manual,
			Total:    counts.Total(),
		})
	}

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, listings)
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFILE\tSTATUS\tPENDING\tACCEPTED\tREJECTED\tMANUAL")
	for _, l := range listings {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			shortID(l.ID), l.Filename, l.Status, l.Pending, l.Accepted, l.Rejected, l.Manual)
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
