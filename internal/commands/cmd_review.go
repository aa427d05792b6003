package commands

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/overlay"
	"github.com/caseworks/blackout/internal/tui"
)

type ReviewCmd struct {
	flags *Flags

	// flags
	mode string
}

// NewReviewCmd creates a new review command
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Open the interactive review screen",
		UsageText: "blackout review [doc-id]",
		Description: `Opens the full-screen review TUI for a document.

The argument matches a document ID or filename prefix. With a single
imported document the argument may be omitted.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "mode",
				Usage:       "starting view mode (review, final, color-coded)",
				Destination: &cmd.mode,
			},
		},
		Action: cmd.Run,
	})

	return app
}

// Run executes the review TUI. Exported for use as default command.
func (cmd *ReviewCmd) Run(ctx context.Context, c *cli.Command) error {
	doc, err := resolveDocument(ctx, cmd.flags.Documents, c.Args().First())
	if err != nil {
		return err
	}

	spans, err := cmd.flags.Spans.ListSpans(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("list spans: %w", err)
	}

	mode := overlay.ViewMode(cmd.mode)
	if cmd.mode == "" {
		mode = overlay.ViewMode(cmd.flags.Config.Review.StartMode)
	}
	if !mode.Valid() {
		return fmt.Errorf("unknown view mode %q", cmd.mode)
	}

	m := tui.New(tui.Deps{
		Documents: cmd.flags.Documents,
		Spans:     cmd.flags.Spans,
		Doc:       doc,
		DocSpans:  spans,
		StartMode: mode,
	})

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// resolveDocument finds a document by ID or filename prefix. An empty
// ref resolves only when exactly one document exists.
func resolveDocument(ctx context.Context, store document.Store, ref string) (document.Document, error) {
	if ref != "" {
		if doc, err := store.GetDocument(ctx, ref); err == nil {
			return doc, nil
		}
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return document.Document{}, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return document.Document{}, fmt.Errorf("no documents imported. Run 'blackout import' first")
	}

	if ref == "" {
		if len(docs) == 1 {
			return docs[0], nil
		}
		return document.Document{}, fmt.Errorf("%d documents available; specify one. Run 'blackout ls'", len(docs))
	}

	var matches []document.Document
	for _, d := range docs {
		if strings.HasPrefix(d.ID, ref) || strings.HasPrefix(d.Filename, ref) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return document.Document{}, fmt.Errorf("no document matches %q", ref)
	default:
		return document.Document{}, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matches))
	}
}
