package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/caseworks/blackout/internal/core/document"
	"github.com/caseworks/blackout/internal/core/redact"
	"github.com/caseworks/blackout/pkg/iojson"
)

type ImportCmd struct {
	flags *Flags

	reader iojson.FileReader[importPayload]
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags) *ImportCmd {
	return &ImportCmd{flags: flags}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Import extracted documents and detector suggestions",
		UsageText: "blackout import [glob ...]",
		Description: `Reads document payloads (extracted text, layout, detector suggestions)
from JSON files matched by the glob arguments, e.g.:

  blackout import 'cases/**/*.json'

With no arguments a single payload is read from --file or stdin.
Detector offsets marked inclusive_end are normalized to end-exclusive.`,
		Flags: []cli.Flag{
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

// importPayload is the JSON wire format produced by the extraction
// pipeline. Offsets index into Text; a suggestion may use an inclusive
// end offset, flagged per span.
type importPayload struct {
	Filename  string                    `json:"filename"`
	Text      string                    `json:"text"`
	Structure []structureElementPayload `json:"structure"`
	Tables    map[string]tablePayload   `json:"tables"`
	Spans     []suggestionPayload       `json:"suggestions"`
}

type structureElementPayload struct {
	Kind    string `json:"kind"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	TableID string `json:"table_id,omitempty"`
}

type tablePayload struct {
	// nil means the key was absent; tables are bordered by default.
	HasBorders *bool         `json:"has_borders"`
	NERStart   int           `json:"ner_start"`
	NEREnd     int           `json:"ner_end"`
	Cells      []cellPayload `json:"cells"`
}

type cellPayload struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

type suggestionPayload struct {
	StartChar    int    `json:"start_char"`
	EndChar      int    `json:"end_char"`
	Text         string `json:"text"`
	Type         string `json:"redaction_type"`
	InclusiveEnd bool   `json:"inclusive_end"`
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		payload, err := cmd.reader.Read()
		if err != nil {
			return err
		}
		return cmd.importOne(ctx, c, payload)
	}

	var paths []string
	for _, pattern := range c.Args().Slice() {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("glob %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matched")
	}

	for _, path := range paths {
		payload, err := readPayload(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if payload.Filename == "" {
			payload.Filename = filepath.Base(path)
		}
		if err := cmd.importOne(ctx, c, payload); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func readPayload(path string) (importPayload, error) {
	var payload importPayload
	f, err := os.Open(path)
	if err != nil {
		return payload, err
	}
	defer func() { _ = f.Close() }()
	if err := json.NewDecoder(f).Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode JSON: %w", err)
	}
	return payload, nil
}

func (cmd *ImportCmd) importOne(ctx context.Context, c *cli.Command, payload importPayload) error {
	doc, spans, err := payloadToDocument(payload)
	if err != nil {
		return err
	}

	doc, err = cmd.flags.Documents.CreateDocument(ctx, doc)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	imported := 0
	for _, span := range spans {
		span.DocumentID = doc.ID
		if _, err := cmd.flags.Spans.CreateSpan(ctx, span); err != nil {
			log.Warn().
				Err(err).
				Str("document_id", doc.ID).
				Int("start", span.StartChar).
				Int("end", span.EndChar).
				Msg("skipping suggestion")
			continue
		}
		imported++
	}

	fmt.Fprintf(c.Root().Writer, "Imported %s (%s): %d suggestion(s)\n",
		doc.Filename, shortID(doc.ID), imported)
	return nil
}

// payloadToDocument converts the wire format to the document model,
// normalizing inclusive end offsets and dropping malformed spans.
func payloadToDocument(payload importPayload) (document.Document, []redact.Span, error) {
	if payload.Text == "" {
		return document.Document{}, nil, fmt.Errorf("payload has no text")
	}

	doc := document.Document{
		Filename: payload.Filename,
		Text:     payload.Text,
		Status:   document.StatusInReview,
	}

	for _, el := range payload.Structure {
		doc.Structure = append(doc.Structure, document.StructuralElement{
			Kind:    document.ElementKind(el.Kind),
			Start:   el.Start,
			End:     el.End,
			TableID: el.TableID,
		})
	}

	if len(payload.Tables) > 0 {
		doc.Tables = make(map[string]document.Table, len(payload.Tables))
		for id, t := range payload.Tables {
			tbl := document.Table{
				ID:         id,
				HasBorders: t.HasBorders == nil || *t.HasBorders,
				NERStart:   t.NERStart,
				NEREnd:     t.NEREnd,
			}
			for _, cell := range t.Cells {
				tbl.Cells = append(tbl.Cells, document.Cell{
					Row:   cell.Row,
					Col:   cell.Col,
					Start: cell.Start,
					End:   cell.End,
					Text:  cell.Text,
				})
			}
			doc.Tables[id] = tbl
		}
	}

	var spans []redact.Span
	for _, s := range payload.Spans {
		end := s.EndChar
		if s.InclusiveEnd {
			end++
		}
		span := redact.Span{
			StartChar:  s.StartChar,
			EndChar:    end,
			Text:       s.Text,
			Type:       redact.Type(s.Type),
			Provenance: redact.ProvenanceSuggestion,
		}
		if !span.ValidRange(len(payload.Text)) {
			return document.Document{}, nil, fmt.Errorf(
				"suggestion [%d,%d) outside document of length %d",
				span.StartChar, span.EndChar, len(payload.Text))
		}
		if span.Text == "" {
			span.Text = payload.Text[span.StartChar:span.EndChar]
		}
		spans = append(spans, span)
	}

	return doc, spans, nil
}
