package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("store.spans")
	logger.Info().Msg("span created")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log: %v", err)
	}

	if logEntry["cmp"] != "store.spans" {
		t.Errorf("cmp = %v, want store.spans", logEntry["cmp"])
	}
	if logEntry["message"] != "span created" {
		t.Errorf("message = %v, want span created", logEntry["message"])
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithDocumentID(ctx, "doc-1")
	ctx = WithSpanID(ctx, "span-9")

	if got := GetDocumentID(ctx); got != "doc-1" {
		t.Errorf("GetDocumentID() = %q, want doc-1", got)
	}
	if got := GetSpanID(ctx); got != "span-9" {
		t.Errorf("GetSpanID() = %q, want span-9", got)
	}

	if got := GetDocumentID(context.Background()); got != "" {
		t.Errorf("GetDocumentID() on empty ctx = %q, want empty", got)
	}
}

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both ids",
			setupCtx: func() context.Context {
				ctx := WithDocumentID(context.Background(), "doc-1")
				return WithSpanID(ctx, "span-1")
			},
			wantKeys: []string{"document_id", "span_id"},
		},
		{
			name: "document only",
			setupCtx: func() context.Context {
				return WithDocumentID(context.Background(), "doc-1")
			},
			wantKeys:  []string{"document_id"},
			wantEmpty: []string{"span_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"document_id", "span_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}
			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
