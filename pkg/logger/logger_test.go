package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

type ctxKey struct{}

func traceFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "storefront", traceFromCtx)

	ctx := context.WithValue(context.Background(), ctxKey{}, "abc123")
	log.Info(ctx, "cart saved", "items", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "cart saved" {
		t.Fatalf("unexpected msg: %v", rec["msg"])
	}
	if rec["service"] != "storefront" {
		t.Fatalf("unexpected service: %v", rec["service"])
	}
	if rec["trace_id"] != "abc123" {
		t.Fatalf("unexpected trace_id: %v", rec["trace_id"])
	}
	if rec["items"] != float64(2) {
		t.Fatalf("unexpected items: %v", rec["items"])
	}
}

func TestLogger_LevelAndMissingTrace(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "storefront", traceFromCtx)

	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written below min level: %s", buf.String())
	}

	log.Warn(context.Background(), "kept")
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if _, ok := rec["trace_id"]; ok {
		t.Fatal("trace_id must be omitted when the context has none")
	}
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error(context.Background(), "ignored", "error", "boom")
}
