package core

import (
	"bytes"
	"context"
	"errors"
	"expvar"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"fopmanager/pkg/domain"
)

const (
	entryStatusSuccess = "success"
	entryStatusError   = "error"
)

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	ended []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

func (c *captureTracer) has(op string, success bool) bool {
	for _, record := range c.ended {
		if record.op == op && (record.err == nil) == success {
			return true
		}
	}
	return false
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

func TestModelObservability(t *testing.T) {
	ctx := context.Background()
	metrics := &captureMetricsRecorder{}
	tracer := &captureTracer{}
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := NewModel(nil, WithMetricsRecorder(metrics), WithTracer(tracer), WithLogger(logger))
	if err := m.AddHouse(ctx, domain.House{Name: "Red"}); err != nil {
		t.Fatalf("add house: %v", err)
	}
	if err := m.AddHouse(ctx, domain.House{Name: "red"}); err == nil {
		t.Fatalf("expected duplicate house")
	}
	if _, err := m.Undo(ctx); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if _, err := m.Undo(ctx); !errors.Is(err, domain.ErrNoHistory) {
		t.Fatalf("expected no history, got %v", err)
	}

	for _, tc := range []struct {
		op      string
		success bool
	}{{"add_house", true}, {"add_house", false}, {"undo", true}, {"undo", false}} {
		if !metrics.has(tc.op, tc.success) {
			t.Fatalf("expected metrics entry for %s success=%v", tc.op, tc.success)
		}
		if !tracer.has(tc.op, tc.success) {
			t.Fatalf("expected trace span for %s success=%v", tc.op, tc.success)
		}
	}
	out := logs.String()
	for _, want := range []string{`"msg":"model operation committed"`, `"msg":"model operation rejected"`, `"label":"Add Red"`, `"msg":"history step"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in logs:\n%s", want, out)
		}
	}
}

func TestNoopObservabilityDefaults(t *testing.T) {
	logger := noopLogger{}
	logger.Debug("debug", "key", "value")
	logger.Info("info", "key", "value")
	logger.Warn("warn", "key", "value")
	logger.Error("error", "key", "value")
	noopMetricsRecorder{}.Observe(context.Background(), "op", true, time.Millisecond)
	_, span := noopTracer{}.Start(context.Background(), "op")
	span.End(nil)

	m := NewModel(nil, WithLogger(nil), WithMetricsRecorder(nil), WithTracer(nil), nil)
	if err := m.AddHouse(context.Background(), domain.House{Name: "Red"}); err != nil {
		t.Fatalf("nil options must fall back to no-ops: %v", err)
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	m := NewModel(nil, WithMetricsRecorder(rec))
	ctx := context.Background()
	_ = m.AddHouse(ctx, domain.House{Name: "Red"})
	_ = m.AddHouse(ctx, domain.House{Name: "Blue"})
	_ = m.AddHouse(ctx, domain.House{Name: "Red"})
	rec.Observe(ctx, "", true, time.Second)

	if got := promtest.ToFloat64(rec.operations.WithLabelValues("add_house", entryStatusSuccess)); got != 2 {
		t.Fatalf("expected 2 successful add_house, got %v", got)
	}
	if got := promtest.ToFloat64(rec.operations.WithLabelValues("add_house", entryStatusError)); got != 1 {
		t.Fatalf("expected 1 failed add_house, got %v", got)
	}
	if n := promtest.CollectAndCount(rec.latency); n != 1 {
		t.Fatalf("expected one latency series, got %d", n)
	}
}

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if recorder.Name() == "" {
		t.Fatalf("expected recorder to have export name")
	}
	recorder.Observe(context.Background(), "delete_person", true, 10*time.Millisecond)
	recorder.Observe(context.Background(), "delete_person", false, 5*time.Millisecond)
	recorder.Observe(context.Background(), "", false, 5*time.Millisecond)

	snapshot := recorder.Snapshot()
	if snapshot.DurationsMS["delete_person"] <= 0 {
		t.Fatalf("expected positive duration, snapshot=%+v", snapshot)
	}
	if snapshot.Results["delete_person"][entryStatusSuccess] != 1 || snapshot.Results["delete_person"][entryStatusError] != 1 {
		t.Fatalf("unexpected results snapshot=%+v", snapshot)
	}
	if len(snapshot.Results) != 1 {
		t.Fatalf("unnamed operations must be ignored")
	}
	if v := expvar.Get(recorder.Name()); v == nil {
		t.Fatalf("expected expvar export to be registered")
	} else if !strings.Contains(v.String(), "delete_person") {
		t.Fatalf("expected expvar output to contain operation: %s", v.String())
	}
}

func TestJSONTraceTracerExports(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)
	m := NewModel(nil, WithTracer(tracer))
	_ = m.AddHouse(context.Background(), domain.House{Name: "Red"})
	_, _ = m.Redo(context.Background())

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two spans, got %d", len(entries))
	}
	if entries[0].Operation != "add_house" || entries[0].Status != entryStatusSuccess {
		t.Fatalf("unexpected span entry: %+v", entries[0])
	}
	if entries[1].Status != entryStatusError || entries[1].Error == "" {
		t.Fatalf("expected failed redo span: %+v", entries[1])
	}
	if !strings.Contains(buf.String(), `"operation":"redo"`) {
		t.Fatalf("expected JSON output to contain operation: %q", buf.String())
	}
	if got := len(NewJSONTracer(nil).Entries()); got != 0 {
		t.Fatalf("expected empty tracer, got %d", got)
	}
}
