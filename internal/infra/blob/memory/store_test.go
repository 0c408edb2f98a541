package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"fopmanager/internal/blob/core"
)

func TestReturnedDataIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := New()
	md := map[string]string{"k": "v"}
	if _, err := store.Put(ctx, "a", strings.NewReader("abc"), core.PutOptions{Metadata: md}); err != nil {
		t.Fatalf("put: %v", err)
	}
	md["k"] = "changed"
	info, rc, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if info.Metadata["k"] != "v" {
		t.Fatalf("metadata aliased caller map: %+v", info.Metadata)
	}
	info.Metadata["k"] = "mutated"
	body, _ := io.ReadAll(rc)
	if string(body) != "abc" {
		t.Fatalf("unexpected body %q", body)
	}
	head, _ := store.Head(ctx, "a")
	if head.Metadata["k"] != "v" {
		t.Fatalf("metadata aliased returned info: %+v", head.Metadata)
	}
}

func TestErrorsAndCapabilities(t *testing.T) {
	ctx := context.Background()
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	if _, err := store.Put(ctx, " ", strings.NewReader("x"), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
	if _, err := store.PresignURL(ctx, "a", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := store.List(cancelled, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
