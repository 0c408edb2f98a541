package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fopmanager/pkg/domain"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "addressbook.json")
	store := NewStore(path)

	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected missing file to load empty, got ok=%v err=%v", ok, err)
	}
	sample := domain.SampleAddressBook()
	if err := store.Save(ctx, sample.ExportSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, ok, err := store.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	rebuilt, err := domain.NewAddressBookFromSnapshot(loaded)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !rebuilt.Equal(sample) {
		t.Fatalf("expected identical address book after round trip")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, key := range []string{`"persons"`, `"groups"`, `"houses"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in document", key)
		}
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestStoreRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addressbook.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := NewStore(path).Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStoreDefaultPath(t *testing.T) {
	if got := NewStore("").Path(); got != DefaultPath {
		t.Fatalf("expected default path, got %s", got)
	}
}
