package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"fopmanager/internal/infra/persistence/postgres/testutil"
	"fopmanager/pkg/domain"
)

func newStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	_, conn := newStubStore(t)
	if len(conn.Execs) == 0 || !strings.Contains(conn.Execs[0], "CREATE TABLE IF NOT EXISTS state") {
		t.Fatalf("expected state table ddl, got %v", conn.Execs)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	if _, ok, err := store.Load(ctx); err != nil || ok {
		t.Fatalf("expected empty state, got ok=%v err=%v", ok, err)
	}
	sample := domain.SampleAddressBook()
	if err := store.Save(ctx, sample.ExportSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if conn.Committed != 1 {
		t.Fatalf("expected one commit, got %d", conn.Committed)
	}
	if len(conn.State) != len(domain.SnapshotBuckets) {
		t.Fatalf("expected every bucket written, got %v", conn.Order)
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
}

func TestSaveRollsBackOnExecFailure(t *testing.T) {
	store, conn := newStubStore(t)
	conn.FailExec = true
	if err := store.Save(context.Background(), domain.Snapshot{}); err == nil || !strings.Contains(err.Error(), "upsert") {
		t.Fatalf("expected upsert error, got %v", err)
	}
	if conn.RolledBack != 1 {
		t.Fatalf("expected rollback, got %d", conn.RolledBack)
	}
}

func TestSaveReportsBeginAndCommitFailures(t *testing.T) {
	store, conn := newStubStore(t)
	conn.FailBegin = true
	if err := store.Save(context.Background(), domain.Snapshot{}); err == nil {
		t.Fatalf("expected begin failure")
	}
	conn.FailBegin = false
	conn.FailCommit = true
	if err := store.Save(context.Background(), domain.Snapshot{}); err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit failure, got %v", err)
	}
}

func TestLoadSurfacesRowErrors(t *testing.T) {
	ctx := context.Background()
	store, conn := newStubStore(t)
	if err := store.Save(ctx, domain.Snapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	conn.RowsErr = errors.New("boom")
	if _, _, err := store.Load(ctx); err == nil {
		t.Fatalf("expected iterate error")
	}
	conn.RowsErr = nil
	conn.FailQuery = true
	if _, _, err := store.Load(ctx); err == nil {
		t.Fatalf("expected select error")
	}
}

func TestNewStoreFailures(t *testing.T) {
	restore := OverrideSQLOpen(func(string, string) (*sql.DB, error) { return nil, errors.New("open fail") })
	if _, err := NewStore(context.Background(), "postgres://example"); err == nil {
		t.Fatalf("expected open error")
	}
	restore()

	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore = OverrideSQLOpen(func(string, string) (*sql.DB, error) { return db, nil })
	defer restore()
	if _, err := NewStore(context.Background(), ""); err == nil || !strings.Contains(err.Error(), "ping") {
		t.Fatalf("expected ping error, got %v", err)
	}
}
