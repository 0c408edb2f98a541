package core

import (
	"context"
	"fmt"

	"fopmanager/internal/config"
	"fopmanager/internal/infra/persistence/jsonfile"
	"fopmanager/internal/infra/persistence/memory"
	"fopmanager/internal/infra/persistence/postgres"
	"fopmanager/internal/infra/persistence/sqlite"
	"fopmanager/pkg/domain"
)

// PersistentStore aliases domain.PersistentStore.
type PersistentStore = domain.PersistentStore

// OpenPersistentStore selects a backend from cfg. An empty driver means json.
//
//	FOP_STORAGE_DRIVER: memory|json|sqlite|postgres (default json)
//	FOP_JSON_PATH:      document path for the json driver
//	FOP_SQLITE_PATH:    database file for the sqlite driver
//	FOP_POSTGRES_DSN:   DSN for the postgres driver
func OpenPersistentStore(ctx context.Context, cfg config.StorageConfig) (PersistentStore, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return memory.NewStore(), nil
	case config.StorageJSON, "":
		return jsonfile.NewStore(cfg.JSONPath), nil
	case config.StorageSQLite:
		return sqlite.NewStore(cfg.SQLitePath)
	case config.StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// LoadModel seeds a model from store. An empty store yields an empty book.
// Loaded records are validated and duplicate-checked before the model sees
// them.
func LoadModel(ctx context.Context, store PersistentStore, opts ...ModelOption) (*Model, error) {
	snapshot, ok, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load address book: %w", err)
	}
	initial := domain.NewAddressBook()
	if ok {
		initial, err = domain.NewAddressBookFromSnapshot(snapshot)
		if err != nil {
			return nil, fmt.Errorf("load address book: %w", err)
		}
	}
	return NewModel(initial, opts...), nil
}

// SaveModel writes the model's working address book to store.
func SaveModel(ctx context.Context, store PersistentStore, m *Model) error {
	if err := store.Save(ctx, m.Snapshot()); err != nil {
		return fmt.Errorf("save address book: %w", err)
	}
	return nil
}
