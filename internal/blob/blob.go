// Package blob selects the artifact store used for contact exports. Callers
// depend on the Store interface; only this package imports the backends.
package blob

import (
	"context"
	"fmt"

	"fopmanager/internal/blob/core"
	"fopmanager/internal/config"
	"fopmanager/internal/infra/blob/fs"
	"fopmanager/internal/infra/blob/memory"
	infraS3 "fopmanager/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend.
	Driver = core.Driver
	// PutOptions configures a write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes a stored artifact.
	Info = core.Info
	// Store is the artifact store contract.
	Store = core.Store
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrUnsupported = core.ErrUnsupported
	ErrExists      = core.ErrExists
	ErrNotFound    = core.ErrNotFound
)

// Open builds the store named by cfg.Driver. An empty driver means fs.
func Open(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", DriverFilesystem:
		return fs.New(cfg.FSRoot)
	case DriverMemory:
		return memory.New(), nil
	case DriverS3:
		return infraS3.New(ctx, infraS3.Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

// NewMemory returns an empty in-memory store.
func NewMemory() Store { return memory.New() }

// NewMockS3ForTests returns an S3 store backed by a fake transport, for
// cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
