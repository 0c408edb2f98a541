package domain

import (
	"context"
	"encoding/json"
	"fmt"
)

// PersistentStore is a minimal abstraction over durable backends. Stores only
// read and write whole snapshots; a loaded snapshot seeds a fresh versioned
// address book and is never applied to a live history in place.
type PersistentStore interface {
	// Load returns the persisted snapshot. ok is false when nothing has been
	// saved yet.
	Load(ctx context.Context) (snapshot Snapshot, ok bool, err error)
	// Save replaces the persisted snapshot.
	Save(ctx context.Context, snapshot Snapshot) error
	// Close releases backend resources.
	Close() error
}

// Bucket names used by table-backed stores, one row per record variant.
const (
	BucketPersons = "persons"
	BucketGroups  = "groups"
	BucketHouses  = "houses"
)

// SnapshotBuckets lists the buckets in load order.
var SnapshotBuckets = []string{BucketHouses, BucketGroups, BucketPersons}

// EncodeBuckets renders each record list of s as a JSON payload keyed by
// bucket name.
func EncodeBuckets(s Snapshot) (map[string][]byte, error) {
	out := make(map[string][]byte, len(SnapshotBuckets))
	for _, bucket := range SnapshotBuckets {
		var (
			data []byte
			err  error
		)
		switch bucket {
		case BucketPersons:
			data, err = json.Marshal(nonNil(s.Persons))
		case BucketGroups:
			data, err = json.Marshal(nonNil(s.Groups))
		case BucketHouses:
			data, err = json.Marshal(nonNil(s.Houses))
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", bucket, err)
		}
		out[bucket] = data
	}
	return out, nil
}

// DecodeBucket unmarshals one bucket payload into s. Unknown buckets and empty
// payloads are ignored.
func DecodeBucket(s *Snapshot, bucket string, payload []byte) error {
	if len(payload) == 0 {
		return nil
	}
	var target any
	switch bucket {
	case BucketPersons:
		target = &s.Persons
	case BucketGroups:
		target = &s.Groups
	case BucketHouses:
		target = &s.Houses
	default:
		return nil
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
