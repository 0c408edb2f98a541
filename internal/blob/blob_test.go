package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"fopmanager/internal/config"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()
	fsStore, err := Open(ctx, config.BlobConfig{Driver: config.BlobFS, FSRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	memStore, err := Open(ctx, config.BlobConfig{Driver: config.BlobMemory})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	return map[string]Store{
		"fs":     fsStore,
		"memory": memStore,
		"s3":     NewMockS3ForTests(),
	}
}

func TestStoreContract(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			opts := PutOptions{ContentType: "text/csv", Metadata: map[string]string{"source": "test"}}
			info, err := store.Put(ctx, "exports/a.csv", strings.NewReader("NAME\nAlice\n"), opts)
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if info.Key != "exports/a.csv" || info.Size != int64(len("NAME\nAlice\n")) {
				t.Fatalf("unexpected info %+v", info)
			}
			if _, err := store.Put(ctx, "exports/a.csv", strings.NewReader("x"), PutOptions{}); !errors.Is(err, ErrExists) {
				t.Fatalf("expected ErrExists, got %v", err)
			}

			head, err := store.Head(ctx, "exports/a.csv")
			if err != nil {
				t.Fatalf("head: %v", err)
			}
			if head.ContentType != "text/csv" || head.Metadata["source"] != "test" {
				t.Fatalf("unexpected head %+v", head)
			}
			got, rc, err := store.Get(ctx, "exports/a.csv")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			body, _ := io.ReadAll(rc)
			_ = rc.Close()
			if string(body) != "NAME\nAlice\n" || got.Size != head.Size {
				t.Fatalf("unexpected body %q info %+v", body, got)
			}

			if _, err := store.Put(ctx, "exports/b.csv", strings.NewReader("b"), PutOptions{}); err != nil {
				t.Fatalf("put b: %v", err)
			}
			if _, err := store.Put(ctx, "other/c.csv", strings.NewReader("c"), PutOptions{}); err != nil {
				t.Fatalf("put c: %v", err)
			}
			list, err := store.List(ctx, "exports/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 2 || list[0].Key != "exports/a.csv" || list[1].Key != "exports/b.csv" {
				t.Fatalf("unexpected list %+v", list)
			}

			if _, _, err := store.Get(ctx, "exports/missing.csv"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound from get, got %v", err)
			}
			if _, err := store.Head(ctx, "exports/missing.csv"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound from head, got %v", err)
			}

			existed, err := store.Delete(ctx, "exports/a.csv")
			if err != nil || !existed {
				t.Fatalf("delete: %v %v", existed, err)
			}
			existed, err = store.Delete(ctx, "exports/a.csv")
			if err != nil || existed {
				t.Fatalf("second delete should report false, got %v %v", existed, err)
			}
		})
	}
}

func TestPresignURLByDriver(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		if _, err := store.Put(ctx, "k.txt", strings.NewReader("v"), PutOptions{}); err != nil {
			t.Fatalf("%s put: %v", name, err)
		}
		url, err := store.PresignURL(ctx, "k.txt", SignedURLOptions{})
		switch store.Driver() {
		case DriverMemory:
			if !errors.Is(err, ErrUnsupported) {
				t.Fatalf("memory presign should be unsupported, got %v", err)
			}
		case DriverFilesystem:
			if err != nil || !strings.HasPrefix(url, "file://") {
				t.Fatalf("fs presign: %v %q", err, url)
			}
		case DriverS3:
			if err != nil || !strings.Contains(url, "X-Amz-Signature") {
				t.Fatalf("s3 presign: %v %q", err, url)
			}
		}
		if _, err := store.PresignURL(ctx, "k.txt", SignedURLOptions{Method: "PUT"}); store.Driver() != DriverMemory && !errors.Is(err, ErrUnsupported) {
			t.Fatalf("%s: PUT presign should be unsupported, got %v", name, err)
		}
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.BlobConfig{Driver: "ftp"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
	if _, err := Open(context.Background(), config.BlobConfig{Driver: config.BlobS3}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
}
