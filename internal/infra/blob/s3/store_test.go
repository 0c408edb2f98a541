package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"fopmanager/internal/blob/core"
)

func TestMockStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	if store.Bucket() != MockBucket || store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected store identity %s %s", store.Bucket(), store.Driver())
	}
	payload := "NAME,PHONE\r\nAlice,123\r\n"
	if _, err := store.Put(ctx, "exports/x.csv", strings.NewReader(payload), core.PutOptions{ContentType: "text/csv"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, rc, err := store.Get(ctx, "exports/x.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, _ := io.ReadAll(rc)
	if string(body) != payload {
		t.Fatalf("unexpected body %q", body)
	}
	if info.ETag != "mock-etag" || info.ContentType != "text/csv" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "exports/x.csv", strings.NewReader("again"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestNewWithStaticCredentials(t *testing.T) {
	store, err := New(context.Background(), Config{
		Bucket:          "exports",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		PathStyle:       true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	url, err := store.PresignURL(context.Background(), "exports/a.xlsx", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:9000/exports/exports/a.xlsx") {
		t.Fatalf("expected path-style url, got %s", url)
	}
}

func TestDecodeChunked(t *testing.T) {
	raw := []byte("5;chunk-signature=abc\r\nhel\r\n\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n")
	got, ok := decodeChunked(raw)
	if !ok || string(got) != "hel\r\n" {
		t.Fatalf("unexpected decode %q %v", got, ok)
	}
	if _, ok := decodeChunked([]byte("zz\r\nabc")); ok {
		t.Fatalf("expected invalid hex to fail")
	}
	if _, ok := decodeChunked([]byte("9\r\nabc\r\n")); ok {
		t.Fatalf("expected short chunk to fail")
	}
}
