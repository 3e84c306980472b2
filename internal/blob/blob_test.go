package blob_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"clubcore/internal/blob"
)

func roundTrip(t *testing.T, store blob.Store) {
	t.Helper()
	ctx := context.Background()

	body := "INSERT INTO members VALUES (1);"
	info, err := store.Put(ctx, "dumps/legacy.sql", strings.NewReader(body), blob.PutOptions{ContentType: "application/sql"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "dumps/legacy.sql" || info.Size != int64(len(body)) {
		t.Errorf("put info = %+v", info)
	}

	rc, got, err := store.Get(ctx, "dumps/legacy.sql")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != body {
		t.Errorf("body = %q, want %q", data, body)
	}
	if got.Size != int64(len(body)) {
		t.Errorf("get info size = %d", got.Size)
	}

	if _, err := store.Head(ctx, "dumps/legacy.sql"); err != nil {
		t.Errorf("head: %v", err)
	}
	if _, _, err := store.Get(ctx, "dumps/missing.sql"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("missing get err = %v, want ErrNotFound", err)
	}
	if _, err := store.Head(ctx, "dumps/missing.sql"); !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("missing head err = %v, want ErrNotFound", err)
	}

	if _, err := store.Put(ctx, "reports/run.txt", strings.NewReader("ok"), blob.PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}
	infos, err := store.List(ctx, "dumps/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "dumps/legacy.sql" {
		t.Errorf("list = %+v", infos)
	}

	// Reruns overwrite prior artifacts under the same key.
	updated := body + "\nINSERT INTO members VALUES (2);"
	if _, err := store.Put(ctx, "dumps/legacy.sql", strings.NewReader(updated), blob.PutOptions{}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	again, err := store.Head(ctx, "dumps/legacy.sql")
	if err != nil {
		t.Fatalf("head after overwrite: %v", err)
	}
	if again.Size != int64(len(updated)) {
		t.Errorf("overwrite size = %d, want %d", again.Size, len(updated))
	}
}

func TestFilesystemStore(t *testing.T) {
	store, err := blob.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.Driver() != blob.DriverFilesystem {
		t.Errorf("driver = %q", store.Driver())
	}
	roundTrip(t, store)
}

func TestMemoryStore(t *testing.T) {
	store := blob.NewMemory()
	if store.Driver() != blob.DriverMemory {
		t.Errorf("driver = %q", store.Driver())
	}
	roundTrip(t, store)
}

func TestFilesystemRejectsTraversalKeys(t *testing.T) {
	store, err := blob.NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "../escape.sql", "/abs.sql", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), blob.PutOptions{}); err == nil {
			t.Errorf("key %q accepted", key)
		}
	}
}

func TestOpenSelectsDriverFromEnv(t *testing.T) {
	ctx := context.Background()

	t.Setenv("CLUBCORE_DUMP_SOURCE", "memory")
	store, err := blob.Open(ctx)
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if store.Driver() != blob.DriverMemory {
		t.Errorf("driver = %q, want memory", store.Driver())
	}

	t.Setenv("CLUBCORE_DUMP_SOURCE", "fs")
	t.Setenv("CLUBCORE_DUMP_FS_ROOT", t.TempDir())
	store, err = blob.Open(ctx)
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if store.Driver() != blob.DriverFilesystem {
		t.Errorf("driver = %q, want fs", store.Driver())
	}

	t.Setenv("CLUBCORE_DUMP_SOURCE", "carrier-pigeon")
	if _, err := blob.Open(ctx); err == nil {
		t.Error("unknown source accepted")
	}

	t.Setenv("CLUBCORE_DUMP_SOURCE", "s3")
	t.Setenv("CLUBCORE_DUMP_S3_BUCKET", "")
	if _, err := blob.Open(ctx); err == nil {
		t.Error("s3 source without bucket accepted")
	}
}
