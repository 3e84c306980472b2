package core

import (
	"context"
	"path/filepath"
	"testing"

	"clubcore/internal/infra/persistence/sqlite"
	"clubcore/pkg/domain"
)

func TestOpenPersistentStoreSelectsDriver(t *testing.T) {
	t.Setenv("CLUBCORE_STORAGE_DRIVER", "memory")
	store, err := OpenPersistentStore()
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if err := store.View(context.Background(), func(v domain.TransactionView) error { return nil }); err != nil {
		t.Fatalf("view: %v", err)
	}

	path := filepath.Join(t.TempDir(), "club.db")
	t.Setenv("CLUBCORE_STORAGE_DRIVER", "sqlite")
	t.Setenv("CLUBCORE_SQLITE_PATH", path)
	store, err = OpenPersistentStore()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ss, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("store type = %T, want *sqlite.Store", store)
	}
	if ss.Path() != path {
		t.Errorf("sqlite path = %q, want %q", ss.Path(), path)
	}
	if err := ss.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	t.Setenv("CLUBCORE_STORAGE_DRIVER", "etcd")
	if _, err := OpenPersistentStore(); err == nil {
		t.Error("unknown driver accepted")
	}
}
