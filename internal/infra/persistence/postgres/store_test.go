package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"clubcore/pkg/domain"
)

// The snapshot SQL sticks to the dialect subset SQLite also understands
// ($N placeholders, ON CONFLICT upserts), so the store can be exercised
// against a file-backed SQLite database without a running server.
func openAgainstSQLite(t *testing.T, path string) func() {
	t.Helper()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return sql.Open("sqlite", path)
	})
	return restore
}

func TestStoreRoundTripThroughSnapshotTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	restore := openAgainstSQLite(t, path)
	defer restore()
	ctx := context.Background()

	store, err := NewStore("postgres://unused")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		u, err := tx.CreateUser(domain.User{FirstName: "Grace", LastName: "Hopper", Email: "grace@club.org"})
		if err != nil {
			return err
		}
		_, err = tx.CreateLegacyIDMapping(domain.LegacyIDMapping{EntityType: domain.EntityUser, LegacyID: "42", NewID: u.ID})
		return err
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore("postgres://unused")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.DB().Close()
	if err := reopened.View(ctx, func(v domain.TransactionView) error {
		if _, ok := v.FindUserByEmail("grace@club.org"); !ok {
			t.Error("user lost across reopen")
		}
		if m, ok := v.FindLegacyIDMapping(domain.EntityUser, "42"); !ok || m.NewID == "" {
			t.Errorf("ledger entry lost across reopen (ok=%v)", ok)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestStoreUpsertsOnRepeatedWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	restore := openAgainstSQLite(t, path)
	defer restore()
	ctx := context.Background()

	store, err := NewStore("postgres://unused")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.DB().Close()

	for _, email := range []string{"a@club.org", "b@club.org", "c@club.org"} {
		err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			_, err := tx.CreateUser(domain.User{FirstName: "U", LastName: "U", Email: email})
			return err
		})
		if err != nil {
			t.Fatalf("write %s: %v", email, err)
		}
	}

	var rows int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM state WHERE bucket = 'users'`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Errorf("users bucket rows = %d, want 1 (snapshot should upsert)", rows)
	}
}
