package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"clubcore/pkg/domain"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "club.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		u, err := tx.CreateUser(domain.User{FirstName: "Ada", LastName: "Lovelace", Email: "ada@club.org"})
		if err != nil {
			return err
		}
		_, err = tx.CreateLegacyIDMapping(domain.LegacyIDMapping{EntityType: domain.EntityUser, LegacyID: "1", NewID: u.ID})
		return err
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.DB().Close()
	if err := reopened.View(ctx, func(v domain.TransactionView) error {
		if _, ok := v.FindUserByEmail("ada@club.org"); !ok {
			t.Error("user lost across reopen")
		}
		if _, ok := v.FindLegacyIDMapping(domain.EntityUser, "1"); !ok {
			t.Error("ledger entry lost across reopen")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	if reopened.Path() != path {
		t.Errorf("path = %q, want %q", reopened.Path(), path)
	}
}

func TestFailedTransactionNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "club.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	seed := func(email string) error {
		return store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			_, err := tx.CreateUser(domain.User{FirstName: "N", LastName: "N", Email: email})
			return err
		})
	}
	if err := seed("n@club.org"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := seed("n@club.org"); err == nil {
		t.Fatal("duplicate email accepted")
	}
	if err := store.DB().Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.DB().Close()
	if err := reopened.View(ctx, func(v domain.TransactionView) error {
		if got := len(v.ListUsers()); got != 1 {
			t.Errorf("users = %d, want 1", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}
