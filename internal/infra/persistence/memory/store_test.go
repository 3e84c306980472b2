package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"clubcore/pkg/domain"
)

func TestTransactionCommitAndRollback(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.CreateUser(domain.User{FirstName: "A", LastName: "B", Email: "a@x.org"})
		return err
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("boom")
	err = store.RunInTransaction(ctx, func(tx Transaction) error {
		if _, err := tx.CreateUser(domain.User{FirstName: "C", LastName: "D", Email: "c@x.org"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	if err := store.View(ctx, func(v TransactionView) error {
		if len(v.ListUsers()) != 1 {
			t.Errorf("users = %d, want 1 (rollback leaked)", len(v.ListUsers()))
		}
		if _, ok := v.FindUserByEmail("c@x.org"); ok {
			t.Error("rolled-back user visible")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestUserEmailUniquenessCaseInsensitive(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	mustCreateUser(t, store, "first@x.org")
	err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.CreateUser(domain.User{FirstName: "Dup", LastName: "User", Email: "FIRST@X.ORG"})
		return err
	})
	var dup domain.ErrDuplicate
	if !errors.As(err, &dup) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	if dup.Entity != domain.EntityUser || dup.Field != "email" {
		t.Errorf("dup detail = %+v", dup)
	}
}

func TestUpdateUserEnforcesEmailUniqueness(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	first := mustCreateUser(t, store, "one@x.org")
	mustCreateUser(t, store, "two@x.org")

	err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.UpdateUser(first, func(u *domain.User) error {
			u.Email = "TWO@x.org"
			return nil
		})
		return err
	})
	var dup domain.ErrDuplicate
	if !errors.As(err, &dup) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	err = store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.UpdateUser("nope", func(u *domain.User) error { return nil })
		return err
	})
	var notFound domain.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMappingPairUniqueness(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	write := func() error {
		return store.RunInTransaction(ctx, func(tx Transaction) error {
			_, err := tx.CreateLegacyIDMapping(domain.LegacyIDMapping{EntityType: domain.EntityUser, LegacyID: "7", NewID: "abc"})
			return err
		})
	}
	if err := write(); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := write(); err == nil {
		t.Fatal("duplicate (entity, legacyID) accepted")
	}
	// Same legacy id under another entity type is a different ledger row.
	err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.CreateLegacyIDMapping(domain.LegacyIDMapping{EntityType: domain.EntityMotion, LegacyID: "7", NewID: "def"})
		return err
	})
	if err != nil {
		t.Fatalf("distinct entity type rejected: %v", err)
	}
}

func TestForeignKeyChecks(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.CreateMembership(domain.Membership{UserID: "ghost", Type: domain.MembershipIndividual, Status: domain.MembershipActive, StartDate: time.Now()})
		return err
	})
	if err == nil {
		t.Error("membership for missing user accepted")
	}
	err = store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.CreateMotion(domain.Motion{MeetingID: "ghost", Description: "x", Outcome: domain.MotionTabled})
		return err
	})
	if err == nil {
		t.Error("motion for missing meeting accepted")
	}
}

func TestEventYearAndRegistrationUniqueness(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var configID string
	err := store.RunInTransaction(ctx, func(tx Transaction) error {
		cfg, err := tx.CreateEventConfiguration(domain.EventConfiguration{Year: 2024, StartDate: time.Now(), EndDate: time.Now(), PricePerPerson: 85, Capacity: 150})
		if err != nil {
			return err
		}
		configID = cfg.ID
		return nil
	})
	if err != nil {
		t.Fatalf("create config: %v", err)
	}
	err = store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.CreateEventConfiguration(domain.EventConfiguration{Year: 2024, StartDate: time.Now(), EndDate: time.Now()})
		return err
	})
	if err == nil {
		t.Fatal("duplicate year accepted")
	}

	create := func(email string) error {
		return store.RunInTransaction(ctx, func(tx Transaction) error {
			_, err := tx.CreateEventRegistration(domain.EventRegistration{ConfigurationID: configID, Email: email, Name: "n"})
			return err
		})
	}
	if err := create("p@x.org"); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := create("P@X.ORG"); err == nil {
		t.Fatal("duplicate (configuration, email) accepted")
	}
	// Registrations without an email are not subject to the pair constraint.
	if err := create(""); err != nil {
		t.Fatalf("empty-email registration rejected: %v", err)
	}
	if err := create(""); err != nil {
		t.Fatalf("second empty-email registration rejected: %v", err)
	}
}

func TestViewIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	mustCreateUser(t, store, "iso@x.org")

	var leaked []domain.User
	if err := store.View(ctx, func(v TransactionView) error {
		leaked = v.ListUsers()
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
	leaked[0].Email = "mutated@x.org"

	if err := store.View(ctx, func(v TransactionView) error {
		if _, ok := v.FindUserByEmail("mutated@x.org"); ok {
			t.Error("view mutation leaked into store")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := NewStore()
	mustCreateUser(t, store, "rt@x.org")

	other := NewStore()
	other.ImportState(store.ExportState())
	if err := other.View(context.Background(), func(v TransactionView) error {
		if _, ok := v.FindUserByEmail("rt@x.org"); !ok {
			t.Error("imported state missing user")
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestSetNowFuncStampsEntities(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.SetNowFunc(func() time.Time { return fixed })

	id := mustCreateUser(t, store, "ts@x.org")
	if err := store.View(context.Background(), func(v TransactionView) error {
		u, ok := v.GetUser(id)
		if !ok {
			t.Fatal("user missing")
		}
		if !u.CreatedAt.Equal(fixed) || !u.UpdatedAt.Equal(fixed) {
			t.Errorf("timestamps = %v / %v", u.CreatedAt, u.UpdatedAt)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

var userSeq int

func mustCreateUser(t *testing.T, store *Store, email string) string {
	t.Helper()
	var id string
	userSeq++
	name := fmt.Sprintf("User%d", userSeq)
	err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		u, err := tx.CreateUser(domain.User{FirstName: name, LastName: "Test", Email: email})
		if err != nil {
			return err
		}
		id = u.ID
		return nil
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return id
}
