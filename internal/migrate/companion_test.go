package migrate

import (
	"context"
	"testing"

	"clubcore/internal/dump"
	"clubcore/internal/infra/persistence/memory"
	"clubcore/pkg/domain"
)

// repairDump is the members table as re-exported after the spouse address was
// filled in for member 2.
const repairDump = `
INSERT INTO members (id, first_name, last_name, email, phone, member_type, status, join_date, renewal_date, spouse_first_name, spouse_email) VALUES
(2, 'Bob', 'Baker', 'bob@club.org', NULL, 'family', 'active', '2010-05-05', '2024-03-01', 'Carol', 'carol@club.org');
`

func TestRepairCompanionEmailsUpdates(t *testing.T) {
	store, _ := runSample(t)
	m := New(store)

	report, err := m.RepairCompanionEmails(context.Background(), dump.Parse(repairDump))
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	// Only bob's companion carries the synthetic marker; frank's was real.
	if report.Scanned != 1 || report.Updated != 1 {
		t.Fatalf("report = %+v", report)
	}
	viewOf(t, store, func(v domain.TransactionView) {
		if _, ok := v.FindUserByEmail("bob+companion@club.org"); ok {
			t.Error("synthetic address still present")
		}
		carol, ok := v.FindUserByEmail("carol@club.org")
		if !ok {
			t.Fatal("repaired address missing")
		}
		if carol.FirstName != "Carol" {
			t.Errorf("wrong user repaired: %+v", carol)
		}
	})
}

func TestRepairCompanionEmailsSkipsNoRealEmail(t *testing.T) {
	store, _ := runSample(t)
	m := New(store)

	// The original dump has no spouse address for member 2.
	report, err := m.RepairCompanionEmails(context.Background(), dump.Parse(sampleDump))
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if report.SkippedNoEmail != 1 || report.Updated != 0 {
		t.Fatalf("report = %+v", report)
	}
}

func TestRepairCompanionEmailsSkipsTakenAddress(t *testing.T) {
	store, _ := runSample(t)
	m := New(store)

	taken := `
INSERT INTO members (id, first_name, last_name, email, phone, member_type, status, join_date, renewal_date, spouse_first_name, spouse_email) VALUES
(2, 'Bob', 'Baker', 'bob@club.org', NULL, 'family', 'active', '2010-05-05', '2024-03-01', 'Carol', 'alice@club.org');
`
	report, err := m.RepairCompanionEmails(context.Background(), dump.Parse(taken))
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if report.SkippedTaken != 1 || report.Updated != 0 {
		t.Fatalf("report = %+v", report)
	}
	viewOf(t, store, func(v domain.TransactionView) {
		alice, _ := v.FindUserByEmail("alice@club.org")
		if alice.FirstName != "Alice" {
			t.Error("existing user was overwritten")
		}
	})
}

func TestRepairCompanionEmailsSkipsUnmappedUser(t *testing.T) {
	store := memory.NewStore()
	err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateUser(domain.User{FirstName: "Stray", LastName: "User", Email: "stray+companion@club.org"})
		return err
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	m := New(store)
	report, err := m.RepairCompanionEmails(context.Background(), dump.Parse(repairDump))
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if report.Scanned != 1 || report.SkippedNoMapping != 1 {
		t.Fatalf("report = %+v", report)
	}
}
