package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubcore/internal/dump"
	"clubcore/internal/normalize"
	"clubcore/pkg/domain"
)

// RepairReport summarizes one companion-email corrective run.
type RepairReport struct {
	Scanned          int
	Updated          int
	SkippedNoMapping int
	SkippedNoEmail   int
	SkippedTaken     int
}

func (r RepairReport) String() string {
	return fmt.Sprintf("scanned=%d updated=%d no_mapping=%d no_email=%d taken=%d",
		r.Scanned, r.Updated, r.SkippedNoMapping, r.SkippedNoEmail, r.SkippedTaken)
}

// RepairCompanionEmails replaces synthesized companion addresses with the real
// spouse address from the dump, where one exists and is still free. It
// re-parses the dump solely to rebuild the member-id to spouse-email lookup
// and resolves each synthetic user back to its legacy member through the
// ledger.
func (m *Migrator) RepairCompanionEmails(ctx context.Context, d *dump.Dump) (RepairReport, error) {
	var report RepairReport

	spouseEmails, err := spouseEmailsByMember(d)
	if err != nil {
		return report, err
	}

	type candidate struct {
		userID   string
		memberID string
	}
	var candidates []candidate
	err = m.store.View(ctx, func(v domain.TransactionView) error {
		for _, u := range v.ListUsers() {
			if !strings.Contains(u.Email, companionTag+"@") {
				continue
			}
			report.Scanned++
			mapping, ok := v.FindLegacyIDMappingByNewID(domain.EntityUser, u.ID)
			if !ok || !strings.HasSuffix(mapping.LegacyID, companionSuffix) {
				report.SkippedNoMapping++
				m.logf("companion %s: skipped, no ledger entry", u.Email)
				continue
			}
			memberID := strings.TrimSuffix(mapping.LegacyID, companionSuffix)
			candidates = append(candidates, candidate{userID: u.ID, memberID: memberID})
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("scan users: %w", err)
	}

	for _, c := range candidates {
		real := spouseEmails[c.memberID]
		if real == "" {
			report.SkippedNoEmail++
			m.logf("companion of member %s: skipped, no real email on file", c.memberID)
			continue
		}
		err := m.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
			if existing, ok := tx.FindUserByEmail(real); ok && existing.ID != c.userID {
				return domain.ErrDuplicate{Entity: domain.EntityUser, Field: "email", Value: real}
			}
			_, err := tx.UpdateUser(c.userID, func(u *domain.User) error {
				u.Email = real
				return nil
			})
			return err
		})
		if err != nil {
			var dup domain.ErrDuplicate
			if errors.As(err, &dup) {
				report.SkippedTaken++
				m.logf("companion of member %s: skipped, %s already taken", c.memberID, real)
				continue
			}
			return report, fmt.Errorf("update companion of member %s: %w", c.memberID, err)
		}
		report.Updated++
		m.logf("companion of member %s: email set to %s", c.memberID, real)
	}
	return report, nil
}

// spouseEmailsByMember rebuilds the member-id to real spouse-email lookup
// from the members table, keeping only addresses distinct from the
// principal's.
func spouseEmailsByMember(d *dump.Dump) (map[string]string, error) {
	tbl := d.Table("members")
	if err := tbl.Require("id", "email", "spouse_email"); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if tbl == nil {
		return out, nil
	}
	for _, row := range tbl.Rows {
		principal, ok := normalize.ExtractEmail(row.String("email"))
		if !ok {
			continue
		}
		spouse, ok := normalize.ExtractEmail(row.String("spouse_email"))
		if !ok || spouse == principal {
			continue
		}
		out[row.String("id")] = spouse
	}
	return out, nil
}
