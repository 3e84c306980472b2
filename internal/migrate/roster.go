package migrate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubcore/internal/dump"
	"clubcore/internal/normalize"
	"clubcore/pkg/domain"
)

// migrateSponsors migrates the sponsors table one-to-one.
func (m *Migrator) migrateSponsors(ctx context.Context, d *dump.Dump) (PhaseReport, error) {
	phase := PhaseReport{Phase: "sponsors"}

	tbl := d.Table("sponsors")
	if err := tbl.Require("id", "name"); err != nil {
		return phase, err
	}
	if tbl == nil {
		return phase, nil
	}
	for _, row := range tbl.Rows {
		legacyID := row.String("id")
		name := strings.TrimSpace(row.String("name"))
		if name == "" {
			m.record(&phase, legacyID, OutcomeFailed, fmt.Errorf("blank sponsor name"))
			continue
		}
		email, _ := normalize.ExtractEmail(row.String("email"))
		outcome, err := m.migrateOnce(ctx, domain.EntitySponsor, legacyID, func(tx domain.Transaction) error {
			sponsor, err := tx.CreateSponsor(domain.Sponsor{
				Name:        name,
				ContactName: strings.TrimSpace(row.String("contact_name")),
				Email:       email,
				Phone:       normalize.FormatPhone(row.String("phone")),
				Level:       strings.TrimSpace(row.String("level")),
			})
			if err != nil {
				return err
			}
			return m.writeMapping(tx, domain.EntitySponsor, legacyID, sponsor.ID)
		})
		m.record(&phase, legacyID, outcome, err)
	}
	return phase, nil
}

// migrateBoardMembers links board positions to already-migrated users via the
// member ledger. An unresolvable member reference is a record failure.
func (m *Migrator) migrateBoardMembers(ctx context.Context, d *dump.Dump) (PhaseReport, error) {
	phase := PhaseReport{Phase: "board_members"}

	tbl := d.Table("board_members")
	if err := tbl.Require("id", "member_id", "position"); err != nil {
		return phase, err
	}
	if tbl == nil {
		return phase, nil
	}
	for _, row := range tbl.Rows {
		legacyID := row.String("id")
		userID, err := m.resolveMember(ctx, row.String("member_id"))
		if err != nil {
			m.record(&phase, legacyID, OutcomeFailed, err)
			continue
		}
		var termStart, termEnd *time.Time
		if t, ok := normalize.ParseDate(row.String("term_start")); ok {
			termStart = &t
		}
		if t, ok := normalize.ParseDate(row.String("term_end")); ok {
			termEnd = &t
		}
		outcome, err := m.migrateOnce(ctx, domain.EntityBoardMember, legacyID, func(tx domain.Transaction) error {
			bm, err := tx.CreateBoardMember(domain.BoardMember{
				UserID:    userID,
				Position:  strings.TrimSpace(row.String("position")),
				TermStart: termStart,
				TermEnd:   termEnd,
			})
			if err != nil {
				return err
			}
			return m.writeMapping(tx, domain.EntityBoardMember, legacyID, bm.ID)
		})
		m.record(&phase, legacyID, outcome, err)
	}
	return phase, nil
}

// migrateOutreach links outreach committee roles to already-migrated users.
func (m *Migrator) migrateOutreach(ctx context.Context, d *dump.Dump) (PhaseReport, error) {
	phase := PhaseReport{Phase: "outreach_assignments"}

	tbl := d.Table("outreach_committee")
	if err := tbl.Require("id", "member_id"); err != nil {
		return phase, err
	}
	if tbl == nil {
		return phase, nil
	}
	for _, row := range tbl.Rows {
		legacyID := row.String("id")
		userID, err := m.resolveMember(ctx, row.String("member_id"))
		if err != nil {
			m.record(&phase, legacyID, OutcomeFailed, err)
			continue
		}
		outcome, err := m.migrateOnce(ctx, domain.EntityOutreachAssignment, legacyID, func(tx domain.Transaction) error {
			oa, err := tx.CreateOutreachAssignment(domain.OutreachAssignment{
				UserID: userID,
				Role:   strings.TrimSpace(row.String("role")),
			})
			if err != nil {
				return err
			}
			return m.writeMapping(tx, domain.EntityOutreachAssignment, legacyID, oa.ID)
		})
		m.record(&phase, legacyID, outcome, err)
	}
	return phase, nil
}

// resolveMember maps a legacy member id to the migrated user's new id.
func (m *Migrator) resolveMember(ctx context.Context, memberID string) (string, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return "", fmt.Errorf("blank member reference")
	}
	mapping, ok, err := m.hasMapping(ctx, domain.EntityUser, memberID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("member %s not migrated", memberID)
	}
	return mapping.NewID, nil
}
