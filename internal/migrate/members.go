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

const (
	// companionSuffix namespaces the companion's ledger entry under the
	// principal's legacy member id.
	companionSuffix = "_companion"
	// companionTag is inserted into the local part when the dump carries no
	// real companion address. The corrective CLI keys off it later.
	companionTag = "+companion"
	// applicationPrefix namespaces application-sourced users in the ledger so
	// they can never collide with member ids.
	applicationPrefix = "app_"
)

type memberRecord struct {
	legacyID      string
	email         string
	row           dump.Row
	authoritative bool
}

// migrateMembers migrates the deduplicated union of the members and
// membership_applications tables: one principal user plus membership per
// unique email, and a family/companion fan-out for family-type members with
// a named spouse.
func (m *Migrator) migrateMembers(ctx context.Context, d *dump.Dump) (PhaseReport, error) {
	phase := PhaseReport{Phase: "members"}

	members := d.Table("members")
	apps := d.Table("membership_applications")
	if err := members.Require("id", "first_name", "last_name", "email", "member_type", "status"); err != nil {
		return phase, err
	}
	if err := apps.Require("id", "email"); err != nil {
		return phase, err
	}

	records := m.dedupeMembers(&phase, members, apps)
	for _, rec := range records {
		outcome, err := m.migratePrincipal(ctx, rec)
		m.record(&phase, rec.legacyID, outcome, err)
		if outcome == OutcomeFailed || !rec.authoritative {
			continue
		}
		mType := normalize.MembershipType(rec.row.String("member_type"))
		spouseFirst := strings.TrimSpace(rec.row.String("spouse_first_name"))
		if mType != domain.MembershipFamily || spouseFirst == "" {
			continue
		}
		outcome, err = m.migrateCompanion(ctx, rec, spouseFirst)
		m.record(&phase, rec.legacyID+companionSuffix, outcome, err)
	}
	return phase, nil
}

// dedupeMembers builds one record per normalized email. Members rows are
// authoritative; an applications row only contributes when its email is not
// already claimed, otherwise it is counted as merged.
func (m *Migrator) dedupeMembers(phase *PhaseReport, members, apps *dump.Table) []memberRecord {
	claimed := make(map[string]bool)
	var records []memberRecord
	if members != nil {
		for _, row := range members.Rows {
			legacyID := row.String("id")
			email, ok := normalize.ExtractEmail(row.String("email"))
			if !ok {
				m.record(phase, legacyID, OutcomeFailed, fmt.Errorf("no usable email in %q", row.String("email")))
				continue
			}
			if claimed[email] {
				m.record(phase, legacyID, OutcomeMerged, nil)
				continue
			}
			claimed[email] = true
			records = append(records, memberRecord{legacyID: legacyID, email: email, row: row, authoritative: true})
		}
	}
	if apps != nil {
		for _, row := range apps.Rows {
			legacyID := applicationPrefix + row.String("id")
			email, ok := normalize.ExtractEmail(row.String("email"))
			if !ok {
				m.record(phase, legacyID, OutcomeFailed, fmt.Errorf("no usable email in %q", row.String("email")))
				continue
			}
			if claimed[email] {
				m.record(phase, legacyID, OutcomeMerged, nil)
				continue
			}
			claimed[email] = true
			records = append(records, memberRecord{legacyID: legacyID, email: email, row: row})
		}
	}
	return records
}

// migratePrincipal creates the principal user, its membership and the ledger
// row in one transaction. A pre-existing user with the same email is only
// mapped, covering partial prior runs and manual seeding.
func (m *Migrator) migratePrincipal(ctx context.Context, rec memberRecord) (Outcome, error) {
	mappedOnly := false
	outcome, err := m.migrateOnce(ctx, domain.EntityUser, rec.legacyID, func(tx domain.Transaction) error {
		if existing, ok := tx.FindUserByEmail(rec.email); ok {
			mappedOnly = true
			return m.writeMapping(tx, domain.EntityUser, rec.legacyID, existing.ID)
		}
		user, err := tx.CreateUser(domain.User{
			FirstName: strings.TrimSpace(rec.row.String("first_name")),
			LastName:  strings.TrimSpace(rec.row.String("last_name")),
			Email:     rec.email,
			Phone:     normalize.FormatPhone(rec.row.String("phone")),
		})
		if err != nil {
			return err
		}
		if _, err := tx.CreateMembership(m.membershipFor(user.ID, rec)); err != nil {
			return err
		}
		return m.writeMapping(tx, domain.EntityUser, rec.legacyID, user.ID)
	})
	if outcome == OutcomeCreated && mappedOnly {
		outcome = OutcomeSkipped
	}
	return outcome, err
}

// membershipFor derives the annual membership interval from the legacy
// renewal fields. Lifetime memberships carry no end date.
func (m *Migrator) membershipFor(userID string, rec memberRecord) domain.Membership {
	mType := normalize.MembershipType(rec.row.String("member_type"))
	status := normalize.MembershipStatus(rec.row.String("status"))
	start, ok := normalize.ParseDate(rec.row.String("renewal_date"))
	if !ok {
		start, ok = normalize.ParseDate(rec.row.String("join_date"))
	}
	if !ok {
		start = m.now()
	}
	var end *time.Time
	if mType != domain.MembershipLifetime {
		e := start.AddDate(1, 0, 0)
		end = &e
	}
	return domain.Membership{UserID: userID, Type: mType, Status: status, StartDate: start, EndDate: end}
}

// migrateCompanion runs the independently-idempotent family fan-out: family,
// principal relink, spouse user, spouse membership and ledger row in one
// transaction.
func (m *Migrator) migrateCompanion(ctx context.Context, rec memberRecord, spouseFirst string) (Outcome, error) {
	legacyID := rec.legacyID + companionSuffix
	email := companionEmail(rec)
	mappedOnly := false
	outcome, err := m.migrateOnce(ctx, domain.EntityUser, legacyID, func(tx domain.Transaction) error {
		if existing, ok := tx.FindUserByEmail(email); ok {
			mappedOnly = true
			return m.writeMapping(tx, domain.EntityUser, legacyID, existing.ID)
		}
		principal, ok := tx.FindUserByEmail(rec.email)
		if !ok {
			return fmt.Errorf("principal %s not found for companion", rec.email)
		}
		family, err := tx.CreateFamily(domain.Family{
			Name: strings.TrimSpace(rec.row.String("last_name")) + " family",
		})
		if err != nil {
			return err
		}
		if _, err := tx.UpdateUser(principal.ID, func(u *domain.User) error {
			u.FamilyID = &family.ID
			u.FamilyRole = domain.FamilyRolePrimary
			return nil
		}); err != nil {
			return err
		}
		spouse, err := tx.CreateUser(domain.User{
			FirstName:  spouseFirst,
			LastName:   strings.TrimSpace(rec.row.String("last_name")),
			Email:      email,
			FamilyID:   &family.ID,
			FamilyRole: domain.FamilyRoleSpouse,
		})
		if err != nil {
			return err
		}
		membership := m.membershipFor(spouse.ID, rec)
		membership.Type = domain.MembershipFamily
		if _, err := tx.CreateMembership(membership); err != nil {
			return err
		}
		return m.writeMapping(tx, domain.EntityUser, legacyID, spouse.ID)
	})
	if outcome == OutcomeCreated && mappedOnly {
		outcome = OutcomeSkipped
	}
	return outcome, err
}

// companionEmail prefers the legacy spouse address when it exists and differs
// from the principal's; otherwise it synthesizes one by tagging the
// principal's local part.
func companionEmail(rec memberRecord) string {
	if se, ok := normalize.ExtractEmail(rec.row.String("spouse_email")); ok && se != rec.email {
		return se
	}
	return synthesizeCompanionEmail(rec.email)
}

func synthesizeCompanionEmail(principal string) string {
	at := strings.LastIndexByte(principal, '@')
	if at < 0 {
		return principal + companionTag
	}
	return principal[:at] + companionTag + principal[at:]
}

func (m *Migrator) writeMapping(tx domain.Transaction, entity domain.EntityType, legacyID, newID string) error {
	_, err := tx.CreateLegacyIDMapping(domain.LegacyIDMapping{EntityType: entity, LegacyID: legacyID, NewID: newID})
	return err
}
