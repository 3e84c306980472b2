package domain

import (
	"context"
	"fmt"
)

// Transaction exposes the domain operations a persistence implementation must
// support within one atomic scope. Each migrated record commits or rolls back
// through exactly one transaction.
type Transaction interface {
	Snapshot() TransactionView
	CreateUser(User) (User, error)
	UpdateUser(id string, mutator func(*User) error) (User, error)
	CreateFamily(Family) (Family, error)
	CreateMembership(Membership) (Membership, error)
	CreateMeetingMinutes(MeetingMinutes) (MeetingMinutes, error)
	CreateMotion(Motion) (Motion, error)
	CreateEventConfiguration(EventConfiguration) (EventConfiguration, error)
	CreateEventFinancialLine(EventFinancialLine) (EventFinancialLine, error)
	CreateEventRegistration(EventRegistration) (EventRegistration, error)
	CreateSponsor(Sponsor) (Sponsor, error)
	CreateBoardMember(BoardMember) (BoardMember, error)
	CreateOutreachAssignment(OutreachAssignment) (OutreachAssignment, error)
	CreateLegacyIDMapping(LegacyIDMapping) (LegacyIDMapping, error)
	FindUserByEmail(email string) (User, bool)
	FindLegacyIDMapping(entity EntityType, legacyID string) (LegacyIDMapping, bool)
	FindEventConfigurationByYear(year int) (EventConfiguration, bool)
	FindEventRegistration(configurationID, email string) (EventRegistration, bool)
}

// TransactionView provides read-only access to committed or in-flight state.
type TransactionView interface {
	GetUser(id string) (User, bool)
	FindUserByEmail(email string) (User, bool)
	FindLegacyIDMapping(entity EntityType, legacyID string) (LegacyIDMapping, bool)
	FindLegacyIDMappingByNewID(entity EntityType, newID string) (LegacyIDMapping, bool)
	FindEventConfigurationByYear(year int) (EventConfiguration, bool)
	FindEventRegistration(configurationID, email string) (EventRegistration, bool)
	ListUsers() []User
	ListFamilies() []Family
	ListMemberships() []Membership
	ListMeetingMinutes() []MeetingMinutes
	ListMotions() []Motion
	ListEventConfigurations() []EventConfiguration
	ListEventFinancialLines() []EventFinancialLine
	ListEventRegistrations() []EventRegistration
	ListSponsors() []Sponsor
	ListBoardMembers() []BoardMember
	ListOutreachAssignments() []OutreachAssignment
	ListLegacyIDMappings() []LegacyIDMapping
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by the migration engine.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) error
	View(ctx context.Context, fn func(TransactionView) error) error
}

// ErrNotFound is returned when reference resolution fails inside a transaction.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ErrDuplicate is returned when a store-level uniqueness constraint rejects a
// create. The migration relies on it to catch synthetic-email collisions.
type ErrDuplicate struct {
	Entity EntityType
	Field  string
	Value  string
}

func (e ErrDuplicate) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}
