// Package domain defines the target-schema entities and the persistence
// primitives the migration engine writes through.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain. The
// same identifiers namespace the legacy-id mapping ledger.
type EntityType string

// Supported entity type identifiers used in mapping rows and persistence buckets.
const (
	// EntityUser identifies a person record (principal or companion).
	EntityUser EntityType = "user"
	// EntityFamily identifies a family grouping record.
	EntityFamily EntityType = "family"
	// EntityMembership identifies a membership record.
	EntityMembership EntityType = "membership"
	// EntityMeetingMinutes identifies a meeting minutes record.
	EntityMeetingMinutes EntityType = "meeting_minutes"
	// EntityMotion identifies a motion record.
	EntityMotion EntityType = "motion"
	// EntityEventConfiguration identifies a per-year event configuration.
	EntityEventConfiguration EntityType = "event_configuration"
	// EntityEventFinancialLine identifies one category line of a yearly rollup.
	EntityEventFinancialLine EntityType = "event_financial_line"
	// EntityEventRegistration identifies a person's signup for one event year.
	EntityEventRegistration EntityType = "event_registration"
	// EntitySponsor identifies a sponsor record.
	EntitySponsor EntityType = "sponsor"
	// EntityBoardMember identifies a board seat record.
	EntityBoardMember EntityType = "board_member"
	// EntityOutreachAssignment identifies an outreach committee assignment.
	EntityOutreachAssignment EntityType = "outreach_assignment"
)

// FamilyRole distinguishes the principal from the companion inside a family.
type FamilyRole string

// Family roles assigned during member migration.
const (
	// FamilyRolePrimary marks the principal user of a family.
	FamilyRolePrimary FamilyRole = "primary"
	// FamilyRoleSpouse marks the companion user of a family.
	FamilyRoleSpouse FamilyRole = "spouse"
	// FamilyRoleNone marks a user without a family grouping.
	FamilyRoleNone FamilyRole = ""
)

// MembershipType is the new fixed membership vocabulary.
type MembershipType string

// Canonical membership types resolved from legacy free-text categories.
const (
	MembershipIndividual MembershipType = "individual"
	MembershipFamily     MembershipType = "family"
	MembershipLifetime   MembershipType = "lifetime"
	MembershipHonorary   MembershipType = "honorary"
)

// MembershipStatus is the new fixed membership status vocabulary.
type MembershipStatus string

// Canonical membership statuses resolved from legacy free-text statuses.
const (
	MembershipActive  MembershipStatus = "active"
	MembershipLapsed  MembershipStatus = "lapsed"
	MembershipPending MembershipStatus = "pending"
)

// MeetingCategory classifies meeting minutes.
type MeetingCategory string

// Meeting categories; backfilled placeholder meetings are always board meetings.
const (
	MeetingBoard   MeetingCategory = "board"
	MeetingGeneral MeetingCategory = "general"
)

// MotionOutcome is the fixed vocabulary for motion results.
type MotionOutcome string

// Canonical motion outcomes; unrecognized legacy text resolves to tabled.
const (
	MotionPassed MotionOutcome = "passed"
	MotionFailed MotionOutcome = "failed"
	MotionTabled MotionOutcome = "tabled"
)

// FinancialCategory tags one line of a yearly event financial rollup.
type FinancialCategory string

// Financial categories matching the five rollup columns of the legacy export.
const (
	FinancialFacilities    FinancialCategory = "facilities"
	FinancialCatering      FinancialCategory = "catering"
	FinancialSupplies      FinancialCategory = "supplies"
	FinancialEntertainment FinancialCategory = "entertainment"
	FinancialMisc          FinancialCategory = "misc"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents a person record, either a principal member or a companion.
type User struct {
	Base
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	FamilyID   *string    `json:"family_id"`
	FamilyRole FamilyRole `json:"family_role,omitempty"`
}

// Family groups exactly one principal and, optionally, one companion.
type Family struct {
	Base
	Name string `json:"name"`
}

// Membership carries the type, status, and date range derived from legacy
// renewal fields. EndDate is absent for lifetime memberships.
type Membership struct {
	Base
	UserID    string           `json:"user_id"`
	Type      MembershipType   `json:"type"`
	Status    MembershipStatus `json:"status"`
	StartDate time.Time        `json:"start_date"`
	EndDate   *time.Time       `json:"end_date"`
}

// MeetingMinutes is either migrated 1:1 from a legacy meeting record or
// synthesized as a placeholder when a motion references an unknown date.
type MeetingMinutes struct {
	Base
	Date     time.Time       `json:"date"`
	Title    string          `json:"title"`
	Category MeetingCategory `json:"category"`
	Body     string          `json:"body,omitempty"`
}

// Motion always references an existing MeetingMinutes record.
type Motion struct {
	Base
	MeetingID   string        `json:"meeting_id"`
	Description string        `json:"description"`
	MovedBy     string        `json:"moved_by,omitempty"`
	SecondedBy  string        `json:"seconded_by,omitempty"`
	Outcome     MotionOutcome `json:"outcome"`
}

// EventConfiguration holds the per-year settings for the annual flagship event.
type EventConfiguration struct {
	Base
	Year           int       `json:"year"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	PricePerPerson float64   `json:"price_per_person"`
	Capacity       int       `json:"capacity"`
}

// EventFinancialLine is one category-tagged line fanned out from the per-year
// financial rollup row.
type EventFinancialLine struct {
	Base
	ConfigurationID string            `json:"configuration_id"`
	Category        FinancialCategory `json:"category"`
	Amount          float64           `json:"amount"`
}

// EventRegistration is a person's signup against one year's configuration,
// unique per (configuration, email).
type EventRegistration struct {
	Base
	ConfigurationID string  `json:"configuration_id"`
	UserID          *string `json:"user_id"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	AmountPaid      float64 `json:"amount_paid"`
	Notes           string  `json:"notes,omitempty"`
}

// Sponsor records an organization or person sponsoring the club.
type Sponsor struct {
	Base
	Name        string `json:"name"`
	ContactName string `json:"contact_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Level       string `json:"level,omitempty"`
}

// BoardMember links a migrated user to a board position and term.
type BoardMember struct {
	Base
	UserID    string     `json:"user_id"`
	Position  string     `json:"position"`
	TermStart *time.Time `json:"term_start"`
	TermEnd   *time.Time `json:"term_end"`
}

// OutreachAssignment links a migrated user to an outreach committee role.
type OutreachAssignment struct {
	Base
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// LegacyIDMapping is the idempotency ledger: one row per successfully
// migrated legacy record, unique on (EntityType, LegacyID). It must remain
// queryable indefinitely so later corrective scripts can resolve legacy ids.
type LegacyIDMapping struct {
	Base
	EntityType EntityType `json:"entity_type"`
	LegacyID   string     `json:"legacy_id"`
	NewID      string     `json:"new_id"`
}
