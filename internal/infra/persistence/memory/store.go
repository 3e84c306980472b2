// Package memory provides an in-memory implementation of the domain
// persistence store used for tests and as the transactional core of the
// durable backends.
package memory

import (
	"clubcore/pkg/domain"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// User aliases domain.User for in-memory persistence operations.
	User = domain.User
	// Family aliases domain.Family.
	Family = domain.Family
	// Membership aliases domain.Membership.
	Membership = domain.Membership
	// MeetingMinutes aliases domain.MeetingMinutes.
	MeetingMinutes = domain.MeetingMinutes
	// Motion aliases domain.Motion.
	Motion = domain.Motion
	// EventConfiguration aliases domain.EventConfiguration.
	EventConfiguration = domain.EventConfiguration
	// EventFinancialLine aliases domain.EventFinancialLine.
	EventFinancialLine = domain.EventFinancialLine
	// EventRegistration aliases domain.EventRegistration.
	EventRegistration = domain.EventRegistration
	// Sponsor aliases domain.Sponsor.
	Sponsor = domain.Sponsor
	// BoardMember aliases domain.BoardMember.
	BoardMember = domain.BoardMember
	// OutreachAssignment aliases domain.OutreachAssignment.
	OutreachAssignment = domain.OutreachAssignment
	// LegacyIDMapping aliases domain.LegacyIDMapping.
	LegacyIDMapping = domain.LegacyIDMapping
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases domain.PersistentStore abstraction.
	PersistentStore = domain.PersistentStore
)

type memoryState struct {
	users          map[string]User
	families       map[string]Family
	memberships    map[string]Membership
	meetings       map[string]MeetingMinutes
	motions        map[string]Motion
	eventConfigs   map[string]EventConfiguration
	financialLines map[string]EventFinancialLine
	registrations  map[string]EventRegistration
	sponsors       map[string]Sponsor
	boardMembers   map[string]BoardMember
	outreach       map[string]OutreachAssignment
	mappings       map[string]LegacyIDMapping
}

// Snapshot captures a point-in-time clone of the store state for durable
// backends to persist and reload.
type Snapshot struct {
	Users          map[string]User               `json:"users"`
	Families       map[string]Family             `json:"families"`
	Memberships    map[string]Membership         `json:"memberships"`
	Meetings       map[string]MeetingMinutes     `json:"meetings"`
	Motions        map[string]Motion             `json:"motions"`
	EventConfigs   map[string]EventConfiguration `json:"event_configs"`
	FinancialLines map[string]EventFinancialLine `json:"financial_lines"`
	Registrations  map[string]EventRegistration  `json:"registrations"`
	Sponsors       map[string]Sponsor            `json:"sponsors"`
	BoardMembers   map[string]BoardMember        `json:"board_members"`
	Outreach       map[string]OutreachAssignment `json:"outreach"`
	Mappings       map[string]LegacyIDMapping    `json:"mappings"`
}

func newMemoryState() memoryState {
	return memoryState{
		users:          make(map[string]User),
		families:       make(map[string]Family),
		memberships:    make(map[string]Membership),
		meetings:       make(map[string]MeetingMinutes),
		motions:        make(map[string]Motion),
		eventConfigs:   make(map[string]EventConfiguration),
		financialLines: make(map[string]EventFinancialLine),
		registrations:  make(map[string]EventRegistration),
		sponsors:       make(map[string]Sponsor),
		boardMembers:   make(map[string]BoardMember),
		outreach:       make(map[string]OutreachAssignment),
		mappings:       make(map[string]LegacyIDMapping),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.users {
		cloned.users[k] = cloneUser(v)
	}
	for k, v := range s.families {
		cloned.families[k] = v
	}
	for k, v := range s.memberships {
		cloned.memberships[k] = cloneMembership(v)
	}
	for k, v := range s.meetings {
		cloned.meetings[k] = v
	}
	for k, v := range s.motions {
		cloned.motions[k] = v
	}
	for k, v := range s.eventConfigs {
		cloned.eventConfigs[k] = v
	}
	for k, v := range s.financialLines {
		cloned.financialLines[k] = v
	}
	for k, v := range s.registrations {
		cloned.registrations[k] = cloneRegistration(v)
	}
	for k, v := range s.sponsors {
		cloned.sponsors[k] = v
	}
	for k, v := range s.boardMembers {
		cloned.boardMembers[k] = cloneBoardMember(v)
	}
	for k, v := range s.outreach {
		cloned.outreach[k] = v
	}
	for k, v := range s.mappings {
		cloned.mappings[k] = v
	}
	return cloned
}

func cloneUser(u User) User {
	cp := u
	if u.FamilyID != nil {
		id := *u.FamilyID
		cp.FamilyID = &id
	}
	return cp
}

func cloneMembership(m Membership) Membership {
	cp := m
	if m.EndDate != nil {
		t := *m.EndDate
		cp.EndDate = &t
	}
	return cp
}

func cloneRegistration(r EventRegistration) EventRegistration {
	cp := r
	if r.UserID != nil {
		id := *r.UserID
		cp.UserID = &id
	}
	return cp
}

func cloneBoardMember(b BoardMember) BoardMember {
	cp := b
	if b.TermStart != nil {
		t := *b.TermStart
		cp.TermStart = &t
	}
	if b.TermEnd != nil {
		t := *b.TermEnd
		cp.TermEnd = &t
	}
	return cp
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Users:          make(map[string]User, len(state.users)),
		Families:       make(map[string]Family, len(state.families)),
		Memberships:    make(map[string]Membership, len(state.memberships)),
		Meetings:       make(map[string]MeetingMinutes, len(state.meetings)),
		Motions:        make(map[string]Motion, len(state.motions)),
		EventConfigs:   make(map[string]EventConfiguration, len(state.eventConfigs)),
		FinancialLines: make(map[string]EventFinancialLine, len(state.financialLines)),
		Registrations:  make(map[string]EventRegistration, len(state.registrations)),
		Sponsors:       make(map[string]Sponsor, len(state.sponsors)),
		BoardMembers:   make(map[string]BoardMember, len(state.boardMembers)),
		Outreach:       make(map[string]OutreachAssignment, len(state.outreach)),
		Mappings:       make(map[string]LegacyIDMapping, len(state.mappings)),
	}
	for k, v := range state.users {
		s.Users[k] = cloneUser(v)
	}
	for k, v := range state.families {
		s.Families[k] = v
	}
	for k, v := range state.memberships {
		s.Memberships[k] = cloneMembership(v)
	}
	for k, v := range state.meetings {
		s.Meetings[k] = v
	}
	for k, v := range state.motions {
		s.Motions[k] = v
	}
	for k, v := range state.eventConfigs {
		s.EventConfigs[k] = v
	}
	for k, v := range state.financialLines {
		s.FinancialLines[k] = v
	}
	for k, v := range state.registrations {
		s.Registrations[k] = cloneRegistration(v)
	}
	for k, v := range state.sponsors {
		s.Sponsors[k] = v
	}
	for k, v := range state.boardMembers {
		s.BoardMembers[k] = cloneBoardMember(v)
	}
	for k, v := range state.outreach {
		s.Outreach[k] = v
	}
	for k, v := range state.mappings {
		s.Mappings[k] = v
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for k, v := range s.Users {
		state.users[k] = cloneUser(v)
	}
	for k, v := range s.Families {
		state.families[k] = v
	}
	for k, v := range s.Memberships {
		state.memberships[k] = cloneMembership(v)
	}
	for k, v := range s.Meetings {
		state.meetings[k] = v
	}
	for k, v := range s.Motions {
		state.motions[k] = v
	}
	for k, v := range s.EventConfigs {
		state.eventConfigs[k] = v
	}
	for k, v := range s.FinancialLines {
		state.financialLines[k] = v
	}
	for k, v := range s.Registrations {
		state.registrations[k] = cloneRegistration(v)
	}
	for k, v := range s.Sponsors {
		state.sponsors[k] = v
	}
	for k, v := range s.BoardMembers {
		state.boardMembers[k] = cloneBoardMember(v)
	}
	for k, v := range s.Outreach {
		state.outreach[k] = v
	}
	for k, v := range s.Mappings {
		state.mappings[k] = v
	}
	return state
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu    sync.RWMutex
	state memoryState
	nowFn func() time.Time
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		state: newMemoryState(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState clones the current store state for external persistence.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// SetNowFunc overrides the time provider; intended for tests.
func (s *Store) SetNowFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// RunInTransaction executes fn within a transactional copy of the store
// state. The copy replaces the live state only when fn returns nil, so a
// failed record leaves no orphaned child rows behind.
func (s *Store) RunInTransaction(_ context.Context, fn func(tx Transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(transactionView{state: &snapshot})
}

type transaction struct {
	store *Store
	state memoryState
	now   time.Time
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return transactionView{state: &tx.state}
}

// CreateUser stores a new user, enforcing case-insensitive email uniqueness.
func (tx *transaction) CreateUser(u User) (User, error) {
	if u.ID == "" {
		u.ID = tx.store.newID()
	}
	if _, exists := tx.state.users[u.ID]; exists {
		return User{}, fmt.Errorf("user %q already exists", u.ID)
	}
	if strings.TrimSpace(u.Email) == "" {
		return User{}, errors.New("user requires an email")
	}
	if existing, ok := findUserByEmail(&tx.state, u.Email); ok {
		return User{}, domain.ErrDuplicate{Entity: domain.EntityUser, Field: "email", Value: existing.Email}
	}
	u.CreatedAt = tx.now
	u.UpdatedAt = tx.now
	tx.state.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

// UpdateUser mutates a user using the provided mutator function.
func (tx *transaction) UpdateUser(id string, mutator func(*User) error) (User, error) {
	current, ok := tx.state.users[id]
	if !ok {
		return User{}, domain.ErrNotFound{Entity: domain.EntityUser, ID: id}
	}
	before := cloneUser(current)
	if err := mutator(&current); err != nil {
		return User{}, err
	}
	if !strings.EqualFold(before.Email, current.Email) {
		if existing, ok := findUserByEmail(&tx.state, current.Email); ok && existing.ID != id {
			return User{}, domain.ErrDuplicate{Entity: domain.EntityUser, Field: "email", Value: existing.Email}
		}
	}
	current.ID = id
	current.UpdatedAt = tx.now
	tx.state.users[id] = cloneUser(current)
	return cloneUser(current), nil
}

// CreateFamily stores a new family grouping.
func (tx *transaction) CreateFamily(f Family) (Family, error) {
	if f.ID == "" {
		f.ID = tx.store.newID()
	}
	if _, exists := tx.state.families[f.ID]; exists {
		return Family{}, fmt.Errorf("family %q already exists", f.ID)
	}
	f.CreatedAt = tx.now
	f.UpdatedAt = tx.now
	tx.state.families[f.ID] = f
	return f, nil
}

// CreateMembership stores a new membership linked to an existing user.
func (tx *transaction) CreateMembership(m Membership) (Membership, error) {
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.memberships[m.ID]; exists {
		return Membership{}, fmt.Errorf("membership %q already exists", m.ID)
	}
	if _, ok := tx.state.users[m.UserID]; !ok {
		return Membership{}, domain.ErrNotFound{Entity: domain.EntityUser, ID: m.UserID}
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.memberships[m.ID] = cloneMembership(m)
	return cloneMembership(m), nil
}

// CreateMeetingMinutes stores a meeting minutes record.
func (tx *transaction) CreateMeetingMinutes(m MeetingMinutes) (MeetingMinutes, error) {
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.meetings[m.ID]; exists {
		return MeetingMinutes{}, fmt.Errorf("meeting minutes %q already exists", m.ID)
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.meetings[m.ID] = m
	return m, nil
}

// CreateMotion stores a motion; the referenced meeting must already exist.
func (tx *transaction) CreateMotion(m Motion) (Motion, error) {
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.motions[m.ID]; exists {
		return Motion{}, fmt.Errorf("motion %q already exists", m.ID)
	}
	if _, ok := tx.state.meetings[m.MeetingID]; !ok {
		return Motion{}, domain.ErrNotFound{Entity: domain.EntityMeetingMinutes, ID: m.MeetingID}
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.motions[m.ID] = m
	return m, nil
}

// CreateEventConfiguration stores a per-year configuration, unique per year.
func (tx *transaction) CreateEventConfiguration(c EventConfiguration) (EventConfiguration, error) {
	if c.ID == "" {
		c.ID = tx.store.newID()
	}
	if _, exists := tx.state.eventConfigs[c.ID]; exists {
		return EventConfiguration{}, fmt.Errorf("event configuration %q already exists", c.ID)
	}
	for _, existing := range tx.state.eventConfigs {
		if existing.Year == c.Year {
			return EventConfiguration{}, domain.ErrDuplicate{Entity: domain.EntityEventConfiguration, Field: "year", Value: fmt.Sprint(c.Year)}
		}
	}
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.eventConfigs[c.ID] = c
	return c, nil
}

// CreateEventFinancialLine stores one category line referencing its configuration.
func (tx *transaction) CreateEventFinancialLine(l EventFinancialLine) (EventFinancialLine, error) {
	if l.ID == "" {
		l.ID = tx.store.newID()
	}
	if _, exists := tx.state.financialLines[l.ID]; exists {
		return EventFinancialLine{}, fmt.Errorf("financial line %q already exists", l.ID)
	}
	if _, ok := tx.state.eventConfigs[l.ConfigurationID]; !ok {
		return EventFinancialLine{}, domain.ErrNotFound{Entity: domain.EntityEventConfiguration, ID: l.ConfigurationID}
	}
	l.CreatedAt = tx.now
	l.UpdatedAt = tx.now
	tx.state.financialLines[l.ID] = l
	return l, nil
}

// CreateEventRegistration stores a registration, unique per (configuration, email).
func (tx *transaction) CreateEventRegistration(r EventRegistration) (EventRegistration, error) {
	if r.ID == "" {
		r.ID = tx.store.newID()
	}
	if _, exists := tx.state.registrations[r.ID]; exists {
		return EventRegistration{}, fmt.Errorf("registration %q already exists", r.ID)
	}
	if _, ok := tx.state.eventConfigs[r.ConfigurationID]; !ok {
		return EventRegistration{}, domain.ErrNotFound{Entity: domain.EntityEventConfiguration, ID: r.ConfigurationID}
	}
	if r.UserID != nil {
		if _, ok := tx.state.users[*r.UserID]; !ok {
			return EventRegistration{}, domain.ErrNotFound{Entity: domain.EntityUser, ID: *r.UserID}
		}
	}
	if r.Email != "" {
		if _, ok := findRegistration(&tx.state, r.ConfigurationID, r.Email); ok {
			return EventRegistration{}, domain.ErrDuplicate{Entity: domain.EntityEventRegistration, Field: "email", Value: r.Email}
		}
	}
	r.CreatedAt = tx.now
	r.UpdatedAt = tx.now
	tx.state.registrations[r.ID] = cloneRegistration(r)
	return cloneRegistration(r), nil
}

// CreateSponsor stores a sponsor record.
func (tx *transaction) CreateSponsor(sp Sponsor) (Sponsor, error) {
	if sp.ID == "" {
		sp.ID = tx.store.newID()
	}
	if _, exists := tx.state.sponsors[sp.ID]; exists {
		return Sponsor{}, fmt.Errorf("sponsor %q already exists", sp.ID)
	}
	sp.CreatedAt = tx.now
	sp.UpdatedAt = tx.now
	tx.state.sponsors[sp.ID] = sp
	return sp, nil
}

// CreateBoardMember stores a board seat linked to an existing user.
func (tx *transaction) CreateBoardMember(b BoardMember) (BoardMember, error) {
	if b.ID == "" {
		b.ID = tx.store.newID()
	}
	if _, exists := tx.state.boardMembers[b.ID]; exists {
		return BoardMember{}, fmt.Errorf("board member %q already exists", b.ID)
	}
	if _, ok := tx.state.users[b.UserID]; !ok {
		return BoardMember{}, domain.ErrNotFound{Entity: domain.EntityUser, ID: b.UserID}
	}
	b.CreatedAt = tx.now
	b.UpdatedAt = tx.now
	tx.state.boardMembers[b.ID] = cloneBoardMember(b)
	return cloneBoardMember(b), nil
}

// CreateOutreachAssignment stores an outreach role linked to an existing user.
func (tx *transaction) CreateOutreachAssignment(o OutreachAssignment) (OutreachAssignment, error) {
	if o.ID == "" {
		o.ID = tx.store.newID()
	}
	if _, exists := tx.state.outreach[o.ID]; exists {
		return OutreachAssignment{}, fmt.Errorf("outreach assignment %q already exists", o.ID)
	}
	if _, ok := tx.state.users[o.UserID]; !ok {
		return OutreachAssignment{}, domain.ErrNotFound{Entity: domain.EntityUser, ID: o.UserID}
	}
	o.CreatedAt = tx.now
	o.UpdatedAt = tx.now
	tx.state.outreach[o.ID] = o
	return o, nil
}

// CreateLegacyIDMapping stores a ledger row, unique on (entity type, legacy id).
func (tx *transaction) CreateLegacyIDMapping(m LegacyIDMapping) (LegacyIDMapping, error) {
	if m.ID == "" {
		m.ID = tx.store.newID()
	}
	if _, exists := tx.state.mappings[m.ID]; exists {
		return LegacyIDMapping{}, fmt.Errorf("mapping %q already exists", m.ID)
	}
	if m.EntityType == "" || m.LegacyID == "" || m.NewID == "" {
		return LegacyIDMapping{}, errors.New("mapping requires entity type, legacy id, and new id")
	}
	if _, ok := findMapping(&tx.state, m.EntityType, m.LegacyID); ok {
		return LegacyIDMapping{}, domain.ErrDuplicate{Entity: m.EntityType, Field: "legacy_id", Value: m.LegacyID}
	}
	m.CreatedAt = tx.now
	m.UpdatedAt = tx.now
	tx.state.mappings[m.ID] = m
	return m, nil
}

// FindUserByEmail exposes user lookup within the transaction scope.
func (tx *transaction) FindUserByEmail(email string) (User, bool) {
	u, ok := findUserByEmail(&tx.state, email)
	if !ok {
		return User{}, false
	}
	return cloneUser(u), true
}

// FindLegacyIDMapping exposes ledger lookup within the transaction scope.
func (tx *transaction) FindLegacyIDMapping(entity domain.EntityType, legacyID string) (LegacyIDMapping, bool) {
	return findMapping(&tx.state, entity, legacyID)
}

// FindEventConfigurationByYear exposes configuration lookup within the transaction scope.
func (tx *transaction) FindEventConfigurationByYear(year int) (EventConfiguration, bool) {
	return findConfigByYear(&tx.state, year)
}

// FindEventRegistration exposes registration lookup within the transaction scope.
func (tx *transaction) FindEventRegistration(configurationID, email string) (EventRegistration, bool) {
	r, ok := findRegistration(&tx.state, configurationID, email)
	if !ok {
		return EventRegistration{}, false
	}
	return cloneRegistration(r), true
}

func findUserByEmail(state *memoryState, email string) (User, bool) {
	for _, u := range state.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}

func findMapping(state *memoryState, entity domain.EntityType, legacyID string) (LegacyIDMapping, bool) {
	for _, m := range state.mappings {
		if m.EntityType == entity && m.LegacyID == legacyID {
			return m, true
		}
	}
	return LegacyIDMapping{}, false
}

func findConfigByYear(state *memoryState, year int) (EventConfiguration, bool) {
	for _, c := range state.eventConfigs {
		if c.Year == year {
			return c, true
		}
	}
	return EventConfiguration{}, false
}

func findRegistration(state *memoryState, configurationID, email string) (EventRegistration, bool) {
	for _, r := range state.registrations {
		if r.ConfigurationID == configurationID && strings.EqualFold(r.Email, email) {
			return r, true
		}
	}
	return EventRegistration{}, false
}

type transactionView struct {
	state *memoryState
}

// GetUser retrieves a user by ID from the snapshot.
func (v transactionView) GetUser(id string) (User, bool) {
	u, ok := v.state.users[id]
	if !ok {
		return User{}, false
	}
	return cloneUser(u), true
}

// FindUserByEmail retrieves a user by email from the snapshot.
func (v transactionView) FindUserByEmail(email string) (User, bool) {
	u, ok := findUserByEmail(v.state, email)
	if !ok {
		return User{}, false
	}
	return cloneUser(u), true
}

// FindLegacyIDMapping retrieves a ledger row by (entity type, legacy id).
func (v transactionView) FindLegacyIDMapping(entity domain.EntityType, legacyID string) (LegacyIDMapping, bool) {
	return findMapping(v.state, entity, legacyID)
}

// FindLegacyIDMappingByNewID retrieves the ledger row resolving to a new id.
func (v transactionView) FindLegacyIDMappingByNewID(entity domain.EntityType, newID string) (LegacyIDMapping, bool) {
	for _, m := range v.state.mappings {
		if m.EntityType == entity && m.NewID == newID {
			return m, true
		}
	}
	return LegacyIDMapping{}, false
}

// FindEventConfigurationByYear retrieves a configuration by its year.
func (v transactionView) FindEventConfigurationByYear(year int) (EventConfiguration, bool) {
	return findConfigByYear(v.state, year)
}

// FindEventRegistration retrieves a registration by (configuration, email).
func (v transactionView) FindEventRegistration(configurationID, email string) (EventRegistration, bool) {
	r, ok := findRegistration(v.state, configurationID, email)
	if !ok {
		return EventRegistration{}, false
	}
	return cloneRegistration(r), true
}

// ListUsers returns all users ordered by id.
func (v transactionView) ListUsers() []User {
	out := make([]User, 0, len(v.state.users))
	for _, u := range v.state.users {
		out = append(out, cloneUser(u))
	}
	sortByID(out, func(u User) string { return u.ID })
	return out
}

// ListFamilies returns all families.
func (v transactionView) ListFamilies() []Family {
	out := make([]Family, 0, len(v.state.families))
	for _, f := range v.state.families {
		out = append(out, f)
	}
	sortByID(out, func(f Family) string { return f.ID })
	return out
}

// ListMemberships returns all memberships.
func (v transactionView) ListMemberships() []Membership {
	out := make([]Membership, 0, len(v.state.memberships))
	for _, m := range v.state.memberships {
		out = append(out, cloneMembership(m))
	}
	sortByID(out, func(m Membership) string { return m.ID })
	return out
}

// ListMeetingMinutes returns all meeting minutes records.
func (v transactionView) ListMeetingMinutes() []MeetingMinutes {
	out := make([]MeetingMinutes, 0, len(v.state.meetings))
	for _, m := range v.state.meetings {
		out = append(out, m)
	}
	sortByID(out, func(m MeetingMinutes) string { return m.ID })
	return out
}

// ListMotions returns all motions.
func (v transactionView) ListMotions() []Motion {
	out := make([]Motion, 0, len(v.state.motions))
	for _, m := range v.state.motions {
		out = append(out, m)
	}
	sortByID(out, func(m Motion) string { return m.ID })
	return out
}

// ListEventConfigurations returns all per-year configurations.
func (v transactionView) ListEventConfigurations() []EventConfiguration {
	out := make([]EventConfiguration, 0, len(v.state.eventConfigs))
	for _, c := range v.state.eventConfigs {
		out = append(out, c)
	}
	sortByID(out, func(c EventConfiguration) string { return c.ID })
	return out
}

// ListEventFinancialLines returns all financial lines.
func (v transactionView) ListEventFinancialLines() []EventFinancialLine {
	out := make([]EventFinancialLine, 0, len(v.state.financialLines))
	for _, l := range v.state.financialLines {
		out = append(out, l)
	}
	sortByID(out, func(l EventFinancialLine) string { return l.ID })
	return out
}

// ListEventRegistrations returns all registrations.
func (v transactionView) ListEventRegistrations() []EventRegistration {
	out := make([]EventRegistration, 0, len(v.state.registrations))
	for _, r := range v.state.registrations {
		out = append(out, cloneRegistration(r))
	}
	sortByID(out, func(r EventRegistration) string { return r.ID })
	return out
}

// ListSponsors returns all sponsors.
func (v transactionView) ListSponsors() []Sponsor {
	out := make([]Sponsor, 0, len(v.state.sponsors))
	for _, sp := range v.state.sponsors {
		out = append(out, sp)
	}
	sortByID(out, func(sp Sponsor) string { return sp.ID })
	return out
}

// ListBoardMembers returns all board seats.
func (v transactionView) ListBoardMembers() []BoardMember {
	out := make([]BoardMember, 0, len(v.state.boardMembers))
	for _, b := range v.state.boardMembers {
		out = append(out, cloneBoardMember(b))
	}
	sortByID(out, func(b BoardMember) string { return b.ID })
	return out
}

// ListOutreachAssignments returns all outreach roles.
func (v transactionView) ListOutreachAssignments() []OutreachAssignment {
	out := make([]OutreachAssignment, 0, len(v.state.outreach))
	for _, o := range v.state.outreach {
		out = append(out, o)
	}
	sortByID(out, func(o OutreachAssignment) string { return o.ID })
	return out
}

// ListLegacyIDMappings returns the full idempotency ledger.
func (v transactionView) ListLegacyIDMappings() []LegacyIDMapping {
	out := make([]LegacyIDMapping, 0, len(v.state.mappings))
	for _, m := range v.state.mappings {
		out = append(out, m)
	}
	sortByID(out, func(m LegacyIDMapping) string { return m.ID })
	return out
}

func sortByID[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
