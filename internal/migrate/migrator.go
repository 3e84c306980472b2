// Package migrate implements the one-shot legacy database migration: dump
// tables in, normalized entities plus an idempotency ledger out. Phases run
// sequentially in dependency order; each record commits or fails on its own.
package migrate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"clubcore/internal/dump"
	"clubcore/pkg/domain"
)

// Migrator drives the ordered phases against one persistent store.
type Migrator struct {
	store domain.PersistentStore
	rec   Recorder
	logf  func(format string, args ...any)
	now   func() time.Time
}

// Option customizes a Migrator.
type Option func(*Migrator)

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(m *Migrator) {
		if rec != nil {
			m.rec = rec
		}
	}
}

// WithLogf sets the progress log sink. The default discards.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(m *Migrator) {
		if logf != nil {
			m.logf = logf
		}
	}
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(m *Migrator) {
		if now != nil {
			m.now = now
		}
	}
}

// New constructs a Migrator writing into store.
func New(store domain.PersistentStore, opts ...Option) *Migrator {
	m := &Migrator{
		store: store,
		rec:   NopRecorder{},
		logf:  func(string, ...any) {},
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run executes every phase in dependency order and returns the aggregated
// report. Record-level failures are tallied inside the report; only fatal
// conditions (store unreachable) surface as an error.
func (m *Migrator) Run(ctx context.Context, d *dump.Dump) (*Report, error) {
	report := &Report{DroppedTuples: d.DroppedTuples()}
	m.logDroppedTuples(report.DroppedTuples)

	members, err := m.migrateMembers(ctx, d)
	if err != nil {
		return nil, err
	}
	m.addPhase(report, members)

	board, err := m.migrateBoardMembers(ctx, d)
	if err != nil {
		return nil, err
	}
	m.addPhase(report, board)

	meetings, meetingIndex, err := m.migrateMeetings(ctx, d)
	if err != nil {
		return nil, err
	}
	m.addPhase(report, meetings)

	motions, err := m.migrateMotions(ctx, d, meetingIndex)
	if err != nil {
		return nil, err
	}
	m.addPhase(report, motions)

	eventPhases, err := m.migrateEvents(ctx, d)
	if err != nil {
		return nil, err
	}
	for _, phase := range eventPhases {
		m.addPhase(report, phase)
	}

	sponsors, err := m.migrateSponsors(ctx, d)
	if err != nil {
		return nil, err
	}
	m.addPhase(report, sponsors)

	outreach, err := m.migrateOutreach(ctx, d)
	if err != nil {
		return nil, err
	}
	m.addPhase(report, outreach)

	if err := m.fillCounts(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (m *Migrator) addPhase(report *Report, phase PhaseReport) {
	report.Phases = append(report.Phases, phase)
	m.logf("phase %s: %s", phase.Phase, phase.Tally.String())
	for _, f := range phase.Failures {
		m.logf("phase %s: record %s failed: %s", phase.Phase, f.LegacyID, f.Reason)
	}
}

func (m *Migrator) logDroppedTuples(dropped map[string]int) {
	if len(dropped) == 0 {
		return
	}
	names := make([]string, 0, len(dropped))
	for name := range dropped {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.logf("warning: table %s: dropped %d malformed tuple(s)", name, dropped[name])
	}
}

// record tallies one outcome into the phase report and the recorder. Failures
// carry the legacy id and reason.
func (m *Migrator) record(phase *PhaseReport, legacyID string, outcome Outcome, err error) {
	phase.Tally.add(outcome)
	m.rec.Record(phase.Phase, outcome)
	if outcome == OutcomeFailed {
		reason := "unknown"
		if err != nil {
			reason = err.Error()
		}
		phase.Failures = append(phase.Failures, Failure{LegacyID: legacyID, Reason: reason})
	}
}

// hasMapping consults the idempotency ledger outside any write transaction.
func (m *Migrator) hasMapping(ctx context.Context, entity domain.EntityType, legacyID string) (domain.LegacyIDMapping, bool, error) {
	var mapping domain.LegacyIDMapping
	var ok bool
	err := m.store.View(ctx, func(v domain.TransactionView) error {
		mapping, ok = v.FindLegacyIDMapping(entity, legacyID)
		return nil
	})
	if err != nil {
		return domain.LegacyIDMapping{}, false, fmt.Errorf("read mapping ledger: %w", err)
	}
	return mapping, ok, nil
}

// migrateOnce is the per-record idempotency pattern: ledger hit means skip;
// otherwise create runs inside one transaction and must write the mapping row
// itself alongside the entities it creates.
func (m *Migrator) migrateOnce(ctx context.Context, entity domain.EntityType, legacyID string, create func(tx domain.Transaction) error) (Outcome, error) {
	if _, ok, err := m.hasMapping(ctx, entity, legacyID); err != nil {
		return OutcomeFailed, err
	} else if ok {
		return OutcomeSkipped, nil
	}
	if err := m.store.RunInTransaction(ctx, create); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeCreated, nil
}

func (m *Migrator) fillCounts(ctx context.Context, report *Report) error {
	report.Counts = make(map[domain.EntityType]int)
	err := m.store.View(ctx, func(v domain.TransactionView) error {
		report.Counts[domain.EntityUser] = len(v.ListUsers())
		report.Counts[domain.EntityFamily] = len(v.ListFamilies())
		report.Counts[domain.EntityMembership] = len(v.ListMemberships())
		report.Counts[domain.EntityMeetingMinutes] = len(v.ListMeetingMinutes())
		report.Counts[domain.EntityMotion] = len(v.ListMotions())
		report.Counts[domain.EntityEventConfiguration] = len(v.ListEventConfigurations())
		report.Counts[domain.EntityEventFinancialLine] = len(v.ListEventFinancialLines())
		report.Counts[domain.EntityEventRegistration] = len(v.ListEventRegistrations())
		report.Counts[domain.EntitySponsor] = len(v.ListSponsors())
		report.Counts[domain.EntityBoardMember] = len(v.ListBoardMembers())
		report.Counts[domain.EntityOutreachAssignment] = len(v.ListOutreachAssignments())
		return nil
	})
	if err != nil {
		return fmt.Errorf("read post-run counts: %w", err)
	}
	return nil
}
