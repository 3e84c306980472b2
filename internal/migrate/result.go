package migrate

import (
	"fmt"
	"sort"
	"strings"

	"clubcore/pkg/domain"
)

// Outcome classifies what happened to one legacy record. Failure is an
// expected, frequent result in dirty dumps, so it is modeled as a value
// rather than an error that bubbles up.
type Outcome string

const (
	// OutcomeCreated means the record was migrated and its mapping written.
	OutcomeCreated Outcome = "created"
	// OutcomeSkipped means the idempotency ledger already covered the record.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means the record was rejected at its own boundary and
	// the run moved on.
	OutcomeFailed Outcome = "failed"
	// OutcomeMerged means the record was folded into a higher-priority
	// source row instead of migrating on its own.
	OutcomeMerged Outcome = "merged"
)

// Failure records one failed legacy record with enough detail for an
// operator to chase it in the dump.
type Failure struct {
	LegacyID string
	Reason   string
}

// Tally accumulates outcomes for one phase.
type Tally struct {
	Created int
	Skipped int
	Failed  int
	Merged  int
}

func (t *Tally) add(o Outcome) {
	switch o {
	case OutcomeCreated:
		t.Created++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomeFailed:
		t.Failed++
	case OutcomeMerged:
		t.Merged++
	}
}

// Total is the number of records the phase looked at.
func (t Tally) Total() int {
	return t.Created + t.Skipped + t.Failed + t.Merged
}

func (t Tally) String() string {
	parts := []string{
		fmt.Sprintf("created=%d", t.Created),
		fmt.Sprintf("skipped=%d", t.Skipped),
		fmt.Sprintf("failed=%d", t.Failed),
	}
	if t.Merged > 0 {
		parts = append(parts, fmt.Sprintf("merged=%d", t.Merged))
	}
	return strings.Join(parts, " ")
}

// PhaseReport is the result of one ordered migration phase.
type PhaseReport struct {
	Phase    string
	Tally    Tally
	Failures []Failure
}

// Report aggregates an entire run.
type Report struct {
	Phases        []PhaseReport
	DroppedTuples map[string]int
	// Counts holds post-run entity totals read back from the store.
	Counts map[domain.EntityType]int
}

// Total sums the tallies of every phase.
func (r *Report) Total() Tally {
	var t Tally
	for _, p := range r.Phases {
		t.Created += p.Tally.Created
		t.Skipped += p.Tally.Skipped
		t.Failed += p.Tally.Failed
		t.Merged += p.Tally.Merged
	}
	return t
}

// Failures flattens every phase's failures, phase name prefixed.
func (r *Report) Failures() []string {
	var out []string
	for _, p := range r.Phases {
		for _, f := range p.Failures {
			out = append(out, fmt.Sprintf("%s %s: %s", p.Phase, f.LegacyID, f.Reason))
		}
	}
	return out
}

// SortedCounts returns the post-run counts as stable lines for logging.
func (r *Report) SortedCounts() []string {
	keys := make([]string, 0, len(r.Counts))
	for k := range r.Counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%d", k, r.Counts[domain.EntityType(k)]))
	}
	return out
}
