package migrate

import (
	"expvar"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Recorder receives one observation per processed legacy record. A run can
// carry several recorders at once.
type Recorder interface {
	Record(phase string, outcome Outcome)
}

// NopRecorder discards observations.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(string, Outcome) {}

// MultiRecorder fans observations out to every wrapped recorder.
func MultiRecorder(recs ...Recorder) Recorder {
	return multiRecorder(recs)
}

type multiRecorder []Recorder

func (m multiRecorder) Record(phase string, outcome Outcome) {
	for _, r := range m {
		r.Record(phase, outcome)
	}
}

var (
	expvarSeq uint64
	expvarMu  sync.Mutex
	// expvarRecs maps export names to their live recorder so constructing a
	// second recorder under the same name rebinds the export instead of
	// tripping expvar's duplicate-name panic.
	expvarRecs = make(map[string]*ExpvarRecorder)
)

// ExpvarRecorder publishes per-phase outcome counters via expvar, for
// deployments that prefer process-local metrics without external scrape
// infrastructure.
type ExpvarRecorder struct {
	name   string
	mu     sync.Mutex
	counts map[string]map[Outcome]int64
}

// ExpvarSnapshot is a read-only view of the recorded counters.
type ExpvarSnapshot struct {
	Outcomes   map[string]map[Outcome]int64 `json:"outcomes_total"`
	RecordedAt time.Time                    `json:"recorded_at"`
}

// NewExpvarRecorder constructs an expvar-backed recorder published under the
// supplied name. When name is empty, a unique identifier is generated.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("clubcore_migration_metrics_%d", id)
	}
	rec := &ExpvarRecorder{name: name, counts: make(map[string]map[Outcome]int64)}
	expvarMu.Lock()
	_, rebind := expvarRecs[name]
	expvarRecs[name] = rec
	expvarMu.Unlock()
	if !rebind {
		expvar.Publish(name, expvar.Func(func() any {
			expvarMu.Lock()
			current := expvarRecs[name]
			expvarMu.Unlock()
			return current.Snapshot()
		}))
	}
	return rec
}

// Name returns the expvar export name associated with the recorder.
func (r *ExpvarRecorder) Name() string { return r.name }

// Record implements Recorder.
func (r *ExpvarRecorder) Record(phase string, outcome Outcome) {
	if phase == "" {
		return
	}
	r.mu.Lock()
	if _, ok := r.counts[phase]; !ok {
		r.counts[phase] = make(map[Outcome]int64, 4)
	}
	r.counts[phase][outcome]++
	r.mu.Unlock()
}

// Snapshot returns an immutable copy of the counters.
func (r *ExpvarRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]map[Outcome]int64, len(r.counts))
	for phase, by := range r.counts {
		cpy := make(map[Outcome]int64, len(by))
		for o, n := range by {
			cpy[o] = n
		}
		counts[phase] = cpy
	}
	return ExpvarSnapshot{Outcomes: counts, RecordedAt: time.Now().UTC()}
}

// PrometheusRecorder counts record outcomes on a private registry so a run
// can be dumped in text exposition format afterwards. The migrator is a
// batch tool, so the counters are written to a file at the end of the run
// rather than scraped.
type PrometheusRecorder struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
}

// NewPrometheusRecorder constructs a recorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clubcore",
		Subsystem: "migration",
		Name:      "records_total",
		Help:      "Legacy records processed, by phase and outcome.",
	}, []string{"phase", "outcome"})
	reg.MustRegister(records)
	return &PrometheusRecorder{registry: reg, records: records}
}

// Record implements Recorder.
func (r *PrometheusRecorder) Record(phase string, outcome Outcome) {
	r.records.WithLabelValues(phase, string(outcome)).Inc()
}

// Gather exposes the underlying registry for tests.
func (r *PrometheusRecorder) Gather() prometheus.Gatherer { return r.registry }

// WriteTo renders the counters in Prometheus text exposition format.
func (r *PrometheusRecorder) WriteTo(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
