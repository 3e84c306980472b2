package migrate

import (
	"expvar"
	"strings"
	"testing"
)

func TestExpvarRecorderCounts(t *testing.T) {
	rec := NewExpvarRecorder("")
	rec.Record("members", OutcomeCreated)
	rec.Record("members", OutcomeCreated)
	rec.Record("members", OutcomeFailed)
	rec.Record("", OutcomeCreated) // ignored

	snap := rec.Snapshot()
	if snap.Outcomes["members"][OutcomeCreated] != 2 {
		t.Errorf("created = %d", snap.Outcomes["members"][OutcomeCreated])
	}
	if snap.Outcomes["members"][OutcomeFailed] != 1 {
		t.Errorf("failed = %d", snap.Outcomes["members"][OutcomeFailed])
	}
	if len(snap.Outcomes) != 1 {
		t.Errorf("phases = %d", len(snap.Outcomes))
	}
}

func TestExpvarRecorderRebindsName(t *testing.T) {
	first := NewExpvarRecorder("rebind_test")
	first.Record("members", OutcomeCreated)

	second := NewExpvarRecorder("rebind_test")
	second.Record("members", OutcomeFailed)

	v := expvar.Get("rebind_test")
	if v == nil {
		t.Fatal("export missing")
	}
	out := v.String()
	if !strings.Contains(out, "failed") || strings.Contains(out, "created") {
		t.Errorf("export not bound to newest recorder: %s", out)
	}
}

func TestPrometheusRecorderWriteTo(t *testing.T) {
	rec := NewPrometheusRecorder()
	rec.Record("sponsors", OutcomeCreated)
	rec.Record("sponsors", OutcomeSkipped)

	var b strings.Builder
	if err := rec.WriteTo(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "clubcore_migration_records_total") {
		t.Errorf("metric family missing:\n%s", out)
	}
	if !strings.Contains(out, `phase="sponsors"`) || !strings.Contains(out, `outcome="created"`) {
		t.Errorf("labels missing:\n%s", out)
	}
}

func TestMultiRecorderFansOut(t *testing.T) {
	a := NewPrometheusRecorder()
	b := NewExpvarRecorder("")
	rec := MultiRecorder(a, b)
	rec.Record("motions", OutcomeFailed)

	if b.Snapshot().Outcomes["motions"][OutcomeFailed] != 1 {
		t.Error("expvar recorder missed the observation")
	}
	families, err := a.Gather().Gather()
	if err != nil || len(families) != 1 {
		t.Fatalf("gather: %v, %d families", err, len(families))
	}
}
