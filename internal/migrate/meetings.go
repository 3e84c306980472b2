package migrate

import (
	"context"
	"fmt"
	"strings"

	"clubcore/internal/dump"
	"clubcore/internal/normalize"
	"clubcore/pkg/domain"
)

// backfillPrefix namespaces placeholder meetings synthesized for motion dates
// that have no legacy meeting record.
const backfillPrefix = "motion_date_"

// migrateMeetings migrates meeting minutes one-to-one and returns the
// date-string to new-id index the motions phase resolves against. Both the
// raw legacy string and the normalized yyyy-mm-dd form are indexed.
func (m *Migrator) migrateMeetings(ctx context.Context, d *dump.Dump) (PhaseReport, map[string]string, error) {
	phase := PhaseReport{Phase: "meetings"}
	index := make(map[string]string)

	tbl := d.Table("meetings")
	if err := tbl.Require("id", "meeting_date", "title"); err != nil {
		return phase, nil, err
	}
	if tbl == nil {
		return phase, index, nil
	}
	for _, row := range tbl.Rows {
		legacyID := row.String("id")
		raw := strings.TrimSpace(row.String("meeting_date"))
		date, ok := normalize.ParseDate(raw)
		if !ok {
			m.record(&phase, legacyID, OutcomeFailed, fmt.Errorf("unparsable meeting date %q", raw))
			continue
		}
		var newID string
		outcome, err := m.migrateOnce(ctx, domain.EntityMeetingMinutes, legacyID, func(tx domain.Transaction) error {
			meeting, err := tx.CreateMeetingMinutes(domain.MeetingMinutes{
				Date:     date,
				Title:    strings.TrimSpace(row.String("title")),
				Category: normalize.MeetingCategory(row.String("category")),
				Body:     row.String("minutes"),
			})
			if err != nil {
				return err
			}
			newID = meeting.ID
			return m.writeMapping(tx, domain.EntityMeetingMinutes, legacyID, meeting.ID)
		})
		if outcome == OutcomeSkipped {
			if mapping, ok, mErr := m.hasMapping(ctx, domain.EntityMeetingMinutes, legacyID); mErr == nil && ok {
				newID = mapping.NewID
			}
		}
		m.record(&phase, legacyID, outcome, err)
		if newID != "" {
			index[raw] = newID
			index[date.Format("2006-01-02")] = newID
		}
	}
	return phase, index, nil
}

// migrateMotions first backfills a placeholder board meeting for every motion
// date absent from the index, then migrates motions one-to-one. A motion whose
// date resolves to no meeting even after backfill is a record failure, never
// a silent drop.
func (m *Migrator) migrateMotions(ctx context.Context, d *dump.Dump, index map[string]string) (PhaseReport, error) {
	phase := PhaseReport{Phase: "motions"}

	tbl := d.Table("motions")
	if err := tbl.Require("id", "meeting_date", "description"); err != nil {
		return phase, err
	}
	if tbl == nil {
		return phase, nil
	}

	m.backfillMeetings(ctx, &phase, tbl, index)

	for _, row := range tbl.Rows {
		legacyID := row.String("id")
		raw := strings.TrimSpace(row.String("meeting_date"))
		meetingID := lookupMeeting(index, raw)
		if meetingID == "" {
			m.record(&phase, legacyID, OutcomeFailed, fmt.Errorf("no meeting resolvable for date %q", raw))
			continue
		}
		outcome, err := m.migrateOnce(ctx, domain.EntityMotion, legacyID, func(tx domain.Transaction) error {
			motion, err := tx.CreateMotion(domain.Motion{
				MeetingID:   meetingID,
				Description: strings.TrimSpace(row.String("description")),
				MovedBy:     strings.TrimSpace(row.String("moved_by")),
				SecondedBy:  strings.TrimSpace(row.String("seconded_by")),
				Outcome:     normalize.MotionOutcome(row.String("outcome")),
			})
			if err != nil {
				return err
			}
			return m.writeMapping(tx, domain.EntityMotion, legacyID, motion.ID)
		})
		m.record(&phase, legacyID, outcome, err)
	}
	return phase, nil
}

// backfillMeetings groups motions by raw date string and synthesizes one
// placeholder board meeting per group missing from the index, so every
// parsable motion date resolves a parent afterwards.
func (m *Migrator) backfillMeetings(ctx context.Context, phase *PhaseReport, tbl *dump.Table, index map[string]string) {
	seen := make(map[string]bool)
	for _, row := range tbl.Rows {
		raw := strings.TrimSpace(row.String("meeting_date"))
		if seen[raw] || lookupMeeting(index, raw) != "" {
			continue
		}
		seen[raw] = true
		date, ok := normalize.ParseDate(raw)
		if !ok {
			continue // the motion itself fails below with a logged reason
		}
		legacyID := backfillPrefix + raw
		var newID string
		_, err := m.migrateOnce(ctx, domain.EntityMeetingMinutes, legacyID, func(tx domain.Transaction) error {
			meeting, err := tx.CreateMeetingMinutes(domain.MeetingMinutes{
				Date:     date,
				Title:    fmt.Sprintf("Board meeting %s", raw),
				Category: domain.MeetingBoard,
			})
			if err != nil {
				return err
			}
			newID = meeting.ID
			return m.writeMapping(tx, domain.EntityMeetingMinutes, legacyID, meeting.ID)
		})
		if err != nil {
			m.record(phase, legacyID, OutcomeFailed, err)
			continue
		}
		if newID == "" {
			if mapping, ok, mErr := m.hasMapping(ctx, domain.EntityMeetingMinutes, legacyID); mErr == nil && ok {
				newID = mapping.NewID
			}
		}
		if newID != "" {
			index[raw] = newID
			index[date.Format("2006-01-02")] = newID
		}
	}
}

func lookupMeeting(index map[string]string, raw string) string {
	if id, ok := index[raw]; ok {
		return id
	}
	if date, ok := normalize.ParseDate(raw); ok {
		return index[date.Format("2006-01-02")]
	}
	return ""
}
