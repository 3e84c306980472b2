package migrate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"clubcore/internal/dump"
	"clubcore/internal/normalize"
	"clubcore/pkg/domain"
)

const (
	// eventEndOffsetDays derives a missing end date from the start date.
	eventEndOffsetDays = 3
	// defaultEventPrice applies when the legacy price is missing or zero.
	defaultEventPrice = 85
	// defaultEventCapacity applies when the legacy capacity is missing or zero.
	defaultEventCapacity = 150
	// attendeeTablePrefix is the family of year-suffixed simple attendee tables.
	attendeeTablePrefix = "obs_attendees_"
)

// financialColumns maps rollup columns onto line categories, in fan-out order.
var financialColumns = []struct {
	column   string
	category domain.FinancialCategory
}{
	{"facilities", domain.FinancialFacilities},
	{"catering", domain.FinancialCatering},
	{"supplies", domain.FinancialSupplies},
	{"entertainment", domain.FinancialEntertainment},
	{"misc", domain.FinancialMisc},
}

// migrateEvents consolidates the per-year event tables: one configuration per
// year, financial lines fanned out from the rollup row, and registrations
// merged from the detailed and simple attendee shapes.
func (m *Migrator) migrateEvents(ctx context.Context, d *dump.Dump) ([]PhaseReport, error) {
	configs, configIndex, err := m.migrateEventConfigurations(ctx, d)
	if err != nil {
		return nil, err
	}
	financials, err := m.migrateEventFinancials(ctx, d, configIndex)
	if err != nil {
		return nil, err
	}
	registrations, err := m.migrateEventRegistrations(ctx, d, configIndex)
	if err != nil {
		return nil, err
	}
	return []PhaseReport{configs, financials, registrations}, nil
}

// migrateEventConfigurations migrates obs_years and returns a year to new
// configuration id index for the dependent sub-phases.
func (m *Migrator) migrateEventConfigurations(ctx context.Context, d *dump.Dump) (PhaseReport, map[int]string, error) {
	phase := PhaseReport{Phase: "event_configurations"}
	index := make(map[int]string)

	tbl := d.Table("obs_years")
	if err := tbl.Require("id", "year", "start_date"); err != nil {
		return phase, nil, err
	}
	if tbl == nil {
		return phase, index, nil
	}
	for _, row := range tbl.Rows {
		legacyID := row.String("id")
		year := int(row.Int("year"))
		if year == 0 {
			m.record(&phase, legacyID, OutcomeFailed, fmt.Errorf("missing year"))
			continue
		}
		start, ok := normalize.ParseDate(row.String("start_date"))
		if !ok {
			m.record(&phase, legacyID, OutcomeFailed, fmt.Errorf("unparsable start date %q", row.String("start_date")))
			continue
		}
		end, ok := normalize.ParseDate(row.String("end_date"))
		if !ok {
			end = start.AddDate(0, 0, eventEndOffsetDays)
		}
		price := row.Float("price")
		if price == 0 {
			price = defaultEventPrice
		}
		capacity := int(row.Int("capacity"))
		if capacity == 0 {
			capacity = defaultEventCapacity
		}
		var newID string
		outcome, err := m.migrateOnce(ctx, domain.EntityEventConfiguration, legacyID, func(tx domain.Transaction) error {
			cfg, err := tx.CreateEventConfiguration(domain.EventConfiguration{
				Year:           year,
				StartDate:      start,
				EndDate:        end,
				PricePerPerson: price,
				Capacity:       capacity,
			})
			if err != nil {
				return err
			}
			newID = cfg.ID
			return m.writeMapping(tx, domain.EntityEventConfiguration, legacyID, cfg.ID)
		})
		if outcome == OutcomeSkipped {
			if mapping, ok, mErr := m.hasMapping(ctx, domain.EntityEventConfiguration, legacyID); mErr == nil && ok {
				newID = mapping.NewID
			}
		}
		m.record(&phase, legacyID, outcome, err)
		if newID != "" {
			index[year] = newID
		}
	}
	return phase, index, nil
}

// migrateEventFinancials expands each per-year rollup row into one line per
// non-zero category column, each independently idempotent under year_category.
func (m *Migrator) migrateEventFinancials(ctx context.Context, d *dump.Dump, configIndex map[int]string) (PhaseReport, error) {
	phase := PhaseReport{Phase: "event_financial_lines"}

	tbl := d.Table("obs_financials")
	if err := tbl.Require("year"); err != nil {
		return phase, err
	}
	if tbl == nil {
		return phase, nil
	}
	for _, row := range tbl.Rows {
		year := int(row.Int("year"))
		configID := configIndex[year]
		if configID == "" {
			m.record(&phase, fmt.Sprintf("financials_%d", year), OutcomeFailed, fmt.Errorf("no configuration for year %d", year))
			continue
		}
		for _, fc := range financialColumns {
			amount := row.Float(fc.column)
			if amount == 0 {
				continue
			}
			legacyID := fmt.Sprintf("%d_%s", year, fc.category)
			outcome, err := m.migrateOnce(ctx, domain.EntityEventFinancialLine, legacyID, func(tx domain.Transaction) error {
				line, err := tx.CreateEventFinancialLine(domain.EventFinancialLine{
					ConfigurationID: configID,
					Category:        fc.category,
					Amount:          amount,
				})
				if err != nil {
					return err
				}
				return m.writeMapping(tx, domain.EntityEventFinancialLine, legacyID, line.ID)
			})
			m.record(&phase, legacyID, outcome, err)
		}
	}
	return phase, nil
}

// migrateEventRegistrations merges the three registration-shaped sources:
// current-year detailed applications, the prior-year archive, and the
// year-suffixed simple attendee tables.
func (m *Migrator) migrateEventRegistrations(ctx context.Context, d *dump.Dump, configIndex map[int]string) (PhaseReport, error) {
	phase := PhaseReport{Phase: "event_registrations"}

	apps := d.Table("obs_applications")
	if err := apps.Require("id", "year"); err != nil {
		return phase, err
	}
	archive := d.Table("obs_applications_archive")
	if err := archive.Require("id", "year"); err != nil {
		return phase, err
	}

	if apps != nil {
		for _, row := range apps.Rows {
			legacyID := "obsapp_" + row.String("id")
			year := int(row.Int("year"))
			configID := configIndex[year]
			if configID == "" {
				m.record(&phase, legacyID, OutcomeFailed, fmt.Errorf("no configuration for year %d", year))
				continue
			}
			email, _ := normalize.ExtractEmail(row.String("email"))
			amount := row.Float("registration_fee") + row.Float("meal_fee") + row.Float("camping_fee") + row.Float("guest_fee")
			reg := domain.EventRegistration{
				ConfigurationID: configID,
				Email:           email,
				Name:            joinName(row.String("first_name"), row.String("last_name")),
				AmountPaid:      amount,
				Notes:           applicationNotes(row),
			}
			outcome, err := m.migrateRegistration(ctx, legacyID, reg)
			m.record(&phase, legacyID, outcome, err)
		}
	}

	if archive != nil {
		for _, row := range archive.Rows {
			legacyID := "obsarch_" + row.String("id")
			year := int(row.Int("year"))
			configID := configIndex[year]
			if configID == "" {
				m.record(&phase, legacyID, OutcomeFailed, fmt.Errorf("no configuration for year %d", year))
				continue
			}
			email, _ := normalize.ExtractEmail(row.String("email"))
			amount := row.Float("reg_paid") + row.Float("meals_paid") + row.Float("camp_paid") + row.Float("guests_paid")
			reg := domain.EventRegistration{
				ConfigurationID: configID,
				Email:           email,
				Name:            strings.TrimSpace(row.String("name")),
				AmountPaid:      amount,
				Notes:           strings.TrimSpace(row.String("notes")),
			}
			outcome, err := m.migrateRegistration(ctx, legacyID, reg)
			m.record(&phase, legacyID, outcome, err)
		}
	}

	for _, tbl := range d.TablesWithPrefix(attendeeTablePrefix) {
		year, err := strconv.Atoi(strings.TrimPrefix(tbl.Name, attendeeTablePrefix))
		if err != nil {
			m.record(&phase, tbl.Name, OutcomeFailed, fmt.Errorf("unparsable year suffix on table %s", tbl.Name))
			continue
		}
		configID := configIndex[year]
		if configID == "" {
			m.record(&phase, tbl.Name, OutcomeFailed, fmt.Errorf("no configuration for year %d", year))
			continue
		}
		for i, row := range tbl.Rows {
			// These tables carry no stable row id; the row position is the
			// pseudo-id in the ledger namespace.
			legacyID := fmt.Sprintf("%s_%d", tbl.Name, i)
			email, _ := normalize.ExtractEmail(row.String("email"))
			reg := domain.EventRegistration{
				ConfigurationID: configID,
				Email:           email,
				Name:            strings.TrimSpace(row.String("name")),
			}
			outcome, err := m.migrateRegistration(ctx, legacyID, reg)
			m.record(&phase, legacyID, outcome, err)
		}
	}
	return phase, nil
}

// migrateRegistration applies the per-record pattern with the extra
// (configuration, email) duplicate suppression: a registration already
// present under the same configuration and email is only mapped.
func (m *Migrator) migrateRegistration(ctx context.Context, legacyID string, reg domain.EventRegistration) (Outcome, error) {
	mappedOnly := false
	outcome, err := m.migrateOnce(ctx, domain.EntityEventRegistration, legacyID, func(tx domain.Transaction) error {
		if reg.Email != "" {
			if existing, ok := tx.FindEventRegistration(reg.ConfigurationID, reg.Email); ok {
				mappedOnly = true
				return m.writeMapping(tx, domain.EntityEventRegistration, legacyID, existing.ID)
			}
			if user, ok := tx.FindUserByEmail(reg.Email); ok {
				reg.UserID = &user.ID
			}
		}
		created, err := tx.CreateEventRegistration(reg)
		if err != nil {
			return err
		}
		return m.writeMapping(tx, domain.EntityEventRegistration, legacyID, created.ID)
	})
	if outcome == OutcomeCreated && mappedOnly {
		outcome = OutcomeSkipped
	}
	return outcome, err
}

// applicationNotes folds the secondary detail columns of a current-year
// application into one free-text field.
func applicationNotes(row dump.Row) string {
	var parts []string
	if v := strings.TrimSpace(row.String("companion_name")); v != "" {
		parts = append(parts, "companion: "+v)
	}
	if v := strings.TrimSpace(row.String("camper_type")); v != "" {
		parts = append(parts, "camper type: "+v)
	}
	if v := row.Float("rv_length"); v > 0 {
		parts = append(parts, fmt.Sprintf("rv length: %g ft", v))
	}
	if v := strings.TrimSpace(row.String("minors")); v != "" && v != "0" {
		parts = append(parts, "minors: "+v)
	}
	return strings.Join(parts, "; ")
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
