// Package normalize converts the legacy dump's free-text fields into the
// target schema's types. Every function here is total: bad input maps to an
// absent value or a documented default, never an error.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"clubcore/pkg/domain"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"January 2, 2006",
}

// ParseDate parses a legacy date string. The zero-date sentinels the old
// database used for "no date" and anything unparsable report ok=false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ExtractEmail pulls a lower-cased address out of a legacy email field,
// accepting both bare addresses and the "Display Name <addr>" form.
func ExtractEmail(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if open := strings.IndexByte(s, '<'); open >= 0 {
		if close := strings.IndexByte(s[open:], '>'); close > 0 {
			s = strings.TrimSpace(s[open+1 : open+close])
		}
	}
	if s == "" || !strings.Contains(s, "@") {
		return "", false
	}
	return strings.ToLower(s), true
}

// FormatPhone normalizes a phone field to (XXX) XXX-XXXX when it carries ten
// digits, or eleven with a leading country-code 1. Anything else is returned
// trimmed but otherwise untouched.
func FormatPhone(s string) string {
	var digits []rune
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return strings.TrimSpace(s)
	}
	d := string(digits)
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

var membershipTypes = map[string]domain.MembershipType{
	"individual": domain.MembershipIndividual,
	"single":     domain.MembershipIndividual,
	"regular":    domain.MembershipIndividual,
	"family":     domain.MembershipFamily,
	"couple":     domain.MembershipFamily,
	"household":  domain.MembershipFamily,
	"lifetime":   domain.MembershipLifetime,
	"life":       domain.MembershipLifetime,
	"honorary":   domain.MembershipHonorary,
}

// MembershipType maps a legacy member_type value onto the fixed vocabulary.
// Unrecognized input defaults to individual.
func MembershipType(s string) domain.MembershipType {
	if t, ok := membershipTypes[fold(s)]; ok {
		return t
	}
	return domain.MembershipIndividual
}

var membershipStatuses = map[string]domain.MembershipStatus{
	"active":   domain.MembershipActive,
	"current":  domain.MembershipActive,
	"paid":     domain.MembershipActive,
	"lapsed":   domain.MembershipLapsed,
	"expired":  domain.MembershipLapsed,
	"inactive": domain.MembershipLapsed,
	"pending":  domain.MembershipPending,
	"new":      domain.MembershipPending,
}

// MembershipStatus maps a legacy status value onto the fixed vocabulary.
// Unrecognized input defaults to active; the members table is the club's
// live roster.
func MembershipStatus(s string) domain.MembershipStatus {
	if st, ok := membershipStatuses[fold(s)]; ok {
		return st
	}
	return domain.MembershipActive
}

var motionOutcomes = map[string]domain.MotionOutcome{
	"passed":    domain.MotionPassed,
	"carried":   domain.MotionPassed,
	"approved":  domain.MotionPassed,
	"failed":    domain.MotionFailed,
	"rejected":  domain.MotionFailed,
	"defeated":  domain.MotionFailed,
	"tabled":    domain.MotionTabled,
	"deferred":  domain.MotionTabled,
	"withdrawn": domain.MotionTabled,
}

// MotionOutcome maps a legacy outcome value onto the fixed vocabulary.
// Unrecognized input defaults to tabled, the only outcome that asserts
// nothing about the vote.
func MotionOutcome(s string) domain.MotionOutcome {
	if o, ok := motionOutcomes[fold(s)]; ok {
		return o
	}
	return domain.MotionTabled
}

// MeetingCategory maps a legacy meeting category. Anything other than an
// explicit board marker is a general meeting.
func MeetingCategory(s string) domain.MeetingCategory {
	if fold(s) == "board" {
		return domain.MeetingBoard
	}
	return domain.MeetingGeneral
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
