package normalize

import (
	"testing"
	"time"

	"clubcore/pkg/domain"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2019-06-14", "2019-06-14", true},
		{"2019-06-14 10:30:00", "2019-06-14", true},
		{"2019/06/14", "2019-06-14", true},
		{"6/14/2019", "2019-06-14", true},
		{"January 2, 2006", "2006-01-02", true},
		{"0000-00-00", "", false},
		{"0000-00-00 00:00:00", "", false},
		{"", "", false},
		{"   ", "", false},
		{"not a date", "", false},
	}
	for _, c := range cases {
		got, ok := ParseDate(c.in)
		if ok != c.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != c.want {
			t.Errorf("ParseDate(%q) = %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestParseDateIsUTC(t *testing.T) {
	got, ok := ParseDate("2020-03-01")
	if !ok || got.Location() != time.UTC {
		t.Fatalf("got %v ok=%v", got, ok)
	}
}

func TestExtractEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Jane Doe <Jane@Example.COM>", "jane@example.com", true},
		{"BOB@CLUB.ORG", "bob@club.org", true},
		{"  padded@club.org  ", "padded@club.org", true},
		{"Jane Doe", "", false},
		{"", "", false},
		{"<noaddress>", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractEmail(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ExtractEmail(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestFormatPhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"5551234567", "(555) 123-4567"},
		{"555-123-4567", "(555) 123-4567"},
		{"(555) 123 4567", "(555) 123-4567"},
		{"15551234567", "(555) 123-4567"},
		{"1-555-123-4567", "(555) 123-4567"},
		{"12345", "12345"},
		{"  ext. 42  ", "ext. 42"},
		{"", ""},
	}
	for _, c := range cases {
		if got := FormatPhone(c.in); got != c.want {
			t.Errorf("FormatPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMembershipType(t *testing.T) {
	cases := []struct {
		in   string
		want domain.MembershipType
	}{
		{"Family", domain.MembershipFamily},
		{"  COUPLE ", domain.MembershipFamily},
		{"lifetime", domain.MembershipLifetime},
		{"Honorary", domain.MembershipHonorary},
		{"single", domain.MembershipIndividual},
		{"whatever", domain.MembershipIndividual},
		{"", domain.MembershipIndividual},
	}
	for _, c := range cases {
		if got := MembershipType(c.in); got != c.want {
			t.Errorf("MembershipType(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestMembershipStatus(t *testing.T) {
	if got := MembershipStatus("Expired"); got != domain.MembershipLapsed {
		t.Errorf("got %s", got)
	}
	if got := MembershipStatus("pending"); got != domain.MembershipPending {
		t.Errorf("got %s", got)
	}
	if got := MembershipStatus("???"); got != domain.MembershipActive {
		t.Errorf("default: got %s", got)
	}
}

func TestMotionOutcome(t *testing.T) {
	if got := MotionOutcome("Carried"); got != domain.MotionPassed {
		t.Errorf("got %s", got)
	}
	if got := MotionOutcome("defeated"); got != domain.MotionFailed {
		t.Errorf("got %s", got)
	}
	if got := MotionOutcome("no idea"); got != domain.MotionTabled {
		t.Errorf("default: got %s", got)
	}
}

func TestMeetingCategory(t *testing.T) {
	if got := MeetingCategory(" Board "); got != domain.MeetingBoard {
		t.Errorf("got %s", got)
	}
	if got := MeetingCategory("annual picnic"); got != domain.MeetingGeneral {
		t.Errorf("got %s", got)
	}
}
