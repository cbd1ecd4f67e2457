package calendar

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestParseDateStrict(t *testing.T) {
	d := mustParse(t, "2026-01-01")
	if d.Year != 2026 || d.Month != time.January || d.Day != 1 {
		t.Fatalf("unexpected date: %v", d)
	}
}

func TestParseDateRejectsRollover(t *testing.T) {
	for _, s := range []string{"2023-02-30", "2023-02-29", "2023-04-31", "2023-13-01"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q): expected ErrInvalidDate, got %v", s, err)
		}
	}
}

func TestParseDateRejectsLooseFormats(t *testing.T) {
	for _, s := range []string{"", "2023-2-1", "01-02-2023", "2023/02/01", "2023-02-01T00:00:00Z"} {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDate(%q): expected ErrInvalidDate, got %v", s, err)
		}
	}
}

func TestParseDateAcceptsLeapDay(t *testing.T) {
	mustParse(t, "2024-02-29")
}

func TestAddDaysRoundTrip(t *testing.T) {
	cases := []struct {
		start string
		days  int
	}{
		{"2026-01-01", 30},
		{"2026-01-01", 365},
		{"2024-02-28", 1},
		{"2024-12-31", 90},
		{"2026-03-08", 7}, // spans a US DST transition if done in local time
	}
	for _, tc := range cases {
		start := mustParse(t, tc.start)
		end := start.AddDays(tc.days)
		if got := DaysBetween(start, end); got != tc.days {
			t.Fatalf("DaysBetween(%s, %s) = %d, want %d", start, end, got, tc.days)
		}
	}
}

func TestAddDaysScenario(t *testing.T) {
	d := mustParse(t, "2026-01-01").AddDays(30)
	if d.String() != "2026-01-31" {
		t.Fatalf("2026-01-01 + 30d = %s, want 2026-01-31", d)
	}
}

func TestAddDaysNegative(t *testing.T) {
	d := mustParse(t, "2026-01-31").AddDays(-14)
	if d.String() != "2026-01-17" {
		t.Fatalf("2026-01-31 - 14d = %s, want 2026-01-17", d)
	}
}

func TestDaysBetweenAntisymmetric(t *testing.T) {
	a := mustParse(t, "2026-01-01")
	b := mustParse(t, "2026-03-15")
	if DaysBetween(a, b) != -DaysBetween(b, a) {
		t.Fatalf("DaysBetween not antisymmetric: %d vs %d", DaysBetween(a, b), DaysBetween(b, a))
	}
	if DaysBetween(a, a) != 0 {
		t.Fatalf("DaysBetween(a, a) = %d, want 0", DaysBetween(a, a))
	}
}

func TestAtUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	d := mustParse(t, "2026-01-31")
	got := d.At(9, 0, loc)
	want := time.Date(2026, time.January, 31, 9, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("At = %v, want %v", got, want)
	}
	// Same wall clock in a different zone is a different instant.
	other := d.At(9, 0, time.UTC)
	if got.Equal(other) {
		t.Fatal("expected distinct instants for distinct zones")
	}
}

func TestTodayUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*60*60)
	// 23:30 UTC on Jan 1 is already Jan 2 at UTC+13.
	now := time.Date(2026, time.January, 1, 23, 30, 0, 0, time.UTC).In(loc)
	if got := Today(now); got.String() != "2026-01-02" {
		t.Fatalf("Today = %s, want 2026-01-02", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := mustParse(t, "2026-01-31")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2026-01-31"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip: %v != %v", back, d)
	}
	var bad Date
	if err := json.Unmarshal([]byte(`"2023-02-30"`), &bad); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
