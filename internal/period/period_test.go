package period

import (
	"testing"
	"time"

	"github.com/lachiem1/monthlens/internal/errs"
)

func TestNewRejectsOutOfRangeMonth(t *testing.T) {
	for _, month := range []int{-1, 12, 13} {
		_, err := New(2024, month)
		if err == nil {
			t.Fatalf("New(2024, %d) error = nil, want InvalidPeriod", month)
		}
		if errs.KindOf(err) != errs.KindInvalidPeriod {
			t.Fatalf("New(2024, %d) kind = %q, want %q", month, errs.KindOf(err), errs.KindInvalidPeriod)
		}
	}
}

func TestPrevNextRollOverYear(t *testing.T) {
	jan := MustNew(2024, 0)
	if got := jan.Prev(); got != MustNew(2023, 11) {
		t.Fatalf("Prev(2024-01) = %s, want 2023-12", got)
	}
	dec := MustNew(2023, 11)
	if got := dec.Next(); got != MustNew(2024, 0) {
		t.Fatalf("Next(2023-12) = %s, want 2024-01", got)
	}
	if got := MustNew(2024, 5).Shift(-18); got != MustNew(2022, 11) {
		t.Fatalf("Shift(-18) = %s, want 2022-12", got)
	}
}

func TestStartEndCoverWholeMonth(t *testing.T) {
	tests := []struct {
		p       Period
		wantEnd string
		days    int
	}{
		{p: MustNew(2024, 1), wantEnd: "2024-02-29", days: 29},
		{p: MustNew(2023, 1), wantEnd: "2023-02-28", days: 28},
		{p: MustNew(2024, 3), wantEnd: "2024-04-30", days: 30},
		{p: MustNew(2024, 11), wantEnd: "2024-12-31", days: 31},
	}
	for _, tc := range tests {
		t.Run(tc.p.String(), func(t *testing.T) {
			if got := tc.p.Start().Format("2006-01-02"); got != tc.p.String()+"-01" {
				t.Fatalf("Start() = %s, want %s-01", got, tc.p)
			}
			if got := tc.p.End().Format("2006-01-02"); got != tc.wantEnd {
				t.Fatalf("End() = %s, want %s", got, tc.wantEnd)
			}
			if tc.p.Days() != tc.days {
				t.Fatalf("Days() = %d, want %d", tc.p.Days(), tc.days)
			}
		})
	}
}

func TestAdjacent(t *testing.T) {
	if !MustNew(2024, 0).Adjacent(MustNew(2023, 11)) {
		t.Fatal("2024-01 and 2023-12 should be adjacent")
	}
	if !MustNew(2023, 11).Adjacent(MustNew(2024, 0)) {
		t.Fatal("adjacency should be symmetric")
	}
	if MustNew(2024, 0).Adjacent(MustNew(2024, 2)) {
		t.Fatal("2024-01 and 2024-03 should not be adjacent")
	}
	if MustNew(2024, 0).Adjacent(MustNew(2024, 0)) {
		t.Fatal("a period is not adjacent to itself")
	}
}

func TestParseAndString(t *testing.T) {
	p, err := Parse("2024-03")
	if err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}
	if p.Year() != 2024 || p.MonthIndex() != 2 {
		t.Fatalf("Parse() = (%d, %d), want (2024, 2)", p.Year(), p.MonthIndex())
	}
	if p.String() != "2024-03" {
		t.Fatalf("String() = %q, want %q", p.String(), "2024-03")
	}
	if p.Label() != "March 2024" {
		t.Fatalf("Label() = %q, want %q", p.Label(), "March 2024")
	}

	for _, bad := range []string{"", "2024", "2024-13", "24-03", "2024-3", "abcd-03"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) error = nil, want non-nil", bad)
		}
	}
}

func TestContainsByCalendarDay(t *testing.T) {
	p := MustNew(2024, 2)
	if !p.Contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("Contains(2024-03-31 23:59) = false, want true")
	}
	if p.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("Contains(2024-04-01) = true, want false")
	}
}
