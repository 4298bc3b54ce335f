package dateonly

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2024-01-15")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 15 {
		t.Fatalf("unexpected components: %v", d)
	}
	if got := d.String(); got != "2024-01-15" {
		t.Fatalf("String = %q, want 2024-01-15", got)
	}

	if _, err := Parse("15/01/2024"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
	if _, err := Parse(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestComparisons(t *testing.T) {
	a, _ := Parse("2024-01-10")
	b, _ := Parse("2024-01-20")

	if !a.Before(b) || b.Before(a) {
		t.Fatalf("Before broken")
	}
	if !b.After(a) || a.After(b) {
		t.Fatalf("After broken")
	}
	if !a.Equal(a) || a.Equal(b) {
		t.Fatalf("Equal broken")
	}
	if a.IsZero() {
		t.Fatalf("parsed date reported zero")
	}
	if !(Date{}).IsZero() {
		t.Fatalf("zero value not reported zero")
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		first string
		last  string
	}{
		{2024, time.January, "2024-01-01", "2024-01-31"},
		{2024, time.February, "2024-02-01", "2024-02-29"},
		{2023, time.February, "2023-02-01", "2023-02-28"},
		{2024, time.April, "2024-04-01", "2024-04-30"},
		{2024, time.December, "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		first, last := MonthRange(tt.year, tt.month)
		if first.String() != tt.first || last.String() != tt.last {
			t.Fatalf("MonthRange(%d, %d) = %s..%s, want %s..%s",
				tt.year, tt.month, first, last, tt.first, tt.last)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d, _ := Parse("2024-03-05")
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"2024-03-05"` {
		t.Fatalf("Marshal = %s", raw)
	}

	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip changed value: %v != %v", back, d)
	}
}
