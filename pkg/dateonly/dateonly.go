// Package dateonly provides a calendar-day value without a time zone.
// Dates cross the API boundary as YYYY-MM-DD strings and all arithmetic
// is calendar arithmetic, never instant-based.
package dateonly

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Date is a calendar day. The zero value is the zero day and reports
// IsZero() == true.
type Date struct {
	t time.Time
}

func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return FromTime(time.Now())
}

func Parse(s string) (Date, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

func (d Date) String() string  { return d.t.Format(Layout) }
func (d Date) IsZero() bool    { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }

func (d Date) Year() int        { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int         { return d.t.Day() }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date value %s", string(b))
	}
	parsed, err := Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into dateonly.Date", src)
	}
}

// MonthRange returns the first and last calendar day of the given month,
// accounting for 28/29/30/31-day months.
func MonthRange(year int, month time.Month) (Date, Date) {
	first := New(year, month, 1)
	// day 0 of the next month is the last day of this one
	last := Date{t: time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)}
	return first, last
}
