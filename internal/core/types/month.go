package types

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month in "YYYY-MM" form.
//
// Used for fee target months and payment months. Stored as CHAR(7) in
// PostgreSQL and compared lexicographically, which matches chronological
// order for this format.
type Month struct {
	Year int
	Mon  time.Month
}

// ParseMonth parses a strict "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return Month{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	mon, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	if mon < 1 || mon > 12 {
		return Month{}, fmt.Errorf("invalid month %q: month out of range", s)
	}
	return Month{Year: year, Mon: time.Month(mon)}, nil
}

// MustMonth parses a month string, panics on error. Use only for tests.
func MustMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MonthOf returns the month containing t (in t's location).
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// String returns the "YYYY-MM" form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Mon == time.December {
		return Month{Year: m.Year + 1, Mon: time.January}
	}
	return Month{Year: m.Year, Mon: m.Mon + 1}
}

// Before reports whether m is chronologically before other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Mon < other.Mon
}

// Start returns midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// End returns midnight UTC on the first day of the next month.
func (m Month) End() time.Time {
	return m.Next().Start()
}

// Contains reports whether t falls within the month (UTC).
func (m Month) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(m.Start()) && u.Before(m.End())
}

// MarshalJSON encodes the month as a JSON string.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a "YYYY-MM" JSON string.
func (m *Month) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Month{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid month JSON: %s", data)
	}
	parsed, err := ParseMonth(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage.
func (m Month) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *Month) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Month{}
		return nil
	case string:
		parsed, err := ParseMonth(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		parsed, err := ParseMonth(string(v))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Month", src)
	}
}
