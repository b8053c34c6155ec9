// Package types implements special types for the Zakaah Management backend.
package types

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Day is a calendar date without a time component. It is used for posting
// dates of ledger transactions and for the start dates of zakaah periods,
// where the time of day carries no meaning.
type Day time.Time

// NewDay returns a new Day.
func NewDay(year int, month time.Month, day int) Day {
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf returns the Day on which a time occurs, in UTC.
func DayOf(t time.Time) Day {
	year, month, day := t.In(time.UTC).Date()
	return NewDay(year, month, day)
}

// ParseDay parses a "YYYY-MM-DD" string and returns the Day it represents.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}

	return DayOf(t), nil
}

// String returns the date formatted as YYYY-MM-DD.
func (d Day) String() string {
	return time.Time(d).Format("2006-01-02")
}

// MarshalJSON implements the json.Marshaler interface.
func (d Day) MarshalJSON() ([]byte, error) {
	return time.Time(d).MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// Both RFC3339 timestamps and plain "2006-01-02" dates are accepted;
// everything more granular than the day is discarded.
func (d *Day) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	pattern := "2006-01-02T15:04:05Z07:00"
	if len(value) == len("2006-01-02") {
		pattern = "2006-01-02"
	}

	t, err := time.Parse(pattern, value)
	if err != nil {
		return err
	}

	*d = DayOf(t)
	return nil
}

// UnmarshalParam implements gin's binding.BindUnmarshaler so that days
// can be bound from query and URI parameters.
func (d *Day) UnmarshalParam(param string) error {
	parsed, err := ParseDay(param)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// Scan writes the value from the database.
func (d *Day) Scan(value interface{}) (err error) {
	nullTime := &sql.NullTime{}
	err = nullTime.Scan(value)
	*d = DayOf(nullTime.Time)
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (d Day) Value() (driver.Value, error) {
	year, month, day := time.Time(d).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// GormDataType defines the data type used by gorm for the type.
func (Day) GormDataType() string {
	return "date"
}

// IsZero reports whether the day is the zero value.
func (d Day) IsZero() bool {
	return time.Time(d).IsZero()
}

// AddDate adds a specified amount of years, months and days.
func (d Day) AddDate(years, months, days int) Day {
	return Day(time.Time(d).AddDate(years, months, days))
}

// Before reports whether the day d is before e.
func (d Day) Before(e Day) bool {
	return time.Time(d).Before(time.Time(e))
}

// After reports whether the day d is after e.
func (d Day) After(e Day) bool {
	return time.Time(d).After(time.Time(e))
}

// Equal reports whether d and e represent the same date.
func (d Day) Equal(e Day) bool {
	return time.Time(d).Equal(time.Time(e))
}

// Compare orders two days chronologically. The result is negative when
// d is before e, zero when they are equal and positive otherwise.
func (d Day) Compare(e Day) int {
	return time.Time(d).Compare(time.Time(e))
}

// In reports whether the day lies in the inclusive range [from, until].
func (d Day) In(from, until Day) bool {
	return !d.Before(from) && !d.After(until)
}

// GoString implements fmt.GoStringer for readable test output.
func (d Day) GoString() string {
	return fmt.Sprintf("types.Day(%s)", d)
}
