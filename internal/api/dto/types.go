package dto

import (
	"encoding/json"
	"strings"
	"time"
)

// LocalDateTimeLayout is the wire format for timestamps. Values carry no zone and are read as UTC.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime is a timestamp that marshals as LocalDateTimeLayout.
type LocalDateTime time.Time

// NewLocalDateTime converts t to UTC and wraps it.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime(t.UTC())
}

// Time returns the wrapped value.
func (d LocalDateTime) Time() time.Time {
	return time.Time(d)
}

// MarshalJSON implements json.Marshaler for LocalDateTime.
func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).UTC().Format(LocalDateTimeLayout))
}

// UnmarshalJSON accepts LocalDateTimeLayout with optional fractional seconds.
func (d *LocalDateTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := time.Parse(LocalDateTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	*d = LocalDateTime(parsed)
	return nil
}
