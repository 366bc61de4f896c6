// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LocalDateTimeLayout is the zone-less timestamp layout used by the diary API
// (e.g. "2026-01-31T18:04:05").
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime is a zone-less timestamp kept in its wire form.
//
// The zero value ("") means "no timestamp": it is encoded as JSON null and
// stored as SQL NULL. Because the layout is fixed-width, lexicographic order
// of two non-empty values equals their chronological order.
type LocalDateTime string

// NewLocalDateTime formats t in the local time zone using [LocalDateTimeLayout].
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime(t.Local().Format(LocalDateTimeLayout))
}

// IsZero reports whether the timestamp is absent.
func (l LocalDateTime) IsZero() bool {
	return l == ""
}

// String implements [fmt.Stringer].
func (l LocalDateTime) String() string {
	return string(l)
}

// Or returns l when it is set and fallback otherwise.
func (l LocalDateTime) Or(fallback LocalDateTime) LocalDateTime {
	if l.IsZero() {
		return fallback
	}
	return l
}

// Time parses the timestamp in the local time zone. Fractional seconds sent
// by the server are accepted.
func (l LocalDateTime) Time() (time.Time, error) {
	if l.IsZero() {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", string(l), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local date time %q: %w", string(l), err)
	}
	return t, nil
}

// MarshalJSON encodes an empty timestamp as null.
func (l LocalDateTime) MarshalJSON() ([]byte, error) {
	if l.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(string(l))
}

// UnmarshalJSON decodes null into an empty timestamp.
func (l *LocalDateTime) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*l = ""
		return nil
	}
	*l = LocalDateTime(*s)
	return nil
}

// Value implements [driver.Valuer]; an empty timestamp is stored as NULL.
func (l LocalDateTime) Value() (driver.Value, error) {
	if l.IsZero() {
		return nil, nil
	}
	return string(l), nil
}

// Scan implements [sql.Scanner].
func (l *LocalDateTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = ""
	case string:
		*l = LocalDateTime(v)
	case []byte:
		*l = LocalDateTime(v)
	case time.Time:
		*l = NewLocalDateTime(v)
	default:
		return fmt.Errorf("unsupported local date time source %T", src)
	}
	return nil
}
