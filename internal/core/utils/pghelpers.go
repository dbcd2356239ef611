package utils

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// FromText converts a pgtype.Text to a string pointer. NULL becomes nil.
func FromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// TextOrEmpty converts a pgtype.Text to a plain string. NULL becomes "".
func TextOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// FromInt8 converts a pgtype.Int8 to an int64 pointer. NULL becomes nil.
func FromInt8(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// FromTimestamptz converts a pgtype.Timestamptz to a time pointer. NULL
// becomes nil, which the extraction engine renders as the placeholder.
func FromTimestamptz(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
