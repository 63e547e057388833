// Package model contains domain models passed between layers.
package model

import (
	"strconv"
)

// Record is a single entity row (hero, villain or location) as a mapping
// from column name to scalar value. Rows are schema-less on purpose: the
// read APIs return whatever columns the table has, so the storage layer
// builds Records from result-set metadata instead of a fixed struct.
type Record map[string]any

// wireRenames maps storage column names to their wire (JSON) names.
// The hero/villain tables carry a lower-cased "othername" column while the
// public API exposes "otherName". Kept as an explicit table so a schema
// casing change shows up here instead of drifting silently.
var wireRenames = map[string]string{
	"othername": "otherName",
}

// Normalize applies the storage-to-wire field renames in place and returns
// the record. A rename is applied only when the storage key is present; the
// wire key is never fabricated.
func (r Record) Normalize() Record {
	for from, to := range wireRenames {
		if v, ok := r[from]; ok {
			delete(r, from)
			r[to] = v
		}
	}
	return r
}

// Name returns the record's "name" field, or "" when absent.
func (r Record) Name() string {
	return r.str("name")
}

// Powers returns the record's "powers" field, or "" when absent.
func (r Record) Powers() string {
	return r.str("powers")
}

// Picture returns the record's "picture" field, or "" when absent.
func (r Record) Picture() string {
	return r.str("picture")
}

// Level returns the record's "level" field coerced to an integer.
// Levels arrive as int32/int64 from Postgres, as text from the MySQL
// driver, and as float64 from JSON bodies; absent or unparsable values
// count as level 0.
func (r Record) Level() int64 {
	switch v := r["level"].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func (r Record) str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
