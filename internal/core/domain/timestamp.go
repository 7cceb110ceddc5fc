package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Timestamp is the normalized form of a server-resolved time: whole seconds
// since the Unix epoch plus the nanosecond remainder.
type Timestamp struct {
	Seconds     int64 `json:"seconds" mapstructure:"seconds"`
	Nanoseconds int32 `json:"nanoseconds" mapstructure:"nanoseconds"`
}

// NewTimestamp normalizes t into a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: int32(t.Nanosecond())}
}

// Time converts the timestamp back into a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanoseconds)).UTC()
}

// Before reports whether ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool {
	if ts.Seconds != other.Seconds {
		return ts.Seconds < other.Seconds
	}
	return ts.Nanoseconds < other.Nanoseconds
}

// orEpoch treats a missing timestamp as the minimum possible value.
func orEpoch(ts *Timestamp) Timestamp {
	if ts == nil {
		return Timestamp{}
	}
	return *ts
}

// SortNewestFirst orders items by the timestamp returned from key, newest
// first. Items without a timestamp sort last; ties keep their input order.
func SortNewestFirst[T any](items []T, key func(T) *Timestamp) {
	sort.SliceStable(items, func(i, j int) bool {
		return orEpoch(key(items[j])).Before(orEpoch(key(items[i])))
	})
}

// ServerTimestamp is a write-time marker the facade replaces with its own
// clock when the document is stored.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

// serverTimestampJSON is the wire form of the marker.
const serverTimestampJSON = `{".sv":"timestamp"}`

func (serverTimestamp) MarshalJSON() ([]byte, error) {
	return []byte(serverTimestampJSON), nil
}

// IsServerTimestamp reports whether v is the marker or its decoded wire form.
func IsServerTimestamp(v any) bool {
	switch m := v.(type) {
	case serverTimestamp:
		return true
	case map[string]any:
		return len(m) == 1 && m[".sv"] == "timestamp"
	}
	return false
}

// ParseTimestamp accepts the shapes a timestamp field takes after crossing a
// storage or wire boundary. ok is false when v is not a timestamp.
func ParseTimestamp(v any) (ts Timestamp, ok bool) {
	switch t := v.(type) {
	case Timestamp:
		return t, true
	case *Timestamp:
		if t == nil {
			return Timestamp{}, false
		}
		return *t, true
	case time.Time:
		return NewTimestamp(t), true
	case map[string]any:
		secs, okS := t["seconds"]
		nanos, okN := t["nanoseconds"]
		if !okS || !okN || len(t) != 2 {
			return Timestamp{}, false
		}
		s, okS := toInt64(secs)
		n, okN := toInt64(nanos)
		if !okS || !okN {
			return Timestamp{}, false
		}
		return Timestamp{Seconds: s, Nanoseconds: int32(n)}, true
	}
	return Timestamp{}, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
