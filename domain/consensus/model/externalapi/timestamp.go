package externalapi

import "time"

// Timestamp is a consensus timestamp with millisecond precision.
// Consensus objects never carry more precision than this, so conversions
// from time.Time truncate.
type Timestamp int64

// TimestampFromTime converts a time.Time to a Timestamp.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts the Timestamp back to a time.Time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// Add returns the timestamp shifted forward by d.
func (ts Timestamp) Add(d time.Duration) Timestamp {
	return ts + Timestamp(d.Milliseconds())
}

// Sub returns the duration elapsed between other and ts.
func (ts Timestamp) Sub(other Timestamp) time.Duration {
	return time.Duration(ts-other) * time.Millisecond
}

// After returns true if ts is strictly later than other.
func (ts Timestamp) After(other Timestamp) bool {
	return ts > other
}

// Before returns true if ts is strictly earlier than other.
func (ts Timestamp) Before(other Timestamp) bool {
	return ts < other
}
