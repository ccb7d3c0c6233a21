package clock

import "time"

// Clock provides an abstraction over time retrieval for deterministic testing.
type Clock interface {
	Now() time.Time
}

// UTC returns the current wall time in UTC.
type UTC struct{}

func (UTC) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed struct{ t time.Time }

func NewFixed(t time.Time) Fixed { return Fixed{t: t} }

func (f Fixed) Now() time.Time { return f.t }
