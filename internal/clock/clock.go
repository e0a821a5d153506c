// Package clock provides the single "today" source the dashboard derives all
// month semantics from. Every consumer gets the date through a Clock so tests
// can pin arbitrary days.
package clock

import (
	"fmt"
	"time"

	"incassi/internal/core"
)

// DefaultTimezone is the zone used when none is configured.
const DefaultTimezone = "Asia/Taipei"

// Clock yields the current instant and calendar date in a fixed zone.
type Clock interface {
	Now() time.Time
	Today() core.Date
}

type zoneClock struct {
	loc *time.Location
}

// NewZoneClock returns a Clock pinned to the named IANA zone.
func NewZoneClock(timezone string) (Clock, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &zoneClock{loc: loc}, nil
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *zoneClock) Today() core.Date {
	return core.DateOf(c.Now())
}

// Fixed is a Clock stuck at one instant, for tests.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time     { return f.Instant }
func (f Fixed) Today() core.Date   { return core.DateOf(f.Instant) }
