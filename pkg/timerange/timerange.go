// Package timerange provides the half-open time interval used for arena
// bookings and coach availability slots. A range [Start, End) includes its
// start instant and excludes its end instant, so back-to-back bookings on the
// same arena never conflict.
package timerange

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("end time must be after start time")

// TimeRange is an immutable half-open interval [Start, End) in UTC.
type TimeRange struct {
	Start time.Time `json:"start_time" bson:"start_time"`
	End   time.Time `json:"end_time" bson:"end_time"`
}

// New builds a TimeRange, normalizing both instants to UTC. Zero-length and
// inverted intervals are rejected.
func New(start, end time.Time) (TimeRange, error) {
	start = start.UTC()
	end = end.UTC()

	if !end.After(start) {
		return TimeRange{}, fmt.Errorf("%w: [%s, %s)", ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. An interval
// ending exactly when the other starts does not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether t falls inside [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Clamp trims the range to the given window, returning false when the two do
// not intersect at all. Used by the availability view to cut events at the
// edges of the requested date range.
func (r TimeRange) Clamp(window TimeRange) (TimeRange, bool) {
	if !r.Overlaps(window) {
		return TimeRange{}, false
	}

	out := r
	if out.Start.Before(window.Start) {
		out.Start = window.Start
	}
	if out.End.After(window.End) {
		out.End = window.End
	}
	return out, true
}

// IsZero reports whether the range is the zero value.
func (r TimeRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
