package domain

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidInterval is returned when an interval does not satisfy start < end.
var ErrInvalidInterval = errors.New("domain: interval start must be before end")

// TimeInterval is a half-open interval [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval validates and builds an interval.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

// IsEmpty returns true if the interval contains no instant.
func (i TimeInterval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Duration returns the length of the interval.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether two intervals share at least one instant.
// Touching endpoints do not overlap.
func (i TimeInterval) Overlaps(other TimeInterval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully inside i.
func (i TimeInterval) Contains(other TimeInterval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Equal compares intervals by instant, ignoring location.
func (i TimeInterval) Equal(other TimeInterval) bool {
	return i.Start.Equal(other.Start) && i.End.Equal(other.End)
}

// In returns the interval with both bounds converted to loc.
func (i TimeInterval) In(loc *time.Location) TimeInterval {
	return TimeInterval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// Overlaps reports whether a and b overlap.
func Overlaps(a, b TimeInterval) bool {
	return a.Overlaps(b)
}

// MergeIntervals returns the union of intervals as a sorted list of disjoint,
// non-touching intervals. Empty intervals are dropped.
func MergeIntervals(intervals []TimeInterval) []TimeInterval {
	sorted := make([]TimeInterval, 0, len(intervals))
	for _, in := range intervals {
		if !in.IsEmpty() {
			sorted = append(sorted, in)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.Before(sorted[b].Start)
	})

	merged := []TimeInterval{sorted[0]}
	for _, in := range sorted[1:] {
		last := &merged[len(merged)-1]
		if in.Start.After(last.End) {
			merged = append(merged, in)
			continue
		}
		if in.End.After(last.End) {
			last.End = in.End
		}
	}

	return merged
}

// Subtract returns the ordered remainder of universe after removing holes.
// Holes may overlap each other and may extend beyond universe.
func Subtract(universe TimeInterval, holes []TimeInterval) []TimeInterval {
	if universe.IsEmpty() {
		return nil
	}

	clipped := make([]TimeInterval, 0, len(holes))
	for _, h := range holes {
		if !h.Overlaps(universe) {
			continue
		}
		if h.Start.Before(universe.Start) {
			h.Start = universe.Start
		}
		if h.End.After(universe.End) {
			h.End = universe.End
		}
		clipped = append(clipped, h)
	}

	var free []TimeInterval
	cursor := universe.Start
	for _, h := range MergeIntervals(clipped) {
		if h.Start.After(cursor) {
			free = append(free, TimeInterval{Start: cursor, End: h.Start})
		}
		if h.End.After(cursor) {
			cursor = h.End
		}
	}
	if cursor.Before(universe.End) {
		free = append(free, TimeInterval{Start: cursor, End: universe.End})
	}

	return free
}

// Quantize enumerates slots of slotLength whose starts lie on the grid
// anchor + k*step and which fit fully inside one of the free intervals.
// Slots are returned in chronological order.
func Quantize(free []TimeInterval, slotLength, step time.Duration, anchor time.Time) []TimeInterval {
	if slotLength <= 0 || step <= 0 {
		return nil
	}

	var slots []TimeInterval
	for _, f := range MergeIntervals(free) {
		start := anchor.Add(ceilSteps(f.Start.Sub(anchor), step) * step)
		for end := start.Add(slotLength); !end.After(f.End); end = start.Add(slotLength) {
			slots = append(slots, TimeInterval{Start: start, End: end})
			start = start.Add(step)
		}
	}

	return slots
}

// ceilSteps returns the smallest k such that k*step >= offset.
func ceilSteps(offset, step time.Duration) time.Duration {
	k := offset / step
	if offset > 0 && offset%step != 0 {
		k++
	}
	return k
}
