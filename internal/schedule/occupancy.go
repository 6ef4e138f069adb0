// Package schedule answers occupancy questions over a room's booking
// intervals. Queries are pure; the interval slice is never mutated.
package schedule

import (
	"sort"
	"time"

	"github.com/thermasense/thermasense/internal/domain"
)

// Current returns the active interval containing now, or nil.
func Current(intervals []domain.OccupancyInterval, now time.Time) *domain.OccupancyInterval {
	for i := range intervals {
		if intervals[i].Contains(now) {
			return &intervals[i]
		}
	}
	return nil
}

// NextVacancy is the end of the earliest active interval still ahead of now.
// Active intervals whose end already passed are treated as expired and
// skipped, even if their flag was never refreshed. Returns the zero time and
// false when nothing remains.
func NextVacancy(intervals []domain.OccupancyInterval, now time.Time) (time.Time, bool) {
	ends := make([]time.Time, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.IsActive || iv.End.Before(now) {
			continue
		}
		ends = append(ends, iv.End)
	}
	if len(ends) == 0 {
		return time.Time{}, false
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i].Before(ends[j]) })
	return ends[0], true
}
