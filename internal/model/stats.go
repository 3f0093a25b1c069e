package model

import "time"

const dayKeyLayout = "2006-01-02"

// DayKey buckets a local instant into its calendar day. Computed once per
// mutating operation so a single operation never straddles a day boundary.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// StatDelta is the increment a single task mutation contributes to both
// the aggregate totals and one day bucket.
type StatDelta struct {
	Created          int
	Completed        int
	Deleted          int
	Archived         int
	CompletionTimeMs int64
}

func (d StatDelta) IsZero() bool {
	return d.Created == 0 && d.Completed == 0 && d.Deleted == 0 && d.Archived == 0 && d.CompletionTimeMs == 0
}

type StatTotals struct {
	Created          int
	Completed        int
	Deleted          int
	Archived         int
	CompletionTimeMs int64
}

type StatDay struct {
	Day              string
	Created          int
	Completed        int
	Deleted          int
	Archived         int
	CompletionTimeMs int64
}

// CompletionTime converts a completion latency to the millisecond figure
// recorded in statistics, floored at zero for clock skew.
func CompletionTime(createdAt, completedAt time.Time) int64 {
	ms := completedAt.Sub(createdAt).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
