package domain

// EventFilter narrows a store scan. Nil fields are not applied. Calendar
// fields match the stored year/month/day breakdown, MagnitudeBelow is a
// strict upper bound.
type EventFilter struct {
	Year           *int
	Month          *int
	Day            *int
	MagnitudeBelow *float64
}

// EventSummary is the projection returned by store scans: enough to pick a
// watermark or a purge victim without pulling full records.
type EventSummary struct {
	ID        string
	TimeEpoch int64
	Magnitude float64
}
