package domain

// Classification is implemented as ordered (predicate, label) rule lists
// evaluated in sequence: the first matching rule wins and later rules are
// never consulted. This keeps the bin boundaries explicit and testable in
// isolation from the rest of normalization.

type binRule struct {
	upper float64 // inclusive upper bound
	label string
}

// depthBins categorize hypocenter depth in km. Bounds are inclusive on the
// upper edge: 70.0 is still "Shallow", 70.1 is "Intermediate". Depths at or
// below zero, or beyond 700 km, fall outside the taxonomy and stay unlabeled.
var depthBins = []binRule{
	{upper: 70, label: "Shallow"},
	{upper: 300, label: "Intermediate"},
	{upper: 700, label: "Deep"},
}

// magBins categorize event magnitude on the standard descriptive scale,
// inclusive on the upper edge: 3.9 is "Minor", 4.0 is "Light".
var magBins = []binRule{
	{upper: 2.0, label: "Micro"},
	{upper: 3.9, label: "Minor"},
	{upper: 4.9, label: "Light"},
	{upper: 5.9, label: "Moderate"},
	{upper: 6.9, label: "Strong"},
	{upper: 7.9, label: "Major"},
}

// DepthCategory returns the depth bin label for a depth in km, or "" when the
// depth falls outside the 0–700 km taxonomy.
func DepthCategory(depthKM float64) string {
	if depthKM <= 0 {
		return ""
	}
	for _, b := range depthBins {
		if depthKM <= b.upper {
			return b.label
		}
	}
	return ""
}

// MagCategory returns the magnitude bin label. Magnitudes above the last bin
// are "Great"; the scale is open-ended at the bottom, so very small (even
// negative) magnitudes are "Micro".
func MagCategory(magnitude float64) string {
	for _, b := range magBins {
		if magnitude <= b.upper {
			return b.label
		}
	}
	return "Great"
}

// alertRule pairs a predicate with the severity label it assigns.
type alertRule struct {
	match func(e QuakeEvent) bool
	label string
}

// fullAlertRules is evaluated strictly in order; the first match
// short-circuits. A tsunami-flagged M7.0 is therefore "Severe Tsunami Risk",
// never "Major Earthquake".
var fullAlertRules = []alertRule{
	{
		match: func(e QuakeEvent) bool { return e.TsunamiWarning == 1 && e.magnitudeOrZero() >= 6.5 },
		label: "Severe Tsunami Risk",
	},
	{
		match: func(e QuakeEvent) bool { return e.TsunamiWarning == 1 },
		label: "Tsunami Warning",
	},
	{
		match: func(e QuakeEvent) bool { return e.magnitudeOrZero() >= 7.0 },
		label: "Major Earthquake",
	},
	{
		match: func(e QuakeEvent) bool { return e.magnitudeOrZero() >= 6.0 },
		label: "Strong Earthquake",
	},
	{
		match: func(e QuakeEvent) bool { return e.AlertLevel == "orange" || e.AlertLevel == "red" },
		label: "Significant Alert",
	},
	{
		match: func(e QuakeEvent) bool { return e.AlertLevel == "yellow" || e.AlertLevel == "green" },
		label: "Moderate Alert",
	},
}

// FullAlertLevel derives the combined severity label from the tsunami flag,
// magnitude and PAGER alert level.
func FullAlertLevel(e QuakeEvent) string {
	for _, r := range fullAlertRules {
		if r.match(e) {
			return r.label
		}
	}
	return "No Alert"
}
