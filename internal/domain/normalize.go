package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrMissingCoreFields marks an event that cannot be persisted because one of
// id, magnitude, latitude, longitude or depth is absent after normalization.
// Such events are dropped, counted and logged, never stored.
var ErrMissingCoreFields = errors.New("missing core fields")

// regionRe extracts the substring after the last comma of a USGS place
// string, e.g. "10km SW of Reno, NV" -> "NV".
var regionRe = regexp.MustCompile(`,\s*(.*)$`)

// timeReadableLayout is the canonical string form of the event timestamp as
// stored, matching the original table's time_readable column.
const timeReadableLayout = "2006-01-02 15:04:05"

// ParseRawEvent reshapes one raw feed document into a flat QuakeEvent:
// the geometry triple becomes longitude/latitude/depth_km, the property bag
// is renamed one-to-one into the stored field names, and missing values are
// defaulted. Categorical fields default to "unknown"; significance, tsunami
// flag and station-quality fields default to zero; the intensity fields
// (felt, cdi, mmi) are left absent because zero is a meaningful reported
// value for them.
func ParseRawEvent(raw RawEvent) QuakeEvent {
	e := QuakeEvent{
		ID:        raw.ID,
		Magnitude: raw.Properties.Mag,

		Location:      stringOrUnknown(raw.Properties.Place),
		AlertLevel:    stringOrUnknown(raw.Properties.Alert),
		MagnitudeType: stringOrUnknown(raw.Properties.MagType),
		EventType:     stringOrUnknown(raw.Properties.Type),

		TimeEpoch:        int64OrZero(raw.Properties.Time),
		UpdatedTimeEpoch: int64OrZero(raw.Properties.Updated),
		TimezoneOffset:   intOrZero(raw.Properties.Tz),
		DetailURL:        stringOrEmpty(raw.Properties.URL),
		DetailAPI:        stringOrEmpty(raw.Properties.Detail),

		FeltReports:  raw.Properties.Felt,
		CDIIntensity: raw.Properties.CDI,
		MMIIntensity: raw.Properties.MMI,

		ReviewStatus:   stringOrEmpty(raw.Properties.Status),
		TsunamiWarning: intOrZero(raw.Properties.Tsunami),
		Significance:   floatOrZero(raw.Properties.Sig),

		Network:     stringOrEmpty(raw.Properties.Net),
		EventCode:   stringOrEmpty(raw.Properties.Code),
		EventIDs:    stringOrEmpty(raw.Properties.IDs),
		DataSources: stringOrEmpty(raw.Properties.Sources),
		EventTypes:  stringOrEmpty(raw.Properties.Types),

		StationCount:             floatOrZero(raw.Properties.Nst),
		DistanceToNearestStation: floatOrZero(raw.Properties.Dmin),
		RMSAmplitude:             floatOrZero(raw.Properties.RMS),
		AzimuthalGap:             floatOrZero(raw.Properties.Gap),

		EventTitle: stringOrEmpty(raw.Properties.Title),
	}

	// Geometry absent or malformed means all three coordinates are missing.
	if raw.Geometry != nil && len(raw.Geometry.Coordinates) >= 3 {
		e.GeometryType = raw.Geometry.Type
		e.Longitude = &raw.Geometry.Coordinates[0]
		e.Latitude = &raw.Geometry.Coordinates[1]
		e.DepthKM = &raw.Geometry.Coordinates[2]
	}

	return e
}

// EnrichQuakeEvent derives the calendar breakdown, region name, display
// string, classification categories and combined alert level. Output is
// deterministic given the event and the package clock; no I/O.
func EnrichQuakeEvent(e QuakeEvent) QuakeEvent {
	if e.TimeEpoch != 0 {
		t := e.EventTime()
		e.TimeReadable = t.Format(timeReadableLayout)
		e.Year = t.Year()
		e.Month = int(t.Month())
		e.Day = t.Day()
		e.Hour = t.Hour()
		e.DayOfWeek = mondayIndexed(t.Weekday())
		e.Quarter = (int(t.Month())-1)/3 + 1
	}
	if e.UpdatedTimeEpoch != 0 {
		u := time.UnixMilli(e.UpdatedTimeEpoch).UTC()
		e.UpdatedYear = u.Year()
		e.UpdatedMonth = int(u.Month())
	}

	e.RegionName = ExtractRegion(e.Location)
	if e.Magnitude != nil {
		e.LocationInfoDisplay = fmt.Sprintf("%s (Magnitude %s)",
			e.Location, strconv.FormatFloat(*e.Magnitude, 'g', -1, 64))
	}
	if e.DepthKM != nil {
		e.DepthCategory = DepthCategory(*e.DepthKM)
	}
	if e.Magnitude != nil {
		e.MagCategory = MagCategory(*e.Magnitude)
	}
	e.FullAlertLevel = FullAlertLevel(e)
	e.ProcessedAt = clock.Now().UTC()

	return e
}

// ExtractRegion returns the trailing-comma substring of a place string, or
// "Unknown" when the place has no comma.
func ExtractRegion(location string) string {
	m := regionRe.FindStringSubmatch(location)
	if len(m) != 2 || m[1] == "" {
		return "Unknown"
	}
	return m[1]
}

// ValidateCore reports whether the event satisfies the persistence invariant:
// non-null id, magnitude, latitude, longitude and depth. The returned error
// wraps ErrMissingCoreFields and names the offending fields.
func ValidateCore(e QuakeEvent) error {
	var missing []string
	if e.ID == "" {
		missing = append(missing, "id")
	}
	if e.Magnitude == nil {
		missing = append(missing, "magnitude")
	}
	if e.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if e.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if e.DepthKM == nil {
		missing = append(missing, "depth_km")
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrMissingCoreFields, missing)
}

// mondayIndexed converts Go's Sunday=0 weekday to the Monday=0 convention
// used by the stored day_of_week field.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func stringOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return "unknown"
	}
	return *s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func intOrZero(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func int64OrZero(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}
