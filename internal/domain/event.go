package domain

import "time"

// RawEvent is one GeoJSON feature from the USGS event feed, as delivered by
// the fetch adapter. It exists only for the duration of one normalization
// call.
type RawEvent struct {
	ID         string        `json:"id"`
	Geometry   *RawGeometry  `json:"geometry"`
	Properties RawProperties `json:"properties"`
}

// RawGeometry holds the feature's coordinate triple: [longitude, latitude,
// depth-km]. A missing or short triple means all three are treated as absent.
type RawGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// RawProperties is the USGS property bag. Pointer fields distinguish
// "not reported" from a reported zero, which matters for the intensity
// fields (felt, cdi, mmi).
type RawProperties struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Time    *int64   `json:"time"`    // epoch milliseconds
	Updated *int64   `json:"updated"` // epoch milliseconds
	Tz      *int     `json:"tz"`      // minutes offset from UTC
	URL     *string  `json:"url"`
	Detail  *string  `json:"detail"`
	Felt    *float64 `json:"felt"`
	CDI     *float64 `json:"cdi"`
	MMI     *float64 `json:"mmi"`
	Alert   *string  `json:"alert"`
	Status  *string  `json:"status"`
	Tsunami *int     `json:"tsunami"`
	Sig     *float64 `json:"sig"`
	Net     *string  `json:"net"`
	Code    *string  `json:"code"`
	IDs     *string  `json:"ids"`
	Sources *string  `json:"sources"`
	Types   *string  `json:"types"`
	Nst     *float64 `json:"nst"`
	Dmin    *float64 `json:"dmin"`
	RMS     *float64 `json:"rms"`
	Gap     *float64 `json:"gap"`
	MagType *string  `json:"magType"`
	Type    *string  `json:"type"`
	Title   *string  `json:"title"`
}

// QuakeEvent is the normalized, flat record persisted for downstream
// consumers. The JSON tags are the stored field names and form the durable
// output contract; renaming one is a breaking change.
//
// Magnitude, Latitude, Longitude and DepthKM stay pointers because an event
// missing any of them must be dropped, not stored with a sentinel. The
// intensity fields stay pointers because absent means "not reported",
// distinct from a reported zero.
type QuakeEvent struct {
	ID string `json:"id"`

	Magnitude *float64 `json:"magnitude"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	DepthKM   *float64 `json:"depth_km"`

	Location         string `json:"location"`
	TimeEpoch        int64  `json:"time_epoch"`
	UpdatedTimeEpoch int64  `json:"updated_time_epoch"`
	TimezoneOffset   int    `json:"timezone"`
	DetailURL        string `json:"detail_url"`
	DetailAPI        string `json:"detail_api"`

	FeltReports  *float64 `json:"felt_reports"`
	CDIIntensity *float64 `json:"cdi_intensity"`
	MMIIntensity *float64 `json:"mmi_intensity"`

	AlertLevel     string  `json:"alert_level"`
	ReviewStatus   string  `json:"review_status"`
	TsunamiWarning int     `json:"tsunami_warning"`
	Significance   float64 `json:"significance"`

	Network     string `json:"network"`
	EventCode   string `json:"event_code"`
	EventIDs    string `json:"event_ids"`
	DataSources string `json:"data_sources"`
	EventTypes  string `json:"event_types"`

	StationCount             float64 `json:"station_count"`
	DistanceToNearestStation float64 `json:"distance_to_nearest_station"`
	RMSAmplitude             float64 `json:"rms_amplitude"`
	AzimuthalGap             float64 `json:"azimuthal_gap"`

	MagnitudeType string `json:"magnitude_type"`
	EventType     string `json:"event_type"`
	EventTitle    string `json:"event_title"`
	GeometryType  string `json:"geometry_type"`

	// Derived calendar breakdown of TimeEpoch (UTC, Monday=0 day-of-week).
	TimeReadable string `json:"time_readable"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Day          int    `json:"day"`
	Hour         int    `json:"hour"`
	DayOfWeek    int    `json:"day_of_week"`
	Quarter      int    `json:"quarter"`
	UpdatedYear  int    `json:"updated_year"`
	UpdatedMonth int    `json:"updated_month"`

	// Derived enrichment fields.
	RegionName          string `json:"region_name"`
	LocationInfoDisplay string `json:"location_info_display"`
	Country             string `json:"country"`
	Continent           string `json:"continent"`
	FullAlertLevel      string `json:"full_alert_level"`
	DepthCategory       string `json:"depth_category"`
	MagCategory         string `json:"mag_category"`

	ProcessedAt time.Time `json:"processed_at"`
}

// EventTime returns the primary event timestamp in UTC.
func (e QuakeEvent) EventTime() time.Time {
	return time.UnixMilli(e.TimeEpoch).UTC()
}

// magnitudeOrZero is used by the alert rules, which run before the
// missing-field drop check.
func (e QuakeEvent) magnitudeOrZero() float64 {
	if e.Magnitude == nil {
		return 0
	}
	return *e.Magnitude
}
