package dynamo

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/quakewatch/quake-data-ingest/internal/domain"
)

// coerceEvent converts a normalized event into a DynamoDB item. Numbers are
// written as number attributes with their exact shortest decimal form, never
// as stringified floats, and optional fields that were absent upstream are
// omitted from the item rather than stored as a sentinel.
func coerceEvent(e domain.QuakeEvent) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: e.ID},
	}

	setFloatPtr(item, "magnitude", e.Magnitude)
	setFloatPtr(item, "latitude", e.Latitude)
	setFloatPtr(item, "longitude", e.Longitude)
	setFloatPtr(item, "depth_km", e.DepthKM)

	setString(item, "location", e.Location)
	setInt64(item, "time_epoch", e.TimeEpoch)
	setInt64(item, "updated_time_epoch", e.UpdatedTimeEpoch)
	setInt(item, "timezone", e.TimezoneOffset)
	setString(item, "detail_url", e.DetailURL)
	setString(item, "detail_api", e.DetailAPI)

	setFloatPtr(item, "felt_reports", e.FeltReports)
	setFloatPtr(item, "cdi_intensity", e.CDIIntensity)
	setFloatPtr(item, "mmi_intensity", e.MMIIntensity)

	setString(item, "alert_level", e.AlertLevel)
	setString(item, "review_status", e.ReviewStatus)
	setInt(item, "tsunami_warning", e.TsunamiWarning)
	setFloat(item, "significance", e.Significance)

	setString(item, "network", e.Network)
	setString(item, "event_code", e.EventCode)
	setString(item, "event_ids", e.EventIDs)
	setString(item, "data_sources", e.DataSources)
	setString(item, "event_types", e.EventTypes)

	setFloat(item, "station_count", e.StationCount)
	setFloat(item, "distance_to_nearest_station", e.DistanceToNearestStation)
	setFloat(item, "rms_amplitude", e.RMSAmplitude)
	setFloat(item, "azimuthal_gap", e.AzimuthalGap)

	setString(item, "magnitude_type", e.MagnitudeType)
	setString(item, "event_type", e.EventType)
	setString(item, "event_title", e.EventTitle)
	setString(item, "geometry_type", e.GeometryType)

	setString(item, "time_readable", e.TimeReadable)
	setInt(item, "year", e.Year)
	setInt(item, "month", e.Month)
	setInt(item, "day", e.Day)
	setInt(item, "hour", e.Hour)
	setInt(item, "day_of_week", e.DayOfWeek)
	setInt(item, "quarter", e.Quarter)
	setInt(item, "updated_year", e.UpdatedYear)
	setInt(item, "updated_month", e.UpdatedMonth)

	setString(item, "region_name", e.RegionName)
	setString(item, "location_info_display", e.LocationInfoDisplay)
	setString(item, "country", e.Country)
	setString(item, "continent", e.Continent)
	setString(item, "full_alert_level", e.FullAlertLevel)
	setString(item, "depth_category", e.DepthCategory)
	setString(item, "mag_category", e.MagCategory)

	if !e.ProcessedAt.IsZero() {
		item["processed_at"] = &types.AttributeValueMemberS{Value: e.ProcessedAt.UTC().Format(time.RFC3339)}
	}

	return item
}

func setFloatPtr(item map[string]types.AttributeValue, name string, v *float64) {
	if v == nil {
		return
	}
	setFloat(item, name, *v)
}

func setFloat(item map[string]types.AttributeValue, name string, v float64) {
	item[name] = &types.AttributeValueMemberN{Value: formatNumber(v)}
}

func setInt(item map[string]types.AttributeValue, name string, v int) {
	item[name] = &types.AttributeValueMemberN{Value: strconv.Itoa(v)}
}

func setInt64(item map[string]types.AttributeValue, name string, v int64) {
	item[name] = &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func setString(item map[string]types.AttributeValue, name string, v string) {
	item[name] = &types.AttributeValueMemberS{Value: v}
}

// formatNumber renders the shortest decimal string that round-trips the
// float. The 'f' format avoids exponents, which the number type rejects for
// the magnitudes seen here.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
