// Package domain models USGS earthquake feed data.
//
// # Data Source
//
// Events originate from the USGS FDSN event web service
// (https://earthquake.usgs.gov/fdsnws/event/1/query) queried in GeoJSON
// format. Each feature carries a geometry (a [longitude, latitude, depth-km]
// coordinate triple) and a property bag with magnitude, timing, alert and
// measurement-quality fields. The feed's own feature id (e.g. "us7000abcd")
// is globally unique per source event and is used unchanged as the storage
// key, which makes repeated ingestion of an overlapping window an idempotent
// upsert rather than a duplicate row.
//
// # USGS Conventions
//
// Place strings:
//
//	"<distance> <compass> of <place>, <region>"  →  e.g. "10km SW of Reno, NV"
//	The substring after the last comma names the containing region (a country,
//	or a US state for domestic events) and is extracted as region_name.
//
// Times:
//
//	Epoch milliseconds, UTC. The primary event time is decomposed into
//	year/month/day/hour/day-of-week/quarter calendar fields for storage-side
//	filtering; the "updated" time into year/month only. Day-of-week uses the
//	Monday=0 convention of the original analytics pipeline.
//
// Missing values:
//
//	Categorical fields (alert, place, magType, type) default to "unknown".
//	Quality counters (sig, tsunami, nst, dmin, rms, gap) default to zero.
//	Intensity fields (felt, cdi, mmi) stay absent when unreported, because
//	zero is a meaningful reported value for them. Events missing any of
//	id, magnitude, latitude, longitude or depth are dropped before
//	persistence.
//
// Alert taxonomy:
//
//	The PAGER alert level (green/yellow/orange/red) is combined with the
//	tsunami flag and magnitude into full_alert_level, a single ordered
//	severity label evaluated by strict first-match priority. See
//	[FullAlertLevel].
//
// Depth and magnitude categories follow the standard seismological bins
// (shallow/intermediate/deep focus; Micro through Great). See classify.go.
package domain
