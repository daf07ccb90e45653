package domain

import (
	"context"
	"log/slog"
)

// Attribution is the (country, continent) pair resolved for an event.
type Attribution struct {
	Country   string
	Continent string
}

// UnknownAttribution is what every resolution failure collapses to. Geographic
// enrichment is best-effort and must never abort ingestion of an otherwise
// valid event.
var UnknownAttribution = Attribution{Country: "Unknown", Continent: "Unknown"}

// GeoResolver maps a place string and coordinates to a country and continent.
type GeoResolver interface {
	Resolve(ctx context.Context, location string, lat, lon float64) Attribution
}

// EnrichWithGeo attaches country/continent attribution to an event. A nil
// resolver, or an event with no coordinates, yields UnknownAttribution
// (graceful degradation, mirroring the resolver's own failure behavior).
func EnrichWithGeo(ctx context.Context, event QuakeEvent, resolver GeoResolver, logger *slog.Logger) QuakeEvent {
	if resolver == nil || event.Latitude == nil || event.Longitude == nil {
		event.Country = UnknownAttribution.Country
		event.Continent = UnknownAttribution.Continent
		return event
	}

	attr := resolver.Resolve(ctx, event.Location, *event.Latitude, *event.Longitude)
	if attr.Country == "" || attr.Continent == "" {
		logger.Debug("geo attribution incomplete",
			"event_id", event.ID,
			"location", event.Location,
			"country", attr.Country,
		)
		attr = UnknownAttribution
	}
	event.Country = attr.Country
	event.Continent = attr.Continent
	return event
}
