// Package geo resolves a USGS place string and coordinates to a country and
// continent using an ordered fallback chain over static reference tables,
// with a coordinate→country locator as the last resort.
package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quakewatch/quake-data-ingest/internal/domain"
)

// CountryLocator reverse-geocodes a coordinate pair to an ISO alpha-2
// country code. Implemented by the mapbox adapter.
type CountryLocator interface {
	CountryCode(ctx context.Context, lat, lon float64) (string, error)
}

// Resolver implements domain.GeoResolver. Resolution order, first match wins:
//
//  1. the trailing-comma region of the place string matched as a country name
//  2. the region matched as a US state abbreviation or full name
//  3. reverse geocoding of the coordinates via the locator
//
// The continent is always derived from the resolved country's alpha-2 code.
// Internally every miss is an error; Resolve collapses all of them to
// domain.UnknownAttribution at the boundary so enrichment failures can never
// abort ingestion.
type Resolver struct {
	tables  *Tables
	locator CountryLocator // nil disables the coordinate fallback
	logger  *slog.Logger
}

// NewResolver builds a Resolver around the given reference tables. Pass a nil
// locator to resolve from the tables alone.
func NewResolver(tables *Tables, locator CountryLocator, logger *slog.Logger) *Resolver {
	return &Resolver{tables: tables, locator: locator, logger: logger}
}

var (
	errNoLocator        = errors.New("no coordinate locator configured")
	errUnknownCountry   = errors.New("country code not in reference tables")
	errUnknownContinent = errors.New("no continent for country code")
)

// Resolve maps a place string and coordinates to (country, continent).
// All failures collapse to ("Unknown", "Unknown").
func (r *Resolver) Resolve(ctx context.Context, location string, lat, lon float64) domain.Attribution {
	attr, err := r.resolve(ctx, location, lat, lon)
	if err != nil {
		r.logger.Debug("geo resolution failed",
			"location", location, "lat", lat, "lon", lon, "error", err)
		return domain.UnknownAttribution
	}
	return attr
}

func (r *Resolver) resolve(ctx context.Context, location string, lat, lon float64) (domain.Attribution, error) {
	region := domain.ExtractRegion(location)
	if region != "Unknown" {
		if code, ok := r.tables.CountryCode(region); ok {
			return r.attribution(region, code)
		}
		if r.tables.IsUSState(region) {
			return r.attribution("United States", "US")
		}
	}

	if r.locator == nil {
		return domain.Attribution{}, errNoLocator
	}
	code, err := r.locator.CountryCode(ctx, lat, lon)
	if err != nil {
		return domain.Attribution{}, fmt.Errorf("locate (%.4f, %.4f): %w", lat, lon, err)
	}
	name, ok := r.tables.CountryName(code)
	if !ok {
		return domain.Attribution{}, fmt.Errorf("%w: %q", errUnknownCountry, code)
	}
	return r.attribution(name, code)
}

func (r *Resolver) attribution(country, code string) (domain.Attribution, error) {
	continent, ok := r.tables.Continent(code)
	if !ok {
		return domain.Attribution{}, fmt.Errorf("%w: %q", errUnknownContinent, code)
	}
	return domain.Attribution{Country: country, Continent: continent}, nil
}
