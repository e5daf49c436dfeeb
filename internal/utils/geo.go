package utils

import (
	"strconv"
	"strings"
)

// ParseLatLng parses the "lat,lng" path segment used by the geospatial
// endpoints.
func ParseLatLng(latlng string) (lat, lng float64, ok bool) {
	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// RadiusInRadians converts a distance in the given unit to the radians Mongo
// expects for $centerSphere.
func RadiusInRadians(distance float64, unit string) float64 {
	if unit == "mi" {
		return distance / EarthRadiusMiles
	}
	return distance / EarthRadiusKm
}

// DistanceMultiplier converts meters (the $geoNear default) to the requested
// unit.
func DistanceMultiplier(unit string) float64 {
	if unit == "mi" {
		return 1 / MetersPerMile
	}
	return 0.001
}
