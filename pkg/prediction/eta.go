package prediction

import "math"

// Straight-line distance is converted to an estimated road distance with a
// tortuosity factor, then to minutes with a flat average speed plus a per
// kilometre traffic penalty.
const (
	shortDistanceThresholdMeters = 500
	shortDistanceTortuosity      = 1.2
	longDistanceTortuosity       = 1.35
	averageSpeedMetersPerMinute  = 190
	trafficDelayPerKilometer     = 0.6
	metersPerKilometer           = 1000
)

// Estimate converts a straight-line distance in meters into a rounded road
// distance and arrival estimate.
func Estimate(straightDistanceMeters float64) (roadDistanceMeters float64, etaMinutes float64) {
	tortuosity := longDistanceTortuosity
	if straightDistanceMeters < shortDistanceThresholdMeters {
		tortuosity = shortDistanceTortuosity
	}

	roadDistance := straightDistanceMeters * tortuosity

	minutes := roadDistance / averageSpeedMetersPerMinute
	minutes += (roadDistance / metersPerKilometer) * trafficDelayPerKilometer

	return math.Round(roadDistance), math.Round(minutes)
}
