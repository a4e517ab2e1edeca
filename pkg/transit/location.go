package transit

import "math"

const earthRadiusMeters = 6371000

// Location is a GeoJSON point, coordinates ordered longitude then latitude.
type Location struct {
	Type        string    `json:"-"`
	Coordinates []float64 `json:"coordinates"`
}

func NewLocation(latitude float64, longitude float64) *Location {
	return &Location{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

func (l *Location) Longitude() float64 {
	return l.Coordinates[0]
}

func (l *Location) Latitude() float64 {
	return l.Coordinates[1]
}

// DistanceTo returns the great-circle distance in meters between the two
// locations using the Haversine formula.
func (l *Location) DistanceTo(other *Location) float64 {
	rad := math.Pi / 180

	lat1 := l.Latitude() * rad
	lat2 := other.Latitude() * rad
	deltaLat := (other.Latitude() - l.Latitude()) * rad
	deltaLon := (other.Longitude() - l.Longitude()) * rad

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
