package feed

import (
	"strconv"
	"strings"
	"time"
)

// Column layout of the `;` delimited feed. The first line is a header.
const (
	columnTimestamp  = 1
	columnLatitude   = 2
	columnLongitude  = 3
	columnVehicle    = 4
	columnLineCode   = 6
	requiredColumns  = 7
	timestampPattern = "20060102150405"
)

// Timestamps arrive without a zone marker in whatever shape the upstream
// system felt like that day, so a couple of fallback layouts are tried.
var fallbackTimestampPatterns = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
}

// RawPosition is one successfully parsed feed row, line code still untranslated.
type RawPosition struct {
	RecordedAt  time.Time
	Latitude    float64
	Longitude   float64
	VehicleID   string
	RawLineCode string
}

// ParsePayload turns one raw payload into parsed rows. Malformed rows are
// skipped and counted, never fatal.
func ParsePayload(payload string, feedTimezone *time.Location) ([]RawPosition, int) {
	rows := strings.FieldsFunc(payload, func(r rune) bool {
		return r == '\r' || r == '\n'
	})

	var positions []RawPosition
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		position, ok := parseRow(row, feedTimezone)
		if !ok {
			skipped++
			continue
		}

		positions = append(positions, position)
	}

	return positions, skipped
}

func parseRow(row string, feedTimezone *time.Location) (RawPosition, bool) {
	columns := strings.Split(row, ";")
	if len(columns) < requiredColumns {
		return RawPosition{}, false
	}

	recordedAt, ok := parseTimestamp(columns[columnTimestamp], feedTimezone)
	if !ok {
		return RawPosition{}, false
	}

	latitude, ok := parseCoordinate(columns[columnLatitude])
	if !ok {
		return RawPosition{}, false
	}

	longitude, ok := parseCoordinate(columns[columnLongitude])
	if !ok {
		return RawPosition{}, false
	}

	return RawPosition{
		RecordedAt:  recordedAt,
		Latitude:    latitude,
		Longitude:   longitude,
		VehicleID:   columns[columnVehicle],
		RawLineCode: strings.TrimSpace(columns[columnLineCode]),
	}, true
}

func parseTimestamp(value string, feedTimezone *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)

	if timestamp, err := time.ParseInLocation(timestampPattern, value, feedTimezone); err == nil {
		return timestamp.UTC(), true
	}

	for _, pattern := range fallbackTimestampPatterns {
		if timestamp, err := time.ParseInLocation(pattern, value, feedTimezone); err == nil {
			return timestamp.UTC(), true
		}
	}

	return time.Time{}, false
}

// The feed writes decimals with a comma.
func parseCoordinate(value string) (float64, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")

	coordinate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}

	return coordinate, true
}
