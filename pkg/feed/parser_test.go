package feed

import (
	"testing"
	"time"
)

var feedTimezone = time.FixedZone("FEED", -3*3600)

func TestParsePayloadHappyPath(t *testing.T) {
	payload := "HR;DT;LT;LG;NV;VL;NL\r\n" +
		"x;20240315120000;-19,912;-43,940;40231;30;4403\r\n" +
		"x;20240315120030;-19,913;-43,941;40232;28;9250\r\n"

	positions, skipped := ParsePayload(payload, feedTimezone)

	if skipped != 0 {
		t.Errorf("expected no skipped rows, got %d", skipped)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	first := positions[0]

	// 12:00 at UTC-3 is 15:00 UTC
	expected := time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC)
	if !first.RecordedAt.Equal(expected) {
		t.Errorf("expected timestamp %v, got %v", expected, first.RecordedAt)
	}

	if first.Latitude != -19.912 {
		t.Errorf("expected latitude -19.912, got %f", first.Latitude)
	}
	if first.Longitude != -43.940 {
		t.Errorf("expected longitude -43.940, got %f", first.Longitude)
	}
	if first.VehicleID != "40231" {
		t.Errorf("expected vehicle 40231, got %q", first.VehicleID)
	}
	if first.RawLineCode != "4403" {
		t.Errorf("expected line code 4403, got %q", first.RawLineCode)
	}
}

func TestParsePayloadSkipsMalformedRows(t *testing.T) {
	payload := "HR;DT;LT;LG;NV;VL;NL\n" +
		"x;20240315120000;-19,912;-43,940;40231;30;4403\n" +
		"x;too;few\n" +
		"x;notatimestamp;-19,912;-43,940;40231;30;4403\n" +
		"x;20240315120000;not-a-number;-43,940;40231;30;4403\n" +
		"x;20240315120000;-19,912;not-a-number;40231;30;4403\n"

	positions, skipped := ParsePayload(payload, feedTimezone)

	if len(positions) != 1 {
		t.Errorf("expected 1 position, got %d", len(positions))
	}
	if skipped != 4 {
		t.Errorf("expected 4 skipped rows, got %d", skipped)
	}
}

func TestParsePayloadFallbackTimestamp(t *testing.T) {
	payload := "header\n" +
		"x;2024-03-15 12:00:00;-19,912;-43,940;40231;30;4403\n"

	positions, skipped := ParsePayload(payload, feedTimezone)

	if skipped != 0 || len(positions) != 1 {
		t.Fatalf("expected fallback layout to parse, got %d positions %d skipped", len(positions), skipped)
	}

	expected := time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC)
	if !positions[0].RecordedAt.Equal(expected) {
		t.Errorf("expected timestamp %v, got %v", expected, positions[0].RecordedAt)
	}
}

func TestParsePayloadTrimsLineCode(t *testing.T) {
	payload := "header\n" +
		"x;20240315120000;-19,912;-43,940;40231;30; 4403 \n"

	positions, _ := ParsePayload(payload, feedTimezone)

	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
	if positions[0].RawLineCode != "4403" {
		t.Errorf("expected trimmed line code, got %q", positions[0].RawLineCode)
	}
}

func TestParsePayloadEmptyAndHeaderOnly(t *testing.T) {
	if positions, skipped := ParsePayload("", feedTimezone); len(positions) != 0 || skipped != 0 {
		t.Errorf("empty payload should parse to nothing")
	}

	if positions, skipped := ParsePayload("just;a;header\r\n", feedTimezone); len(positions) != 0 || skipped != 0 {
		t.Errorf("header only payload should parse to nothing")
	}
}
