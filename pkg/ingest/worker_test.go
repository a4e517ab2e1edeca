package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bustracker/bustracker/pkg/linecode"
	"github.com/bustracker/bustracker/pkg/transit"
)

var testTimezone = time.FixedZone("FEED", -3*3600)

type fakeFeed struct {
	payload string
	err     error
}

func (f *fakeFeed) Fetch(ctx context.Context) (string, error) {
	return f.payload, f.err
}

type fakePositionStore struct {
	appended       []transit.VehiclePosition
	appendErr      error
	sweepThreshold time.Time
	sweepCalls     int
	sweepErr       error
}

func (s *fakePositionStore) AppendPositions(ctx context.Context, positions []transit.VehiclePosition) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, positions...)
	return nil
}

func (s *fakePositionStore) PositionsForLine(ctx context.Context, lineSubstring string, since time.Time) ([]transit.VehiclePosition, error) {
	return nil, errors.New("not implemented")
}

func (s *fakePositionStore) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	s.sweepCalls++
	s.sweepThreshold = threshold
	if s.sweepErr != nil {
		return 0, s.sweepErr
	}
	return 3, nil
}

type fakeLineSource struct {
	lines []transit.Line
}

func (s *fakeLineSource) AllLines(ctx context.Context) ([]transit.Line, error) {
	return s.lines, nil
}

func newTestWorker(feedSource FeedSource, positions *fakePositionStore) *Worker {
	translator := linecode.NewTranslator(&fakeLineSource{lines: []transit.Line{
		{ExternalID: "4403", DisplayNumber: "51"},
	}}, time.Hour)

	return &Worker{
		Feed:       feedSource,
		Translator: translator,
		Positions:  positions,

		Interval:     10 * time.Millisecond,
		Retention:    5 * time.Minute,
		FeedTimezone: testTimezone,
	}
}

func TestRunCycleStoresTranslatedPositions(t *testing.T) {
	payload := "header\n" +
		"x;20240315120000;-19,912;-43,940;40231;30;4403\n" +
		"x;20240315120030;-19,913;-43,941;40232;28;9999\n"

	positions := &fakePositionStore{}
	worker := newTestWorker(&fakeFeed{payload: payload}, positions)

	worker.RunCycle(context.Background())

	if len(positions.appended) != 2 {
		t.Fatalf("expected 2 stored positions, got %d", len(positions.appended))
	}

	if positions.appended[0].LineNumber != "51" {
		t.Errorf("expected translated line number 51, got %q", positions.appended[0].LineNumber)
	}

	// 9999 is in neither map, it survives unchanged
	if positions.appended[1].LineNumber != "9999" {
		t.Errorf("expected identity fallback 9999, got %q", positions.appended[1].LineNumber)
	}

	if positions.appended[0].Timestamp.Location() != time.UTC {
		t.Errorf("stored timestamps should be UTC")
	}
}

func TestRunCycleSweepsOldPositions(t *testing.T) {
	positions := &fakePositionStore{}
	worker := newTestWorker(&fakeFeed{payload: "header\n"}, positions)

	before := time.Now().UTC().Add(-worker.Retention)
	worker.RunCycle(context.Background())
	after := time.Now().UTC().Add(-worker.Retention)

	if positions.sweepCalls != 1 {
		t.Fatalf("expected 1 sweep, got %d", positions.sweepCalls)
	}

	if positions.sweepThreshold.Before(before) || positions.sweepThreshold.After(after) {
		t.Errorf("sweep threshold %v outside expected range", positions.sweepThreshold)
	}
}

func TestRunCycleFeedFailureWritesNothingButStillSweeps(t *testing.T) {
	positions := &fakePositionStore{}
	worker := newTestWorker(&fakeFeed{err: errors.New("connection refused")}, positions)

	worker.RunCycle(context.Background())

	if len(positions.appended) != 0 {
		t.Errorf("feed failure should write nothing, got %d positions", len(positions.appended))
	}
	if positions.sweepCalls != 1 {
		t.Errorf("sweep should still run after a feed failure, got %d calls", positions.sweepCalls)
	}
}

func TestRunCycleStoreFailureIsNonFatal(t *testing.T) {
	payload := "header\n" +
		"x;20240315120000;-19,912;-43,940;40231;30;4403\n"

	positions := &fakePositionStore{
		appendErr: errors.New("storage unavailable"),
		sweepErr:  errors.New("storage unavailable"),
	}
	worker := newTestWorker(&fakeFeed{payload: payload}, positions)

	// Must not panic or abort
	worker.RunCycle(context.Background())
}

func TestRunStopsOnCancellation(t *testing.T) {
	positions := &fakePositionStore{}
	worker := newTestWorker(&fakeFeed{payload: "header\n"}, positions)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}

	if positions.sweepCalls == 0 {
		t.Error("worker should have completed at least one cycle before stopping")
	}
}
