package store

import (
	"context"
	"time"

	"github.com/bustracker/bustracker/pkg/transit"
)

// PositionRepository is the only position-facing storage surface the ingest
// cycle and the prediction engine depend on.
type PositionRepository interface {
	AppendPositions(ctx context.Context, positions []transit.VehiclePosition) error
	PositionsForLine(ctx context.Context, lineSubstring string, since time.Time) ([]transit.VehiclePosition, error)
	DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error)
}

// StopRepository reads static stop reference data.
type StopRepository interface {
	FindStop(ctx context.Context, code string) (*transit.Stop, error)
	SearchStops(ctx context.Context, query string) ([]transit.Stop, error)
}

// LineRepository reads static line reference data and the line/stop relations.
type LineRepository interface {
	AllLines(ctx context.Context) ([]transit.Line, error)
	SearchLines(ctx context.Context, query string) ([]transit.Line, error)
	LineServesStop(ctx context.Context, stopCode string, lineSubstring string) (bool, error)
	LinesAtStop(ctx context.Context, stopCode string) ([]transit.Line, error)
	StopsOnLine(ctx context.Context, lineSubstring string) ([]StopOnLine, error)
}

// StopOnLine is one entry of a line's ordered stop sequence.
type StopOnLine struct {
	StopCode string
	StopName string
	Sequence int

	Location *transit.Location
}
