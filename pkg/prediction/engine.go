package prediction

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bustracker/bustracker/pkg/store"
	"github.com/bustracker/bustracker/pkg/transit"
	"github.com/rs/zerolog/log"
)

// The two precondition failures a caller can get back. Everything else
// degrades to an empty result.
var (
	ErrStopNotFound  = errors.New("stop not found")
	ErrLineNotAtStop = errors.New("line does not serve stop")
)

// Trajectory classification thresholds.
const (
	stopProximityThresholdMeters   = 150
	movingAwayMultiplier           = 1.5
	movingAwayMinDeltaMeters       = 100
	minPositionsForTrajectory      = 3
	minPositionsAfterMin           = 2
	distanceToleranceMeters        = 20
	passedStopDeltaMeters          = 200
	closeProximityMeters           = 100
	stationaryToleranceMeters      = 30
	singlePositionMaxDistanceMeter = 500
)

// Prediction is the arrival estimate for the closest surviving vehicle.
// Vehicle is empty when the line is known but no live vehicle was found.
type Prediction struct {
	Line           string      `json:"line"`
	Vehicle        string      `json:"vehicle"`
	DistanceMeters float64     `json:"distanceMeters"`
	ETAMinutes     float64     `json:"etaMinutes"`
	SecondClosest  *Prediction `json:"secondClosest,omitempty"`
}

// Engine answers "when does line L reach stop S" from the recent position
// history. It only ever reads from the store, so any number of predictions
// can run concurrently with an in-flight ingest cycle.
type Engine struct {
	Stops     store.StopRepository
	Lines     store.LineRepository
	Positions store.PositionRepository

	Window time.Duration
}

type candidate struct {
	position transit.VehiclePosition
	distance float64
}

func (e *Engine) Predict(ctx context.Context, stopCode string, lineNumber string) (*Prediction, error) {
	stop, err := e.Stops.FindStop(ctx, stopCode)
	if err != nil {
		return nil, err
	}
	if stop == nil {
		return nil, ErrStopNotFound
	}

	cleanLine := strings.ToLower(strings.TrimSpace(lineNumber))

	serves, err := e.Lines.LineServesStop(ctx, stopCode, cleanLine)
	if err != nil {
		return nil, err
	}
	if !serves {
		return nil, ErrLineNotAtStop
	}

	since := time.Now().UTC().Add(-e.Window)
	positions, err := e.Positions.PositionsForLine(ctx, cleanLine, since)
	if err != nil {
		return nil, err
	}

	if len(positions) == 0 {
		return &Prediction{Line: lineNumber}, nil
	}

	candidates := classifyVehicles(positions, stop.Location)
	if len(candidates) == 0 {
		return &Prediction{Line: lineNumber}, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	result := buildPrediction(candidates[0])
	if len(candidates) > 1 {
		result.SecondClosest = buildPrediction(candidates[1])
	}

	log.Debug().
		Str("stop", stopCode).
		Str("line", lineNumber).
		Int("candidates", len(candidates)).
		Str("vehicle", result.Vehicle).
		Msg("Prediction computed")

	return result, nil
}

// classifyVehicles rebuilds each vehicle's trajectory within the window and
// keeps the ones still plausibly heading for the stop.
func classifyVehicles(positions []transit.VehiclePosition, stopLocation *transit.Location) []candidate {
	trajectories := map[string][]transit.VehiclePosition{}
	for _, position := range positions {
		trajectories[position.VehicleNumber] = append(trajectories[position.VehicleNumber], position)
	}

	var candidates []candidate

	for _, trajectory := range trajectories {
		sort.Slice(trajectory, func(i, j int) bool {
			return trajectory[i].Timestamp.Before(trajectory[j].Timestamp)
		})

		distances := make([]float64, len(trajectory))
		for i, position := range trajectory {
			distances[i] = position.Location.DistanceTo(stopLocation)
		}

		if vehicleCandidate, accepted := classifyTrajectory(trajectory, distances); accepted {
			candidates = append(candidates, vehicleCandidate)
		}
	}

	return candidates
}

func classifyTrajectory(trajectory []transit.VehiclePosition, distances []float64) (candidate, bool) {
	current := distances[len(distances)-1]

	minHistorical := distances[0]
	minIndex := 0
	for i, distance := range distances {
		if distance < minHistorical {
			minHistorical = distance
			minIndex = i
		}
	}

	if hasPassedStop(distances, current, minHistorical, minIndex) {
		return candidate{}, false
	}

	latest := trajectory[len(trajectory)-1]

	if len(distances) >= 2 {
		previous := distances[len(distances)-2]

		closingIn := current < previous
		stationaryNear := current < closeProximityMeters &&
			math.Abs(current-previous) < stationaryToleranceMeters

		if closingIn || stationaryNear {
			return candidate{position: latest, distance: current}, true
		}

		return candidate{}, false
	}

	// Single sample, no direction information: only trust it very near the stop
	if current < singlePositionMaxDistanceMeter {
		return candidate{position: latest, distance: current}, true
	}

	return candidate{}, false
}

func hasPassedStop(distances []float64, current float64, minHistorical float64, minIndex int) bool {
	// Close approach followed by a sharp retreat
	if minHistorical < stopProximityThresholdMeters &&
		current > minHistorical*movingAwayMultiplier &&
		current > minHistorical+movingAwayMinDeltaMeters {
		return true
	}

	if len(distances) < minPositionsForTrajectory {
		return false
	}

	// Monotonic retreat since the closest point
	afterMin := distances[minIndex:]
	if len(afterMin) < minPositionsAfterMin {
		return false
	}

	for i := 1; i < len(afterMin); i++ {
		if afterMin[i] < afterMin[i-1]-distanceToleranceMeters {
			return false
		}
	}

	return current > minHistorical+passedStopDeltaMeters
}

func buildPrediction(vehicleCandidate candidate) *Prediction {
	roadDistance, etaMinutes := Estimate(vehicleCandidate.distance)

	return &Prediction{
		Line:           vehicleCandidate.position.LineNumber,
		Vehicle:        vehicleCandidate.position.VehicleNumber,
		DistanceMeters: roadDistance,
		ETAMinutes:     etaMinutes,
	}
}
