package transit

import "time"

// VehiclePosition is a single observation of one vehicle. Records are
// immutable once written; the retention sweep is the only thing that
// removes them.
type VehiclePosition struct {
	Timestamp     time.Time
	LineNumber    string
	VehicleNumber string

	Location *Location
}
