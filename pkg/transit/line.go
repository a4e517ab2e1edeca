package transit

// Line is a bus line as the reference data knows it. ExternalID is the
// feed/GTFS route identifier, DisplayNumber the number riders see.
type Line struct {
	ExternalID    string
	DisplayNumber string
	Name          string
}

// LineStop records that a line calls at a stop. Denormalised so that
// "does line X serve stop Y" is a single collection lookup.
type LineStop struct {
	StopCode          string
	LineDisplayNumber string
	LineName          string
	Sequence          int
}
