package transit

type Stop struct {
	Code string
	Name string

	Location *Location
}
