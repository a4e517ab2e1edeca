package routes

import (
	"github.com/bustracker/bustracker/pkg/store"
	"github.com/gofiber/fiber/v2"
)

const minSearchQueryLength = 3

type StopsRouter struct {
	Stops store.StopRepository
	Lines store.LineRepository
}

func (r StopsRouter) Register(router fiber.Router) {
	router.Get("/", r.searchStops)
	router.Get("/:code/lines", r.linesAtStop)
}

func (r StopsRouter) searchStops(c *fiber.Ctx) error {
	query := c.Query("query")

	if len(query) < minSearchQueryLength {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Please enter at least 3 characters",
		})
	}

	stops, err := r.Stops.SearchStops(c.Context(), query)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to search stops",
		})
	}

	results := make([]fiber.Map, 0, len(stops))
	for _, stop := range stops {
		results = append(results, fiber.Map{
			"code":      stop.Code,
			"name":      stop.Name,
			"latitude":  stop.Location.Latitude(),
			"longitude": stop.Location.Longitude(),
		})
	}

	return c.JSON(results)
}

func (r StopsRouter) linesAtStop(c *fiber.Ctx) error {
	code := c.Params("code")

	stop, err := r.Stops.FindStop(c.Context(), code)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to look up stop",
		})
	}
	if stop == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Stop not found",
		})
	}

	lines, err := r.Lines.LinesAtStop(c.Context(), code)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to look up lines",
		})
	}

	results := make([]fiber.Map, 0, len(lines))
	for _, line := range lines {
		results = append(results, fiber.Map{
			"lineNumber": line.DisplayNumber,
			"lineName":   line.Name,
		})
	}

	return c.JSON(results)
}
