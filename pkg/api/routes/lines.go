package routes

import (
	"strings"

	"github.com/bustracker/bustracker/pkg/store"
	"github.com/gofiber/fiber/v2"
)

type LinesRouter struct {
	Lines store.LineRepository
}

func (r LinesRouter) Register(router fiber.Router) {
	router.Get("/", r.searchLines)
	router.Get("/:number/stops", r.stopsOnLine)
}

func (r LinesRouter) searchLines(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))

	if query == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A search query must be provided",
		})
	}

	lines, err := r.Lines.SearchLines(c.Context(), query)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to search lines",
		})
	}

	results := make([]fiber.Map, 0, len(lines))
	for _, line := range lines {
		results = append(results, fiber.Map{
			"number":      line.DisplayNumber,
			"description": line.Name,
		})
	}

	return c.JSON(results)
}

func (r LinesRouter) stopsOnLine(c *fiber.Ctx) error {
	number := strings.ToLower(strings.TrimSpace(c.Params("number")))

	stops, err := r.Lines.StopsOnLine(c.Context(), number)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to look up line stops",
		})
	}

	if len(stops) == 0 {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Line not found or has no stops",
		})
	}

	results := make([]fiber.Map, 0, len(stops))
	for _, stop := range stops {
		results = append(results, fiber.Map{
			"stopCode":  stop.StopCode,
			"stopName":  stop.StopName,
			"sequence":  stop.Sequence,
			"latitude":  stop.Location.Latitude(),
			"longitude": stop.Location.Longitude(),
		})
	}

	return c.JSON(results)
}
