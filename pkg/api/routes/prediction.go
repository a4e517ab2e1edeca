package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bustracker/bustracker/pkg/api/cachedresults"
	"github.com/bustracker/bustracker/pkg/prediction"
	"github.com/gofiber/fiber/v2"
)

type PredictionRouter struct {
	Engine *prediction.Engine
	Cache  *cachedresults.Cache
}

func (r PredictionRouter) Register(router fiber.Router) {
	router.Get("/", r.getPrediction)
}

func (r PredictionRouter) getPrediction(c *fiber.Ctx) error {
	stopCode := strings.TrimSpace(c.Query("stopCode"))
	lineNumber := strings.TrimSpace(c.Query("lineNum"))

	if stopCode == "" || lineNumber == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Please provide both stop code and bus line number",
		})
	}

	cacheKey := fmt.Sprintf("prediction/%s/%s", stopCode, strings.ToLower(lineNumber))
	if r.Cache != nil {
		if cached, exists := r.Cache.Get(c.Context(), cacheKey); exists {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}
	}

	result, err := r.Engine.Predict(c.Context(), stopCode, lineNumber)
	if errors.Is(err, prediction.ErrStopNotFound) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Stop not found",
		})
	}
	if errors.Is(err, prediction.ErrLineNotAtStop) {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": fmt.Sprintf("Line %s does not serve stop %s", lineNumber, stopCode),
		})
	}
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to compute prediction",
		})
	}

	if r.Cache != nil {
		if encoded, err := json.Marshal(result); err == nil {
			r.Cache.Set(c.Context(), cacheKey, string(encoded))
		}
	}

	return c.JSON(result)
}
