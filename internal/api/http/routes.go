package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"skycast/internal/app"
	"skycast/internal/geo"
	"skycast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(fa *fiber.App, ctrl *app.Controller) {
	v1 := fa.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		view, ok := ctrl.CurrentView()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no weather data yet")
		}
		return c.JSON(view)
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		view, err := ctrl.Refresh(c.Context())
		if err != nil {
			return mapWeatherError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		q, err := parseQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		view, err := ctrl.Search(c.Context(), q)
		if err != nil {
			return mapWeatherError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/search/suggest", func(c *fiber.Ctx) error {
		q, err := parseQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		places, err := ctrl.Suggest(c.Context(), q)
		if err != nil {
			return mapWeatherError(err)
		}
		if places == nil {
			places = []weather.Place{}
		}
		return c.JSON(fiber.Map{
			"query":       q,
			"suggestions": places,
		})
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Settings())
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		var s weather.Settings
		if err := c.BodyParser(&s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(s); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		view, err := ctrl.UpdateSettings(c.Context(), s)
		if err != nil {
			return mapWeatherError(err)
		}
		return c.JSON(fiber.Map{
			"settings": ctrl.Settings(),
			"view":     view,
		})
	})

	v1.Get("/recent", func(c *fiber.Ctx) error {
		entries, err := ctrl.RecentSearches()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read recent searches")
		}
		if entries == nil {
			entries = []string{}
		}
		return c.JSON(fiber.Map{"recent": entries})
	})

	v1.Post("/recent/replay", func(c *fiber.Ctx) error {
		var req replayRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		view, err := ctrl.ReplayRecent(c.Context(), req.Entry)
		if err != nil {
			return mapWeatherError(err)
		}
		return c.JSON(view)
	})

	v1.Post("/location/device", func(c *fiber.Ctx) error {
		view, err := ctrl.UseDeviceLocation(c.Context())
		if err != nil {
			return mapWeatherError(err)
		}
		return c.JSON(view)
	})
}

// replayRequest names a stored recent-search entry to run again.
type replayRequest struct {
	Entry string `json:"entry" validate:"required"`
}

// searchQuery holds the q parameter shared by search and suggest.
type searchQuery struct {
	Q string `validate:"required"`
}

func parseQuery(c *fiber.Ctx) (string, error) {
	q := searchQuery{Q: c.Query("q")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.Q, nil
}

// mapWeatherError translates pipeline errors into HTTP status codes.
func mapWeatherError(err error) error {
	var gerr *geo.Error
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "location not found")
	case errors.Is(err, weather.ErrMissingAPIKey):
		return fiber.NewError(fiber.StatusServiceUnavailable, "weather api key is not configured")
	case errors.As(err, &gerr):
		return fiber.NewError(fiber.StatusBadGateway, "geolocation failed: "+string(gerr.Reason))
	default:
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	}
}
