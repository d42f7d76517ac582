package httpapi

import (
	"context"
	"errors"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mtcodes/zipweather/internal/forecast"
	"github.com/mtcodes/zipweather/internal/nws"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		var req forecastQuery
		req.Zip = c.Query("zip")
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "zip query parameter is required")
		}

		report, err := service.Lookup(c.Context(), req.Zip)
		if err != nil {
			return fiber.NewError(statusFor(err), err.Error())
		}

		return c.JSON(report)
	})
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Zip string `validate:"required"`
}

// statusFor maps pipeline errors onto HTTP statuses: bad input is the
// caller's fault, unresolvable codes are 404, and upstream trouble is a
// gateway-class failure.
func statusFor(err error) int {
	var statusErr *nws.StatusError
	var urlErr *url.Error

	switch {
	case errors.Is(err, forecast.ErrEmptyPostalCode):
		return fiber.StatusBadRequest
	case errors.Is(err, forecast.ErrUnknownPostalCode):
		return fiber.StatusNotFound
	case errors.As(err, &statusErr), errors.Is(err, nws.ErrMalformedResponse):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &urlErr):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
