// Package metrics holds the prometheus collectors of the API.
package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Like operations counted by LikeEvents.
const (
	LikeCreated   = "created"
	LikeDeleted   = "deleted"
	LikeDuplicate = "duplicate"
)

var (
	// Requests counts finished requests by method and status code.
	Requests = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "inkwell_http_requests_total",
			Help: "Number of HTTP requests, differentiated by method and status code.",
		},
		[]string{"method", "status"},
	)

	// Denials counts rejected requests by HTTP status (401 or 403).
	Denials = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "inkwell_authorization_denials_total",
			Help: "Number of requests rejected by the authorization policy.",
		},
		[]string{"status"},
	)

	// LikeEvents counts like operations.
	LikeEvents = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "inkwell_like_events_total",
			Help: "Number of like operations, differentiated by outcome.",
		},
		[]string{"op"},
	)
)

// Middleware counts every request once its response status is final.
// It must run outside the middleware that renders errors.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
		}

		Requests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()

		return err
	}
}

// ObserveStatus records a policy denial for 401 and 403 responses.
func ObserveStatus(status int) {
	if status == fiber.StatusUnauthorized || status == fiber.StatusForbidden {
		Denials.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}
