package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/config"
)

// Service is the interface for a web handler service.
// Init registers the service's routes below router, which is the API group.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error
}
