package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/inacons/activos-bff/internal/database"
	"github.com/inacons/activos-bff/internal/dto"
	"github.com/inacons/activos-bff/internal/monolith"
)

type HealthHandler struct {
	monolith *monolith.Client
}

func NewHealthHandler(client *monolith.Client) *HealthHandler {
	return &HealthHandler{monolith: client}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	monolithStatus := "ok"
	if err := h.monolith.Ping(c.Context()); err != nil {
		monolithStatus = "unreachable: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Monolith:  monolithStatus,
	})
}
