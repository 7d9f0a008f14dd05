package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/inacons/activos-bff/internal/dto"
	"github.com/inacons/activos-bff/internal/monolith"
	"github.com/inacons/activos-bff/internal/services"
)

// AssetHandler exposes the monolith's fixed-asset catalog read-only.
type AssetHandler struct {
	assetService *services.AssetService
}

func NewAssetHandler(assetService *services.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// ListAssets handles GET /assets - forwarded to the monolith.
func (h *AssetHandler) ListAssets(c *fiber.Ctx) error {
	page, err := h.assetService.ListAssets(c.Context(), monolith.AssetFilters{
		Page:       c.QueryInt("page", 1),
		ItemsPage:  c.QueryInt("limit", 20),
		SearchTerm: c.Query("search"),
		State:      c.Query("state"),
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch assets from monolith",
		})
	}
	return c.JSON(page)
}

// GetAsset handles GET /assets/:id.
func (h *AssetHandler) GetAsset(c *fiber.Ctx) error {
	asset, err := h.assetService.GetAsset(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch asset from monolith",
		})
	}
	if asset == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Asset not found",
		})
	}
	return c.JSON(asset)
}
