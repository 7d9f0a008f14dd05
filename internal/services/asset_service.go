package services

import (
	"context"

	"github.com/inacons/activos-bff/internal/monolith"
)

// AssetService forwards fixed-asset reads to the monolith. No local
// state, no invariants; the monolith owns these records.
type AssetService struct {
	client *monolith.Client
}

func NewAssetService(client *monolith.Client) *AssetService {
	return &AssetService{client: client}
}

func (s *AssetService) ListAssets(ctx context.Context, filters monolith.AssetFilters) (*monolith.AssetPage, error) {
	return s.client.ListAssets(ctx, filters)
}

func (s *AssetService) GetAsset(ctx context.Context, id string) (*monolith.AssetSummary, error) {
	return s.client.GetAsset(ctx, id)
}
