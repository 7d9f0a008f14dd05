package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inacons/activos-bff/internal/models"
	"github.com/inacons/activos-bff/internal/monolith"
	"github.com/inacons/activos-bff/internal/repository"
	"github.com/inacons/activos-bff/internal/storage"
)

// ReportStore is the persistence collaborator for inspection reports.
type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error)
	GetByCode(ctx context.Context, code string) (*models.Report, error)
	LatestByAsset(ctx context.Context, assetID string) (*models.Report, error)
	List(ctx context.Context, f repository.ReportFilter) ([]models.Report, int64, error)
	Stats(ctx context.Context) (*models.ReportStats, error)
	NextReportCode(ctx context.Context, now time.Time) (string, error)
}

// EvidenceStore holds uploaded evidence files and serves them by URL.
// Delete must tolerate objects that are already gone.
type EvidenceStore interface {
	UploadBatch(ctx context.Context, files []storage.EvidenceFile) storage.UploadResult
	Delete(ctx context.Context, evidenceURL string) error
}

// AssetRegistry is the monolith's mutation surface for asset state.
// There is no remote rollback; re-invocation is the only compensation.
type AssetRegistry interface {
	SetAssetState(ctx context.Context, assetID, stateCode string) (*monolith.AssetSummary, error)
}
