package dto

import (
	"time"

	"github.com/inacons/activos-bff/internal/models"
)

type EvidenceFileInput struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	// Data is the base64-encoded file payload.
	Data string `json:"data"`
}

type EvaluatedAssetInput struct {
	AssetID       string              `json:"asset_id"`
	AssetCode     string              `json:"asset_code"`
	AssetName     string              `json:"asset_name"`
	Brand         string              `json:"brand"`
	State         string              `json:"state"`
	Description   string              `json:"description"`
	EvidenceURLs  []string            `json:"evidence_urls"`
	EvidenceFiles []EvidenceFileInput `json:"evidence_files"`
}

type CreateReportRequest struct {
	Title        string                `json:"title"`
	Assets       []EvaluatedAssetInput `json:"assets"`
	GeneralNotes string                `json:"general_notes"`
	// OfflineSync marks reports authored earlier on a disconnected
	// device and imported after the fact.
	OfflineSync bool       `json:"offline_sync"`
	ReportedAt  *time.Time `json:"reported_at"`
}

type UpdateReportRequest struct {
	Title        *string               `json:"title"`
	Assets       []EvaluatedAssetInput `json:"assets"`
	GeneralNotes *string               `json:"general_notes"`
}

type ReportResponse struct {
	ID           string                   `json:"id"`
	ReportCode   string                   `json:"report_code"`
	Title        string                   `json:"title"`
	ReportedAt   time.Time                `json:"reported_at"`
	UserID       string                   `json:"user_id"`
	UserName     string                   `json:"user_name"`
	Assets       []EvaluatedAssetResponse `json:"assets"`
	GeneralNotes string                   `json:"general_notes"`
	SyncedAt     *time.Time               `json:"synced_at,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

type EvaluatedAssetResponse struct {
	AssetID      string   `json:"asset_id"`
	AssetCode    string   `json:"asset_code"`
	AssetName    string   `json:"asset_name"`
	Brand        string   `json:"brand,omitempty"`
	State        string   `json:"state"`
	Description  string   `json:"description"`
	EvidenceURLs []string `json:"evidence_urls"`
}

type ReportsListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

type AssetHistoryEntry struct {
	ReportCode   string    `json:"report_code"`
	ReportedAt   time.Time `json:"reported_at"`
	State        string    `json:"state"`
	Description  string    `json:"description"`
	EvidenceURLs []string  `json:"evidence_urls"`
}

type AssetHistoryResponse struct {
	AssetID   string              `json:"asset_id"`
	AssetCode string              `json:"asset_code"`
	AssetName string              `json:"asset_name"`
	History   []AssetHistoryEntry `json:"history"`
}

// NewReportResponse maps a persisted report to its API shape.
func NewReportResponse(r *models.Report) ReportResponse {
	assets := make([]EvaluatedAssetResponse, len(r.Assets))
	for i, a := range r.Assets {
		assets[i] = EvaluatedAssetResponse{
			AssetID:      a.AssetID,
			AssetCode:    a.AssetCode,
			AssetName:    a.AssetName,
			Brand:        a.Brand,
			State:        string(a.State),
			Description:  a.Description,
			EvidenceURLs: a.EvidenceURLs,
		}
	}
	return ReportResponse{
		ID:           r.ID.String(),
		ReportCode:   r.ReportCode,
		Title:        r.Title,
		ReportedAt:   r.ReportedAt,
		UserID:       r.UserID,
		UserName:     r.UserName,
		Assets:       assets,
		GeneralNotes: r.GeneralNotes,
		SyncedAt:     r.SyncedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
