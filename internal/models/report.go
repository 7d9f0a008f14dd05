package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssetState is the operational state recorded for an evaluated asset.
type AssetState string

const (
	AssetStateOperational AssetState = "Operational"
	AssetStateFlagged     AssetState = "Flagged"
	AssetStateInoperative AssetState = "Inoperative"
	AssetStateNotFound    AssetState = "NotFound"
)

// Valid reports whether s is one of the known states.
func (s AssetState) Valid() bool {
	switch s {
	case AssetStateOperational, AssetStateFlagged, AssetStateInoperative, AssetStateNotFound:
		return true
	}
	return false
}

// RemoteCode maps the state to the code expected by the monolith's
// updateEstadoRecursoAlmacen mutation. Unknown states map to the
// monolith's unassigned code rather than failing the call.
func (s AssetState) RemoteCode() string {
	switch s {
	case AssetStateOperational:
		return "operativo"
	case AssetStateFlagged:
		return "observado"
	case AssetStateInoperative:
		return "inoperativo"
	case AssetStateNotFound:
		return "no encontrado"
	default:
		return "no asignado"
	}
}

// Critical reports whether the state requires a written description.
func (s AssetState) Critical() bool {
	return s == AssetStateFlagged || s == AssetStateInoperative
}

// Report is an inspection report over one or more fixed assets.
// ReportCode and ReportedAt are immutable once persisted.
type Report struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportCode   string           `gorm:"size:16;not null;uniqueIndex" json:"report_code"`
	Title        string           `gorm:"size:200" json:"title"`
	ReportedAt   time.Time        `gorm:"not null;index" json:"reported_at"`
	UserID       string           `gorm:"size:64;not null;index" json:"user_id"`
	UserName     string           `gorm:"size:120;not null" json:"user_name"`
	Assets       []EvaluatedAsset `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"assets"`
	GeneralNotes string           `gorm:"size:1000" json:"general_notes"`
	SyncedAt     *time.Time       `json:"synced_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// EvaluatedAsset is one asset's evaluation inside a report. Position
// preserves the order the assets were submitted in.
type EvaluatedAsset struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ReportID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"-"`
	Position     int                         `gorm:"not null" json:"-"`
	AssetID      string                      `gorm:"size:64;not null;index" json:"asset_id"`
	AssetCode    string                      `gorm:"size:64;not null" json:"asset_code"`
	AssetName    string                      `gorm:"size:200;not null" json:"asset_name"`
	Brand        string                      `gorm:"size:120" json:"brand,omitempty"`
	State        AssetState                  `gorm:"size:20;not null;index" json:"state"`
	Description  string                      `gorm:"type:text" json:"description"`
	EvidenceURLs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"evidence_urls"`
}

// AssetIn returns the evaluation of the given asset within the report,
// or nil when the report does not cover it.
func (r *Report) AssetIn(assetID string) *EvaluatedAsset {
	for i := range r.Assets {
		if r.Assets[i].AssetID == assetID {
			return &r.Assets[i]
		}
	}
	return nil
}

// --- statistics ---

type ReportStats struct {
	TotalReports   int64              `json:"total_reports"`
	PerMonth       []MonthCount       `json:"reports_per_month"`
	StatesReported []StateCount       `json:"states_most_reported"`
	TopAssets      []AssetEvaluations `json:"most_evaluated_assets"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type StateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

type AssetEvaluations struct {
	AssetID     string `json:"asset_id"`
	AssetCode   string `json:"asset_code"`
	AssetName   string `json:"asset_name"`
	Evaluations int64  `json:"evaluations"`
}
