package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/inacons/activos-bff/internal/models"
)

// PriorReportSummary describes the report that last evaluated an asset,
// kept on the decision for auditing.
type PriorReportSummary struct {
	ReportCode string            `json:"report_code"`
	ReportedAt time.Time         `json:"reported_at"`
	State      models.AssetState `json:"state"`
}

// StateDecision is the per-asset verdict on whether an offline report
// may overwrite the asset's remote state.
type StateDecision struct {
	AssetID   string              `json:"asset_id"`
	AssetCode string              `json:"asset_code"`
	State     models.AssetState   `json:"state"`
	Apply     bool                `json:"apply"`
	Reason    string              `json:"reason"`
	Prior     *PriorReportSummary `json:"prior,omitempty"`
}

// ConflictResolver decides whether a report that arrived out of
// chronological order (authored offline) is still the freshest word on
// each asset it evaluates.
type ConflictResolver struct {
	reports ReportStore
}

func NewConflictResolver(reports ReportStore) *ConflictResolver {
	return &ConflictResolver{reports: reports}
}

// Resolve compares the offline report's declared creation time against
// the latest persisted report per asset. A lookup failure approves the
// update: losing a field-reported condition is worse than applying one
// out of order.
func (r *ConflictResolver) Resolve(ctx context.Context, assets []models.EvaluatedAsset, reportedAt time.Time) []StateDecision {
	decisions := make([]StateDecision, 0, len(assets))

	for _, asset := range assets {
		decision := StateDecision{
			AssetID:   asset.AssetID,
			AssetCode: asset.AssetCode,
			State:     asset.State,
			Apply:     true,
			Reason:    "first report for this asset",
		}

		latest, err := r.reports.LatestByAsset(ctx, asset.AssetID)
		if err != nil {
			decision.Reason = "lookup failed, applying state to avoid losing data"
			slog.Error("conflict resolution lookup failed",
				"asset_id", asset.AssetID, "error", err)
			decisions = append(decisions, decision)
			continue
		}

		if latest != nil {
			if prior := latest.AssetIn(asset.AssetID); prior != nil {
				if reportedAt.Before(latest.ReportedAt) {
					decision.Apply = false
					decision.Reason = "more recent report exists"
				} else {
					decision.Reason = "this report is more recent"
				}
				decision.Prior = &PriorReportSummary{
					ReportCode: latest.ReportCode,
					ReportedAt: latest.ReportedAt,
					State:      prior.State,
				}
			}
		}

		decisions = append(decisions, decision)
	}

	return decisions
}
