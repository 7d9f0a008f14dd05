package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inacons/activos-bff/internal/models"
	"github.com/inacons/activos-bff/internal/repository"
	"github.com/inacons/activos-bff/internal/storage"
)

// AssetDraft is one asset's evaluation as submitted by a client:
// already-known evidence URLs plus unsaved file payloads.
type AssetDraft struct {
	AssetID      string
	AssetCode    string
	AssetName    string
	Brand        string
	State        models.AssetState
	Description  string
	EvidenceURLs []string
	Files        []storage.EvidenceFile
}

// ReportDraft is a report creation request before any side effect has
// been applied.
type ReportDraft struct {
	Title        string
	UserID       string
	UserName     string
	Assets       []AssetDraft
	GeneralNotes string
	// OfflineSync marks a report authored earlier on a disconnected
	// device. Validation is deferred to the origin device and state
	// updates are gated by the conflict resolver.
	OfflineSync bool
	// ReportedAt is the original creation time declared by an offline
	// client. Nil means "now".
	ReportedAt *time.Time
}

// ReportUpdate mutates title, notes and/or the asset list of an
// existing report. Nil fields are left untouched. Updates never upload
// files and never touch the asset registry.
type ReportUpdate struct {
	Title        *string
	Assets       []AssetDraft
	GeneralNotes *string
}

// ReportService orchestrates report creation across the evidence store,
// the report store and the monolith's asset registry. None of the three
// share a transaction; failures after the first side effect are
// compensated via the rollback ledger.
type ReportService struct {
	reports  ReportStore
	evidence EvidenceStore
	registry AssetRegistry
	resolver *ConflictResolver
}

func NewReportService(reports ReportStore, evidence EvidenceStore, registry AssetRegistry) *ReportService {
	return &ReportService{
		reports:  reports,
		evidence: evidence,
		registry: registry,
		resolver: NewConflictResolver(reports),
	}
}

// CreateReport runs the creation saga: upload evidence, validate,
// persist, reconcile remote asset states. On any failure every side
// effect applied so far is undone in reverse order and the triggering
// error is surfaced; compensation failures are logged only.
func (s *ReportService) CreateReport(ctx context.Context, draft ReportDraft) (report *models.Report, err error) {
	if len(draft.Assets) == 0 {
		return nil, &ValidationError{Message: "a report must contain at least one evaluated asset"}
	}

	ledger := newRollbackLedger()
	defer func() {
		if err != nil {
			ledger.run(ctx)
		}
	}()

	// Phase 1: upload unsaved evidence, asset by asset. The first
	// failed file aborts the whole creation; assets after it are not
	// attempted.
	assets := make([]models.EvaluatedAsset, 0, len(draft.Assets))
	for _, a := range draft.Assets {
		urls := append([]string(nil), a.EvidenceURLs...)
		if len(a.Files) > 0 {
			result := s.evidence.UploadBatch(ctx, a.Files)
			for _, url := range result.URLs {
				ledger.add(deleteEvidence{store: s.evidence, url: url})
			}
			urls = append(urls, result.URLs...)
			if len(result.Failed) > 0 {
				return nil, &UploadError{AssetCode: a.AssetCode, Err: joinUploadFailures(result.Failed)}
			}
		}
		assets = append(assets, models.EvaluatedAsset{
			AssetID:      a.AssetID,
			AssetCode:    a.AssetCode,
			AssetName:    a.AssetName,
			Brand:        a.Brand,
			State:        a.State,
			Description:  a.Description,
			EvidenceURLs: urls,
		})
	}

	// Phase 2: validate the assembled draft. Offline imports are
	// trusted as validated on the origin device.
	if !draft.OfflineSync {
		if err := validateAssets(assets); err != nil {
			return nil, err
		}
	}

	// Phase 3: generate the report code and persist.
	now := time.Now().UTC()
	reportedAt := now
	if draft.ReportedAt != nil {
		reportedAt = *draft.ReportedAt
	}

	code, err := s.reports.NextReportCode(ctx, now)
	if err != nil {
		return nil, err
	}

	report = &models.Report{
		ReportCode:   code,
		Title:        draft.Title,
		ReportedAt:   reportedAt,
		UserID:       draft.UserID,
		UserName:     draft.UserName,
		Assets:       assets,
		GeneralNotes: draft.GeneralNotes,
	}
	if draft.OfflineSync {
		report.SyncedAt = &now
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	ledger.add(deleteReport{store: s.reports, id: report.ID, code: code})

	// Phase 4: push the evaluated states to the monolith.
	if err := s.reconcileStates(ctx, report, draft.OfflineSync); err != nil {
		return nil, &SyncError{Err: err}
	}

	slog.Info("report created",
		"report_code", code,
		"user_id", report.UserID,
		"assets", len(report.Assets),
		"offline_sync", draft.OfflineSync)
	return report, nil
}

// reconcileStates updates every evaluated asset's remote state, one
// asset at a time so a mid-loop failure leaves a well-defined boundary.
// Offline reports only update assets the conflict resolver approves.
func (s *ReportService) reconcileStates(ctx context.Context, report *models.Report, offline bool) error {
	if !offline {
		for _, a := range report.Assets {
			if _, err := s.registry.SetAssetState(ctx, a.AssetID, a.State.RemoteCode()); err != nil {
				return err
			}
		}
		return nil
	}

	decisions := s.resolver.Resolve(ctx, report.Assets, report.ReportedAt)
	for _, d := range decisions {
		if !d.Apply {
			slog.Info("remote state update skipped",
				"report_code", report.ReportCode,
				"asset_id", d.AssetID,
				"reason", d.Reason)
			continue
		}
		if _, err := s.registry.SetAssetState(ctx, d.AssetID, d.State.RemoteCode()); err != nil {
			return err
		}
	}
	return nil
}

func joinUploadFailures(failed []storage.UploadFailure) error {
	errs := make([]error, len(failed))
	for i, f := range failed {
		errs[i] = fmt.Errorf("%s: %w", f.FileName, f.Err)
	}
	return errors.Join(errs...)
}

// GetReport returns a report by storage id.
func (s *ReportService) GetReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// GetReportByCode returns a report by its human-readable code.
func (s *ReportService) GetReportByCode(ctx context.Context, code string) (*models.Report, error) {
	report, err := s.reports.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// ListReports returns a filtered, paginated report listing.
func (s *ReportService) ListReports(ctx context.Context, f repository.ReportFilter) ([]models.Report, int64, error) {
	return s.reports.List(ctx, f)
}

// UpdateReport merges the update into the stored report, re-runs the
// evidence and description invariants over the result and persists it.
// It is a plain write: no uploads, no registry calls, no compensation.
func (s *ReportService) UpdateReport(ctx context.Context, id uuid.UUID, upd ReportUpdate) (*models.Report, error) {
	existing, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrReportNotFound
	}

	if upd.Title != nil {
		existing.Title = *upd.Title
	}
	if upd.GeneralNotes != nil {
		existing.GeneralNotes = *upd.GeneralNotes
	}
	if upd.Assets != nil {
		assets := make([]models.EvaluatedAsset, len(upd.Assets))
		for i, a := range upd.Assets {
			assets[i] = models.EvaluatedAsset{
				AssetID:      a.AssetID,
				AssetCode:    a.AssetCode,
				AssetName:    a.AssetName,
				Brand:        a.Brand,
				State:        a.State,
				Description:  a.Description,
				EvidenceURLs: append([]string(nil), a.EvidenceURLs...),
			}
		}
		existing.Assets = assets
	}

	if len(existing.Assets) == 0 {
		return nil, &ValidationError{Message: "a report must contain at least one evaluated asset"}
	}
	if err := validateAssets(existing.Assets); err != nil {
		return nil, err
	}

	if err := s.reports.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.reports.GetByID(ctx, id)
}

// DeleteReport removes a report. Uploaded evidence files are kept;
// deletion does not cascade to storage.
func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	deleted, err := s.reports.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// AssetHistoryEntry is one past evaluation of an asset.
type AssetHistoryEntry struct {
	ReportCode   string
	ReportedAt   time.Time
	State        models.AssetState
	Description  string
	EvidenceURLs []string
}

// AssetHistory is the evaluation trail of one asset, newest first.
type AssetHistory struct {
	AssetID   string
	AssetCode string
	AssetName string
	Entries   []AssetHistoryEntry
}

// GetAssetHistory collects every persisted evaluation of the asset.
func (s *ReportService) GetAssetHistory(ctx context.Context, assetID string) (*AssetHistory, error) {
	reports, _, err := s.reports.List(ctx, repository.ReportFilter{
		AssetID:   assetID,
		Page:      1,
		Limit:     100,
		SortBy:    "reported_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, ErrNoReportsForAsset
	}

	history := &AssetHistory{AssetID: assetID}
	for _, report := range reports {
		entry := report.AssetIn(assetID)
		if entry == nil {
			continue
		}
		if history.AssetCode == "" {
			history.AssetCode = entry.AssetCode
			history.AssetName = entry.AssetName
		}
		history.Entries = append(history.Entries, AssetHistoryEntry{
			ReportCode:   report.ReportCode,
			ReportedAt:   report.ReportedAt,
			State:        entry.State,
			Description:  entry.Description,
			EvidenceURLs: entry.EvidenceURLs,
		})
	}
	if len(history.Entries) == 0 {
		return nil, ErrNoReportsForAsset
	}
	return history, nil
}

// GetStats returns aggregate reporting figures.
func (s *ReportService) GetStats(ctx context.Context) (*models.ReportStats, error) {
	return s.reports.Stats(ctx)
}
