package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/inacons/activos-bff/internal/models"
	"github.com/inacons/activos-bff/internal/monolith"
	"github.com/inacons/activos-bff/internal/repository"
	"github.com/inacons/activos-bff/internal/storage"
)

// fakeReportStore is an in-memory ReportStore.
type fakeReportStore struct {
	reports   map[uuid.UUID]*models.Report
	createErr error
	latestErr error
	nextCode  string

	created []uuid.UUID
	deleted []uuid.UUID
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{reports: map[uuid.UUID]*models.Report{}}
}

func (f *fakeReportStore) Create(_ context.Context, report *models.Report) error {
	if f.createErr != nil {
		return f.createErr
	}
	report.ID = uuid.New()
	report.CreatedAt = time.Now()
	stored := *report
	f.reports[report.ID] = &stored
	f.created = append(f.created, report.ID)
	return nil
}

func (f *fakeReportStore) Update(_ context.Context, report *models.Report) error {
	stored := *report
	f.reports[report.ID] = &stored
	return nil
}

func (f *fakeReportStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	f.deleted = append(f.deleted, id)
	if _, ok := f.reports[id]; !ok {
		return false, nil
	}
	delete(f.reports, id)
	return true, nil
}

func (f *fakeReportStore) GetByID(_ context.Context, id uuid.UUID) (*models.Report, error) {
	return f.reports[id], nil
}

func (f *fakeReportStore) GetByCode(_ context.Context, code string) (*models.Report, error) {
	for _, r := range f.reports {
		if r.ReportCode == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportStore) LatestByAsset(_ context.Context, assetID string) (*models.Report, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	var latest *models.Report
	for _, r := range f.reports {
		if r.AssetIn(assetID) == nil {
			continue
		}
		if latest == nil || r.ReportedAt.After(latest.ReportedAt) {
			latest = r
		}
	}
	return latest, nil
}

func (f *fakeReportStore) List(_ context.Context, filter repository.ReportFilter) ([]models.Report, int64, error) {
	var out []models.Report
	for _, r := range f.reports {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.AssetID != "" && r.AssetIn(filter.AssetID) == nil {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportedAt.After(out[j].ReportedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeReportStore) Stats(_ context.Context) (*models.ReportStats, error) {
	return &models.ReportStats{TotalReports: int64(len(f.reports))}, nil
}

func (f *fakeReportStore) NextReportCode(_ context.Context, now time.Time) (string, error) {
	if f.nextCode != "" {
		return f.nextCode, nil
	}
	return fmt.Sprintf("REP-%d-001", now.Year()), nil
}

// mustAdd seeds a persisted report.
func (f *fakeReportStore) mustAdd(report models.Report) *models.Report {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	f.reports[report.ID] = &report
	return &report
}

// fakeEvidenceStore uploads into memory and records deletions.
type fakeEvidenceStore struct {
	failFile  string
	deleteErr error

	uploaded []string
	deleted  []string
}

func (f *fakeEvidenceStore) UploadBatch(_ context.Context, files []storage.EvidenceFile) storage.UploadResult {
	var result storage.UploadResult
	for _, file := range files {
		if file.FileName == f.failFile {
			result.Failed = append(result.Failed, storage.UploadFailure{
				FileName: file.FileName,
				Err:      fmt.Errorf("bucket rejected %s", file.FileName),
			})
			continue
		}
		url := "https://storage.googleapis.com/test-bucket/evidencias/" + file.FileName
		f.uploaded = append(f.uploaded, url)
		result.URLs = append(result.URLs, url)
	}
	return result
}

func (f *fakeEvidenceStore) Delete(_ context.Context, evidenceURL string) error {
	f.deleted = append(f.deleted, evidenceURL)
	return f.deleteErr
}

type stateCall struct {
	assetID string
	code    string
}

// fakeRegistry records remote state updates and can fail per asset.
type fakeRegistry struct {
	failAsset string
	calls     []stateCall
}

func (f *fakeRegistry) SetAssetState(_ context.Context, assetID, stateCode string) (*monolith.AssetSummary, error) {
	if assetID == f.failAsset {
		return nil, fmt.Errorf("monolith rejected state update for %s", assetID)
	}
	f.calls = append(f.calls, stateCall{assetID: assetID, code: stateCode})
	return &monolith.AssetSummary{ID: assetID, State: stateCode}, nil
}
