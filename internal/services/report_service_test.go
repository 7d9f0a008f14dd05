package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inacons/activos-bff/internal/models"
	"github.com/inacons/activos-bff/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*ReportService, *fakeReportStore, *fakeEvidenceStore, *fakeRegistry) {
	store := newFakeReportStore()
	evidence := &fakeEvidenceStore{}
	registry := &fakeRegistry{}
	return NewReportService(store, evidence, registry), store, evidence, registry
}

func operationalDraft() ReportDraft {
	return ReportDraft{
		Title:    "Inspección mensual de equipos",
		UserID:   "user-1",
		UserName: "Inspector Uno",
		Assets: []AssetDraft{
			{
				AssetID:      "asset-1",
				AssetCode:    "AF-0001",
				AssetName:    "Taladro percutor",
				State:        models.AssetStateOperational,
				EvidenceURLs: []string{"https://storage.googleapis.com/test-bucket/evidencias/existing.jpg"},
			},
			{
				AssetID:     "asset-2",
				AssetCode:   "AF-0002",
				AssetName:   "Compresora de aire",
				State:       models.AssetStateInoperative,
				Description: "Motor quemado, requiere reemplazo",
				Files: []storage.EvidenceFile{
					{FileName: "compresora.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
				},
			},
		},
	}
}

func TestCreateReport_Success(t *testing.T) {
	svc, store, evidence, registry := newTestService()

	report, err := svc.CreateReport(context.Background(), operationalDraft())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Regexp(t, `^REP-\d{4}-\d{3}$`, report.ReportCode)
	assert.Nil(t, report.SyncedAt)
	require.Len(t, store.created, 1)
	assert.Empty(t, store.deleted)
	assert.Empty(t, evidence.deleted)

	// Uploaded file URL merged after the pre-existing one.
	require.Len(t, report.Assets, 2)
	assert.Len(t, report.Assets[0].EvidenceURLs, 1)
	require.Len(t, report.Assets[1].EvidenceURLs, 1)
	assert.Contains(t, report.Assets[1].EvidenceURLs[0], "compresora.jpg")

	// Remote states pushed in asset order with the mapped codes.
	require.Len(t, registry.calls, 2)
	assert.Equal(t, stateCall{assetID: "asset-1", code: "operativo"}, registry.calls[0])
	assert.Equal(t, stateCall{assetID: "asset-2", code: "inoperativo"}, registry.calls[1])
}

func TestCreateReport_EmptyAssets(t *testing.T) {
	svc, store, _, registry := newTestService()

	report, err := svc.CreateReport(context.Background(), ReportDraft{Title: "vacío", UserID: "user-1"})
	assert.Nil(t, report)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, store.created)
	assert.Empty(t, registry.calls)
}

func TestCreateReport_UploadFailureShortCircuits(t *testing.T) {
	svc, store, evidence, registry := newTestService()
	evidence.failFile = "broken.jpg"

	draft := ReportDraft{
		Title:  "Fallo de carga",
		UserID: "user-1",
		Assets: []AssetDraft{
			{
				AssetID: "asset-1", AssetCode: "AF-0001", State: models.AssetStateOperational,
				Files: []storage.EvidenceFile{{FileName: "ok.jpg", Data: []byte("a")}},
			},
			{
				AssetID: "asset-2", AssetCode: "AF-0002", State: models.AssetStateOperational,
				Files: []storage.EvidenceFile{
					{FileName: "first.jpg", Data: []byte("b")},
					{FileName: "broken.jpg", Data: []byte("c")},
				},
			},
			{
				AssetID: "asset-3", AssetCode: "AF-0003", State: models.AssetStateOperational,
				Files: []storage.EvidenceFile{{FileName: "never.jpg", Data: []byte("d")}},
			},
		},
	}

	report, err := svc.CreateReport(context.Background(), draft)
	assert.Nil(t, report)

	var upErr *UploadError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "AF-0002", upErr.AssetCode)
	assert.Contains(t, err.Error(), "broken.jpg")

	// Nothing persisted, no remote calls, assets after the failure not attempted.
	assert.Empty(t, store.created)
	assert.Empty(t, registry.calls)
	require.Len(t, evidence.uploaded, 2)

	// Every file that did land is removed again, newest first.
	require.Len(t, evidence.deleted, 2)
	assert.Contains(t, evidence.deleted[0], "first.jpg")
	assert.Contains(t, evidence.deleted[1], "ok.jpg")
}

func TestCreateReport_ValidationFailureCleansUploads(t *testing.T) {
	svc, store, evidence, _ := newTestService()

	draft := ReportDraft{
		Title:  "Sin descripción",
		UserID: "user-1",
		Assets: []AssetDraft{
			{
				AssetID: "asset-1", AssetCode: "AF-0001",
				State:       models.AssetStateFlagged,
				Description: "   ",
				Files:       []storage.EvidenceFile{{FileName: "obs.jpg", Data: []byte("a")}},
			},
		},
	}

	report, err := svc.CreateReport(context.Background(), draft)
	assert.Nil(t, report)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "description")
	assert.Empty(t, store.created)
	require.Len(t, evidence.deleted, 1)
	assert.Contains(t, evidence.deleted[0], "obs.jpg")
}

func TestCreateReport_RegistryFailureCompensatesEverything(t *testing.T) {
	svc, store, evidence, registry := newTestService()
	registry.failAsset = "asset-2"

	report, err := svc.CreateReport(context.Background(), operationalDraft())
	assert.Nil(t, report)

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Contains(t, err.Error(), "asset-2")

	// The persisted report and the uploaded file are both undone; the
	// report (recorded last) is removed first.
	require.Len(t, store.created, 1)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, store.created[0], store.deleted[0])
	assert.Empty(t, store.reports)
	require.Len(t, evidence.deleted, 1)
	assert.Contains(t, evidence.deleted[0], "compresora.jpg")

	// The first asset's remote update had already gone through.
	require.Len(t, registry.calls, 1)
	assert.Equal(t, "asset-1", registry.calls[0].assetID)
}

func TestCreateReport_CompensationFailureKeepsOriginalError(t *testing.T) {
	svc, _, evidence, registry := newTestService()
	registry.failAsset = "asset-2"
	evidence.deleteErr = errors.New("bucket unavailable")

	_, err := svc.CreateReport(context.Background(), operationalDraft())

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Contains(t, err.Error(), "monolith rejected state update")
	assert.NotContains(t, err.Error(), "bucket unavailable")
}

func TestCreateReport_OfflineSkipsValidation(t *testing.T) {
	svc, store, _, registry := newTestService()

	reportedAt := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	draft := ReportDraft{
		Title:  "Sincronización offline",
		UserID: "user-2",
		Assets: []AssetDraft{
			// No evidence and a critical state without description: both
			// would fail online validation.
			{AssetID: "asset-9", AssetCode: "AF-0009", State: models.AssetStateInoperative},
		},
		OfflineSync: true,
		ReportedAt:  &reportedAt,
	}

	report, err := svc.CreateReport(context.Background(), draft)
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.True(t, report.ReportedAt.Equal(reportedAt))
	require.NotNil(t, report.SyncedAt)
	assert.True(t, report.SyncedAt.After(reportedAt))
	require.Len(t, store.created, 1)
	require.Len(t, registry.calls, 1)
	assert.Equal(t, "inoperativo", registry.calls[0].code)
}

func TestCreateReport_OfflineConflictGatesStaleStates(t *testing.T) {
	svc, store, _, registry := newTestService()

	// Asset A was already evaluated by a newer report.
	store.mustAdd(models.Report{
		ReportCode: "REP-2024-010",
		ReportedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Assets: []models.EvaluatedAsset{
			{AssetID: "asset-a", AssetCode: "AF-000A", State: models.AssetStateOperational},
		},
	})

	reportedAt := time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC)
	draft := ReportDraft{
		Title:  "Reporte tardío",
		UserID: "user-3",
		Assets: []AssetDraft{
			{AssetID: "asset-a", AssetCode: "AF-000A", State: models.AssetStateInoperative},
			{AssetID: "asset-b", AssetCode: "AF-000B", State: models.AssetStateFlagged},
		},
		OfflineSync: true,
		ReportedAt:  &reportedAt,
	}

	report, err := svc.CreateReport(context.Background(), draft)
	require.NoError(t, err)
	require.NotNil(t, report)

	// The report itself is persisted with both assets, but only the
	// unconflicted asset reaches the monolith.
	require.Len(t, report.Assets, 2)
	require.Len(t, registry.calls, 1)
	assert.Equal(t, stateCall{assetID: "asset-b", code: "observado"}, registry.calls[0])
}

func TestUpdateReport_NoSagaSideEffects(t *testing.T) {
	svc, store, evidence, registry := newTestService()

	existing := store.mustAdd(models.Report{
		ReportCode: "REP-2025-004",
		Title:      "Original",
		ReportedAt: time.Now().UTC(),
		Assets: []models.EvaluatedAsset{
			{
				AssetID: "asset-1", AssetCode: "AF-0001",
				State:        models.AssetStateOperational,
				EvidenceURLs: []string{"https://example.com/a.jpg"},
			},
		},
	})

	title := "Corregido"
	updated, err := svc.UpdateReport(context.Background(), existing.ID, ReportUpdate{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "Corregido", updated.Title)
	assert.Equal(t, "REP-2025-004", updated.ReportCode)
	assert.Empty(t, evidence.uploaded)
	assert.Empty(t, evidence.deleted)
	assert.Empty(t, registry.calls)
}

func TestUpdateReport_RevalidatesAssets(t *testing.T) {
	svc, store, _, _ := newTestService()

	existing := store.mustAdd(models.Report{
		ReportCode: "REP-2025-005",
		ReportedAt: time.Now().UTC(),
		Assets: []models.EvaluatedAsset{
			{AssetID: "asset-1", State: models.AssetStateOperational, EvidenceURLs: []string{"https://example.com/a.jpg"}},
		},
	})

	_, err := svc.UpdateReport(context.Background(), existing.ID, ReportUpdate{
		Assets: []AssetDraft{
			{AssetID: "asset-1", State: models.AssetStateOperational}, // no evidence
		},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateReport_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.UpdateReport(context.Background(), uuid.New(), ReportUpdate{})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestDeleteReport(t *testing.T) {
	svc, store, evidence, _ := newTestService()

	existing := store.mustAdd(models.Report{
		ReportCode: "REP-2025-006",
		ReportedAt: time.Now().UTC(),
		Assets: []models.EvaluatedAsset{
			{AssetID: "asset-1", EvidenceURLs: []string{"https://example.com/a.jpg"}},
		},
	})

	deleted, err := svc.DeleteReport(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "REP-2025-006", deleted.ReportCode)
	assert.Empty(t, store.reports)

	// Evidence is intentionally kept on deletion.
	assert.Empty(t, evidence.deleted)

	_, err = svc.DeleteReport(context.Background(), existing.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestGetAssetHistory(t *testing.T) {
	svc, store, _, _ := newTestService()

	store.mustAdd(models.Report{
		ReportCode: "REP-2025-001",
		ReportedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Assets: []models.EvaluatedAsset{
			{AssetID: "asset-1", AssetCode: "AF-0001", AssetName: "Taladro", State: models.AssetStateOperational},
		},
	})
	store.mustAdd(models.Report{
		ReportCode: "REP-2025-002",
		ReportedAt: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Assets: []models.EvaluatedAsset{
			{AssetID: "asset-1", AssetCode: "AF-0001", AssetName: "Taladro", State: models.AssetStateFlagged, Description: "Carcasa rota"},
		},
	})

	history, err := svc.GetAssetHistory(context.Background(), "asset-1")
	require.NoError(t, err)
	assert.Equal(t, "AF-0001", history.AssetCode)
	require.Len(t, history.Entries, 2)
	assert.Equal(t, "REP-2025-002", history.Entries[0].ReportCode)
	assert.Equal(t, models.AssetStateFlagged, history.Entries[0].State)
	assert.Equal(t, "REP-2025-001", history.Entries[1].ReportCode)

	_, err = svc.GetAssetHistory(context.Background(), "asset-unknown")
	assert.ErrorIs(t, err, ErrNoReportsForAsset)
}
