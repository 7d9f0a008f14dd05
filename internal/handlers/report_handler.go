package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/inacons/activos-bff/internal/dto"
	"github.com/inacons/activos-bff/internal/middleware"
	"github.com/inacons/activos-bff/internal/models"
	"github.com/inacons/activos-bff/internal/repository"
	"github.com/inacons/activos-bff/internal/services"
	"github.com/inacons/activos-bff/internal/storage"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CreateReport handles POST /reports - runs the report creation saga.
func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	draft := services.ReportDraft{
		Title:        req.Title,
		UserID:       userID,
		UserName:     middleware.GetUserName(c),
		GeneralNotes: req.GeneralNotes,
		OfflineSync:  req.OfflineSync,
		ReportedAt:   req.ReportedAt,
	}

	for _, a := range req.Assets {
		assetDraft, err := toAssetDraft(a)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		draft.Assets = append(draft.Assets, assetDraft)
	}

	report, err := h.reportService.CreateReport(c.Context(), draft)
	if err != nil {
		return reportError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewReportResponse(report))
}

// GetReports handles GET /reports - paginated listing with filters.
func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	filter, err := listFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	reports, total, err := h.reportService.ListReports(c.Context(), filter)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(listResponse(reports, total, filter))
}

// GetReportsByUser handles GET /reports/user/:user_id.
func (h *ReportHandler) GetReportsByUser(c *fiber.Ctx) error {
	filter, err := listFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	filter.UserID = c.Params("user_id")

	reports, total, err := h.reportService.ListReports(c.Context(), filter)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(listResponse(reports, total, filter))
}

// GetReportsByAsset handles GET /reports/asset/:asset_id.
func (h *ReportHandler) GetReportsByAsset(c *fiber.Ctx) error {
	filter, err := listFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	filter.AssetID = c.Params("asset_id")

	reports, total, err := h.reportService.ListReports(c.Context(), filter)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(listResponse(reports, total, filter))
}

// GetReport handles GET /reports/:id.
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	report, err := h.reportService.GetReport(c.Context(), id)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(dto.NewReportResponse(report))
}

// GetReportByCode handles GET /reports/code/:code.
func (h *ReportHandler) GetReportByCode(c *fiber.Ctx) error {
	report, err := h.reportService.GetReportByCode(c.Context(), c.Params("code"))
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(dto.NewReportResponse(report))
}

// UpdateReport handles PUT /reports/:id - plain write, no saga.
func (h *ReportHandler) UpdateReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	var req dto.UpdateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	upd := services.ReportUpdate{
		Title:        req.Title,
		GeneralNotes: req.GeneralNotes,
	}
	if req.Assets != nil {
		upd.Assets = make([]services.AssetDraft, 0, len(req.Assets))
		for _, a := range req.Assets {
			upd.Assets = append(upd.Assets, services.AssetDraft{
				AssetID:      a.AssetID,
				AssetCode:    a.AssetCode,
				AssetName:    a.AssetName,
				Brand:        a.Brand,
				State:        models.AssetState(a.State),
				Description:  a.Description,
				EvidenceURLs: a.EvidenceURLs,
			})
		}
	}

	report, err := h.reportService.UpdateReport(c.Context(), id, upd)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(dto.NewReportResponse(report))
}

// DeleteReport handles DELETE /reports/:id. Evidence files are kept.
func (h *ReportHandler) DeleteReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid report id",
		})
	}

	report, err := h.reportService.DeleteReport(c.Context(), id)
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Report deleted",
		"report":  dto.NewReportResponse(report),
	})
}

// GetAssetHistory handles GET /reports/asset/:asset_id/history.
func (h *ReportHandler) GetAssetHistory(c *fiber.Ctx) error {
	history, err := h.reportService.GetAssetHistory(c.Context(), c.Params("asset_id"))
	if err != nil {
		return reportError(c, err)
	}

	entries := make([]dto.AssetHistoryEntry, len(history.Entries))
	for i, e := range history.Entries {
		entries[i] = dto.AssetHistoryEntry{
			ReportCode:   e.ReportCode,
			ReportedAt:   e.ReportedAt,
			State:        string(e.State),
			Description:  e.Description,
			EvidenceURLs: e.EvidenceURLs,
		}
	}
	return c.JSON(dto.AssetHistoryResponse{
		AssetID:   history.AssetID,
		AssetCode: history.AssetCode,
		AssetName: history.AssetName,
		History:   entries,
	})
}

// GetStats handles GET /reports/stats.
func (h *ReportHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.reportService.GetStats(c.Context())
	if err != nil {
		return reportError(c, err)
	}
	return c.JSON(stats)
}

// --- helpers ---

func toAssetDraft(a dto.EvaluatedAssetInput) (services.AssetDraft, error) {
	draft := services.AssetDraft{
		AssetID:      a.AssetID,
		AssetCode:    a.AssetCode,
		AssetName:    a.AssetName,
		Brand:        a.Brand,
		State:        models.AssetState(a.State),
		Description:  a.Description,
		EvidenceURLs: a.EvidenceURLs,
	}
	for _, f := range a.EvidenceFiles {
		data, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return draft, fmt.Errorf("invalid base64 payload for file %s", f.FileName)
		}
		draft.Files = append(draft.Files, storage.EvidenceFile{
			FileName:    f.FileName,
			ContentType: f.ContentType,
			Data:        data,
		})
	}
	return draft, nil
}

func listFilter(c *fiber.Ctx) (repository.ReportFilter, error) {
	filter := repository.ReportFilter{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		SortBy:    c.Query("sort_by", "reported_at"),
		SortOrder: c.Query("sort_order", "desc"),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter, nil
}

func listResponse(reports []models.Report, total int64, filter repository.ReportFilter) dto.ReportsListResponse {
	items := make([]dto.ReportResponse, len(reports))
	for i := range reports {
		items[i] = dto.NewReportResponse(&reports[i])
	}
	return dto.ReportsListResponse{
		Reports: items,
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
}

// reportError maps service errors to HTTP responses.
func reportError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var uploadErr *services.UploadError
	var syncErr *services.SyncError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: validationErr.Message,
		})
	case errors.Is(err, services.ErrReportNotFound), errors.Is(err, services.ErrNoReportsForAsset):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.As(err, &uploadErr), errors.As(err, &syncErr):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process report",
		})
	}
}
