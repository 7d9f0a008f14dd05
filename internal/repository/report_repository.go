// Package repository owns report persistence. Reports and their
// evaluated assets live in Postgres; this service is their system of
// record once a report is created.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inacons/activos-bff/internal/models"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ReportFilter narrows and pages report listings. Zero values mean
// "no constraint".
type ReportFilter struct {
	UserID    string
	AssetID   string
	From      *time.Time
	To        *time.Time
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

var sortableColumns = map[string]bool{
	"reported_at": true,
	"report_code": true,
	"created_at":  true,
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	for i := range report.Assets {
		report.Assets[i].Position = i
	}
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// Update replaces the report row and its evaluated assets in one
// transaction. ReportCode and ReportedAt are never touched.
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	for i := range report.Assets {
		report.Assets[i].Position = i
		report.Assets[i].ReportID = report.ID
		report.Assets[i].ID = uuid.Nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":         report.Title,
			"general_notes": report.GeneralNotes,
		}
		if err := tx.Model(&models.Report{}).Where("id = ?", report.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("report_id = ?", report.ID).Delete(&models.EvaluatedAsset{}).Error; err != nil {
			return err
		}
		return tx.Create(&report.Assets).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update report %s: %w", report.ReportCode, err)
	}
	return nil
}

// Delete removes a report and, through the FK cascade, its evaluated
// assets. Returns false when no such report existed.
func (r *ReportRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Report{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete report: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	err := r.withAssets(ctx).Where("id = ?", id).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

func (r *ReportRepository) GetByCode(ctx context.Context, code string) (*models.Report, error) {
	var report models.Report
	err := r.withAssets(ctx).Where("report_code = ?", code).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report by code: %w", err)
	}
	return &report, nil
}

// LatestByAsset returns the most recent report that evaluates the given
// asset, or nil when no report mentions it.
func (r *ReportRepository) LatestByAsset(ctx context.Context, assetID string) (*models.Report, error) {
	var report models.Report
	err := r.withAssets(ctx).
		Joins("JOIN evaluated_assets ea ON ea.report_id = reports.id").
		Where("ea.asset_id = ?", assetID).
		Order("reports.reported_at DESC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest report for asset %s: %w", assetID, err)
	}
	return &report, nil
}

func (r *ReportRepository) List(ctx context.Context, f ReportFilter) ([]models.Report, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}

	query := r.db.WithContext(ctx).Model(&models.Report{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.AssetID != "" {
		query = query.Where("id IN (?)",
			r.db.Model(&models.EvaluatedAsset{}).Select("report_id").Where("asset_id = ?", f.AssetID))
	}
	if f.From != nil {
		query = query.Where("reported_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("reported_at <= ?", *f.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	sortBy := f.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "reported_at"
	}
	order := "DESC"
	if f.SortOrder == "asc" {
		order = "ASC"
	}

	var reports []models.Report
	err := query.
		Preload("Assets", assetOrder).
		Order(sortBy + " " + order).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, total, nil
}

// Stats aggregates reporting figures for the dashboard.
func (r *ReportRepository) Stats(ctx context.Context) (*models.ReportStats, error) {
	stats := &models.ReportStats{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Report{}).Count(&stats.TotalReports).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	yearAgo := time.Now().AddDate(-1, 0, 0)
	err := db.Model(&models.Report{}).
		Select("to_char(created_at, 'YYYY-MM') AS month, COUNT(*) AS count").
		Where("created_at >= ?", yearAgo).
		Group("month").
		Order("month DESC").
		Scan(&stats.PerMonth).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reports per month: %w", err)
	}

	err = db.Model(&models.EvaluatedAsset{}).
		Select("state, COUNT(*) AS count").
		Group("state").
		Order("count DESC").
		Scan(&stats.StatesReported).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate states: %w", err)
	}

	err = db.Model(&models.EvaluatedAsset{}).
		Select("asset_id, asset_code, asset_name, COUNT(*) AS evaluations").
		Group("asset_id, asset_code, asset_name").
		Order("evaluations DESC").
		Limit(10).
		Scan(&stats.TopAssets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top assets: %w", err)
	}

	return stats, nil
}

func (r *ReportRepository) withAssets(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Assets", assetOrder)
}

func assetOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
