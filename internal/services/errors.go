package services

import (
	"errors"
	"fmt"
)

var (
	ErrReportNotFound    = errors.New("report not found")
	ErrNoReportsForAsset = errors.New("no reports found for this asset")
)

// ValidationError is a business-rule violation in a report draft. The
// caller can fix the input and retry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError means at least one evidence file never reached storage.
// No report exists at this point; only uploaded files were cleaned up.
type UploadError struct {
	AssetCode string
	Err       error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload evidence for asset %s: %v", e.AssetCode, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// SyncError means the monolith state update failed after the report was
// persisted. The report and its uploaded evidence were rolled back.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("failed to update asset states in monolith: %v", e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
