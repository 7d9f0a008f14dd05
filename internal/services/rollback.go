package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// compensation is one undo step recorded during the creation saga.
type compensation interface {
	run(ctx context.Context) error
	describe() string
}

type deleteEvidence struct {
	store EvidenceStore
	url   string
}

func (d deleteEvidence) run(ctx context.Context) error {
	return d.store.Delete(ctx, d.url)
}

func (d deleteEvidence) describe() string {
	return "delete evidence " + d.url
}

type deleteReport struct {
	store ReportStore
	id    uuid.UUID
	code  string
}

func (d deleteReport) run(ctx context.Context) error {
	_, err := d.store.Delete(ctx, d.id)
	return err
}

func (d deleteReport) describe() string {
	return "delete report " + d.code
}

// rollbackLedger is an append-only record of the side effects applied
// so far. On failure the steps are undone in reverse order; a step that
// fails to undo is logged and never replaces the triggering error.
type rollbackLedger struct {
	steps []compensation
}

func newRollbackLedger() *rollbackLedger {
	return &rollbackLedger{}
}

func (l *rollbackLedger) add(c compensation) {
	l.steps = append(l.steps, c)
}

func (l *rollbackLedger) run(ctx context.Context) {
	for i := len(l.steps) - 1; i >= 0; i-- {
		step := l.steps[i]
		if err := step.run(ctx); err != nil {
			slog.Error("rollback step failed", "step", step.describe(), "error", err)
			continue
		}
		slog.Info("rollback step completed", "step", step.describe())
	}
	l.steps = nil
}
