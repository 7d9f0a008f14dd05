package repository

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/inacons/activos-bff/internal/models"
)

var reportCodePattern = regexp.MustCompile(`^REP-\d{4}-(\d{3,})$`)

// NextReportCode computes the next report code for the year of now,
// shaped REP-<year>-<seq> with a zero-padded three digit sequence that
// restarts at 001 each year.
//
// The read-then-increment is not serialized against concurrent
// creators; two simultaneous creations in the same year can race to the
// same sequence, which the unique index on report_code then rejects.
func (r *ReportRepository) NextReportCode(ctx context.Context, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("REP-%d-", year)

	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("report_code LIKE ?", prefix+"%").
		Order("report_code DESC").
		Limit(1).
		Pluck("report_code", &codes).Error
	if err != nil {
		return "", fmt.Errorf("failed to look up last report code: %w", err)
	}

	last := ""
	if len(codes) > 0 {
		last = codes[0]
	}
	return nextReportCode(last, year), nil
}

func nextReportCode(last string, year int) string {
	seq := 1
	if m := reportCodePattern.FindStringSubmatch(last); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("REP-%d-%03d", year, seq)
}
