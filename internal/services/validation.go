package services

import (
	"regexp"
	"strings"

	"github.com/inacons/activos-bff/internal/models"
)

var evidenceURLPattern = regexp.MustCompile(`^https?://.+`)

// validateAssets enforces the report invariants over fully assembled
// evaluated assets (pre-existing URLs merged with uploaded ones):
// every asset carries at least one evidence URL, critical states carry
// a description, and every URL looks like an HTTP(S) URL. The first
// violated rule wins.
func validateAssets(assets []models.EvaluatedAsset) error {
	for _, a := range assets {
		if len(a.EvidenceURLs) == 0 {
			return &ValidationError{Message: "every evaluated asset must have at least one evidence URL"}
		}
	}

	for _, a := range assets {
		if a.State.Critical() && strings.TrimSpace(a.Description) == "" {
			return &ValidationError{Message: `assets in state "Flagged" or "Inoperative" require a description`}
		}
	}

	for _, a := range assets {
		for _, url := range a.EvidenceURLs {
			if !evidenceURLPattern.MatchString(url) {
				return &ValidationError{Message: "evidence URLs must be valid and start with http:// or https://"}
			}
		}
	}

	return nil
}
