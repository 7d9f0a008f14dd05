package services

import (
	"testing"

	"github.com/inacons/activos-bff/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAsset() models.EvaluatedAsset {
	return models.EvaluatedAsset{
		AssetID:      "asset-1",
		AssetCode:    "AF-0001",
		State:        models.AssetStateOperational,
		EvidenceURLs: []string{"https://example.com/foto.jpg"},
	}
}

func TestValidateAssets_OK(t *testing.T) {
	flagged := validAsset()
	flagged.State = models.AssetStateFlagged
	flagged.Description = "Pantalla rajada"

	assert.NoError(t, validateAssets([]models.EvaluatedAsset{validAsset(), flagged}))
}

func TestValidateAssets_RequiresEvidence(t *testing.T) {
	a := validAsset()
	a.EvidenceURLs = nil

	err := validateAssets([]models.EvaluatedAsset{a})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "evidence URL")
}

func TestValidateAssets_CriticalStatesRequireDescription(t *testing.T) {
	for _, state := range []models.AssetState{models.AssetStateFlagged, models.AssetStateInoperative} {
		a := validAsset()
		a.State = state
		a.Description = "   \t"

		err := validateAssets([]models.EvaluatedAsset{a})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "state %s", state)
		assert.Contains(t, vErr.Message, "description")
	}
}

func TestValidateAssets_NonCriticalStatesAllowEmptyDescription(t *testing.T) {
	for _, state := range []models.AssetState{models.AssetStateOperational, models.AssetStateNotFound} {
		a := validAsset()
		a.State = state
		a.Description = ""

		assert.NoError(t, validateAssets([]models.EvaluatedAsset{a}), "state %s", state)
	}
}

func TestValidateAssets_RejectsMalformedURLs(t *testing.T) {
	for _, url := range []string{"ftp://example.com/a.jpg", "example.com/a.jpg", "https://", "   "} {
		a := validAsset()
		a.EvidenceURLs = []string{url}

		err := validateAssets([]models.EvaluatedAsset{a})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "url %q", url)
		assert.Contains(t, vErr.Message, "http")
	}
}

func TestValidateAssets_RuleOrder(t *testing.T) {
	// One asset misses evidence, another misses a description: the
	// evidence rule is reported first regardless of asset order.
	noDesc := validAsset()
	noDesc.State = models.AssetStateInoperative
	noEvidence := validAsset()
	noEvidence.AssetID = "asset-2"
	noEvidence.EvidenceURLs = nil

	err := validateAssets([]models.EvaluatedAsset{noDesc, noEvidence})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "evidence URL")
}
