package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetStateRemoteCode(t *testing.T) {
	cases := map[AssetState]string{
		AssetStateOperational: "operativo",
		AssetStateFlagged:     "observado",
		AssetStateInoperative: "inoperativo",
		AssetStateNotFound:    "no encontrado",
		AssetState("Unknown"): "no asignado",
		AssetState(""):        "no asignado",
	}
	for state, want := range cases {
		assert.Equal(t, want, state.RemoteCode(), "state %q", state)
	}
}

func TestAssetStateValid(t *testing.T) {
	for _, state := range []AssetState{AssetStateOperational, AssetStateFlagged, AssetStateInoperative, AssetStateNotFound} {
		assert.True(t, state.Valid(), "state %q", state)
	}
	assert.False(t, AssetState("operativo").Valid())
	assert.False(t, AssetState("").Valid())
}

func TestAssetStateCritical(t *testing.T) {
	assert.True(t, AssetStateFlagged.Critical())
	assert.True(t, AssetStateInoperative.Critical())
	assert.False(t, AssetStateOperational.Critical())
	assert.False(t, AssetStateNotFound.Critical())
}

func TestReportAssetIn(t *testing.T) {
	report := Report{
		Assets: []EvaluatedAsset{
			{AssetID: "asset-1", AssetCode: "AF-0001"},
			{AssetID: "asset-2", AssetCode: "AF-0002"},
		},
	}

	entry := report.AssetIn("asset-2")
	require.NotNil(t, entry)
	assert.Equal(t, "AF-0002", entry.AssetCode)

	assert.Nil(t, report.AssetIn("asset-3"))

	// Pointer into the backing slice, not a copy.
	entry.Description = "updated"
	assert.Equal(t, "updated", report.Assets[1].Description)
}
