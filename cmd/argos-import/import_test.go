// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/argos-import/internal/featureclass"
	"github.com/pdiddy/argos-import/internal/ingest"
	"github.com/pdiddy/argos-import/internal/spatialref"
	"github.com/pdiddy/argos-import/pkg/types"
)

func summaryFixture(t *testing.T) (ingest.RunResult, *featureclass.FeatureClass) {
	t.Helper()
	ctx := context.Background()
	ref, err := spatialref.Lookup(spatialref.WGS84)
	require.NoError(t, err)
	fc, err := featureclass.Create(ctx, filepath.Join(t.TempDir(), "tracks.gpkg", "argos"), ref, true)
	require.NoError(t, err)
	t.Cleanup(func() { fc.Close() })

	cur := fc.InsertCursor()
	require.NoError(t, cur.InsertRow(ctx, types.Feature{Geometry: &types.Point{X: -80, Y: 35}, TagID: 1, LC: "3", Date: "d"}))
	require.NoError(t, cur.InsertRow(ctx, types.Feature{Geometry: &types.Point{X: -79, Y: 36}, TagID: 1, LC: "2", Date: "d"}))
	require.NoError(t, cur.Close(ctx))

	result := ingest.RunResult{
		Files:   []ingest.FileResult{{Name: "a.txt", Records: 2, Errors: 0, Inserted: 2}},
		Skipped: 1,
	}
	return result, fc
}

func TestFormatImportOutput(t *testing.T) {
	result, fc := summaryFixture(t)

	var buf bytes.Buffer
	require.NoError(t, formatImportOutput(context.Background(), &buf, result, fc, false))

	out := buf.String()
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "Import summary: 1 files, 1 skipped, 2 records, 0 errors")
	assert.Contains(t, out, "(table argos, EPSG:4326), 2 rows")
	assert.Contains(t, out, "Extent: -80.000000 35.000000 -79.000000 36.000000")
}

func TestFormatImportOutput_JSON(t *testing.T) {
	result, fc := summaryFixture(t)

	var buf bytes.Buffer
	require.NoError(t, formatImportOutput(context.Background(), &buf, result, fc, true))

	var got struct {
		Files      []ingest.FileResult `json:"files"`
		Skipped    int                 `json:"skipped"`
		Table      string              `json:"table"`
		SpatialRef string              `json:"spatial_ref"`
		Rows       int                 `json:"rows"`
		Extent     []float64           `json:"extent"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Files, 1)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, "argos", got.Table)
	assert.Equal(t, "EPSG:4326", got.SpatialRef)
	assert.Equal(t, 2, got.Rows)
	assert.Equal(t, []float64{-80, 35, -79, 36}, got.Extent)
}
