// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package featureclass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/argos-import/pkg/types"
)

// Features returns every row in insertion order, geometry in the feature
// class spatial reference.
func (fc *FeatureClass) Features(ctx context.Context) ([]types.Feature, error) {
	rows, err := fc.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s, TagID, LC, Date FROM %s ORDER BY fid`, geometryColumn, quoteIdent(fc.table)))
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var features []types.Feature
	for rows.Next() {
		var (
			blob []byte
			f    types.Feature
		)
		if err := rows.Scan(&blob, &f.TagID, &f.LC, &f.Date); err != nil {
			return nil, fmt.Errorf("scanning feature: %w", err)
		}
		p, err := decodePoint(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding feature %d: %w", len(features)+1, err)
		}
		f.Geometry = p
		features = append(features, f)
	}
	return features, rows.Err()
}

// GeoJSONCollection is a GeoJSON FeatureCollection.
type GeoJSONCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature is a single GeoJSON feature.
type GeoJSONFeature struct {
	Type       string            `json:"type" yaml:"type"`
	Geometry   *GeoJSONGeometry  `json:"geometry" yaml:"geometry"`
	Properties GeoJSONProperties `json:"properties" yaml:"properties"`
}

// GeoJSONGeometry is a point geometry. Coordinates are [lon, lat].
type GeoJSONGeometry struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates,flow"`
}

// GeoJSONProperties holds the feature attributes.
type GeoJSONProperties struct {
	TagID int64  `json:"TagID" yaml:"TagID"`
	LC    string `json:"LC" yaml:"LC"`
	Date  string `json:"Date" yaml:"Date"`
}

// Collection converts the feature class to GeoJSON. GeoJSON is always
// geographic, so projected geometries are converted back to EPSG:4326.
// Empty points become null geometries.
func (fc *FeatureClass) Collection(ctx context.Context) (GeoJSONCollection, error) {
	features, err := fc.Features(ctx)
	if err != nil {
		return GeoJSONCollection{}, err
	}

	out := GeoJSONCollection{Type: "FeatureCollection", Features: make([]GeoJSONFeature, len(features))}
	for i, f := range features {
		gf := GeoJSONFeature{
			Type:       "Feature",
			Properties: GeoJSONProperties{TagID: f.TagID, LC: f.LC, Date: f.Date},
		}
		if f.Geometry != nil {
			p, err := fc.ref.Unproject(*f.Geometry)
			if err != nil {
				return GeoJSONCollection{}, err
			}
			gf.Geometry = &GeoJSONGeometry{Type: "Point", Coordinates: []float64{p.X, p.Y}}
		}
		out.Features[i] = gf
	}
	return out, nil
}

// ExportGeoJSON writes the feature class to w as an indented GeoJSON
// FeatureCollection.
func (fc *FeatureClass) ExportGeoJSON(ctx context.Context, w io.Writer) error {
	coll, err := fc.Collection(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(coll); err != nil {
		return fmt.Errorf("encoding GeoJSON: %w", err)
	}
	return nil
}

// ExportYAML writes the same FeatureCollection as YAML.
func (fc *FeatureClass) ExportYAML(ctx context.Context, w io.Writer) error {
	coll, err := fc.Collection(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(coll); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}
