// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package featureclass

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/gpkg"

	"github.com/pdiddy/argos-import/pkg/types"
)

var errBadGeometry = errors.New("malformed GeoPackage geometry")

// encodePoint encodes p as a GeoPackage geometry blob tagged with srsID.
// A nil p encodes as SQL NULL.
func encodePoint(p *types.Point, srsID int) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	g := geom.NewPointFlat(geom.XY, []float64{p.X, p.Y}).SetSRID(srsID)
	blob, err := gpkg.Encode(g)
	if err != nil {
		return nil, fmt.Errorf("encoding point: %w", err)
	}
	return blob, nil
}

// decodePoint decodes a GeoPackage point blob. NULL blobs and empty points
// decode to nil.
func decodePoint(blob []byte) (*types.Point, error) {
	if blob == nil {
		return nil, nil
	}
	g, err := gpkg.Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadGeometry, err)
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a point", errBadGeometry, g)
	}
	if pt.Empty() || (math.IsNaN(pt.X()) && math.IsNaN(pt.Y())) {
		return nil, nil
	}
	return &types.Point{X: pt.X(), Y: pt.Y()}, nil
}
