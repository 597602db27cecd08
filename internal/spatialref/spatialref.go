// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package spatialref resolves the output spatial reference parameter and
// projects geographic (EPSG:4326) points into it.
package spatialref

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/pdiddy/argos-import/pkg/types"
)

// ErrUnsupported is returned for spatial references with no known transform
// from EPSG:4326.
var ErrUnsupported = errors.New("unsupported spatial reference")

const (
	// WGS84 is the geographic reference every ARGOS position is expressed in.
	WGS84 = 4326
	// WebMercator is the spherical Mercator projection used by web maps.
	WebMercator = 3857
)

const wgs84WKT = `GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]]`

const webMercatorWKT = `PROJCS["WGS 84 / Pseudo-Mercator",GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563,AUTHORITY["EPSG","7030"]],AUTHORITY["EPSG","6326"]],PRIMEM["Greenwich",0,AUTHORITY["EPSG","8901"]],UNIT["degree",0.0174532925199433,AUTHORITY["EPSG","9122"]],AUTHORITY["EPSG","4326"]],PROJECTION["Mercator_1SP"],PARAMETER["central_meridian",0],PARAMETER["scale_factor",1],PARAMETER["false_easting",0],PARAMETER["false_northing",0],UNIT["metre",1,AUTHORITY["EPSG","9001"]],AXIS["Easting",EAST],AXIS["Northing",NORTH],EXTENSION["PROJ4","+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +nadgrids=@null +wktext +no_defs"],AUTHORITY["EPSG","3857"]]`

// Ref is a resolved spatial reference.
type Ref struct {
	// Code is the EPSG code, also used as the GeoPackage srs_id.
	Code int `json:"code" yaml:"code"`

	// Name is the human-readable name (e.g. "WGS 84").
	Name string `json:"name" yaml:"name"`

	// Definition is the OGC WKT definition.
	Definition string `json:"definition" yaml:"definition"`
}

// String returns the reference as "EPSG:<code>".
func (r Ref) String() string {
	return fmt.Sprintf("EPSG:%d", r.Code)
}

// Geographic reports whether coordinates are in degrees.
func (r Ref) Geographic() bool {
	return r.Code == WGS84
}

var known = map[int]Ref{
	WGS84:       {Code: WGS84, Name: "WGS 84", Definition: wgs84WKT},
	WebMercator: {Code: WebMercator, Name: "WGS 84 / Pseudo-Mercator", Definition: webMercatorWKT},
}

var aliases = map[string]int{
	"wgs84":                                  WGS84,
	"wgs 84":                                 WGS84,
	"wgs 1984":                               WGS84,
	"gcs_wgs_1984":                           WGS84,
	"web mercator":                           WebMercator,
	"pseudo-mercator":                        WebMercator,
	"wgs_1984_web_mercator_auxiliary_sphere": WebMercator,
	"epsg:900913":                            WebMercator,
}

// Lookup returns the reference for an EPSG code.
func Lookup(code int) (Ref, error) {
	ref, ok := known[code]
	if !ok {
		names := make([]string, 0, len(known))
		for _, ref := range Supported() {
			names = append(names, ref.String())
		}
		return Ref{}, fmt.Errorf("%w: EPSG:%d (supported: %s)", ErrUnsupported, code, strings.Join(names, ", "))
	}
	return ref, nil
}

var (
	authorityRe = regexp.MustCompile(`AUTHORITY\[\s*"EPSG"\s*,\s*"?(\d+)"?\s*\]\s*\]\s*$`)
	wktNameRe   = regexp.MustCompile(`^(?i:GEOGCS|PROJCS)\[\s*"([^"]+)"`)
)

// Parse resolves a spatial reference parameter. It accepts a bare EPSG code
// ("4326"), an "EPSG:<code>" string, a well-known name ("WGS 1984"), WKT
// ending in an EPSG AUTHORITY clause, or a path to a .prj file holding WKT.
func Parse(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("%w: empty value", ErrUnsupported)
	}

	if strings.EqualFold(filepath.Ext(s), ".prj") {
		data, err := os.ReadFile(s)
		if err != nil {
			return Ref{}, fmt.Errorf("reading projection file: %w", err)
		}
		return parseWKT(strings.TrimSpace(string(data)))
	}

	if code, ok := aliases[strings.ToLower(s)]; ok {
		return Lookup(code)
	}

	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "GEOGCS[") || strings.HasPrefix(upper, "PROJCS[") {
		return parseWKT(s)
	}

	digits := strings.TrimPrefix(upper, "EPSG:")
	code, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrUnsupported, s)
	}
	return Lookup(code)
}

func parseWKT(wkt string) (Ref, error) {
	m := authorityRe.FindStringSubmatch(wkt)
	if m == nil {
		// ESRI .prj files carry no AUTHORITY clause; fall back to the name.
		if n := wktNameRe.FindStringSubmatch(wkt); n != nil {
			if code, ok := aliases[strings.ToLower(n[1])]; ok {
				return Lookup(code)
			}
		}
		return Ref{}, fmt.Errorf("%w: WKT has no EPSG authority", ErrUnsupported)
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return Lookup(code)
}

// maxMercatorLat is the latitude at which Web Mercator becomes square.
const maxMercatorLat = 85.0511287798066

// Project converts a geographic point (X = longitude, Y = latitude, degrees)
// into ref's coordinate system.
func (r Ref) Project(p types.Point) (types.Point, error) {
	switch r.Code {
	case WGS84:
		return p, nil
	case WebMercator:
		lat := math.Max(-maxMercatorLat, math.Min(maxMercatorLat, p.Y))
		m := project.WGS84.ToMercator(orb.Point{p.X, lat})
		return types.Point{X: m.X(), Y: m.Y()}, nil
	default:
		return types.Point{}, fmt.Errorf("%w: %s", ErrUnsupported, r)
	}
}

// Unproject converts a point in ref's coordinate system back to geographic
// degrees.
func (r Ref) Unproject(p types.Point) (types.Point, error) {
	switch r.Code {
	case WGS84:
		return p, nil
	case WebMercator:
		g := project.Mercator.ToWGS84(orb.Point{p.X, p.Y})
		return types.Point{X: g.Lon(), Y: g.Lat()}, nil
	default:
		return types.Point{}, fmt.Errorf("%w: %s", ErrUnsupported, r)
	}
}

// Supported lists the references Lookup accepts.
func Supported() []Ref {
	return []Ref{known[WGS84], known[WebMercator]}
}
