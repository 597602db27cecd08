// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package argos

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pdiddy/argos-import/pkg/types"
)

// CoordinateError reports a coordinate token that could not be converted.
// Callers count these per file; they are never fatal.
type CoordinateError struct {
	Value string
	Err   error
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate %q: %v", e.Value, e.Err)
}

func (e *CoordinateError) Unwrap() error { return e.Err }

var (
	errEmpty     = errors.New("empty value")
	errNonFinite = errors.New("value is not finite")
)

// ParseLatitude converts a token such as "35.123N" to signed decimal
// degrees. Any hemisphere letter other than 'N' gives a negative value.
func ParseLatitude(s string) (float64, error) {
	return parseHemisphere(s, 'N')
}

// ParseLongitude converts a token such as "80.456W" to signed decimal
// degrees. Any hemisphere letter other than 'E' gives a negative value.
func ParseLongitude(s string) (float64, error) {
	return parseHemisphere(s, 'E')
}

// parseHemisphere strips the trailing hemisphere letter and parses the rest.
// The letter alone decides the sign; the magnitude of the number is kept.
func parseHemisphere(s string, positive rune) (float64, error) {
	last, size := utf8.DecodeLastRuneInString(s)
	if size == 0 {
		return 0, &CoordinateError{Value: s, Err: errEmpty}
	}
	v, err := strconv.ParseFloat(s[:len(s)-size], 64)
	if err != nil {
		return 0, &CoordinateError{Value: s, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &CoordinateError{Value: s, Err: errNonFinite}
	}
	v = math.Abs(v)
	if last != positive {
		v = -v
	}
	return v, nil
}

// Position converts the record's coordinate tokens to a geographic point
// (X = longitude, Y = latitude).
func Position(r types.Record) (types.Point, error) {
	lat, err := ParseLatitude(r.Latitude)
	if err != nil {
		return types.Point{}, err
	}
	lon, err := ParseLongitude(r.Longitude)
	if err != nil {
		return types.Point{}, err
	}
	return types.Point{X: lon, Y: lat}, nil
}
