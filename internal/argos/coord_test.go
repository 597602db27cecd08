// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package argos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/argos-import/pkg/types"
)

func TestParseLatitude(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"35.123N", 35.123},
		{"35.123S", -35.123},
		{"0.5N", 0.5},
		{"-12.5S", -12.5},
		{"12.5X", -12.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLatitude(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseLongitude(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"80.000E", 80},
		{"80.000W", -80},
		{"-80.000W", -80},
		{"179.999W", -179.999},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLongitude(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHemisphereSign(t *testing.T) {
	for _, mag := range []string{"0.001", "1", "45.5", "89.999", "179.25"} {
		n, err := ParseLatitude(mag + "N")
		require.NoError(t, err)
		assert.Positive(t, n)

		s, err := ParseLatitude(mag + "S")
		require.NoError(t, err)
		assert.Negative(t, s)

		e, err := ParseLongitude(mag + "E")
		require.NoError(t, err)
		assert.Positive(t, e)

		w, err := ParseLongitude(mag + "W")
		require.NoError(t, err)
		assert.Negative(t, w)
	}
}

func TestParseCoordinate_Errors(t *testing.T) {
	for _, in := range []string{"", "N", "abcN", "12.3.4W", "NaNN", "InfE", "?????"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLongitude(in)
			var ce *CoordinateError
			require.True(t, errors.As(err, &ce), "want *CoordinateError, got %v", err)
			assert.Equal(t, in, ce.Value)
		})
	}
}

func TestPosition(t *testing.T) {
	p, err := Position(types.Record{Latitude: "35.000N", Longitude: "80.000W"})
	require.NoError(t, err)
	assert.Equal(t, types.Point{X: -80, Y: 35}, p)

	_, err = Position(types.Record{Latitude: "35.000N", Longitude: "bogus"})
	assert.Error(t, err)
}
