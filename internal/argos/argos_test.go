// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package argos

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/argos-import/pkg/types"
)

// readAll drains a Reader over r.
func readAll(r io.Reader, name string) ([]types.Record, error) {
	rd := NewReader(r, name)
	var records []types.Record
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

const sampleFile = `Argos DS data, program 2193
20616  Date : 13.08.1997 22:49:04  LC : 3  IQ : 66
      Lat1 : 34.364N  Lon1 : 77.549W  Lat2 : 34.366N  Lon2 : 77.548W
      Nb mes : 004  Nb mes>-120dB: 000  Best level : -127 dB
      Pass duration : 096s   NOPC : 2
20616  Date : 14.08.1997 01:07:11  LC : A  IQ : 00
      Lat1 : 34.372N  Lon1 : 77.567W  Lat2 : 26.021S  Lon2 : 21.844E
`

func TestReaderNext(t *testing.T) {
	records, err := readAll(strings.NewReader(sampleFile), "sample.txt")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, types.Record{
		TagID: "20616", Date: "13.08.1997", Time: "22:49:04", LocationClass: "3",
		Latitude: "34.364N", Longitude: "77.549W", Line: 2,
	}, records[0])
	assert.Equal(t, "A", records[1].LocationClass)
	assert.Equal(t, "14.08.1997", records[1].Date)
	assert.Equal(t, 6, records[1].Line)
}

func TestReaderNext_NoRecords(t *testing.T) {
	rd := NewReader(strings.NewReader("nothing here\nDate: no space before colon\n"), "empty.txt")
	_, err := rd.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderNext_FormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "short header",
			input:    "junk\n20616 Date : 13.08.1997\n Lat1 : 1N Lon1 : 2E\n",
			wantLine: 2,
			wantMsg:  "header has 4 fields",
		},
		{
			name:     "header at end of file",
			input:    "20616  Date : 13.08.1997 22:49:04  LC : 3  IQ : 66\n",
			wantLine: 1,
			wantMsg:  "not followed by a location line",
		},
		{
			name:     "short location line",
			input:    "20616  Date : 13.08.1997 22:49:04  LC : 3  IQ : 66\nLat1 : 34.364N\n",
			wantLine: 2,
			wantMsg:  "location line has 3 fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(strings.NewReader(tt.input), "bad.txt")
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "want *FormatError, got %v", err)
			assert.Equal(t, "bad.txt", fe.File)
			assert.Equal(t, tt.wantLine, fe.Line)
			assert.Contains(t, fe.Error(), tt.wantMsg)
		})
	}
}

func TestReaderNext_LocationLineIsNotRescanned(t *testing.T) {
	// The line after a header is consumed even if it contains the marker.
	input := "1 Date : 01.02.2021 12:00:00 LC : 7\n" +
		"a b 35.000N c d 80.000W Date : x\n" +
		"2 Date : 02.02.2021 13:00:00 LC : B\n" +
		"a b 36.000S c d 81.000E\n"
	records, err := readAll(strings.NewReader(input), "f.txt")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].TagID)
	assert.Equal(t, "2", records[1].TagID)
	assert.Equal(t, "81.000E", records[1].Longitude)
}

func TestReaderNext_CRLF(t *testing.T) {
	input := "7 Date : 01.02.2021 12:00:00 LC : 7\r\nLat1 : 35.000N Lon1 : 80.000W\r\n"
	records, err := readAll(strings.NewReader(input), "crlf.txt")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "80.000W", records[0].Longitude)
	assert.Equal(t, "7", records[0].LocationClass)
}

func TestRecordDateString(t *testing.T) {
	r := types.Record{Date: "01.02.2021", Time: "12:00:00"}
	assert.Equal(t, "01/02/2021 12:00:00", r.DateString())
}
