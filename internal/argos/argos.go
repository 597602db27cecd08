// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package argos reads ARGOS satellite-tracking text files. Each observation
// spans two lines: a header containing the marker "Date :" with the tag,
// date, time and location class, followed by a line with the position.
package argos

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/argos-import/pkg/types"
)

// HeaderMarker identifies a header line. The match is an exact substring
// test, including the space before the colon.
const HeaderMarker = "Date :"

// Token positions within the whitespace-split header and location lines.
const (
	tagIDField     = 0
	dateField      = 3
	timeField      = 4
	lcField        = 7
	latitudeField  = 2
	longitudeField = 5

	minHeaderFields   = lcField + 1
	minLocationFields = longitudeField + 1
)

const maxLineSize = 1 << 20

// FormatError reports a header or location line that does not have the
// expected columns. It is not recoverable: the upstream layout is wrong.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

// Reader yields records from one ARGOS file in file order.
type Reader struct {
	sc   *bufio.Scanner
	name string
	line int
}

// NewReader returns a Reader over r. name is used in error messages.
func NewReader(r io.Reader, name string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc, name: name}
}

// Next returns the next record. Lines that do not contain HeaderMarker are
// skipped. The line after a header is always consumed as the location line.
// Next returns io.EOF when the input is exhausted.
func (r *Reader) Next() (types.Record, error) {
	for r.sc.Scan() {
		r.line++
		header := r.sc.Text()
		if !strings.Contains(header, HeaderMarker) {
			continue
		}
		headerLine := r.line

		h := strings.Fields(header)
		if len(h) < minHeaderFields {
			return types.Record{}, &FormatError{
				File: r.name, Line: headerLine,
				Msg: fmt.Sprintf("header has %d fields, want at least %d", len(h), minHeaderFields),
			}
		}

		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return types.Record{}, fmt.Errorf("reading %s: %w", r.name, err)
			}
			return types.Record{}, &FormatError{
				File: r.name, Line: headerLine,
				Msg: "header is not followed by a location line",
			}
		}
		r.line++

		loc := strings.Fields(r.sc.Text())
		if len(loc) < minLocationFields {
			return types.Record{}, &FormatError{
				File: r.name, Line: r.line,
				Msg: fmt.Sprintf("location line has %d fields, want at least %d", len(loc), minLocationFields),
			}
		}

		return types.Record{
			TagID:         h[tagIDField],
			Date:          h[dateField],
			Time:          h[timeField],
			LocationClass: h[lcField],
			Latitude:      loc[latitudeField],
			Longitude:     loc[longitudeField],
			Line:          headerLine,
		}, nil
	}
	if err := r.sc.Err(); err != nil {
		return types.Record{}, fmt.Errorf("reading %s: %w", r.name, err)
	}
	return types.Record{}, io.EOF
}
