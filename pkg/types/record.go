// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Record holds the raw tokens of one ARGOS observation: a header line
// carrying the tag, date, time and location class, and the line after it
// carrying the position.
type Record struct {
	// TagID is token 0 of the header line (the platform/tag identifier).
	TagID string `json:"tag_id" yaml:"tag_id"`

	// Date is token 3 of the header line, in day.month.year form.
	Date string `json:"date" yaml:"date"`

	// Time is token 4 of the header line.
	Time string `json:"time" yaml:"time"`

	// LocationClass is token 7 of the header line (the LC quality code).
	LocationClass string `json:"lc" yaml:"lc"`

	// Latitude is token 2 of the location line, hemisphere letter included (e.g. "35.123N").
	Latitude string `json:"latitude" yaml:"latitude"`

	// Longitude is token 5 of the location line, hemisphere letter included (e.g. "80.456W").
	Longitude string `json:"longitude" yaml:"longitude"`

	// Line is the 1-based line number of the header within its file.
	Line int `json:"line" yaml:"line"`
}

// DateString returns the value stored in the Date attribute of the output
// feature: the date with '.' replaced by '/', a space, then the time.
func (r Record) DateString() string {
	return strings.ReplaceAll(r.Date, ".", "/") + " " + r.Time
}

// Point is a 2D coordinate. X is longitude/easting, Y is latitude/northing.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Feature is one row of the output feature class.
type Feature struct {
	// Geometry is nil for an empty point.
	Geometry *Point `json:"geometry" yaml:"geometry"`

	TagID int64  `json:"tag_id" yaml:"tag_id"`
	LC    string `json:"lc" yaml:"lc"`
	Date  string `json:"date" yaml:"date"`
}
