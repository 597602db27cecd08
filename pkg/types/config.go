// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// InvalidPolicy decides what happens to a record whose coordinates fail to
// convert. The failure is counted under every policy.
type InvalidPolicy string

const (
	// InvalidReuse inserts the row with the last successfully converted
	// point of the run, or an empty point if there is none yet.
	InvalidReuse InvalidPolicy = "reuse"

	// InvalidNull inserts the row with an empty point.
	InvalidNull InvalidPolicy = "null"

	// InvalidSkip does not insert the row.
	InvalidSkip InvalidPolicy = "skip"
)

// ParseInvalidPolicy validates a policy name. The empty string selects InvalidReuse.
func ParseInvalidPolicy(s string) (InvalidPolicy, error) {
	switch p := InvalidPolicy(s); p {
	case "":
		return InvalidReuse, nil
	case InvalidReuse, InvalidNull, InvalidSkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown invalid-coordinate policy %q: use reuse, null, or skip", s)
	}
}

// DefaultSkipFile is the name of the non-data file found in ARGOS folders.
const DefaultSkipFile = "README.txt"

// ImportConfig holds settings for an import run.
type ImportConfig struct {
	// SkipFile is an entry name that is never opened (exact, case-sensitive match).
	SkipFile string `json:"skip_file" yaml:"skip_file"`

	// OnInvalid selects the invalid-coordinate policy.
	OnInvalid InvalidPolicy `json:"on_invalid" yaml:"on_invalid"`

	// LocationClasses restricts inserted records to these LC codes. Empty accepts all.
	LocationClasses []string `json:"location_classes,omitempty" yaml:"location_classes,omitempty"`

	// Overwrite replaces an existing output feature class.
	Overwrite bool `json:"overwrite" yaml:"overwrite"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a logrus level name (e.g. "info", "debug").
	Level string `json:"level" yaml:"level"`

	// File, when set, receives a copy of every log entry through a rotating writer.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// MaxAgeDays is how long rotated log files are kept.
	MaxAgeDays int `json:"max_age_days" yaml:"max_age_days"`
}
