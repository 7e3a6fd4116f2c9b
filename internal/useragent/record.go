// Package useragent provides filterable, randomized browser user agent
// strings drawn from a static dataset of browser usage records.
package useragent

import "fmt"

// Record describes a single browser/OS/version/platform combination from the
// dataset together with its relative usage share.
type Record struct {
	// UserAgent is the full User-Agent header string
	UserAgent string `json:"useragent"`

	// System is a human-readable summary, e.g. "Chrome 122.0 Win10"
	System string `json:"system"`

	// Browser is the lowercase browser family, e.g. "chrome"
	Browser string `json:"browser"`

	// Version is the browser version number
	Version float64 `json:"version"`

	// OS is the normalized operating system identifier, e.g. "win10"
	OS string `json:"os"`

	// Type is the platform class: "pc", "mobile" or "tablet"
	Type string `json:"type"`

	// Percent is the relative usage share in the range 0..100
	Percent float64 `json:"percent"`
}

// String returns a short description of the record.
func (r Record) String() string {
	return fmt.Sprintf("%s (%s, %s) - %.2f%%", r.System, r.OS, r.Type, r.Percent)
}

// fallbackRecord synthesizes the record returned when no dataset entry
// matches and a fallback user agent is configured.
func fallbackRecord(ua string) Record {
	return Record{
		UserAgent: ua,
		System:    "Chrome 114.0 Win10",
		Browser:   "chrome",
		Version:   114.0,
		OS:        "win10",
		Type:      "pc",
	}
}
