package useragent

import (
	"slices"
	"strings"
)

// Platform classes present in the dataset.
const (
	PlatformPC     = "pc"
	PlatformMobile = "mobile"
	PlatformTablet = "tablet"
)

// RandomKey selects from every accepted browser family instead of one.
const RandomKey = "random"

// DefaultFallback is returned when no record matches the active filters.
const DefaultFallback = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

// replacements are applied in order to a requested key before lookup.
var replacements = []struct {
	old, new string
}{
	{" ", ""},
	{"_", ""},
}

// shortcuts maps common aliases to canonical browser families. Keys are
// stored in their post-replacement form so that normalization is a projection.
var shortcuts = map[string]string{
	"internetexplorer": "edge",
	"ie":               "edge",
	"msie":             "edge",
	"edge":             "edge",
	"google":           "chrome",
	"googlechrome":     "chrome",
	"ff":               "firefox",
}

// osAliases expands coarse OS names into the identifiers used by the dataset.
var osAliases = map[string][]string{
	"windows": {"win10", "win7"},
}

// mobileOS are added to the OS set whenever a mobile or tablet platform is accepted.
var mobileOS = []string{"android", "ios"}

// Default filter values.
var (
	DefaultBrowsers  = []string{"chrome", "edge", "firefox", "safari"}
	DefaultOS        = []string{"windows", "macos", "linux"}
	DefaultPlatforms = []string{PlatformPC, PlatformMobile, PlatformTablet}
)

// Normalize maps a requested browser name onto its canonical form: literal
// replacements are applied, the result is lowercased and finally resolved
// through the shortcut table.
func Normalize(name string) string {
	for _, r := range replacements {
		name = strings.ReplaceAll(name, r.old, r.new)
	}
	name = strings.ToLower(name)
	if canonical, ok := shortcuts[name]; ok {
		return canonical
	}
	return name
}

// expandOS lowercases OS names and expands aliases, preserving order and
// dropping duplicates.
func expandOS(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(name)
		if expanded, ok := osAliases[name]; ok {
			out = appendUnique(out, expanded...)
			continue
		}
		out = appendUnique(out, name)
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = appendUnique(out, strings.ToLower(v))
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
