package useragent

import (
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/log"
)

// Options configures a UserAgent. A nil slice selects the corresponding
// default; an empty non-nil slice accepts nothing.
type Options struct {
	// Browsers lists accepted browser families for "random" lookups
	Browsers []string `koanf:"browsers"`

	// OS lists accepted operating systems; aliases such as "windows" are expanded
	OS []string `koanf:"os"`

	// Platforms lists accepted platform classes (pc, mobile, tablet)
	Platforms []string `koanf:"platforms"`

	// MinPercentage excludes records with a lower usage share. Values above
	// 100 exclude every record.
	MinPercentage float64 `koanf:"min_percentage"`

	// MinVersion excludes records with a lower browser version
	MinVersion float64 `koanf:"min_version"`

	// Fallback is returned when nothing matches. nil selects DefaultFallback;
	// an explicit empty string is used as is.
	Fallback *string `koanf:"fallback"`

	// DisableFallback makes failed lookups return a *ResolutionError
	DisableFallback bool `koanf:"disable_fallback"`

	// SafeAttrs are names that Get refuses to resolve
	SafeAttrs []string `koanf:"safe_attrs"`

	// Loader provides the dataset; nil selects EmbeddedLoader
	Loader Loader `koanf:"-"`

	// Logger receives fallback warnings; nil selects log.Default()
	Logger *log.Logger `koanf:"-"`
}

// DefaultOptions returns the stock filter set: desktop and mobile Chrome,
// Edge, Firefox and Safari on Windows, macOS and Linux.
func DefaultOptions() Options {
	return Options{
		Browsers:  slices.Clone(DefaultBrowsers),
		OS:        slices.Clone(DefaultOS),
		Platforms: slices.Clone(DefaultPlatforms),
	}
}

// Config is the effective, normalized configuration of a UserAgent.
type Config struct {
	Browsers      []string `json:"browsers"`
	OS            []string `json:"os"`
	Platforms     []string `json:"platforms"`
	MinPercentage float64  `json:"min_percentage"`
	MinVersion    float64  `json:"min_version"`
	Fallback      string   `json:"fallback,omitempty"`
	HasFallback   bool     `json:"has_fallback"`
	SafeAttrs     []string `json:"safe_attrs,omitempty"`
}

func (c Config) clone() Config {
	c.Browsers = slices.Clone(c.Browsers)
	c.OS = slices.Clone(c.OS)
	c.Platforms = slices.Clone(c.Platforms)
	c.SafeAttrs = slices.Clone(c.SafeAttrs)
	return c
}

// normalize checks opts and produces the effective configuration.
func (o Options) normalize() (Config, error) {
	if math.IsNaN(o.MinPercentage) {
		return Config{}, configErrorf("min_percentage", "must be a number")
	}
	if math.IsNaN(o.MinVersion) {
		return Config{}, configErrorf("min_version", "must be a number")
	}

	browsers := o.Browsers
	if browsers == nil {
		browsers = DefaultBrowsers
	}
	osNames := o.OS
	if osNames == nil {
		osNames = DefaultOS
	}
	platforms := o.Platforms
	if platforms == nil {
		platforms = DefaultPlatforms
	}

	cfg := Config{
		Browsers:      lowerAll(browsers),
		OS:            expandOS(osNames),
		Platforms:     lowerAll(platforms),
		MinPercentage: o.MinPercentage,
		MinVersion:    o.MinVersion,
		SafeAttrs:     appendUnique(nil, o.SafeAttrs...),
	}

	if slices.Contains(cfg.Platforms, PlatformMobile) || slices.Contains(cfg.Platforms, PlatformTablet) {
		cfg.OS = appendUnique(cfg.OS, mobileOS...)
	}

	if !o.DisableFallback {
		cfg.HasFallback = true
		cfg.Fallback = DefaultFallback
		if o.Fallback != nil {
			cfg.Fallback = *o.Fallback
		}
	}
	return cfg, nil
}

// ParseOptions builds Options from loosely typed input such as a decoded YAML
// document or CLI flags. browsers, os and platforms accept a single string
// or a list of strings; min_percentage and min_version accept any integer or
// float; a null fallback disables fallback. Unknown keys are rejected.
func ParseOptions(raw map[string]any) (Options, error) {
	var opts Options
	for key, value := range raw {
		var err error
		switch key {
		case "browsers":
			opts.Browsers, err = coerceStrings(key, value)
		case "os":
			opts.OS, err = coerceStrings(key, value)
		case "platforms":
			opts.Platforms, err = coerceStrings(key, value)
		case "min_percentage":
			opts.MinPercentage, err = coerceFloat(key, value)
		case "min_version":
			opts.MinVersion, err = coerceFloat(key, value)
		case "fallback":
			switch v := value.(type) {
			case nil:
				opts.DisableFallback = true
			case string:
				opts.Fallback = &v
			default:
				err = configErrorf(key, "must be a string or null, got %T", value)
			}
		case "disable_fallback":
			b, ok := value.(bool)
			if !ok {
				err = configErrorf(key, "must be a boolean, got %T", value)
			}
			opts.DisableFallback = opts.DisableFallback || b
		case "safe_attrs":
			if _, isScalar := value.(string); isScalar {
				err = configErrorf(key, "must be a list of strings, got a single string")
				break
			}
			opts.SafeAttrs, err = coerceStrings(key, value)
		default:
			err = configErrorf(key, "unknown option")
		}
		if err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

func coerceStrings(field string, value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return slices.Clone(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, configErrorf(field, "element %d must be a string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, configErrorf(field, "must be a string or a list of strings, got %T", value)
	}
}

func coerceFloat(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, configErrorf(field, "must be a number, got %T", value)
	}
}

// String renders the configuration for logs.
func (c Config) String() string {
	fallback := "disabled"
	if c.HasFallback {
		fallback = "enabled"
	}
	return fmt.Sprintf("browsers=%v os=%v platforms=%v min_percentage=%g min_version=%g fallback=%s",
		c.Browsers, c.OS, c.Platforms, c.MinPercentage, c.MinVersion, fallback)
}
