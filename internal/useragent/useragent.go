package useragent

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"slices"

	"github.com/charmbracelet/log"
)

// UserAgent filters the dataset according to its configuration and returns
// uniformly chosen records. It is immutable after construction and safe for
// concurrent use.
type UserAgent struct {
	cfg     Config
	records []Record
	logger  *log.Logger
	intn    func(n int) (int, error)
}

// New validates opts, loads the dataset once and returns a ready engine.
// Invalid options yield a *ConfigurationError; loader failures are returned
// wrapped and no engine is produced.
func New(opts Options) (*UserAgent, error) {
	cfg, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	loader := opts.Loader
	if loader == nil {
		loader = EmbeddedLoader{}
	}
	records, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	logger.Debug("User agent dataset loaded",
		"records", len(records),
		"config", cfg.String(),
	)

	return &UserAgent{
		cfg:     cfg,
		records: records,
		logger:  logger,
		intn:    cryptoIntn,
	}, nil
}

// Default returns an engine configured with DefaultOptions.
func Default() (*UserAgent, error) {
	return New(DefaultOptions())
}

// cryptoIntn returns a uniform index in [0, n).
func cryptoIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// Config returns a copy of the effective configuration.
func (u *UserAgent) Config() Config {
	return u.cfg.clone()
}

// Records returns a copy of the loaded dataset in its original order.
func (u *UserAgent) Records() []Record {
	return slices.Clone(u.records)
}

// Matches reports whether rec passes every active filter for an already
// normalized key. RandomKey accepts any configured browser family.
func (u *UserAgent) Matches(rec Record, key string) bool {
	if key == RandomKey {
		if !slices.Contains(u.cfg.Browsers, rec.Browser) {
			return false
		}
	} else if rec.Browser != key {
		return false
	}

	return slices.Contains(u.cfg.OS, rec.OS) &&
		rec.Percent >= u.cfg.MinPercentage &&
		slices.Contains(u.cfg.Platforms, rec.Type) &&
		rec.Version >= u.cfg.MinVersion
}

// Filter returns, in dataset order, every record matching the normalized key.
func (u *UserAgent) Filter(key string) []Record {
	var out []Record
	for _, rec := range u.records {
		if u.Matches(rec, key) {
			out = append(out, rec)
		}
	}
	return out
}

// pick normalizes name and chooses a matching record uniformly.
func (u *UserAgent) pick(name string) (Record, string, bool) {
	key := Normalize(name)
	candidates := u.Filter(key)
	if len(candidates) == 0 {
		return Record{}, key, false
	}
	if len(candidates) == 1 {
		return candidates[0], key, true
	}

	i, err := u.intn(len(candidates))
	if err != nil {
		u.logger.Debug("Random source failed, using first candidate", "error", err)
		i = 0
	}
	return candidates[i], key, true
}

// GetBrowser returns a random record for the requested browser. When nothing
// matches it returns a synthesized Chrome record carrying the fallback user
// agent, or a *ResolutionError when fallback is disabled.
func (u *UserAgent) GetBrowser(name string) (Record, error) {
	rec, key, ok := u.pick(name)
	if ok {
		return rec, nil
	}
	if !u.cfg.HasFallback {
		return Record{}, &ResolutionError{Key: name, Normalized: key}
	}
	u.warnFallback(name, key)
	return fallbackRecord(u.cfg.Fallback), nil
}

// Browser is GetBrowser reduced to the user agent string. On failure it
// returns the configured fallback string verbatim.
func (u *UserAgent) Browser(name string) (string, error) {
	rec, key, ok := u.pick(name)
	if ok {
		return rec.UserAgent, nil
	}
	if !u.cfg.HasFallback {
		return "", &ResolutionError{Key: name, Normalized: key}
	}
	u.warnFallback(name, key)
	return u.cfg.Fallback, nil
}

func (u *UserAgent) warnFallback(name, key string) {
	u.logger.Warn("Error occurred during getting browser, suppressed with fallback",
		"browser", name,
		"normalized", key,
	)
}

// accessors maps the named convenience accessors onto lookup keys.
var accessors = map[string]string{
	"chrome":        "chrome",
	"googlechrome":  "chrome",
	"google_chrome": "chrome",
	"firefox":       "firefox",
	"ff":            "firefox",
	"safari":        "safari",
	"edge":          "edge",
	"random":        RandomKey,
}

// Accessors lists the names of the built-in convenience accessors.
func Accessors() []string {
	names := make([]string, 0, len(accessors))
	for name := range accessors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get is the generic string entry point. Names listed in SafeAttrs are
// refused with ErrSafeAttr; accessor names resolve to their browser; any
// other name is looked up as a browser.
func (u *UserAgent) Get(name string) (string, error) {
	if slices.Contains(u.cfg.SafeAttrs, name) {
		return "", fmt.Errorf("useragent: %q: %w", name, ErrSafeAttr)
	}
	if key, ok := accessors[name]; ok {
		return u.Browser(key)
	}
	return u.Browser(name)
}

// Chrome returns a random Chrome user agent.
func (u *UserAgent) Chrome() (string, error) { return u.Browser("chrome") }

// GoogleChrome is an alias of Chrome.
func (u *UserAgent) GoogleChrome() (string, error) { return u.Chrome() }

// Firefox returns a random Firefox user agent.
func (u *UserAgent) Firefox() (string, error) { return u.Browser("firefox") }

// FF is an alias of Firefox.
func (u *UserAgent) FF() (string, error) { return u.Firefox() }

// Safari returns a random Safari user agent.
func (u *UserAgent) Safari() (string, error) { return u.Browser("safari") }

// Edge returns a random Edge user agent.
func (u *UserAgent) Edge() (string, error) { return u.Browser("edge") }

// Random returns a user agent from any accepted browser family.
func (u *UserAgent) Random() (string, error) { return u.Browser(RandomKey) }

func (u *UserAgent) GetChrome() (Record, error)  { return u.GetBrowser("chrome") }
func (u *UserAgent) GetFirefox() (Record, error) { return u.GetBrowser("firefox") }
func (u *UserAgent) GetSafari() (Record, error)  { return u.GetBrowser("safari") }
func (u *UserAgent) GetEdge() (Record, error)    { return u.GetBrowser("edge") }
func (u *UserAgent) GetRandom() (Record, error)  { return u.GetBrowser(RandomKey) }
