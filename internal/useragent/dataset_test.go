package useragent

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against the embedded dataset.

func newEmbeddedUA(t *testing.T, mutate func(*Options)) *UserAgent {
	t.Helper()
	opts := DefaultOptions()
	opts.Logger = log.New(io.Discard)
	if mutate != nil {
		mutate(&opts)
	}
	ua, err := New(opts)
	require.NoError(t, err)
	return ua
}

func TestEmbeddedDatasetLoads(t *testing.T) {
	records, err := EmbeddedLoader{}.Load()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for _, rec := range records {
		assert.NotEmpty(t, rec.UserAgent)
		assert.NotEmpty(t, rec.System)
		assert.NotEmpty(t, rec.Browser)
		assert.NotEmpty(t, rec.OS)
		assert.Contains(t, DefaultPlatforms, rec.Type)
		assert.GreaterOrEqual(t, rec.Percent, 0.0)
		assert.LessOrEqual(t, rec.Percent, 100.0)
	}
}

func TestDefaultLookups(t *testing.T) {
	ua := newEmbeddedUA(t, nil)

	for _, name := range []string{"chrome", "firefox", "safari", "edge", "random"} {
		s, err := ua.Get(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, s)
		assert.NotEqual(t, DefaultFallback, s, name)
	}
}

func TestPlatformFilters(t *testing.T) {
	tests := []struct {
		name      string
		platforms []string
		minVer    float64
	}{
		{"mobile only", []string{"mobile"}, 0},
		{"pc only", []string{"pc"}, 0},
		{"tablet only", []string{"tablet"}, 0},
		{"mobile and tablet", []string{"mobile", "tablet"}, 0},
		{"mobile with min version", []string{"mobile"}, 121},
		{"mixed case", []string{"Mobile"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ua := newEmbeddedUA(t, func(o *Options) {
				o.Platforms = tt.platforms
				o.MinVersion = tt.minVer
				o.DisableFallback = true
			})
			want := ua.Config().Platforms

			for i := 0; i < 100; i++ {
				rec, err := ua.GetRandom()
				require.NoError(t, err)
				assert.Contains(t, want, rec.Type)
				assert.GreaterOrEqual(t, rec.Version, tt.minVer)
			}
		})
	}
}

func TestMinVersionWithBrowser(t *testing.T) {
	ua := newEmbeddedUA(t, func(o *Options) {
		o.MinVersion = 122
		o.Browsers = []string{"chrome"}
		o.DisableFallback = true
	})

	for i := 0; i < 100; i++ {
		rec, err := ua.GetRandom()
		require.NoError(t, err)
		assert.Equal(t, "chrome", rec.Browser)
		assert.GreaterOrEqual(t, rec.Version, 122.0)
	}
}

func TestResolvedRecordsSatisfyFilters(t *testing.T) {
	ua := newEmbeddedUA(t, func(o *Options) {
		o.Browsers = []string{"chrome", "firefox"}
		o.OS = []string{"windows", "android"}
		o.MinPercentage = 0.5
		o.DisableFallback = true
	})
	cfg := ua.Config()

	for _, key := range []string{"random", "chrome", "firefox"} {
		for i := 0; i < 50; i++ {
			rec, err := ua.GetBrowser(key)
			require.NoError(t, err)
			assert.True(t, ua.Matches(rec, key), "%s: %+v", key, rec)
			assert.Contains(t, cfg.OS, rec.OS)
			assert.GreaterOrEqual(t, rec.Percent, 0.5)
		}
	}
}

func TestNoMatchUsesFallbackRecord(t *testing.T) {
	ua := newEmbeddedUA(t, func(o *Options) { o.MinVersion = 1000 })

	rec, err := ua.GetRandom()
	require.NoError(t, err)
	assert.Equal(t, "pc", rec.Type)
	assert.Equal(t, "chrome", rec.Browser)
	assert.Equal(t, DefaultFallback, rec.UserAgent)

	ua = newEmbeddedUA(t, func(o *Options) {
		o.MinVersion = 1000
		o.DisableFallback = true
	})
	_, err = ua.GetRandom()
	assert.ErrorIs(t, err, ErrNoMatch)
}
