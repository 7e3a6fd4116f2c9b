package useragent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `{"useragent": "ua-1", "percent": 1.5, "type": "pc", "system": "Chrome 124.0 Win10", "browser": "chrome", "version": 124.0, "os": "win10"}

{"useragent": "ua-2", "percent": 2, "type": "mobile", "system": "Safari 17.4 iOS", "browser": "safari", "version": 17.4, "os": "ios"}
{"useragent": "ua-1", "percent": 1.5, "type": "pc", "system": "Chrome 124.0 Win10", "browser": "chrome", "version": 124.0, "os": "win10"}
`

func TestParse(t *testing.T) {
	records, err := Parse("sample", []byte(sampleDataset))
	require.NoError(t, err)
	require.Len(t, records, 3, "blank lines skipped, duplicates kept")

	assert.Equal(t, Record{
		UserAgent: "ua-2",
		System:    "Safari 17.4 iOS",
		Browser:   "safari",
		Version:   17.4,
		OS:        "ios",
		Type:      "mobile",
		Percent:   2,
	}, records[1])
	assert.Equal(t, records[0], records[2])
}

func TestParseRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"not json", "{oops", 1},
		{"not an object", `["a"]`, 1},
		{"missing field", `{"useragent": "x", "percent": 1, "type": "pc", "system": "s", "browser": "b", "version": 1}`, 1},
		{"wrong type", `{"useragent": "x", "percent": "1", "type": "pc", "system": "s", "browser": "b", "version": 1, "os": "o"}`, 1},
		{"error on later line", sampleDataset + `{"useragent": 5}`, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("sample", []byte(tt.data))
			require.Error(t, err)

			var lerr *LoadError
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, tt.line, lerr.Line)
			assert.Equal(t, "sample", lerr.Source)
		})
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "browsers.jsonl")
	require.NoError(t, os.WriteFile(plain, []byte(sampleDataset), 0o600))

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := filepath.Join(dir, "browsers.jsonl.zst")
	require.NoError(t, os.WriteFile(compressed, enc.EncodeAll([]byte(sampleDataset), nil), 0o600))
	require.NoError(t, enc.Close())

	for _, path := range []string{plain, compressed} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			records, err := FileLoader{Path: path}.Load()
			require.NoError(t, err)
			assert.Len(t, records, 3)
		})
	}

	_, err = FileLoader{Path: filepath.Join(dir, "missing.jsonl")}.Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStaticLoaderCopies(t *testing.T) {
	records, err := fixture.Load()
	require.NoError(t, err)
	records[0].UserAgent = "changed"
	assert.Equal(t, "chrome-win10", fixture[0].UserAgent)
}
