package useragent

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"
)

//go:embed data/browsers.jsonl
var embeddedDataset []byte

// Loader produces the dataset in its original order. Loaders are invoked
// exactly once per engine construction.
type Loader interface {
	Load() ([]Record, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc func() ([]Record, error)

// Load calls f.
func (f LoaderFunc) Load() ([]Record, error) {
	return f()
}

// EmbeddedLoader reads the dataset compiled into the binary.
type EmbeddedLoader struct{}

// Load parses the embedded browsers.jsonl resource.
func (EmbeddedLoader) Load() ([]Record, error) {
	return Parse("browsers.jsonl", embeddedDataset)
}

// FileLoader reads a line-delimited JSON dataset from disk. Files ending in
// ".zst" are decompressed transparently.
type FileLoader struct {
	Path string
}

// Load opens and parses the dataset file.
func (l FileLoader) Load() ([]Record, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(l.Path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd dataset: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return Parse(filepath.Base(l.Path), data)
}

// StaticLoader serves an in-memory dataset.
type StaticLoader []Record

// Load returns a copy of the records.
func (s StaticLoader) Load() ([]Record, error) {
	return slices.Clone([]Record(s)), nil
}

// Parse decodes one Record per non-blank line. Any malformed line fails the
// whole load with a *LoadError carrying the 1-based line number.
func Parse(source string, data []byte) ([]Record, error) {
	var records []Record
	for i, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return nil, &LoadError{Source: source, Line: i + 1, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRecord(line []byte) (Record, error) {
	if !gjson.ValidBytes(line) {
		return Record{}, errors.New("malformed JSON")
	}
	res := gjson.ParseBytes(line)
	if !res.IsObject() {
		return Record{}, errors.New("record must be a JSON object")
	}

	var (
		rec  Record
		errs []error
	)
	str := func(field string) string {
		v := res.Get(field)
		if v.Type != gjson.String {
			errs = append(errs, fmt.Errorf("field %q must be a string", field))
			return ""
		}
		return v.Str
	}
	num := func(field string) float64 {
		v := res.Get(field)
		if v.Type != gjson.Number {
			errs = append(errs, fmt.Errorf("field %q must be a number", field))
			return 0
		}
		return v.Num
	}

	rec.UserAgent = str("useragent")
	rec.System = str("system")
	rec.Browser = str("browser")
	rec.Version = num("version")
	rec.OS = str("os")
	rec.Type = str("type")
	rec.Percent = num("percent")

	if len(errs) > 0 {
		return Record{}, errors.Join(errs...)
	}
	return rec, nil
}
