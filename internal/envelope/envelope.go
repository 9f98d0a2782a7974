// Package envelope reads pre-extracted amplitude envelopes from disk.
//
// Two formats are accepted, chosen by file extension:
//
//	.csv          one sample per row under an "amplitude" header
//	.yaml, .yml   {samples: [...], hop_size: 512, repeat: true}
//
// Samples must already lie in [0, 1] unless Options.Normalize is set, in
// which case they are rescaled by the largest absolute sample.
package envelope

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/nearfield/internal/field"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file extensions other than csv and yaml.
var ErrUnsupportedFormat = errors.New("envelope: unsupported file format")

// Options override what the file itself says.
type Options struct {
	Repeat    bool
	HopSize   int
	Normalize bool
}

type sampleRow struct {
	Amplitude float64 `csv:"amplitude"`
}

type document struct {
	Samples []float64 `yaml:"samples"`
	HopSize int       `yaml:"hop_size"`
	Repeat  bool      `yaml:"repeat"`
}

// Load reads and validates an envelope file. Any failure leaves the caller's
// current amplitude source untouched since nothing is returned to load.
func Load(path string, opts Options) (field.Envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return field.Envelope{}, fmt.Errorf("open envelope: %w", err)
	}
	defer f.Close()

	var env field.Envelope
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		env, err = ReadCSV(f)
	case ".yaml", ".yml":
		env, err = ReadYAML(f)
	default:
		return field.Envelope{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return field.Envelope{}, fmt.Errorf("%s: %w", path, err)
	}

	env = apply(env, opts)
	if err := env.Validate(); err != nil {
		return field.Envelope{}, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("envelope read", "path", path, "samples", len(env.Samples), "hop_size", env.HopSize, "repeat", env.Repeat)
	return env, nil
}

// ReadCSV parses rows with an "amplitude" column.
func ReadCSV(r io.Reader) (field.Envelope, error) {
	var rows []*sampleRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return field.Envelope{}, fmt.Errorf("%w: %v", field.ErrInvalidEnvelope, err)
	}
	samples := make([]float64, len(rows))
	for i, row := range rows {
		samples[i] = row.Amplitude
	}
	return field.Envelope{Samples: samples}, nil
}

// ReadYAML parses a samples document.
func ReadYAML(r io.Reader) (field.Envelope, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return field.Envelope{}, fmt.Errorf("%w: %v", field.ErrInvalidEnvelope, err)
	}
	return field.Envelope{Samples: doc.Samples, HopSize: doc.HopSize, Repeat: doc.Repeat}, nil
}

// WriteCSV writes env as an "amplitude" column.
func WriteCSV(w io.Writer, env field.Envelope) error {
	rows := make([]*sampleRow, len(env.Samples))
	for i, s := range env.Samples {
		rows[i] = &sampleRow{Amplitude: s}
	}
	return gocsv.Marshal(rows, w)
}

// Normalize divides every sample by the largest absolute sample, so the
// result lies in [0, 1]. An all-zero envelope is returned unchanged.
func Normalize(samples []float64) []float64 {
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s))
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		if peak > 0 {
			out[i] = math.Abs(s) / peak
		}
	}
	return out
}

func apply(env field.Envelope, opts Options) field.Envelope {
	if opts.Repeat {
		env.Repeat = true
	}
	if opts.HopSize > 0 {
		env.HopSize = opts.HopSize
	}
	if opts.Normalize {
		env.Samples = Normalize(env.Samples)
	}
	return env
}
