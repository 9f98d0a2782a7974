package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/sim"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	AntennaType   string             `json:"antenna_type"`
	AntennaLength float64            `json:"antenna_length"`
	Frequency     float64            `json:"frequency"`
	Unit          string             `json:"unit"`
	MinCurrent    float64            `json:"min_current"`
	MaxCurrent    float64            `json:"max_current"`
	TimeStep      float64            `json:"time_step"`
	GridPoints    int                `json:"grid_points"`
	Envelope      string             `json:"envelope,omitempty"`
	Steps         int                `json:"steps"`
	Rejected      int                `json:"rejected"`
	Metrics       map[string]float64 `json:"metrics"`
}

// StepRecord is one row of steps.csv.
type StepRecord struct {
	Time          float64 `csv:"time"`
	Amplitude     float64 `csv:"amplitude"`
	PeakIntensity float64 `csv:"peak_intensity"`
	MeanIntensity float64 `csv:"mean_intensity"`
}

// RunInfo describes the inputs of a run for its metadata.
type RunInfo struct {
	Params     field.Params
	GridPoints int
	Envelope   string
}

func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", strings.ToLower(string(info.Params.AntennaType)), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	p := info.Params
	meta := RunMetadata{
		ID:            runID,
		Timestamp:     now,
		AntennaType:   string(p.AntennaType),
		AntennaLength: p.AntennaLength,
		Frequency:     p.Frequency,
		Unit:          string(p.Unit),
		MinCurrent:    p.MinCurrent,
		MaxCurrent:    p.MaxCurrent,
		TimeStep:      p.TimeStep,
		GridPoints:    info.GridPoints,
		Envelope:      info.Envelope,
		Steps:         result.StepsTaken,
		Rejected:      len(result.Errors),
		Metrics:       result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	records := make([]*StepRecord, len(result.Times))
	for i := range result.Times {
		records[i] = &StepRecord{
			Time:          result.Times[i],
			Amplitude:     result.Amplitudes[i],
			PeakIntensity: result.Peaks[i],
			MeanIntensity: result.Means[i],
		}
	}

	csvFile, err := os.Create(filepath.Join(runDir, stepsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := gocsv.Marshal(records, csvFile); err != nil {
		return "", fmt.Errorf("writing steps: %w", err)
	}

	slog.Info("run saved", "id", runID, "steps", meta.Steps, "rejected", meta.Rejected)
	return runID, nil
}

// List returns saved runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			slog.Debug("skipping run directory", "dir", entry.Name(), "error", err)
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSteps(runID string) ([]StepRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, stepsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []StepRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return nil, fmt.Errorf("reading steps: %w", err)
	}
	return records, nil
}
