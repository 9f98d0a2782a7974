package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/nearfield/internal/field"
	"github.com/san-kum/nearfield/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Times:      []float64{0.05, 0.10},
		Amplitudes: []float64{0.5, 1.2},
		Peaks:      []float64{0.6, 1.4},
		Means:      []float64{0.3, 0.7},
		Metrics:    map[string]float64{"peak_intensity": 1.4},
		StepsTaken: 2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	p := field.DefaultParams()
	p.AntennaType = field.Yagi
	runID, err := st.Save(RunInfo{Params: p, GridPoints: 4500, Envelope: "env.csv"}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.AntennaType != "Yagi" || meta.GridPoints != 4500 || meta.Envelope != "env.csv" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Steps != 2 || meta.Metrics["peak_intensity"] != 1.4 {
		t.Errorf("unexpected steps/metrics %+v", meta)
	}

	steps, err := st.LoadSteps(runID)
	if err != nil {
		t.Fatalf("load steps failed: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[1].Amplitude != 1.2 || steps[1].PeakIntensity != 1.4 || steps[0].Time != 0.05 {
		t.Errorf("unexpected records %+v", steps)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunInfo{Params: field.DefaultParams()}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunInfo{Params: field.DefaultParams()}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "steps.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteFrame(t *testing.T) {
	grid, err := field.GenerateGrid([]float64{1}, []float64{0.5}, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	eng, _ := field.New(grid)
	frame, err := eng.Step(field.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, grid, frame, field.DefaultParams()); err != nil {
		t.Fatal(err)
	}

	var out FrameExport
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Points) != 2 || len(out.E) != 2 || len(out.Intensity) != 2 {
		t.Fatalf("unexpected lengths %d/%d/%d", len(out.Points), len(out.E), len(out.Intensity))
	}
	if out.Time != frame.Time || out.AntennaType != "Dipole" {
		t.Errorf("unexpected header %+v", out)
	}
	if out.E[1][0] != frame.Vectors[1].X {
		t.Error("vector mismatch")
	}
}
