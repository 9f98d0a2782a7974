package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/nearfield/internal/field"
)

// FrameExport is the JSON layout handed to external renderers. Each slice is
// aligned with Points.
type FrameExport struct {
	AntennaType   string       `json:"antenna_type"`
	AntennaLength float64      `json:"antenna_length"`
	Time          float64      `json:"time"`
	Amplitude     float64      `json:"amplitude"`
	Points        [][3]float64 `json:"points"`
	E             [][3]float64 `json:"E"`
	Intensity     []float64    `json:"intensity"`
}

func NewFrameExport(grid *field.Grid, frame *field.Frame, p field.Params) FrameExport {
	out := FrameExport{
		AntennaType:   string(p.AntennaType),
		AntennaLength: p.AntennaLength,
		Time:          frame.Time,
		Amplitude:     frame.Amplitude,
		Points:        make([][3]float64, grid.Len()),
		E:             make([][3]float64, len(frame.Vectors)),
		Intensity:     frame.Intensity,
	}
	for i := 0; i < grid.Len(); i++ {
		pt := grid.At(i)
		out.Points[i] = [3]float64{pt.X, pt.Y, pt.Z}
	}
	for i, v := range frame.Vectors {
		out.E[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return out
}

func WriteFrame(w io.Writer, grid *field.Grid, frame *field.Frame, p field.Params) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewFrameExport(grid, frame, p))
}

func ExportFrame(path string, grid *field.Grid, frame *field.Frame, p field.Params) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteFrame(file, grid, frame, p)
}
