package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/emsim/internal/sim"
)

var csvHeader = []string{"time", "electric_energy", "magnetic_energy", "probe_x", "probe_y", "probe_z"}

// Frame is one row of a run's per-frame series.
type Frame struct {
	Time           float64    `json:"time"`
	ElectricEnergy float64    `json:"electric_energy"`
	MagneticEnergy float64    `json:"magnetic_energy"`
	Probe          [3]float64 `json:"probe"`
}

func (f Frame) TotalEnergy() float64 { return f.ElectricEnergy + f.MagneticEnergy }

// FramesOf flattens a result into rows.
func FramesOf(result *sim.Result) []Frame {
	frames := make([]Frame, len(result.Times))
	for i := range frames {
		f := Frame{Time: result.Times[i]}
		if i < len(result.ElectricEnergy) {
			f.ElectricEnergy = result.ElectricEnergy[i]
		}
		if i < len(result.MagneticEnergy) {
			f.MagneticEnergy = result.MagneticEnergy[i]
		}
		if i < len(result.Probe) {
			p := result.Probe[i]
			f.Probe = [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}
		}
		frames[i] = f
	}
	return frames
}

func WriteCSV(w io.Writer, result *sim.Result) error {
	return WriteFramesCSV(w, FramesOf(result))
}

// WriteFramesCSV writes rows under the frames.csv header.
func WriteFramesCSV(w io.Writer, frames []Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, f := range frames {
		row := []string{
			format(f.Time),
			format(f.ElectricEnergy),
			format(f.MagneticEnergy),
			format(f.Probe[0]),
			format(f.Probe[1]),
			format(f.Probe[2]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [6]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("frames row %d column %s: %w", i+1, csvHeader[j], err)
			}
			vals[j] = v
		}
		frames = append(frames, Frame{
			Time:           vals[0],
			ElectricEnergy: vals[1],
			MagneticEnergy: vals[2],
			Probe:          [3]float64{vals[3], vals[4], vals[5]},
		})
	}
	return frames, nil
}

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Frames []Frame     `json:"frames"`
}

func ExportJSON(w io.Writer, meta RunMetadata, frames []Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Frames: frames})
}
