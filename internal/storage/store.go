package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/emsim/internal/config"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	snapshotFile = "field.bin"
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

func (s *Store) Dir(runID string) string { return filepath.Join(s.baseDir, runID) }

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Grid        [3]int             `json:"grid"`
	SubSteps    int                `json:"sub_steps"`
	TimeScale   float64            `json:"time_scale"`
	FrameDt     float64            `json:"frame_dt"`
	Frames      int                `json:"frames"`
	Backend     string             `json:"backend"`
	Probe       [3]int             `json:"probe"`
	StepsTaken  int                `json:"steps_taken"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// NewMetadata describes a finished run of cfg on the named kernel.
func NewMetadata(cfg *config.Config, kernel string, result *sim.Result) RunMetadata {
	px, py, pz := cfg.ProbeCell()
	return RunMetadata{
		Scenario:    cfg.Scenario,
		Timestamp:   time.Now(),
		Grid:        cfg.GridSize().Array(),
		SubSteps:    cfg.SubSteps,
		TimeScale:   cfg.TimeScale,
		FrameDt:     cfg.FrameDt,
		Frames:      len(result.Times) - 1,
		Backend:     kernel,
		Probe:       [3]int{px, py, pz},
		StepsTaken:  result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
}

// Save writes metadata, the per-frame series and, when em is not nil, a
// snapshot of the final field into a new run directory. A failed save
// removes the directory again.
func (s *Store) Save(meta RunMetadata, result *sim.Result, em *field.EMField) (id string, err error) {
	runID := fmt.Sprintf("%s_%d", meta.Scenario, time.Now().UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta.ID = runID
	err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, framesFile), func(w io.Writer) error {
		return WriteCSV(w, result)
	})
	if err != nil {
		return "", err
	}

	if em != nil {
		if err = SaveSnapshot(filepath.Join(runDir, snapshotFile), em); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

func (s *Store) LoadSnapshot(runID string) (*field.EMField, error) {
	return LoadSnapshot(filepath.Join(s.Dir(runID), snapshotFile))
}
