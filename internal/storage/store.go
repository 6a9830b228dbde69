package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/solarsim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var trajectoryHeader = []string{"step", "time", "body", "x", "y", "vx", "vy", "distance"}

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
	ID          string             `json:"id"`
	System      string             `json:"system"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Integrator  string             `json:"integrator"`
	Bodies      []string           `json:"bodies"`
	Colours     map[string]string  `json:"colours,omitempty"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run log. The recorder may be nil, in which case only the
// metadata and an empty trajectory are written.
func (s *Store) Save(system string, dt float64, integrator string, rec *Recorder, result *dynamo.Result) (string, error) {
	now := time.Now()
	prefix := runPrefix(system)
	runID := fmt.Sprintf("%s_%d", prefix, now.Unix())
	for i := 2; s.exists(runID); i++ {
		runID = fmt.Sprintf("%s_%d_%d", prefix, now.Unix(), i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		System:      system,
		Timestamp:   now,
		Dt:          dt,
		Steps:       result.StepsTaken,
		Integrator:  integrator,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	if rec != nil {
		meta.Bodies = rec.Bodies()
		meta.Colours = rec.Colours()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	var samples []Sample
	if rec != nil {
		samples = rec.Samples()
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), samples); err != nil {
		return "", err
	}

	return runID, nil
}

// runPrefix turns a system name into a single directory name component.
func runPrefix(system string) string {
	p := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, system)
	if strings.Trim(p, "_") == "" {
		return "run"
	}
	return p
}

func (s *Store) exists(runID string) bool {
	_, err := os.Stat(filepath.Join(s.baseDir, runID))
	return err == nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeTrajectory(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Step),
			formatFloat(sm.Time),
			sm.Body,
			formatFloat(sm.Pos.X),
			formatFloat(sm.Pos.Y),
			formatFloat(sm.Vel.X),
			formatFloat(sm.Vel.Y),
			formatFloat(sm.Distance),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every run, oldest first. Directories without
// readable metadata are skipped.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads the trajectory of one body, or of every body when body
// is empty.
func (s *Store) LoadSeries(runID, body string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		if body != "" && rec[2] != body {
			continue
		}
		sm, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("run %s: line %d: %w", runID, i+2, err)
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(rec []string) (Sample, error) {
	step, err := strconv.Atoi(rec[0])
	if err != nil {
		return Sample{}, err
	}
	vals := make([]float64, 0, 6)
	for _, field := range append([]string{rec[1]}, rec[3:]...) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Sample{}, err
		}
		vals = append(vals, v)
	}
	return Sample{
		Step:     step,
		Time:     vals[0],
		Body:     rec[2],
		Pos:      r2.Vec{X: vals[1], Y: vals[2]},
		Vel:      r2.Vec{X: vals[3], Y: vals[4]},
		Distance: vals[5],
	}, nil
}
