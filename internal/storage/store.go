package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/model"
)

// Store persists portrait runs under a base directory, one subdirectory
// per run: metadata.json plus trajectory_N.csv files.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type EquilibriumRecord struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"`
}

type RunMetadata struct {
	ID           string              `json:"id"`
	Timestamp    time.Time           `json:"timestamp"`
	Params       model.Params        `json:"params"`
	TMax         float64             `json:"tmax"`
	Dt           float64             `json:"dt"`
	Seed         int64               `json:"seed"`
	Equilibria   []EquilibriumRecord `json:"equilibria"`
	Trajectories int                 `json:"trajectories"`
	Drift        []float64           `json:"invariant_drift"`
}

// Save writes one run and returns its id.
func (s *Store) Save(meta RunMetadata, trajs []*dynamo.Trajectory) (string, error) {
	runID := fmt.Sprintf("portrait_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Trajectories = len(trajs)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	for i, tr := range trajs {
		if err := writeTrajectoryCSV(filepath.Join(runDir, fmt.Sprintf("trajectory_%d.csv", i)), tr); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeTrajectoryCSV(path string, tr *dynamo.Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "prey", "predator"}); err != nil {
		return err
	}
	for i := range tr.Times {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
			strconv.FormatFloat(tr.States[i][0], 'f', 6, 64),
			strconv.FormatFloat(tr.States[i][1], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrajectory reads back one trajectory of a run.
func (s *Store) LoadTrajectory(runID string, idx int) (*dynamo.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, fmt.Sprintf("trajectory_%d.csv", idx)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return &dynamo.Trajectory{}, nil
	}

	tr := &dynamo.Trajectory{
		Times:  make([]float64, 0, len(records)-1),
		States: make([]dynamo.State, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		t, err1 := strconv.ParseFloat(rec[0], 64)
		x, err2 := strconv.ParseFloat(rec[1], 64)
		y, err3 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, dynamo.State{x, y})
	}
	if len(tr.States) > 0 {
		tr.Initial = tr.States[0].Clone()
	}
	return tr, nil
}
