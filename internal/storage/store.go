package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/moonsim/internal/dynamo"
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
	ID        string             `json:"id"`
	Input     string             `json:"input"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	Bodies    int                `json:"bodies"`
	Steps     uint64             `json:"steps"`
	Outcome   string             `json:"outcome,omitempty"`
	Energy    int64              `json:"energy"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Record is what a run leaves behind: its metadata and, for fixed-length
// runs, one state per step.
type Record struct {
	Meta     RunMetadata
	States   []dynamo.System
	Energies []int64
}

func (s *Store) Save(rec *Record) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", rec.Meta.Mode, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := rec.Meta
	meta.ID = runID
	meta.Timestamp = now

	err := writeFile(filepath.Join(runDir, "metadata.json"), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, "states.csv"), func(w io.Writer) error {
		return writeStates(w, rec)
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// writeFile creates path, fills it with write and closes it, returning the
// first error hit along the way.
func writeFile(path string, write func(io.Writer) error) error {
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

func writeStates(out io.Writer, rec *Record) error {
	w := csv.NewWriter(out)

	if len(rec.States) == 0 {
		return nil
	}

	header := []string{"step"}
	for i := range rec.States[0] {
		for _, col := range []string{"px", "py", "pz", "vx", "vy", "vz"} {
			header = append(header, fmt.Sprintf("%s%d", col, i+1))
		}
	}
	header = append(header, "energy")
	if err := w.Write(header); err != nil {
		return err
	}

	for step, sys := range rec.States {
		row := []string{strconv.Itoa(step)}
		for _, b := range sys {
			for _, v := range [6]int64{b.Pos.X, b.Pos.Y, b.Pos.Z, b.Vel.X, b.Vel.Y, b.Vel.Z} {
				row = append(row, strconv.FormatInt(v, 10))
			}
		}
		energy := "0"
		if step < len(rec.Energies) {
			energy = strconv.FormatInt(rec.Energies[step], 10)
		}
		row = append(row, energy)

		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
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

// LoadStates reads back the per-step states and energies of a run. Body ids
// are restored from column order.
func (s *Store) LoadStates(runID string) ([]dynamo.System, []int64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []dynamo.System{}, []int64{}, nil
	}

	bodies := (len(records[0]) - 2) / 6
	states := make([]dynamo.System, 0, len(records)-1)
	energies := make([]int64, 0, len(records)-1)

	for n, record := range records[1:] {
		vals := make([]int64, len(record))
		for j, field := range record {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("states.csv row %d: %w", n+2, err)
			}
			vals[j] = v
		}

		sys := make(dynamo.System, bodies)
		for b := range sys {
			c := vals[1+b*6 : 1+b*6+6]
			sys[b] = dynamo.Body{
				ID:  b + 1,
				Pos: dynamo.Vec3{X: c[0], Y: c[1], Z: c[2]},
				Vel: dynamo.Vec3{X: c[3], Y: c[4], Z: c[5]},
			}
		}
		states = append(states, sys)
		energies = append(energies, vals[len(vals)-1])
	}

	return states, energies, nil
}
