package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/moonsim/internal/dynamo"
)

func sampleRecord() *Record {
	return &Record{
		Meta: RunMetadata{Input: "input.txt", Mode: "energy", Bodies: 2, Steps: 1, Energy: 4},
		States: []dynamo.System{
			{{ID: 1, Pos: dynamo.Vec3{X: 0}}, {ID: 2, Pos: dynamo.Vec3{X: 2}}},
			{{ID: 1, Pos: dynamo.Vec3{X: 1}, Vel: dynamo.Vec3{X: 1}}, {ID: 2, Pos: dynamo.Vec3{X: 1}, Vel: dynamo.Vec3{X: -1}}},
		},
		Energies: []int64{0, 2},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	rec := sampleRecord()
	runID, err := st.Save(rec)
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

	if meta.ID != runID {
		t.Errorf("expected id %s, got %s", runID, meta.ID)
	}
	if meta.Mode != "energy" || meta.Energy != 4 {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	states, energies, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 2 || len(energies) != 2 {
		t.Fatalf("expected 2 states and energies, got %d and %d", len(states), len(energies))
	}
	for i := range states {
		if !states[i].Equal(rec.States[i]) {
			t.Errorf("state %d mismatch: %v != %v", i, states[i], rec.States[i])
		}
	}
	if energies[1] != 2 {
		t.Errorf("expected energy 2, got %d", energies[1])
	}
	if states[1][1].ID != 2 {
		t.Errorf("expected id restored from column order, got %d", states[1][1].ID)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := st.Save(sampleRecord()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	rec := &Record{Meta: RunMetadata{Mode: "cycle", Outcome: "found", Steps: 6}}
	runID, err := st.Save(rec)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "states.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 0 {
		t.Errorf("expected no states for a cycle run, got %d", len(states))
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	runID, err := st.Save(sampleRecord())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.ID != runID || len(data.States) != 2 {
		t.Errorf("unexpected export: id=%s states=%d", data.ID, len(data.States))
	}
	if data.States[1].Bodies[1].Vel != [3]int64{-1, 0, 0} {
		t.Errorf("unexpected velocity %v", data.States[1].Bodies[1].Vel)
	}
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestWriteStatesReportsFlushError(t *testing.T) {
	err := writeStates(failingWriter{}, sampleRecord())
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected buffered write error, got %v", err)
	}

	if err := writeStates(failingWriter{}, &Record{}); err != nil {
		t.Errorf("empty record should write nothing, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil {
		t.Fatalf("writeFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("unexpected contents %q (%v)", data, err)
	}

	err = writeFile(path, func(io.Writer) error { return errDiskFull })
	if !errors.Is(err, errDiskFull) {
		t.Errorf("expected write error to surface, got %v", err)
	}

	if err := writeFile(filepath.Join(path, "nested"), func(io.Writer) error { return nil }); err == nil {
		t.Error("expected create error under a regular file")
	}
}
