package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/moonsim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	States   []ExportState `json:"states"`
	Energies []int64       `json:"energies"`
}

type ExportState struct {
	Step   int          `json:"step"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportBody struct {
	ID  int      `json:"id"`
	Pos [3]int64 `json:"pos"`
	Vel [3]int64 `json:"vel"`
}

func toExport(states []dynamo.System) []ExportState {
	out := make([]ExportState, len(states))
	for i, sys := range states {
		out[i] = ExportState{Step: i, Bodies: make([]ExportBody, len(sys))}
		for j, b := range sys {
			out[i].Bodies[j] = ExportBody{
				ID:  b.ID,
				Pos: [3]int64{b.Pos.X, b.Pos.Y, b.Pos.Z},
				Vel: [3]int64{b.Vel.X, b.Vel.Y, b.Vel.Z},
			}
		}
	}
	return out
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, energies, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		States:      toExport(states),
		Energies:    energies,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
