package storage

import (
	"encoding/json"
	"io"

	"phaseplane/internal/dynamo"
)

type exportTrajectory struct {
	Times []float64 `json:"times"`
	Prey  []float64 `json:"prey"`
	Pred  []float64 `json:"predator"`
	Init  []float64 `json:"initial"`
}

type exportData struct {
	Meta         RunMetadata        `json:"meta"`
	Trajectories []exportTrajectory `json:"trajectories"`
}

// ExportJSON writes a run with its trajectory data as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, trajs []*dynamo.Trajectory) error {
	data := exportData{Meta: meta, Trajectories: make([]exportTrajectory, 0, len(trajs))}
	for _, tr := range trajs {
		data.Trajectories = append(data.Trajectories, exportTrajectory{
			Times: tr.Times,
			Prey:  tr.Component(0),
			Pred:  tr.Component(1),
			Init:  tr.Initial,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
