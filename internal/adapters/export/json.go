package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

// Envelope is the JSON export document.
type Envelope struct {
	Data       []entities.Schedule `json:"data"`
	ExportedAt time.Time           `json:"exportedAt"`
	Stats      ports.DataStats     `json:"stats"`
	Message    string              `json:"message"`
}

// NewEnvelope wraps snap in the JSON export document.
func NewEnvelope(snap Snapshot) Envelope {
	data := snap.Schedules
	if data == nil {
		data = []entities.Schedule{}
	}
	return Envelope{
		Data:       data,
		ExportedAt: snap.ExportedAt,
		Stats:      snap.Stats,
		Message:    fmt.Sprintf("exported %d schedules", len(data)),
	}
}

func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewEnvelope(snap)); err != nil {
		return fmt.Errorf("encode json export: %w", err)
	}
	return nil
}
