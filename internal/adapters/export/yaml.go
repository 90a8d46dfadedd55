package export

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskmaster/planner/internal/domain/entities"
)

type yamlDocument struct {
	ExportedAt     time.Time           `yaml:"exportedAt"`
	ScheduleCount  int                 `yaml:"scheduleCount"`
	CompletedCount int                 `yaml:"completedCount"`
	Schedules      []entities.Schedule `yaml:"schedules"`
}

// WriteYAML writes the snapshot as a single YAML document.
func WriteYAML(w io.Writer, snap Snapshot) error {
	doc := yamlDocument{
		ExportedAt:    snap.ExportedAt,
		ScheduleCount: len(snap.Schedules),
		Schedules:     snap.Schedules,
	}
	for i := range snap.Schedules {
		if snap.Schedules[i].IsCompleted {
			doc.CompletedCount++
		}
	}
	if doc.Schedules == nil {
		doc.Schedules = []entities.Schedule{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml export: %w", err)
	}
	return enc.Close()
}
