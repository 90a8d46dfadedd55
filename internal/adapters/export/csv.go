package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/taskmaster/planner/internal/domain/entities"
)

var csvHeader = []string{
	"id", "title", "description", "startDate", "endDate", "category", "priority",
	"isCompleted", "tags", "repeatType", "parentId", "createdAt", "updatedAt",
}

// WriteCSV writes one row per schedule. Tags are joined with ";".
func WriteCSV(w io.Writer, schedules []entities.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range schedules {
		row := []string{
			s.ID,
			s.Title,
			s.Description,
			s.StartDate.Format(time.RFC3339),
			s.EndDate.Format(time.RFC3339),
			string(s.Category),
			string(s.Priority),
			strconv.FormatBool(s.IsCompleted),
			strings.Join(s.Tags, ";"),
			string(s.RepeatType),
			s.ParentID,
			s.CreatedAt.Format(time.RFC3339),
			s.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
