// Package export renders schedule collections as downloadable documents and
// reads iCalendar feeds back into import records.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

// ErrUnsupportedFormat is returned for an unknown export format name.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format names an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatICS  Format = "ics"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatCSV, FormatYAML, FormatICS}

// ParseFormat resolves a user-supplied format name. "yml" and "ical" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "ics", "ical":
		return FormatICS, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// FileName returns the download name, e.g. schedules-export-2026-10-17.csv.
func (f Format) FileName(at time.Time) string {
	return fmt.Sprintf("schedules-export-%s.%s", at.Format("2006-01-02"), f)
}

// Snapshot is everything an export document is built from.
type Snapshot struct {
	Schedules  []entities.Schedule
	Stats      ports.DataStats
	ExportedAt time.Time
}

// Write encodes snap to w in the given format.
func Write(w io.Writer, f Format, snap Snapshot) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, snap)
	case FormatCSV:
		return WriteCSV(w, snap.Schedules)
	case FormatYAML:
		return WriteYAML(w, snap)
	case FormatICS:
		return WriteICS(w, snap.Schedules, snap.ExportedAt)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
}
