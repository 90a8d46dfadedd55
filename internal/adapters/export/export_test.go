package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

var exportedAt = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

func sampleSchedules() []entities.Schedule {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	until := start.AddDate(0, 1, 0)
	return []entities.Schedule{
		{
			ID:          "s-1",
			Title:       "Quarterly planning, part 1",
			Description: "Agenda: goals; budget",
			StartDate:   start,
			EndDate:     start.Add(2 * time.Hour),
			Category:    entities.CategoryWork,
			Priority:    entities.PriorityHigh,
			IsCompleted: true,
			Tags:        []string{"planning", "q4"},
			CreatedAt:   exportedAt,
			UpdatedAt:   exportedAt,
		},
		{
			ID:             "s-2",
			Title:          "Swim",
			StartDate:      start.Add(10 * time.Hour),
			EndDate:        start.Add(11 * time.Hour),
			Category:       entities.CategoryPersonal,
			Priority:       entities.PriorityLow,
			CreatedAt:      exportedAt,
			UpdatedAt:      exportedAt,
			RepeatType:     entities.RepeatWeekly,
			RepeatInterval: 1,
			RepeatEndDate:  &until,
			RepeatDays:     []int{1, 3},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "csv", want: FormatCSV},
		{in: "yml", want: FormatYAML},
		{in: "yaml", want: FormatYAML},
		{in: "ical", want: FormatICS},
		{in: " ics ", want: FormatICS},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_FileNameAndContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "schedules-export-2026-10-17.csv", FormatCSV.FileName(exportedAt))
	assert.Equal(t, "schedules-export-2026-10-17.ics", FormatICS.FileName(exportedAt))
	assert.True(t, strings.HasPrefix(FormatICS.ContentType(), "text/calendar"))
	assert.True(t, strings.HasPrefix(FormatJSON.ContentType(), "application/json"))
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, Format("pdf"), Snapshot{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteJSON_Envelope(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	snap := Snapshot{
		Schedules:  sampleSchedules(),
		ExportedAt: exportedAt,
		Stats:      ports.DataStats{ScheduleCount: 2, CompletedCount: 1},
	}
	require.NoError(t, Write(&buf, FormatJSON, snap))

	var env Envelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Len(t, env.Data, 2)
	assert.Equal(t, "exported 2 schedules", env.Message)
	assert.True(t, exportedAt.Equal(env.ExportedAt))
	assert.Equal(t, 1, env.Stats.CompletedCount)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "data")
	assert.Contains(t, raw, "exportedAt")
	assert.Contains(t, raw, "stats")
	assert.Contains(t, raw, "message")
}

func TestWriteJSON_EmptyDataIsArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Snapshot{ExportedAt: exportedAt}))
	assert.Contains(t, buf.String(), `"data": []`)
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, Snapshot{Schedules: sampleSchedules()}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "s-1", rows[1][0])
	assert.Equal(t, "Quarterly planning, part 1", rows[1][1])
	assert.Equal(t, "2026-10-19T09:00:00Z", rows[1][3])
	assert.Equal(t, "true", rows[1][7])
	assert.Equal(t, "planning;q4", rows[1][8])
	assert.Equal(t, "weekly", rows[2][9])
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, Snapshot{Schedules: sampleSchedules(), ExportedAt: exportedAt}))

	var doc struct {
		ScheduleCount  int                      `yaml:"scheduleCount"`
		CompletedCount int                      `yaml:"completedCount"`
		Schedules      []map[string]interface{} `yaml:"schedules"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 2, doc.ScheduleCount)
	assert.Equal(t, 1, doc.CompletedCount)
	require.Len(t, doc.Schedules, 2)
	assert.Equal(t, "Quarterly planning, part 1", doc.Schedules[0]["title"])
	assert.Equal(t, "weekly", doc.Schedules[1]["repeatType"])
}

func TestICS_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatICS, Snapshot{Schedules: sampleSchedules(), ExportedAt: exportedAt}))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+productID)
	assert.Contains(t, out, "RRULE:")

	records, problems, err := ReadICS(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "s-1", first.ID)
	assert.Equal(t, "Quarterly planning, part 1", first.Title)
	assert.Equal(t, "Agenda: goals; budget", first.Description)
	assert.True(t, first.StartDate.Equal(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2*time.Hour, first.EndDate.Sub(first.StartDate))
	assert.Equal(t, entities.CategoryWork, first.Category)
	assert.Equal(t, entities.PriorityHigh, first.Priority)
	assert.Equal(t, []string{"planning", "q4"}, first.Tags)
	assert.True(t, first.IsCompleted)
	assert.Empty(t, first.RepeatType)

	second := records[1]
	assert.Equal(t, entities.CategoryPersonal, second.Category)
	assert.Equal(t, entities.PriorityLow, second.Priority)
	assert.Equal(t, entities.RepeatWeekly, second.RepeatType)
	assert.Equal(t, []int{1, 3}, second.RepeatDays)
	require.NotNil(t, second.RepeatEndDate)
	assert.False(t, second.IsCompleted)
}

func TestWriteICS_SeriesWithStoredOccurrences(t *testing.T) {
	t.Parallel()

	schedules := sampleSchedules()
	parent := schedules[1]
	occ := parent.Clone()
	occ.ID = "s-2-occ"
	occ.ParentID = parent.ID
	occ.IsRecurring = true
	occ.StartDate = parent.StartDate.AddDate(0, 0, 2)
	occ.EndDate = parent.EndDate.AddDate(0, 0, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, []entities.Schedule{parent, occ}, exportedAt))
	assert.NotContains(t, buf.String(), "RRULE:")

	records, _, err := ReadICS(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, parent.ID, records[1].ParentID)
	assert.True(t, records[1].IsRecurring)
}

func TestWriteICS_OccurrencesNeverCarryRules(t *testing.T) {
	t.Parallel()

	parent := sampleSchedules()[1]
	var occurrences []entities.Schedule
	for i := 1; i <= 3; i++ {
		occ := parent.Clone()
		occ.ID = fmt.Sprintf("s-2-occ-%d", i)
		occ.ParentID = parent.ID
		occ.IsRecurring = true
		occ.StartDate = parent.StartDate.AddDate(0, 0, 7*i)
		occ.EndDate = parent.EndDate.AddDate(0, 0, 7*i)
		occurrences = append(occurrences, occ)
	}

	tests := []struct {
		name      string
		schedules []entities.Schedule
		rules     int
	}{
		{name: "parent alone keeps its rule", schedules: []entities.Schedule{parent}, rules: 1},
		{name: "series with occurrences", schedules: append([]entities.Schedule{parent}, occurrences...), rules: 0},
		{name: "occurrences without parent", schedules: occurrences, rules: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, WriteICS(&buf, tt.schedules, exportedAt))
			assert.Equal(t, tt.rules, strings.Count(buf.String(), "RRULE:"))
			assert.Equal(t, len(tt.schedules), strings.Count(buf.String(), "BEGIN:VEVENT"))
		})
	}
}

func TestReadICS_EndFromDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		extra    string
		want     time.Duration
		wantProb bool
	}{
		{name: "minutes", extra: "DURATION:PT90M", want: 90 * time.Minute},
		{name: "days and hours", extra: "DURATION:P1DT2H", want: 26 * time.Hour},
		{name: "weeks", extra: "DURATION:P1W", want: 7 * 24 * time.Hour},
		{name: "neither end nor duration", extra: "", want: time.Hour},
		{name: "malformed duration", extra: "DURATION:PT", wantProb: true},
		{name: "zero duration", extra: "DURATION:PT0S", wantProb: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lines := []string{
				"BEGIN:VCALENDAR",
				"VERSION:2.0",
				"PRODID:-//example//test//EN",
				"BEGIN:VEVENT",
				"UID:evt-d",
				"DTSTAMP:20261017T100000Z",
				"DTSTART:20261105T090000Z",
				"SUMMARY:Workshop",
			}
			if tt.extra != "" {
				lines = append(lines, tt.extra)
			}
			lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")

			records, problems, err := ReadICS(strings.NewReader(strings.Join(lines, "\r\n")))
			require.NoError(t, err)

			if tt.wantProb {
				assert.Empty(t, records)
				require.Len(t, problems, 1)
				assert.Contains(t, problems[0], "DURATION")
				return
			}
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].EndDate.Sub(records[0].StartDate))
		})
	}
}

func TestReadICS_HandwrittenFeed(t *testing.T) {
	t.Parallel()

	feed := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//example//test//EN",
		"BEGIN:VEVENT",
		"UID:evt-1",
		"DTSTAMP:20261017T100000Z",
		"DTSTART:20261101T080000Z",
		"DTEND:20261101T083000Z",
		"SUMMARY:Morning run",
		"CATEGORIES:fitness,outdoor",
		"PRIORITY:3",
		"RRULE:FREQ=DAILY;INTERVAL=2;UNTIL=20261130T000000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-2",
		"DTSTAMP:20261017T100000Z",
		"DTSTART:20261102T080000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:evt-3",
		"DTSTAMP:20261017T100000Z",
		"DTSTART:20261103T120000Z",
		"SUMMARY:Lunch",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	records, problems, err := ReadICS(strings.NewReader(feed))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "SUMMARY")

	run := records[0]
	assert.Equal(t, "Morning run", run.Title)
	assert.Equal(t, entities.CategoryOther, run.Category)
	assert.Equal(t, []string{"fitness", "outdoor"}, run.Tags)
	assert.Equal(t, entities.PriorityHigh, run.Priority)
	assert.Equal(t, entities.RepeatDaily, run.RepeatType)
	assert.Equal(t, 2, run.RepeatInterval)
	require.NotNil(t, run.RepeatEndDate)

	lunch := records[1]
	assert.Equal(t, time.Hour, lunch.EndDate.Sub(lunch.StartDate))
	assert.Equal(t, entities.PriorityMedium, lunch.Priority)
}

func TestPriorityFromICS(t *testing.T) {
	t.Parallel()

	assert.Equal(t, entities.PriorityHigh, priorityFromICS("1"))
	assert.Equal(t, entities.PriorityHigh, priorityFromICS("4"))
	assert.Equal(t, entities.PriorityMedium, priorityFromICS("5"))
	assert.Equal(t, entities.PriorityMedium, priorityFromICS("0"))
	assert.Equal(t, entities.PriorityMedium, priorityFromICS("x"))
	assert.Equal(t, entities.PriorityLow, priorityFromICS("9"))
}
