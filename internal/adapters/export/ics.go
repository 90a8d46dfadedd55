package export

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/domain/recurrence"
	"github.com/taskmaster/planner/internal/ports"
)

const productID = "-//taskmaster//planner//EN"

// RFC 5545 priorities: 1 highest, 9 lowest, 0 undefined.
var icsPriority = map[entities.Priority]string{
	entities.PriorityHigh:   "1",
	entities.PriorityMedium: "5",
	entities.PriorityLow:    "9",
}

// WriteICS writes one VEVENT per schedule. A repeating parent carries an
// RRULE only when none of its occurrences are part of the export, so
// calendar clients never see an instance twice. Occurrences point at their
// parent through RELATED-TO and never carry a rule of their own.
func WriteICS(w io.Writer, schedules []entities.Schedule, stamp time.Time) error {
	hasOccurrences := make(map[string]bool)
	for i := range schedules {
		if schedules[i].ParentID != "" {
			hasOccurrences[schedules[i].ParentID] = true
		}
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for i := range schedules {
		s := &schedules[i]

		ev := cal.AddEvent(s.ID)
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(s.CreatedAt)
		ev.SetModifiedAt(s.UpdatedAt)
		ev.SetStartAt(s.StartDate)
		ev.SetEndAt(s.EndDate)
		ev.SetSummary(s.Title)
		if s.Description != "" {
			ev.SetDescription(s.Description)
		}

		categories := append([]string{string(s.Category)}, s.Tags...)
		ev.SetProperty(ical.ComponentPropertyCategories, strings.Join(categories, ","))
		if p, ok := icsPriority[s.Priority]; ok {
			ev.SetProperty(ical.ComponentPropertyPriority, p)
		}
		if s.IsCompleted {
			ev.SetProperty(ical.ComponentPropertyStatus, "COMPLETED")
		}
		if s.ParentID != "" {
			ev.AddProperty(ical.ComponentPropertyRelatedTo, s.ParentID)
		}
		if s.Repeats() && s.ParentID == "" && !hasOccurrences[s.ID] {
			if rule := recurrence.RuleString(*s); rule != "" {
				ev.AddRrule(rule)
			}
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write ics export: %w", err)
	}
	return nil
}

// ReadICS converts the VEVENTs of an iCalendar feed into import records.
// Events that cannot be converted are skipped and described in the
// returned problem list. The error is non-nil only when the feed itself
// cannot be parsed.
func ReadICS(r io.Reader) ([]ports.ImportSchedule, []string, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse calendar: %w", err)
	}

	records := make([]ports.ImportSchedule, 0)
	problems := make([]string, 0)
	for i, ev := range cal.Events() {
		rec, err := eventToRecord(ev)
		if err != nil {
			problems = append(problems, fmt.Sprintf("event %d: %v", i+1, err))
			continue
		}
		records = append(records, rec)
	}
	return records, problems, nil
}

func eventToRecord(ev *ical.VEvent) (ports.ImportSchedule, error) {
	var rec ports.ImportSchedule

	if p := ev.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		rec.ID = p.Value
	}
	if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
		rec.Title = strings.TrimSpace(unescapeText(p.Value))
	}
	if rec.Title == "" {
		return rec, fmt.Errorf("missing SUMMARY")
	}
	if p := ev.GetProperty(ical.ComponentPropertyDescription); p != nil {
		rec.Description = unescapeText(p.Value)
	}

	start, err := ev.GetStartAt()
	if err != nil {
		return rec, fmt.Errorf("%q: DTSTART: %w", rec.Title, err)
	}
	end, err := ev.GetEndAt()
	if err != nil {
		end, err = endFromDuration(ev, start)
		if err != nil {
			return rec, fmt.Errorf("%q: %w", rec.Title, err)
		}
	}
	rec.StartDate = start
	rec.EndDate = end

	rec.Category = entities.CategoryOther
	rec.Priority = entities.PriorityMedium
	if p := ev.GetProperty(ical.ComponentPropertyCategories); p != nil {
		rec.Category, rec.Tags = splitCategories(unescapeText(p.Value))
	}
	if p := ev.GetProperty(ical.ComponentPropertyPriority); p != nil {
		rec.Priority = priorityFromICS(p.Value)
	}
	if p := ev.GetProperty(ical.ComponentPropertyStatus); p != nil {
		rec.IsCompleted = strings.EqualFold(strings.TrimSpace(p.Value), "COMPLETED")
	}
	if p := ev.GetProperty(ical.ComponentPropertyRelatedTo); p != nil {
		rec.ParentID = p.Value
		rec.IsRecurring = true
	}
	if p := ev.GetProperty(ical.ComponentPropertyRrule); p != nil {
		rule, err := recurrence.ParseRule(p.Value)
		if err != nil {
			return rec, fmt.Errorf("%q: %w", rec.Title, err)
		}
		rec.RepeatType = rule.RepeatType
		rec.RepeatInterval = rule.Interval
		rec.RepeatEndDate = rule.Until
		rec.RepeatDays = rule.Days
	}

	return rec, nil
}

// endFromDuration derives the end from DURATION when DTEND is absent. An
// event with neither lasts one hour.
func endFromDuration(ev *ical.VEvent, start time.Time) (time.Time, error) {
	p := ev.GetProperty(ical.ComponentPropertyDuration)
	if p == nil {
		return start.Add(time.Hour), nil
	}
	d, err := parseDuration(p.Value)
	if err != nil {
		return time.Time{}, fmt.Errorf("DURATION: %w", err)
	}
	return start.Add(d), nil
}

var durationPattern = regexp.MustCompile(`^([+-])?P(?:(\d+)W|(\d+)D(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?|T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)$`)

// parseDuration reads an RFC 5545 dur-value such as P1W, P1DT2H or PT90M.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	m := durationPattern.FindStringSubmatch(value)
	if m == nil || value == "PT" || strings.HasSuffix(value, "T") {
		return 0, fmt.Errorf("invalid duration %q", value)
	}

	units := []time.Duration{
		7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute, time.Second,
		time.Hour, time.Minute, time.Second,
	}
	var d time.Duration
	for i, unit := range units {
		if m[i+2] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+2])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d += time.Duration(n) * unit
	}
	if d == 0 {
		return 0, errors.New("duration must be positive")
	}
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}

// splitCategories maps the first CATEGORIES value onto a schedule category
// when it is one; every other value becomes a tag.
func splitCategories(value string) (entities.Category, []string) {
	category := entities.CategoryOther
	var tags []string
	for i, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if c := entities.Category(strings.ToLower(part)); i == 0 && c.IsValid() {
			category = c
			continue
		}
		tags = append(tags, part)
	}
	return category, tags
}

var textUnescaper = strings.NewReplacer(`\\`, `\`, `\;`, ";", `\,`, ",", `\n`, "\n", `\N`, "\n")

// unescapeText reverses RFC 5545 TEXT escaping.
func unescapeText(s string) string {
	return textUnescaper.Replace(s)
}

func priorityFromICS(value string) entities.Priority {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	switch {
	case err != nil || n == 0 || n == 5:
		return entities.PriorityMedium
	case n < 5:
		return entities.PriorityHigh
	default:
		return entities.PriorityLow
	}
}
