package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrPersistence      = errors.New("failed to persist data")
)

// Enums and types
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryMeeting  Category = "meeting"
	CategoryReminder Category = "reminder"
	CategoryOther    Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryMeeting, CategoryReminder, CategoryOther}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from highest to lowest.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// Schedule is a single calendar entry. Occurrences generated from a
// repeating schedule carry ParentID and IsRecurring.
type Schedule struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description,omitempty" yaml:"description,omitempty"`
	StartDate      time.Time  `json:"startDate" yaml:"startDate"`
	EndDate        time.Time  `json:"endDate" yaml:"endDate"`
	Category       Category   `json:"category" yaml:"category"`
	Priority       Priority   `json:"priority" yaml:"priority"`
	IsCompleted    bool       `json:"isCompleted" yaml:"isCompleted"`
	Tags           []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt      time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" yaml:"updatedAt"`
	RepeatType     RepeatType `json:"repeatType,omitempty" yaml:"repeatType,omitempty"`
	RepeatInterval int        `json:"repeatInterval,omitempty" yaml:"repeatInterval,omitempty"`
	RepeatEndDate  *time.Time `json:"repeatEndDate,omitempty" yaml:"repeatEndDate,omitempty"`
	RepeatDays     []int      `json:"repeatDays,omitempty" yaml:"repeatDays,omitempty"`
	ParentID       string     `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	IsRecurring    bool       `json:"isRecurring,omitempty" yaml:"isRecurring,omitempty"`
}

// ScheduleTemplate is a reusable blueprint for creating schedules.
type ScheduleTemplate struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Category       Category   `json:"category"`
	Priority       Priority   `json:"priority"`
	Duration       int        `json:"duration"` // minutes
	Tags           []string   `json:"tags,omitempty"`
	RepeatType     RepeatType `json:"repeatType,omitempty"`
	RepeatInterval int        `json:"repeatInterval,omitempty"`
	RepeatDays     []int      `json:"repeatDays,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Business logic methods for Schedule

// Duration is the span between start and end.
func (s *Schedule) Duration() time.Duration {
	return s.EndDate.Sub(s.StartDate)
}

// Repeats reports whether the schedule carries a repeat rule that expands
// into occurrences.
func (s *Schedule) Repeats() bool {
	return s.RepeatType != "" && s.RepeatType != RepeatNone
}

// IsOverdue reports whether the schedule ended before now without being
// completed.
func (s *Schedule) IsOverdue(now time.Time) bool {
	return s.EndDate.Before(now) && !s.IsCompleted
}

// HasAnyTag reports whether at least one of tags is present on the schedule.
func (s *Schedule) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range s.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Matches reports a case-insensitive substring match on title or description.
func (s *Schedule) Matches(search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(s.Title), needle) ||
		strings.Contains(strings.ToLower(s.Description), needle)
}

// Clone returns a deep copy so callers cannot alias the repository's slices.
func (s Schedule) Clone() Schedule {
	out := s
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	if s.RepeatDays != nil {
		out.RepeatDays = append([]int(nil), s.RepeatDays...)
	}
	if s.RepeatEndDate != nil {
		t := *s.RepeatEndDate
		out.RepeatEndDate = &t
	}
	return out
}

// ValidateDateRange checks the endDate > startDate invariant.
func ValidateDateRange(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidDateRange
	}
	return nil
}

// Business logic methods for ScheduleTemplate

// Clone returns a deep copy of the template.
func (t ScheduleTemplate) Clone() ScheduleTemplate {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.RepeatDays != nil {
		out.RepeatDays = append([]int(nil), t.RepeatDays...)
	}
	return out
}

// DurationTime converts the template duration in minutes to a time.Duration.
func (t *ScheduleTemplate) DurationTime() time.Duration {
	return time.Duration(t.Duration) * time.Minute
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects field-level failures for one request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a single-field ValidationErrors.
func NewValidationError(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// Utility methods
func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryMeeting, CategoryReminder, CategoryOther:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (r RepeatType) IsValid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	default:
		return false
	}
}
