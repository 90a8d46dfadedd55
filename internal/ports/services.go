package ports

import (
	"context"
	"time"

	"github.com/taskmaster/planner/internal/domain/analytics"
	"github.com/taskmaster/planner/internal/domain/entities"
)

// ScheduleService interface for schedule management operations
type ScheduleService interface {
	ListSchedules(ctx context.Context, query ScheduleQuery) []entities.Schedule
	GetSchedule(ctx context.Context, id string) (*entities.Schedule, error)
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*entities.Schedule, int, error)
	UpdateSchedule(ctx context.Context, id string, req UpdateScheduleRequest) (*entities.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	DeleteSchedules(ctx context.Context, ids []string) (BulkDeleteResult, error)
	DeleteAllSchedules(ctx context.Context) (int, error)
	CreateFromTemplate(ctx context.Context, req UseTemplateRequest) (*entities.Schedule, error)
	CreateTemplateFromSchedule(ctx context.Context, scheduleID, name string) (*entities.ScheduleTemplate, error)
	Analytics(ctx context.Context) analytics.Report
	DataStats(ctx context.Context) (DataStats, error)
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)
	Backup(ctx context.Context, trigger string) ([]string, error)
}

// TemplateService interface for template management operations
type TemplateService interface {
	ListTemplates(ctx context.Context) []entities.ScheduleTemplate
	ListTemplatesByCategory(ctx context.Context, category entities.Category) []entities.ScheduleTemplate
	GetTemplate(ctx context.Context, id string) (*entities.ScheduleTemplate, error)
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*entities.ScheduleTemplate, error)
	UpdateTemplate(ctx context.Context, id string, req UpdateTemplateRequest) (*entities.ScheduleTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
	DuplicateTemplate(ctx context.Context, id, newName string) (*entities.ScheduleTemplate, error)
}

// Request types

type CreateScheduleRequest struct {
	Title          string              `json:"title" validate:"required,max=100"`
	Description    string              `json:"description" validate:"max=500"`
	StartDate      time.Time           `json:"startDate" validate:"required"`
	EndDate        time.Time           `json:"endDate" validate:"required"`
	Category       entities.Category   `json:"category" validate:"required,oneof=work personal meeting reminder other"`
	Priority       entities.Priority   `json:"priority" validate:"required,oneof=low medium high"`
	Tags           []string            `json:"tags" validate:"omitempty,dive,required"`
	RepeatType     entities.RepeatType `json:"repeatType" validate:"omitempty,oneof=none daily weekly monthly yearly"`
	RepeatInterval int                 `json:"repeatInterval" validate:"omitempty,min=1,max=365"`
	RepeatEndDate  *time.Time          `json:"repeatEndDate"`
	RepeatDays     []int               `json:"repeatDays" validate:"omitempty,max=7,dive,min=0,max=6"`
}

// UpdateScheduleRequest merges only the fields that are set. Repeat
// metadata cannot be changed through an update.
type UpdateScheduleRequest struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string            `json:"description" validate:"omitempty,max=500"`
	StartDate   *time.Time         `json:"startDate"`
	EndDate     *time.Time         `json:"endDate"`
	Category    *entities.Category `json:"category" validate:"omitempty,oneof=work personal meeting reminder other"`
	Priority    *entities.Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	IsCompleted *bool              `json:"isCompleted"`
	Tags        []string           `json:"tags" validate:"omitempty,dive,required"`
}

type CreateTemplateRequest struct {
	Name           string              `json:"name" validate:"required,max=100"`
	Description    string              `json:"description" validate:"max=500"`
	Category       entities.Category   `json:"category" validate:"required,oneof=work personal meeting reminder other"`
	Priority       entities.Priority   `json:"priority" validate:"required,oneof=low medium high"`
	Duration       int                 `json:"duration" validate:"required,min=1,max=1440"`
	Tags           []string            `json:"tags" validate:"omitempty,dive,required"`
	RepeatType     entities.RepeatType `json:"repeatType" validate:"omitempty,oneof=none daily weekly monthly yearly"`
	RepeatInterval int                 `json:"repeatInterval" validate:"omitempty,min=1,max=365"`
	RepeatDays     []int               `json:"repeatDays" validate:"omitempty,max=7,dive,min=0,max=6"`
}

type UpdateTemplateRequest struct {
	Name           *string              `json:"name" validate:"omitempty,min=1,max=100"`
	Description    *string              `json:"description" validate:"omitempty,max=500"`
	Category       *entities.Category   `json:"category" validate:"omitempty,oneof=work personal meeting reminder other"`
	Priority       *entities.Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Duration       *int                 `json:"duration" validate:"omitempty,min=1,max=1440"`
	Tags           []string             `json:"tags" validate:"omitempty,dive,required"`
	RepeatType     *entities.RepeatType `json:"repeatType" validate:"omitempty,oneof=none daily weekly monthly yearly"`
	RepeatInterval *int                 `json:"repeatInterval" validate:"omitempty,min=1,max=365"`
	RepeatDays     []int                `json:"repeatDays" validate:"omitempty,max=7,dive,min=0,max=6"`
}

type UseTemplateRequest struct {
	TemplateID  string    `json:"-"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	Title       string    `json:"title" validate:"max=100"`
	Description string    `json:"description" validate:"max=500"`
}

type DuplicateTemplateRequest struct {
	Name string `json:"name" validate:"max=100"`
}

type TemplateFromScheduleRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ImportSchedule is one record of an import payload. Identifiers and
// timestamps in the payload are replaced on import.
type ImportSchedule struct {
	ID             string              `json:"id"`
	Title          string              `json:"title" validate:"required,max=100"`
	Description    string              `json:"description" validate:"max=500"`
	StartDate      time.Time           `json:"startDate" validate:"required"`
	EndDate        time.Time           `json:"endDate" validate:"required"`
	Category       entities.Category   `json:"category" validate:"omitempty,oneof=work personal meeting reminder other"`
	Priority       entities.Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	IsCompleted    bool                `json:"isCompleted"`
	Tags           []string            `json:"tags"`
	RepeatType     entities.RepeatType `json:"repeatType" validate:"omitempty,oneof=none daily weekly monthly yearly"`
	RepeatInterval int                 `json:"repeatInterval" validate:"omitempty,min=1,max=365"`
	RepeatEndDate  *time.Time          `json:"repeatEndDate"`
	RepeatDays     []int               `json:"repeatDays" validate:"omitempty,max=7,dive,min=0,max=6"`
	ParentID       string              `json:"parentId"`
	IsRecurring    bool                `json:"isRecurring"`
}

// ImportRequest appends the records, or swaps the whole collection when
// Replace is set.
type ImportRequest struct {
	Schedules []ImportSchedule `json:"schedules" validate:"required"`
	Replace   bool             `json:"replace"`
}

// Response types

type ImportResult struct {
	ImportedCount  int      `json:"importedCount"`
	GeneratedCount int      `json:"generatedCount"`
	ErrorCount     int      `json:"errorCount"`
	Errors         []string `json:"errors"`
	BackupPath     string   `json:"backupPath,omitempty"`
}

// DataStats mirrors the storage file state plus record counts.
type DataStats struct {
	StoreStats
	ScheduleCount  int `json:"scheduleCount"`
	CompletedCount int `json:"completedCount"`
}
