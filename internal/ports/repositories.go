package ports

import (
	"context"
	"time"

	"github.com/taskmaster/planner/internal/domain/entities"
)

// Store is the flat-file collaborator behind a repository. It reads and
// rewrites the whole collection at once.
type Store[T any] interface {
	Load() ([]T, error)
	Save(items []T) error
	Backup() (string, error)
	Stats() (StoreStats, error)
}

// StoreStats describes the backing file of a Store.
type StoreStats struct {
	Path         string     `json:"path"`
	FileExists   bool       `json:"fileExists"`
	FileSize     int64      `json:"fileSize"`
	LastModified *time.Time `json:"lastModified"`
}

// ScheduleRepository defines the interface for schedule data operations
type ScheduleRepository interface {
	GetAll(ctx context.Context, query ScheduleQuery) []entities.Schedule
	Snapshot(ctx context.Context) []entities.Schedule
	GetByID(ctx context.Context, id string) (*entities.Schedule, error)
	Create(ctx context.Context, req CreateScheduleRequest) (*entities.Schedule, []entities.Schedule, error)
	Update(ctx context.Context, id string, req UpdateScheduleRequest) (*entities.Schedule, error)
	Delete(ctx context.Context, id string) error
	DeleteMultiple(ctx context.Context, ids []string) (BulkDeleteResult, error)
	DeleteAll(ctx context.Context) (int, error)
	Import(ctx context.Context, schedules []entities.Schedule, replace bool) (int, error)
	Backup(ctx context.Context) (string, error)
	Stats(ctx context.Context) (StoreStats, error)
}

// TemplateRepository defines the interface for template data operations
type TemplateRepository interface {
	GetAll(ctx context.Context) []entities.ScheduleTemplate
	GetByID(ctx context.Context, id string) (*entities.ScheduleTemplate, error)
	GetByCategory(ctx context.Context, category entities.Category) []entities.ScheduleTemplate
	Create(ctx context.Context, req CreateTemplateRequest) (*entities.ScheduleTemplate, error)
	Update(ctx context.Context, id string, req UpdateTemplateRequest) (*entities.ScheduleTemplate, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string, newName string) (*entities.ScheduleTemplate, error)
	Backup(ctx context.Context) (string, error)
}

// ScheduleQuery filters schedule listings. Zero values disable a filter;
// the date range applies only when both bounds are set.
type ScheduleQuery struct {
	Category    *entities.Category
	Priority    *entities.Priority
	IsCompleted *bool
	StartDate   *time.Time
	EndDate     *time.Time
	Search      string
	Tags        []string
}

// BulkDeleteResult reports a partial-success bulk delete.
type BulkDeleteResult struct {
	DeletedCount int      `json:"deletedCount"`
	Errors       []string `json:"errors"`
}
