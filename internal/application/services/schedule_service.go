package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/analytics"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/domain/recurrence"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/infrastructure/validation"
	"github.com/taskmaster/planner/internal/ports"
)

const (
	entitySchedule = "schedule"
	entityTemplate = "template"
)

// ScheduleService handles schedule operations, including the ones that
// bridge schedules and templates.
type ScheduleService struct {
	scheduleRepo ports.ScheduleRepository
	templateRepo ports.TemplateRepository
	validator    *validation.Validator
	logger       *logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

var _ ports.ScheduleService = (*ScheduleService)(nil)

// NewScheduleService creates a new schedule service
func NewScheduleService(scheduleRepo ports.ScheduleRepository, templateRepo ports.TemplateRepository, appLogger *logger.Logger, m *metrics.Metrics) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: scheduleRepo,
		templateRepo: templateRepo,
		validator:    validation.New(),
		logger:       appLogger.WithComponent("schedule_service"),
		metrics:      m,
		now:          time.Now,
	}
}

// ListSchedules returns the schedules matching query, ordered by start.
func (s *ScheduleService) ListSchedules(ctx context.Context, query ports.ScheduleQuery) []entities.Schedule {
	return s.scheduleRepo.GetAll(ctx, query)
}

// GetSchedule retrieves a schedule by ID
func (s *ScheduleService) GetSchedule(ctx context.Context, id string) (*entities.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get schedule %s: %w", id, err)
	}
	return schedule, nil
}

// CreateSchedule stores a schedule and, for repeating ones, its generated
// occurrences. It returns the parent and the number of occurrences.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req ports.CreateScheduleRequest) (*entities.Schedule, int, error) {
	if err := entities.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, 0, entities.NewValidationError("endDate", err.Error())
	}

	created, occurrences, err := s.scheduleRepo.Create(ctx, req)
	if err != nil {
		s.recordFailure(entitySchedule, err)
		return nil, 0, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.metrics.RecordMutation(entitySchedule, "create")
	s.metrics.RecordOccurrences(len(occurrences))
	s.logger.LogScheduleAction("create", created.ID, map[string]interface{}{
		"title":       created.Title,
		"repeat_type": created.RepeatType,
		"occurrences": len(occurrences),
	})

	return created, len(occurrences), nil
}

// UpdateSchedule merges the provided fields into an existing schedule
func (s *ScheduleService) UpdateSchedule(ctx context.Context, id string, req ports.UpdateScheduleRequest) (*entities.Schedule, error) {
	updated, err := s.scheduleRepo.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidDateRange) {
			return nil, entities.NewValidationError("endDate", err.Error())
		}
		s.recordFailure(entitySchedule, err)
		return nil, fmt.Errorf("failed to update schedule %s: %w", id, err)
	}

	s.metrics.RecordMutation(entitySchedule, "update")
	s.logger.LogScheduleAction("update", id, nil)
	return updated, nil
}

// DeleteSchedule removes one schedule. Occurrences of a deleted parent are
// kept.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id string) error {
	if err := s.scheduleRepo.Delete(ctx, id); err != nil {
		s.recordFailure(entitySchedule, err)
		return fmt.Errorf("failed to delete schedule %s: %w", id, err)
	}

	s.metrics.RecordMutation(entitySchedule, "delete")
	s.logger.LogScheduleAction("delete", id, nil)
	return nil
}

// DeleteSchedules removes each id independently and reports unknown ones.
func (s *ScheduleService) DeleteSchedules(ctx context.Context, ids []string) (ports.BulkDeleteResult, error) {
	result, err := s.scheduleRepo.DeleteMultiple(ctx, ids)
	if err != nil {
		s.recordFailure(entitySchedule, err)
		return result, fmt.Errorf("failed to delete schedules: %w", err)
	}

	s.metrics.RecordMutation(entitySchedule, "bulk_delete")
	s.logger.Infow("Schedules deleted",
		"requested", len(ids),
		"deleted", result.DeletedCount,
		"errors", len(result.Errors),
	)
	return result, nil
}

// DeleteAllSchedules backs up and clears the schedule store.
func (s *ScheduleService) DeleteAllSchedules(ctx context.Context) (int, error) {
	deleted, err := s.scheduleRepo.DeleteAll(ctx)
	if err != nil {
		s.recordFailure(entitySchedule, err)
		return 0, fmt.Errorf("failed to delete all schedules: %w", err)
	}

	s.metrics.RecordMutation(entitySchedule, "delete_all")
	s.logger.Warnw("All schedules deleted", "deleted", deleted)
	return deleted, nil
}

// CreateFromTemplate materializes one non-repeating schedule from a
// template starting at req.StartDate.
func (s *ScheduleService) CreateFromTemplate(ctx context.Context, req ports.UseTemplateRequest) (*entities.Schedule, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", req.TemplateID, err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = tmpl.Name
	}

	createReq := ports.CreateScheduleRequest{
		Title:       title,
		Description: strings.TrimSpace(tmpl.Description + "\n" + req.Description),
		StartDate:   req.StartDate,
		EndDate:     req.StartDate.Add(tmpl.DurationTime()),
		Category:    tmpl.Category,
		Priority:    tmpl.Priority,
		Tags:        append([]string(nil), tmpl.Tags...),
		RepeatType:  entities.RepeatNone,
	}
	if err := s.validator.Struct(createReq); err != nil {
		return nil, err
	}

	created, _, err := s.CreateSchedule(ctx, createReq)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Schedule created from template", "template_id", tmpl.ID, "schedule_id", created.ID)
	return created, nil
}

// CreateTemplateFromSchedule captures a schedule's shape as a new template.
// The duration is the schedule's length in whole minutes.
func (s *ScheduleService) CreateTemplateFromSchedule(ctx context.Context, scheduleID, name string) (*entities.ScheduleTemplate, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule %s: %w", scheduleID, err)
	}

	req := ports.CreateTemplateRequest{
		Name:           strings.TrimSpace(name),
		Description:    schedule.Description,
		Category:       schedule.Category,
		Priority:       schedule.Priority,
		Duration:       int(math.Round(schedule.Duration().Minutes())),
		Tags:           append([]string(nil), schedule.Tags...),
		RepeatType:     schedule.RepeatType,
		RepeatInterval: schedule.RepeatInterval,
		RepeatDays:     append([]int(nil), schedule.RepeatDays...),
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.Create(ctx, req)
	if err != nil {
		s.recordFailure(entityTemplate, err)
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.metrics.RecordMutation(entityTemplate, "create_from_schedule")
	s.logger.LogScheduleAction("create_template_from_schedule", tmpl.ID, map[string]interface{}{
		"schedule_id": scheduleID,
		"duration":    tmpl.Duration,
	})
	return tmpl, nil
}

// Analytics computes the dashboard report over every stored schedule.
func (s *ScheduleService) Analytics(ctx context.Context) analytics.Report {
	return analytics.Compute(s.scheduleRepo.Snapshot(ctx), s.now())
}

// DataStats reports the schedule file state and record counts.
func (s *ScheduleService) DataStats(ctx context.Context) (ports.DataStats, error) {
	fileStats, err := s.scheduleRepo.Stats(ctx)
	if err != nil {
		return ports.DataStats{}, fmt.Errorf("failed to read data stats: %w", err)
	}

	stats := ports.DataStats{StoreStats: fileStats}
	for _, sch := range s.scheduleRepo.Snapshot(ctx) {
		stats.ScheduleCount++
		if sch.IsCompleted {
			stats.CompletedCount++
		}
	}
	return stats, nil
}

// Import backs up the schedule file and then re-creates every valid record
// with a fresh id. Parent links are remapped inside the batch and dropped
// when the parent is not part of it. A repeating record whose occurrences
// are not in the batch is expanded as if it had just been created.
func (s *ScheduleService) Import(ctx context.Context, req ports.ImportRequest) (ports.ImportResult, error) {
	result := ports.ImportResult{Errors: []string{}}

	backupPath, err := s.scheduleRepo.Backup(ctx)
	s.metrics.RecordBackup("import", err)
	if err != nil {
		s.recordFailure(entitySchedule, err)
		return result, fmt.Errorf("failed to back up before import: %w", err)
	}
	result.BackupPath = backupPath

	now := s.now()
	records := make([]entities.Schedule, 0, len(req.Schedules))
	idMap := make(map[string]string, len(req.Schedules))

	for i, in := range req.Schedules {
		sch, err := s.buildImported(in, now)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("record %d (%s): %v", i+1, in.Title, err))
			continue
		}
		if in.ID != "" {
			idMap[in.ID] = sch.ID
		}
		records = append(records, sch)
	}

	hasChildren := make(map[string]bool)
	for i := range records {
		if records[i].ParentID == "" {
			continue
		}
		if newID, ok := idMap[records[i].ParentID]; ok {
			records[i].ParentID = newID
			hasChildren[newID] = true
		} else {
			records[i].ParentID = ""
			records[i].IsRecurring = false
		}
	}

	generated := make([]entities.Schedule, 0)
	for i := range records {
		if records[i].Repeats() && records[i].ParentID == "" && !hasChildren[records[i].ID] {
			generated = append(generated, recurrence.Generate(records[i], now)...)
		}
	}

	if _, err := s.scheduleRepo.Import(ctx, append(records, generated...), req.Replace); err != nil {
		s.recordFailure(entitySchedule, err)
		return result, fmt.Errorf("failed to import schedules: %w", err)
	}

	result.ImportedCount = len(records)
	result.GeneratedCount = len(generated)
	s.metrics.RecordImport(result.ImportedCount, result.ErrorCount)
	s.metrics.RecordOccurrences(len(generated))
	s.logger.Infow("Schedules imported",
		"imported", result.ImportedCount,
		"generated", result.GeneratedCount,
		"errors", result.ErrorCount,
		"replace", req.Replace,
		"backup", backupPath,
	)
	return result, nil
}

func (s *ScheduleService) buildImported(in ports.ImportSchedule, now time.Time) (entities.Schedule, error) {
	if in.Category == "" {
		in.Category = entities.CategoryOther
	}
	if in.Priority == "" {
		in.Priority = entities.PriorityMedium
	}
	if err := s.validator.Struct(in); err != nil {
		return entities.Schedule{}, err
	}
	if err := entities.ValidateDateRange(in.StartDate, in.EndDate); err != nil {
		return entities.Schedule{}, err
	}

	sch := entities.Schedule{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Category:       in.Category,
		Priority:       in.Priority,
		IsCompleted:    in.IsCompleted,
		Tags:           append([]string(nil), in.Tags...),
		CreatedAt:      now,
		UpdatedAt:      now,
		RepeatType:     in.RepeatType,
		RepeatInterval: in.RepeatInterval,
		RepeatDays:     append([]int(nil), in.RepeatDays...),
		ParentID:       in.ParentID,
		IsRecurring:    in.ParentID != "",
	}
	if in.RepeatEndDate != nil {
		end := *in.RepeatEndDate
		sch.RepeatEndDate = &end
	}
	if sch.Repeats() && sch.RepeatInterval < 1 {
		sch.RepeatInterval = 1
	}
	return sch, nil
}

// Backup copies both data files and returns the paths written. trigger
// labels the backup metric, e.g. "manual" or "cron".
func (s *ScheduleService) Backup(ctx context.Context, trigger string) ([]string, error) {
	var paths []string

	schedulesPath, err := s.scheduleRepo.Backup(ctx)
	s.metrics.RecordBackup(trigger, err)
	if err != nil {
		s.logger.LogStorageEvent("backup", entitySchedule, 0, err)
		return nil, fmt.Errorf("failed to back up schedules: %w", err)
	}
	if schedulesPath != "" {
		paths = append(paths, schedulesPath)
	}

	templatesPath, err := s.templateRepo.Backup(ctx)
	s.metrics.RecordBackup(trigger, err)
	if err != nil {
		s.logger.LogStorageEvent("backup", entityTemplate, 0, err)
		return paths, fmt.Errorf("failed to back up templates: %w", err)
	}
	if templatesPath != "" {
		paths = append(paths, templatesPath)
	}

	for _, p := range paths {
		s.logger.LogStorageEvent("backup", p, 0, nil)
	}
	return paths, nil
}

func (s *ScheduleService) recordFailure(entity string, err error) {
	if errors.Is(err, entities.ErrPersistence) {
		s.metrics.RecordPersistenceFailure(entity)
		s.logger.LogStorageEvent("save", entity, 0, err)
	}
}
