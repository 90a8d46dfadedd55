package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/domain/recurrence"
	"github.com/taskmaster/planner/internal/ports"
)

// ScheduleRepositoryImpl keeps every schedule in memory and rewrites the
// backing store after each mutation.
type ScheduleRepositoryImpl struct {
	mu        sync.RWMutex
	store     ports.Store[entities.Schedule]
	schedules []entities.Schedule
	now       func() time.Time
}

var _ ports.ScheduleRepository = (*ScheduleRepositoryImpl)(nil)

// NewScheduleRepository loads the current contents of store.
func NewScheduleRepository(store ports.Store[entities.Schedule]) (*ScheduleRepositoryImpl, error) {
	schedules, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	return &ScheduleRepositoryImpl{
		store:     store,
		schedules: schedules,
		now:       time.Now,
	}, nil
}

func (r *ScheduleRepositoryImpl) GetAll(ctx context.Context, query ports.ScheduleQuery) []entities.Schedule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Schedule, 0, len(r.schedules))
	for i := range r.schedules {
		if matchesQuery(&r.schedules[i], &query) {
			out = append(out, r.schedules[i].Clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

func matchesQuery(s *entities.Schedule, q *ports.ScheduleQuery) bool {
	if q.Category != nil && s.Category != *q.Category {
		return false
	}
	if q.Priority != nil && s.Priority != *q.Priority {
		return false
	}
	if q.IsCompleted != nil && s.IsCompleted != *q.IsCompleted {
		return false
	}
	if q.Search != "" && !s.Matches(q.Search) {
		return false
	}
	if len(q.Tags) > 0 && !s.HasAnyTag(q.Tags) {
		return false
	}
	if q.StartDate != nil && q.EndDate != nil {
		if s.StartDate.Before(*q.StartDate) || s.StartDate.After(*q.EndDate) {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of every schedule in insertion order.
func (r *ScheduleRepositoryImpl) Snapshot(ctx context.Context) []entities.Schedule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Schedule, len(r.schedules))
	for i := range r.schedules {
		out[i] = r.schedules[i].Clone()
	}
	return out
}

func (r *ScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, entities.ErrScheduleNotFound
	}
	s := r.schedules[idx].Clone()
	return &s, nil
}

// Create stores a new schedule and, when it repeats, every generated
// occurrence. The store is written once for the whole batch.
func (r *ScheduleRepositoryImpl) Create(ctx context.Context, req ports.CreateScheduleRequest) (*entities.Schedule, []entities.Schedule, error) {
	if err := entities.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		return nil, nil, err
	}

	now := r.now()
	schedule := entities.Schedule{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Category:       req.Category,
		Priority:       req.Priority,
		IsCompleted:    false,
		Tags:           append([]string(nil), req.Tags...),
		CreatedAt:      now,
		UpdatedAt:      now,
		RepeatType:     req.RepeatType,
		RepeatInterval: req.RepeatInterval,
		RepeatDays:     append([]int(nil), req.RepeatDays...),
	}
	if req.RepeatEndDate != nil {
		end := *req.RepeatEndDate
		schedule.RepeatEndDate = &end
	}
	if schedule.Repeats() && schedule.RepeatInterval < 1 {
		schedule.RepeatInterval = 1
	}

	occurrences := recurrence.Generate(schedule, now)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.schedules = append(r.schedules, schedule.Clone())
	for _, occ := range occurrences {
		r.schedules = append(r.schedules, occ.Clone())
	}

	if err := r.persist(); err != nil {
		return nil, nil, err
	}
	return &schedule, occurrences, nil
}

// Update merges the set fields of req into the stored schedule. The merged
// record must still end after it starts. Repeat metadata is left untouched.
func (r *ScheduleRepositoryImpl) Update(ctx context.Context, id string, req ports.UpdateScheduleRequest) (*entities.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, entities.ErrScheduleNotFound
	}

	merged := r.schedules[idx].Clone()
	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.Description != nil {
		merged.Description = *req.Description
	}
	if req.StartDate != nil {
		merged.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		merged.EndDate = *req.EndDate
	}
	if req.Category != nil {
		merged.Category = *req.Category
	}
	if req.Priority != nil {
		merged.Priority = *req.Priority
	}
	if req.IsCompleted != nil {
		merged.IsCompleted = *req.IsCompleted
	}
	if req.Tags != nil {
		merged.Tags = append([]string{}, req.Tags...)
	}

	if err := entities.ValidateDateRange(merged.StartDate, merged.EndDate); err != nil {
		return nil, err
	}
	merged.UpdatedAt = r.now()

	r.schedules[idx] = merged
	if err := r.persist(); err != nil {
		return nil, err
	}

	out := merged.Clone()
	return &out, nil
}

func (r *ScheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return entities.ErrScheduleNotFound
	}

	r.schedules = append(r.schedules[:idx], r.schedules[idx+1:]...)
	return r.persist()
}

// DeleteMultiple removes each id independently. Unknown ids are reported in
// the result rather than failing the batch.
func (r *ScheduleRepositoryImpl) DeleteMultiple(ctx context.Context, ids []string) (ports.BulkDeleteResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := ports.BulkDeleteResult{Errors: []string{}}
	for _, id := range ids {
		idx := r.indexOf(id)
		if idx < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("schedule %s not found", id))
			continue
		}
		r.schedules = append(r.schedules[:idx], r.schedules[idx+1:]...)
		result.DeletedCount++
	}

	if result.DeletedCount == 0 {
		return result, nil
	}
	return result, r.persist()
}

// DeleteAll backs up the store and then clears it. Nothing is removed when
// the backup fails.
func (r *ScheduleRepositoryImpl) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Clearing without a backup copy is refused; the collection is left intact.
	if _, err := r.store.Backup(); err != nil {
		return 0, fmt.Errorf("%w: backup before delete: %w", entities.ErrPersistence, err)
	}

	deleted := len(r.schedules)
	r.schedules = []entities.Schedule{}
	return deleted, r.persist()
}

// Import appends fully built records and writes the store once. The caller
// assigns identifiers.
func (r *ScheduleRepositoryImpl) Import(ctx context.Context, schedules []entities.Schedule, replace bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if replace {
		r.schedules = make([]entities.Schedule, 0, len(schedules))
	}
	for i := range schedules {
		r.schedules = append(r.schedules, schedules[i].Clone())
	}
	return len(schedules), r.persist()
}

func (r *ScheduleRepositoryImpl) Backup(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, err := r.store.Backup()
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrPersistence, err)
	}
	return path, nil
}

func (r *ScheduleRepositoryImpl) Stats(ctx context.Context) (ports.StoreStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.Stats()
}

func (r *ScheduleRepositoryImpl) indexOf(id string) int {
	for i := range r.schedules {
		if r.schedules[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held. A failed write leaves the in-memory
// change in place.
func (r *ScheduleRepositoryImpl) persist() error {
	if err := r.store.Save(r.schedules); err != nil {
		return fmt.Errorf("%w: save schedules: %w", entities.ErrPersistence, err)
	}
	return nil
}
