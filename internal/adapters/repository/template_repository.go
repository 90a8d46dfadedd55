package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

const (
	maxTemplateName = 100
	copySuffix      = " (copy)"
)

// TemplateRepositoryImpl keeps templates in memory and rewrites the backing
// store after each mutation.
type TemplateRepositoryImpl struct {
	mu        sync.RWMutex
	store     ports.Store[entities.ScheduleTemplate]
	templates []entities.ScheduleTemplate
	now       func() time.Time
}

var _ ports.TemplateRepository = (*TemplateRepositoryImpl)(nil)

// NewTemplateRepository loads store and seeds the default templates when it
// holds none.
func NewTemplateRepository(store ports.Store[entities.ScheduleTemplate]) (*TemplateRepositoryImpl, error) {
	templates, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := &TemplateRepositoryImpl{
		store:     store,
		templates: templates,
		now:       time.Now,
	}
	if len(r.templates) == 0 {
		r.templates = DefaultTemplates(r.now())
		if err := r.persist(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultTemplates returns the starter set written on first run.
func DefaultTemplates(now time.Time) []entities.ScheduleTemplate {
	seed := []entities.ScheduleTemplate{
		{
			Name:           "Weekly meeting",
			Description:    "Recurring team meeting",
			Category:       entities.CategoryMeeting,
			Priority:       entities.PriorityMedium,
			Duration:       60,
			Tags:           []string{"meeting", "team"},
			RepeatType:     entities.RepeatWeekly,
			RepeatInterval: 1,
			RepeatDays:     []int{1},
		},
		{
			Name:           "1on1",
			Description:    "One-on-one conversation",
			Category:       entities.CategoryMeeting,
			Priority:       entities.PriorityHigh,
			Duration:       30,
			Tags:           []string{"1on1", "review"},
			RepeatType:     entities.RepeatWeekly,
			RepeatInterval: 2,
		},
		{
			Name:           "Exercise",
			Description:    "Regular workout",
			Category:       entities.CategoryPersonal,
			Priority:       entities.PriorityMedium,
			Duration:       45,
			Tags:           []string{"health", "exercise"},
			RepeatType:     entities.RepeatDaily,
			RepeatInterval: 1,
		},
		{
			Name:           "Monthly report",
			Description:    "Prepare the monthly report",
			Category:       entities.CategoryWork,
			Priority:       entities.PriorityHigh,
			Duration:       120,
			Tags:           []string{"report", "monthly"},
			RepeatType:     entities.RepeatMonthly,
			RepeatInterval: 1,
		},
		{
			Name:        "Dentist appointment",
			Description: "Regular dental checkup",
			Category:    entities.CategoryPersonal,
			Priority:    entities.PriorityMedium,
			Duration:    30,
			Tags:        []string{"health", "checkup"},
			RepeatType:  entities.RepeatNone,
		},
	}

	for i := range seed {
		seed[i].ID = uuid.NewString()
		seed[i].CreatedAt = now
		seed[i].UpdatedAt = now
	}
	return seed
}

// GetAll returns every template ordered by name.
func (r *TemplateRepositoryImpl) GetAll(ctx context.Context) []entities.ScheduleTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.ScheduleTemplate, len(r.templates))
	for i := range r.templates {
		out[i] = r.templates[i].Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (r *TemplateRepositoryImpl) GetByID(ctx context.Context, id string) (*entities.ScheduleTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, entities.ErrTemplateNotFound
	}
	t := r.templates[idx].Clone()
	return &t, nil
}

func (r *TemplateRepositoryImpl) GetByCategory(ctx context.Context, category entities.Category) []entities.ScheduleTemplate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.ScheduleTemplate, 0)
	for i := range r.templates {
		if r.templates[i].Category == category {
			out = append(out, r.templates[i].Clone())
		}
	}
	return out
}

func (r *TemplateRepositoryImpl) Create(ctx context.Context, req ports.CreateTemplateRequest) (*entities.ScheduleTemplate, error) {
	now := r.now()
	t := entities.ScheduleTemplate{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		Duration:       req.Duration,
		Tags:           append([]string(nil), req.Tags...),
		RepeatType:     req.RepeatType,
		RepeatInterval: req.RepeatInterval,
		RepeatDays:     append([]int(nil), req.RepeatDays...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates = append(r.templates, t.Clone())
	if err := r.persist(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepositoryImpl) Update(ctx context.Context, id string, req ports.UpdateTemplateRequest) (*entities.ScheduleTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, entities.ErrTemplateNotFound
	}

	t := r.templates[idx].Clone()
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Category != nil {
		t.Category = *req.Category
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Duration != nil {
		t.Duration = *req.Duration
	}
	if req.Tags != nil {
		t.Tags = append([]string{}, req.Tags...)
	}
	if req.RepeatType != nil {
		t.RepeatType = *req.RepeatType
	}
	if req.RepeatInterval != nil {
		t.RepeatInterval = *req.RepeatInterval
	}
	if req.RepeatDays != nil {
		t.RepeatDays = append([]int{}, req.RepeatDays...)
	}
	t.UpdatedAt = r.now()

	r.templates[idx] = t
	if err := r.persist(); err != nil {
		return nil, err
	}

	out := t.Clone()
	return &out, nil
}

func (r *TemplateRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return entities.ErrTemplateNotFound
	}

	r.templates = append(r.templates[:idx], r.templates[idx+1:]...)
	return r.persist()
}

// Duplicate copies every field except identity and timestamps. An empty
// newName yields "<name> (copy)", with the name cut to fit 100 characters.
func (r *TemplateRepositoryImpl) Duplicate(ctx context.Context, id string, newName string) (*entities.ScheduleTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, entities.ErrTemplateNotFound
	}

	dup := r.templates[idx].Clone()
	now := r.now()
	dup.ID = uuid.NewString()
	dup.CreatedAt = now
	dup.UpdatedAt = now
	if strings.TrimSpace(newName) != "" {
		dup.Name = newName
	} else {
		dup.Name = copyName(dup.Name)
	}

	r.templates = append(r.templates, dup.Clone())
	if err := r.persist(); err != nil {
		return nil, err
	}
	return &dup, nil
}

// copyName appends the copy suffix, shortening the base so the result stays
// within the template name limit.
func copyName(name string) string {
	base := []rune(name)
	if limit := maxTemplateName - len(copySuffix); len(base) > limit {
		base = base[:limit]
	}
	return strings.TrimRight(string(base), " ") + copySuffix
}

func (r *TemplateRepositoryImpl) Backup(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path, err := r.store.Backup()
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrPersistence, err)
	}
	return path, nil
}

func (r *TemplateRepositoryImpl) indexOf(id string) int {
	for i := range r.templates {
		if r.templates[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *TemplateRepositoryImpl) persist() error {
	if err := r.store.Save(r.templates); err != nil {
		return fmt.Errorf("%w: save templates: %w", entities.ErrPersistence, err)
	}
	return nil
}
