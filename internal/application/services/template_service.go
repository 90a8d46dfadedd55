package services

import (
	"context"
	"fmt"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/ports"
)

// TemplateService handles template-related operations
type TemplateService struct {
	templateRepo ports.TemplateRepository
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

var _ ports.TemplateService = (*TemplateService)(nil)

// NewTemplateService creates a new template service
func NewTemplateService(templateRepo ports.TemplateRepository, appLogger *logger.Logger, m *metrics.Metrics) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		logger:       appLogger.WithComponent("template_service"),
		metrics:      m,
	}
}

// ListTemplates returns every template ordered by name
func (s *TemplateService) ListTemplates(ctx context.Context) []entities.ScheduleTemplate {
	return s.templateRepo.GetAll(ctx)
}

// ListTemplatesByCategory returns the templates of one category
func (s *TemplateService) ListTemplatesByCategory(ctx context.Context, category entities.Category) []entities.ScheduleTemplate {
	return s.templateRepo.GetByCategory(ctx, category)
}

// GetTemplate retrieves a template by ID
func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*entities.ScheduleTemplate, error) {
	tmpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}
	return tmpl, nil
}

// CreateTemplate creates a new template
func (s *TemplateService) CreateTemplate(ctx context.Context, req ports.CreateTemplateRequest) (*entities.ScheduleTemplate, error) {
	tmpl, err := s.templateRepo.Create(ctx, req)
	if err != nil {
		s.metrics.RecordPersistenceFailure(entityTemplate)
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.metrics.RecordMutation(entityTemplate, "create")
	s.logger.LogScheduleAction("create_template", tmpl.ID, map[string]interface{}{"name": tmpl.Name})
	return tmpl, nil
}

// UpdateTemplate merges the provided fields into a template
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, req ports.UpdateTemplateRequest) (*entities.ScheduleTemplate, error) {
	tmpl, err := s.templateRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update template %s: %w", id, err)
	}

	s.metrics.RecordMutation(entityTemplate, "update")
	s.logger.LogScheduleAction("update_template", id, nil)
	return tmpl, nil
}

// DeleteTemplate removes a template
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}

	s.metrics.RecordMutation(entityTemplate, "delete")
	s.logger.LogScheduleAction("delete_template", id, nil)
	return nil
}

// DuplicateTemplate copies a template under a new name
func (s *TemplateService) DuplicateTemplate(ctx context.Context, id, newName string) (*entities.ScheduleTemplate, error) {
	dup, err := s.templateRepo.Duplicate(ctx, id, newName)
	if err != nil {
		return nil, fmt.Errorf("failed to duplicate template %s: %w", id, err)
	}

	s.metrics.RecordMutation(entityTemplate, "duplicate")
	s.logger.LogScheduleAction("duplicate_template", dup.ID, map[string]interface{}{"source_id": id})
	return dup, nil
}
