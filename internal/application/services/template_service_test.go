package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/ports"
)

func TestTemplateService_Lifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	seeded := f.templates.ListTemplates(ctx)
	require.NotEmpty(t, seeded)

	created, err := f.templates.CreateTemplate(ctx, ports.CreateTemplateRequest{
		Name:     "Reading",
		Category: entities.CategoryPersonal,
		Priority: entities.PriorityLow,
		Duration: 25,
	})
	require.NoError(t, err)
	assert.Len(t, f.templates.ListTemplates(ctx), len(seeded)+1)

	personal := f.templates.ListTemplatesByCategory(ctx, entities.CategoryPersonal)
	for _, tmpl := range personal {
		assert.Equal(t, entities.CategoryPersonal, tmpl.Category)
	}

	minutes := 40
	updated, err := f.templates.UpdateTemplate(ctx, created.ID, ports.UpdateTemplateRequest{Duration: &minutes})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Duration)
	assert.Equal(t, "Reading", updated.Name)

	dup, err := f.templates.DuplicateTemplate(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Reading (copy)", dup.Name)
	assert.NotEqual(t, created.ID, dup.ID)

	require.NoError(t, f.templates.DeleteTemplate(ctx, created.ID))
	_, err = f.templates.GetTemplate(ctx, created.ID)
	assert.ErrorIs(t, err, entities.ErrTemplateNotFound)

	got, err := f.templates.GetTemplate(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Duration)
}

func TestTemplateService_UnknownID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	name := "x"

	_, err := f.templates.UpdateTemplate(ctx, "nope", ports.UpdateTemplateRequest{Name: &name})
	assert.ErrorIs(t, err, entities.ErrTemplateNotFound)
	assert.ErrorIs(t, f.templates.DeleteTemplate(ctx, "nope"), entities.ErrTemplateNotFound)
	_, err = f.templates.DuplicateTemplate(ctx, "nope", "")
	assert.ErrorIs(t, err, entities.ErrTemplateNotFound)
}
