// Package forms runs the create/edit pipelines: client-side validation that
// blocks before any network call, the validated-location gate, and the
// avatar-upload flow with partial-failure retention.
package forms

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/groophq/groopsync/internal/location"
	"github.com/groophq/groopsync/internal/model"
	"github.com/pkg/errors"
)

// GroupForm is the draft the user edits. The location rides separately in
// the location adapter until validated.
type GroupForm struct {
	ID           string    // empty for create
	Title        string    `validate:"required"`
	Description  string    `validate:"max=2000"`
	ScheduledAt  time.Time `validate:"required"`
	MaxMembers   int       `validate:"required,gte=2,lte=500"`
	Cost         float64   `validate:"gte=0,lte=100000"`
	ActivityType string    `validate:"required"`
	SkillLevel   string    `validate:"omitempty,oneof=beginner intermediate advanced"`
}

type GroupAPI interface {
	CreateGroup(ctx context.Context, group *model.Group) (*model.Group, error)
	UpdateGroup(ctx context.Context, id string, group *model.Group) (*model.Group, error)
}

type GroupPipeline struct {
	api       GroupAPI
	locations *location.Adapter
	validate  *validator.Validate
	now       func() time.Time
}

func NewGroupPipeline(api GroupAPI, locations *location.Adapter) *GroupPipeline {
	return &GroupPipeline{
		api:       api,
		locations: locations,
		validate:  validator.New(),
		now:       time.Now,
	}
}

func (p *GroupPipeline) WithClock(now func() time.Time) *GroupPipeline {
	p.now = now
	return p
}

// Submit validates the draft, resolves the location through the two-phase
// pipeline, and only then sends the payload. The unvalidated client-side
// candidate never reaches the group endpoints.
func (p *GroupPipeline) Submit(ctx context.Context, form *GroupForm) (*model.Group, error) {
	if err := p.validate.Struct(form); err != nil {
		return nil, errors.Wrap(err, "group validation failed")
	}
	if !form.ScheduledAt.After(p.now()) {
		return nil, errors.New("scheduled time must be in the future")
	}

	loc, err := p.locations.Validate(ctx)
	if err != nil {
		return nil, err
	}

	group := &model.Group{
		ID:           form.ID,
		Title:        form.Title,
		Description:  form.Description,
		ScheduledAt:  form.ScheduledAt,
		MaxMembers:   form.MaxMembers,
		Cost:         form.Cost,
		ActivityType: form.ActivityType,
		SkillLevel:   form.SkillLevel,
		Location:     loc,
	}

	if form.ID == "" {
		return p.api.CreateGroup(ctx, group)
	}
	return p.api.UpdateGroup(ctx, form.ID, group)
}
