package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// FallbackDesignNote marks a design produced after the LLM failed
const FallbackDesignNote = "Generated using fallback recommendations"

// Planner implements PlannerUseCase
type Planner struct {
	repo     interfaces.Repository
	designer interfaces.EventDesigner
	now      func() time.Time
}

// PlannerOption configures Planner
type PlannerOption func(*Planner)

// WithEventDesigner enables LLM generated designs
func WithEventDesigner(designer interfaces.EventDesigner) PlannerOption {
	return func(p *Planner) {
		p.designer = designer
	}
}

// NewPlanner creates a new Planner use case
func NewPlanner(repo interfaces.Repository, opts ...PlannerOption) PlannerUseCase {
	p := &Planner{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func validateDesignRequest(req *model.DesignRequest) error {
	if req == nil {
		return model.NewValidationError("No data provided")
	}
	switch {
	case strings.TrimSpace(req.EventType) == "":
		return model.NewMissingFieldError("eventType")
	case req.AttendeeCount <= 0:
		return model.NewMissingFieldError("attendeeCount")
	case req.Budget <= 0:
		return model.NewMissingFieldError("budget")
	case strings.TrimSpace(req.Vibe) == "":
		return model.NewMissingFieldError("vibe")
	}
	return nil
}

// DesignEvent returns an LLM design when available and the rule-based design otherwise
func (u *Planner) DesignEvent(ctx context.Context, req *model.DesignRequest) (*model.DesignResult, error) {
	if err := validateDesignRequest(req); err != nil {
		return nil, err
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	result := &model.DesignResult{
		GeneratedAt: u.now().UTC(),
		Input:       *req,
	}

	if u.designer == nil {
		result.Recommendation = model.RuleBasedDesign(req)
		return result, nil
	}

	design, err := u.designer.DesignEvent(ctx, req)
	if err != nil {
		ctxlog.From(ctx).Warn("LLM event design failed, using fallback",
			"error", err,
			"eventType", req.EventType,
		)
		result.Recommendation = model.RuleBasedDesign(req)
		result.Note = FallbackDesignNote
		return result, nil
	}

	result.Recommendation = design
	return result, nil
}

// RecommendVendors returns category guidance, scaled to the event budget when an event is given
func (u *Planner) RecommendVendors(ctx context.Context, organizerID types.UserID, eventID types.EventID) ([]model.VendorGuidance, error) {
	var event *model.Event
	if eventID != "" {
		e, err := ownedEvent(ctx, u.repo, organizerID, eventID)
		if err != nil {
			return nil, err
		}
		event = e
	}

	vendors, err := u.repo.ListVendors(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendors")
	}
	return model.BuildVendorGuidance(event, vendors), nil
}

// OptimizeSchedule lays out the event-day timeline from startTime
func (u *Planner) OptimizeSchedule(ctx context.Context, startTime string) (*model.OptimizedSchedule, error) {
	return model.BuildSchedule(strings.TrimSpace(startTime))
}
