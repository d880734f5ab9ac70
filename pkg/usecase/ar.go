package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	defaultLayoutAttendees = 100
	defaultLayoutStyle     = "theater"
	defaultLayoutEventType = "conference"

	// maxLayoutAttendees bounds the furniture positions generated per preview
	maxLayoutAttendees = 100000
)

// AR implements ARUseCase
type AR struct {
	repo interfaces.Repository
}

// NewAR creates a new AR use case
func NewAR(repo interfaces.Repository) ARUseCase {
	return &AR{repo: repo}
}

// VenueARData returns the 3D scene descriptor of an active venue
func (u *AR) VenueARData(ctx context.Context, venueID types.VenueID) (*model.VenueARData, error) {
	venue, err := activeVenue(ctx, u.repo, venueID)
	if err != nil {
		return nil, err
	}
	return model.BuildVenueARData(venue), nil
}

// LayoutPreview furnishes a venue for the requested attendance and style
func (u *AR) LayoutPreview(ctx context.Context, venueID types.VenueID, req model.LayoutRequest) (*model.LayoutPreview, error) {
	venue, err := activeVenue(ctx, u.repo, venueID)
	if err != nil {
		return nil, err
	}

	if req.AttendeeCount <= 0 {
		req.AttendeeCount = defaultLayoutAttendees
	}
	if req.AttendeeCount > maxLayoutAttendees {
		return nil, model.NewValidationError(fmt.Sprintf("Attendee count must not exceed %d", maxLayoutAttendees),
			goerr.V("attendeeCount", req.AttendeeCount))
	}
	if req.EventType == "" {
		req.EventType = defaultLayoutEventType
	}
	req.LayoutStyle = strings.ToLower(strings.TrimSpace(req.LayoutStyle))
	if req.LayoutStyle == "" {
		req.LayoutStyle = defaultLayoutStyle
	}
	return model.BuildLayoutPreview(venue, req), nil
}

// VirtualTour returns the guided tour of an active venue
func (u *AR) VirtualTour(ctx context.Context, venueID types.VenueID) (*model.VirtualTour, error) {
	venue, err := activeVenue(ctx, u.repo, venueID)
	if err != nil {
		return nil, err
	}
	return model.BuildVirtualTour(venue), nil
}

// OptimizeCapacity analyses a target attendance against a venue
func (u *AR) OptimizeCapacity(ctx context.Context, req model.CapacityRequest) (*model.CapacityOptimization, error) {
	if strings.TrimSpace(req.VenueID) == "" {
		return nil, model.NewValidationError("Venue ID is required")
	}
	venue, err := activeVenue(ctx, u.repo, types.VenueID(req.VenueID))
	if err != nil {
		return nil, err
	}

	if req.TargetCapacity <= 0 {
		req.TargetCapacity = defaultLayoutAttendees
	}
	if req.EventType == "" {
		req.EventType = defaultLayoutEventType
	}
	return model.OptimizeCapacity(venue, req), nil
}
