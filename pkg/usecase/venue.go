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

// Venue implements VenueUseCase
type Venue struct {
	repo interfaces.Repository
}

// NewVenue creates a new Venue use case
func NewVenue(repo interfaces.Repository) VenueUseCase {
	return &Venue{repo: repo}
}

// activeVenue loads a venue that is open for bookings
func activeVenue(ctx context.Context, repo interfaces.Repository, id types.VenueID) (*model.Venue, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrVenueNotFound, "venue ID is empty")
	}
	venue, err := repo.GetVenue(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get venue", goerr.V("venueID", id))
	}
	if !venue.IsActive {
		return nil, goerr.Wrap(model.ErrVenueNotFound, "venue is inactive", goerr.V("venueID", id))
	}
	return venue, nil
}

// ListVenues returns active venues matching the filter
func (u *Venue) ListVenues(ctx context.Context, filter *model.VenueFilter) (*model.Page[*model.Venue], error) {
	if filter == nil {
		filter = &model.VenueFilter{}
	}

	venues, err := u.repo.ListVenues(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list venues")
	}

	var matched []*model.Venue
	for _, v := range venues {
		if filter.Match(v) {
			matched = append(matched, v)
		}
	}

	page := model.Paginate(matched, filter.Page, filter.Limit)
	return &page, nil
}

// GetVenue returns an active venue
func (u *Venue) GetVenue(ctx context.Context, id types.VenueID) (*model.Venue, error) {
	return activeVenue(ctx, u.repo, id)
}

// CreateVenue lists a venue owned by the caller
func (u *Venue) CreateVenue(ctx context.Context, caller *model.AuthContext, req *model.CreateVenueRequest) (*model.Venue, error) {
	if caller == nil || caller.Role != types.RoleVenueOwner {
		return nil, goerr.New("Only venue owners can create venues", goerr.T(model.ErrTagForbidden))
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	venue := &model.Venue{
		ID:          types.NewVenueID(),
		OwnerID:     caller.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Type:        req.Type,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Coordinates: req.Coordinates,
		CapacityMin: req.CapacityMin,
		CapacityMax: req.CapacityMax,
		HourlyRate:  req.HourlyRate,
		DailyRate:   req.DailyRate,
		Currency:    "USD",
		Amenities:   req.Amenities,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if req.Currency != "" {
		venue.Currency = strings.ToUpper(req.Currency)
	}
	if venue.Amenities == nil {
		venue.Amenities = []string{}
	}

	if err := u.repo.PutVenue(ctx, venue); err != nil {
		return nil, goerr.Wrap(err, "failed to save venue")
	}

	ctxlog.From(ctx).Info("Created venue",
		"venueID", venue.ID,
		"ownerID", caller.UserID,
	)
	return venue, nil
}
