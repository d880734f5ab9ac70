package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Booking implements BookingUseCase
type Booking struct {
	repo interfaces.Repository
}

// NewBooking creates a new Booking use case
func NewBooking(repo interfaces.Repository) BookingUseCase {
	return &Booking{repo: repo}
}

// organizerBookings collects the bookings of every event the organizer owns
func organizerBookings(ctx context.Context, repo interfaces.Repository, organizerID types.UserID) ([]*model.Booking, map[types.EventID]*model.Event, error) {
	events, err := repo.ListEventsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to list events", goerr.V("organizerID", organizerID))
	}

	byID := make(map[types.EventID]*model.Event, len(events))
	var bookings []*model.Booking
	for _, event := range events {
		byID[event.ID] = event
		list, err := repo.ListBookingsByEvent(ctx, event.ID)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to list bookings", goerr.V("eventID", event.ID))
		}
		bookings = append(bookings, list...)
	}
	return bookings, byID, nil
}

// ownedBooking loads a booking and hides it unless it belongs to one of the organizer's events
func ownedBooking(ctx context.Context, repo interfaces.Repository, organizerID types.UserID, id types.BookingID) (*model.Booking, *model.Event, error) {
	if id == "" {
		return nil, nil, goerr.Wrap(model.ErrBookingNotFound, "booking ID is empty")
	}
	booking, err := repo.GetBooking(ctx, id)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get booking", goerr.V("bookingID", id))
	}

	event, err := repo.GetEvent(ctx, booking.EventID)
	if err != nil {
		if model.HasTag(err, model.ErrTagEventNotFound) {
			return nil, nil, goerr.Wrap(model.ErrBookingNotFound, "booking event is gone",
				goerr.V("bookingID", id), goerr.V("eventID", booking.EventID))
		}
		return nil, nil, goerr.Wrap(err, "failed to get booking event", goerr.V("bookingID", id))
	}
	if event.OrganizerID != organizerID {
		return nil, nil, goerr.Wrap(model.ErrBookingNotFound, "booking owned by another organizer",
			goerr.V("bookingID", id), goerr.V("organizerID", organizerID))
	}
	return booking, event, nil
}

// ListBookings returns the bookings of the organizer's events, newest first
func (u *Booking) ListBookings(ctx context.Context, organizerID types.UserID, filter *model.BookingFilter) (*model.Page[*model.Booking], error) {
	if filter == nil {
		filter = &model.BookingFilter{}
	}

	bookings, _, err := organizerBookings(ctx, u.repo, organizerID)
	if err != nil {
		return nil, err
	}

	var matched []*model.Booking
	for _, b := range bookings {
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		if filter.EventID != "" && string(b.EventID) != filter.EventID {
			continue
		}
		matched = append(matched, b)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := model.Paginate(matched, filter.Page, filter.Limit)
	return &page, nil
}

// CreateBooking opens an inquiry with a vendor or venue for one of the organizer's events
func (u *Booking) CreateBooking(ctx context.Context, organizerID types.UserID, req *model.CreateBookingRequest) (*model.Booking, error) {
	if req == nil {
		return nil, model.NewValidationError("No data provided")
	}
	if strings.TrimSpace(req.EventID) == "" {
		return nil, model.NewMissingFieldError("eventId")
	}
	if req.ServiceDetails == nil {
		return nil, model.NewMissingFieldError("serviceDetails")
	}

	event, err := ownedEvent(ctx, u.repo, organizerID, types.EventID(req.EventID))
	if err != nil {
		if model.HasTag(err, model.ErrTagEventNotFound) {
			return nil, goerr.Wrap(
				goerr.New("Event not found or access denied", goerr.T(model.ErrTagEventNotFound)),
				"booking event is not accessible", goerr.V("eventID", req.EventID))
		}
		return nil, err
	}

	booking := &model.Booking{
		ID:             types.NewBookingID(),
		EventID:        event.ID,
		ServiceName:    req.ServiceDetails.ServiceName,
		Specifications: req.ServiceDetails.Specifications,
		Status:         types.BookingStatusInquiry,
		Currency:       "USD",
		Message:        req.Message,
	}
	if booking.Specifications == nil {
		booking.Specifications = map[string]any{}
	}

	if req.VendorID != "" {
		vendor, err := u.repo.GetVendor(ctx, types.VendorID(req.VendorID))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get booked vendor", goerr.V("vendorID", req.VendorID))
		}
		if !vendor.IsActive {
			return nil, goerr.Wrap(model.ErrVendorNotFound, "booked vendor is inactive", goerr.V("vendorID", req.VendorID))
		}
		booking.VendorID = vendor.ID
	}
	if req.VenueID != "" {
		venue, err := activeVenue(ctx, u.repo, types.VenueID(req.VenueID))
		if err != nil {
			return nil, err
		}
		booking.VenueID = venue.ID
	}
	if booking.VendorID == "" && booking.VenueID == "" {
		return nil, model.NewValidationError("Either vendorId or venueId is required")
	}

	booking.ServiceDate = event.StartDate
	if req.ServiceDate != "" {
		date, err := model.ParseTimestamp(req.ServiceDate)
		if err != nil {
			return nil, model.NewValidationError("Invalid service date format", goerr.V("serviceDate", req.ServiceDate))
		}
		booking.ServiceDate = date
	}
	if t, err := model.ParseTimestamp(req.StartTime); err == nil {
		booking.StartTime = &t
	}
	if t, err := model.ParseTimestamp(req.EndTime); err == nil {
		booking.EndTime = &t
	}

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if err := u.repo.PutBooking(ctx, booking); err != nil {
		return nil, goerr.Wrap(err, "failed to save booking")
	}

	ctxlog.From(ctx).Info("Created booking",
		"bookingID", booking.ID,
		"eventID", booking.EventID,
		"vendorID", booking.VendorID,
		"venueID", booking.VenueID,
	)
	return booking, nil
}

// GetBooking returns a booking of one of the organizer's events
func (u *Booking) GetBooking(ctx context.Context, organizerID types.UserID, id types.BookingID) (*model.Booking, error) {
	booking, _, err := ownedBooking(ctx, u.repo, organizerID, id)
	return booking, err
}

// UpdateBookingStatus moves a booking through its negotiation states
func (u *Booking) UpdateBookingStatus(ctx context.Context, organizerID types.UserID, id types.BookingID, req *model.UpdateBookingStatusRequest) (*model.Booking, error) {
	if req == nil || strings.TrimSpace(req.Status) == "" {
		return nil, model.NewValidationError("Status is required")
	}

	booking, _, err := ownedBooking(ctx, u.repo, organizerID, id)
	if err != nil {
		return nil, err
	}

	prev := booking.Status
	if err := booking.UpdateStatus(types.BookingStatus(req.Status), req.QuotedPrice, req.FinalPrice); err != nil {
		return nil, err
	}
	if err := u.repo.PutBooking(ctx, booking); err != nil {
		return nil, goerr.Wrap(err, "failed to update booking", goerr.V("bookingID", id))
	}

	ctxlog.From(ctx).Info("Updated booking status",
		"bookingID", id,
		"from", prev,
		"to", booking.Status,
	)
	return booking, nil
}
