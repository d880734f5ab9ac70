package model

import (
	"slices"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
)

// Coordinates is a geographic position
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Venue is a bookable location
type Venue struct {
	ID            types.VenueID
	OwnerID       types.UserID
	Name          string
	Description   string
	Type          string
	Address       string
	City          string
	Country       string
	Coordinates   *Coordinates
	CapacityMin   *int
	CapacityMax   *int
	HourlyRate    *float64
	DailyRate     *float64
	Currency      string
	Amenities     []string
	AverageRating float64
	TotalReviews  int
	IsActive      bool
	CreatedAt     time.Time
}

// Copy returns a deep copy of the venue
func (v *Venue) Copy() *Venue {
	if v == nil {
		return nil
	}
	c := *v
	c.Amenities = slices.Clone(v.Amenities)
	if v.Coordinates != nil {
		coords := *v.Coordinates
		c.Coordinates = &coords
	}
	if v.CapacityMin != nil {
		c.CapacityMin = intPtr(*v.CapacityMin)
	}
	if v.CapacityMax != nil {
		c.CapacityMax = intPtr(*v.CapacityMax)
	}
	if v.HourlyRate != nil {
		c.HourlyRate = floatPtr(*v.HourlyRate)
	}
	if v.DailyRate != nil {
		c.DailyRate = floatPtr(*v.DailyRate)
	}
	return &c
}

// MaxCapacity returns the maximum capacity or zero when unknown
func (v *Venue) MaxCapacity() int {
	if v.CapacityMax == nil {
		return 0
	}
	return *v.CapacityMax
}

// CreateVenueRequest holds the fields submitted to list a venue
type CreateVenueRequest struct {
	Name        string
	Description string
	Type        string
	Address     string
	City        string
	Country     string
	Coordinates *Coordinates
	CapacityMin *int
	CapacityMax *int
	HourlyRate  *float64
	DailyRate   *float64
	Currency    string
	Amenities   []string
}

// Validate checks required venue fields
func (r *CreateVenueRequest) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"type", r.Type},
		{"address", r.Address},
		{"city", r.City},
		{"country", r.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return NewMissingFieldError(f.name)
		}
	}
	return nil
}

// VenueFilter narrows a venue listing
type VenueFilter struct {
	City        string
	MinCapacity int
	Page        int
	Limit       int
}

// Match reports whether an active venue passes the filter
func (f *VenueFilter) Match(v *Venue) bool {
	if !v.IsActive {
		return false
	}
	if f.City != "" && !strings.EqualFold(v.City, f.City) {
		return false
	}
	if f.MinCapacity > 0 && v.MaxCapacity() < f.MinCapacity {
		return false
	}
	return true
}
