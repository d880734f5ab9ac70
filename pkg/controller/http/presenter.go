package http

import (
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/usecase"
)

type paginationJSON struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func toPagination[T any](p *model.Page[T]) paginationJSON {
	return paginationJSON{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: p.TotalPages}
}

func mapSlice[T, U any](items []T, f func(T) U) []U {
	out := make([]U, 0, len(items))
	for _, item := range items {
		out = append(out, f(item))
	}
	return out
}

// User

type userProfileJSON struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

type businessProfileJSON struct {
	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
	Description  string `json:"description"`
	Website      string `json:"website"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

type notificationsJSON struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

type preferencesJSON struct {
	Language      string            `json:"language"`
	Currency      string            `json:"currency"`
	Timezone      string            `json:"timezone"`
	Notifications notificationsJSON `json:"notifications"`
}

type userJSON struct {
	UserID          string               `json:"userId"`
	Email           string               `json:"email"`
	Profile         userProfileJSON      `json:"profile"`
	Role            string               `json:"role"`
	IsVerified      bool                 `json:"isVerified"`
	IsActive        bool                 `json:"isActive"`
	BusinessProfile *businessProfileJSON `json:"businessProfile,omitempty"`
	Preferences     preferencesJSON      `json:"preferences"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func toUserJSON(u *model.User) *userJSON {
	out := &userJSON{
		UserID: u.ID.String(),
		Email:  u.Email,
		Profile: userProfileJSON{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Avatar:    u.Avatar,
		},
		Role:       u.Role.String(),
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
		Preferences: preferencesJSON{
			Language: u.Preferences.Language,
			Currency: u.Preferences.Currency,
			Timezone: u.Preferences.Timezone,
			Notifications: notificationsJSON{
				Email: u.Preferences.Notifications.Email,
				SMS:   u.Preferences.Notifications.SMS,
			},
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if bp := u.BusinessProfile; bp != nil {
		out.BusinessProfile = &businessProfileJSON{
			BusinessName: bp.BusinessName,
			BusinessType: bp.BusinessType,
			Description:  bp.Description,
			Website:      bp.Website,
			Phone:        bp.Phone,
			Address:      bp.Address,
			City:         bp.City,
			Country:      bp.Country,
		}
	}
	return out
}

type tokensJSON struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type authResultJSON struct {
	User   *userJSON  `json:"user"`
	Tokens tokensJSON `json:"tokens"`
}

func toAuthResultJSON(r *model.AuthResult) *authResultJSON {
	return &authResultJSON{
		User:   toUserJSON(r.User),
		Tokens: tokensJSON{AccessToken: r.AccessToken, ExpiresIn: r.ExpiresIn},
	}
}

// Event

type eventBasicInfoJSON struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

type eventScheduleJSON struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Timezone  string    `json:"timezone"`
}

type eventAttendeesJSON struct {
	ExpectedCount *int `json:"expectedCount"`
	Capacity      *int `json:"capacity"`
}

type eventBudgetJSON struct {
	TotalBudget *float64 `json:"totalBudget"`
	Currency    string   `json:"currency"`
}

type eventJSON struct {
	EventID     string             `json:"eventId"`
	OrganizerID string             `json:"organizerId"`
	BasicInfo   eventBasicInfoJSON `json:"basicInfo"`
	Schedule    eventScheduleJSON  `json:"schedule"`
	Attendees   eventAttendeesJSON `json:"attendees"`
	Budget      eventBudgetJSON    `json:"budget"`
	Status      string             `json:"status"`
	Visibility  string             `json:"visibility"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toEventJSON(e *model.Event) *eventJSON {
	return &eventJSON{
		EventID:     e.ID.String(),
		OrganizerID: e.OrganizerID.String(),
		BasicInfo: eventBasicInfoJSON{
			Title:       e.Title,
			Description: e.Description,
			Type:        e.Type,
			Category:    e.Category,
		},
		Schedule: eventScheduleJSON{
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
			Timezone:  e.Timezone,
		},
		Attendees: eventAttendeesJSON{
			ExpectedCount: e.ExpectedAttendees,
			Capacity:      e.Capacity,
		},
		Budget: eventBudgetJSON{
			TotalBudget: e.TotalBudget,
			Currency:    e.Currency,
		},
		Status:     string(e.Status),
		Visibility: string(e.Visibility),
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// Task

type taskJSON struct {
	TaskID      string     `json:"taskId"`
	EventID     string     `json:"eventId"`
	Title       string     `json:"title"`
	DueDate     string     `json:"dueDate"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func toTaskJSON(t *model.Task) *taskJSON {
	return &taskJSON{
		TaskID:      t.ID.String(),
		EventID:     t.EventID.String(),
		Title:       t.Title,
		DueDate:     t.DueDate.Format("2006-01-02"),
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

// Vendor

type vendorProfileJSON struct {
	BusinessName string   `json:"businessName"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	ServiceAreas []string `json:"serviceAreas"`
	Website      string   `json:"website,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Address      string   `json:"address,omitempty"`
}

type ratingsJSON struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

type vendorPricingJSON struct {
	StartingPrice *float64 `json:"startingPrice"`
	Currency      string   `json:"currency"`
}

type vendorJSON struct {
	VendorID        string            `json:"vendorId"`
	BusinessProfile vendorProfileJSON `json:"businessProfile"`
	Ratings         ratingsJSON       `json:"ratings"`
	Pricing         vendorPricingJSON `json:"pricing"`
	ResponseTime    float64           `json:"responseTime"`
	IsVerified      bool              `json:"isVerified"`
	IsActive        bool              `json:"isActive"`
}

func toVendorJSON(v *model.Vendor) *vendorJSON {
	areas := v.ServiceAreas
	if areas == nil {
		areas = []string{}
	}
	return &vendorJSON{
		VendorID: v.ID.String(),
		BusinessProfile: vendorProfileJSON{
			BusinessName: v.BusinessName,
			Description:  v.Description,
			Category:     v.Category,
			ServiceAreas: areas,
		},
		Ratings: ratingsJSON{
			AverageRating: v.AverageRating,
			TotalReviews:  v.TotalReviews,
		},
		Pricing: vendorPricingJSON{
			StartingPrice: v.StartingPrice,
			Currency:      v.Currency,
		},
		ResponseTime: v.ResponseTimeHours,
		IsVerified:   v.IsVerified,
		IsActive:     v.IsActive,
	}
}

func toVendorDetailJSON(d *usecase.VendorDetail) *vendorJSON {
	out := toVendorJSON(d.Vendor)
	if d.Contact != nil {
		out.BusinessProfile.Website = d.Contact.Website
		out.BusinessProfile.Phone = d.Contact.Phone
		out.BusinessProfile.Address = d.Contact.Address
	}
	return out
}

type categoryJSON struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Slug  string `json:"slug"`
}

type sortOptionJSON struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type appliedFiltersJSON struct {
	Query     string   `json:"query"`
	Category  string   `json:"category"`
	Location  string   `json:"location"`
	MinRating *float64 `json:"minRating"`
}

type availableFiltersJSON struct {
	Categories  []string         `json:"categories"`
	SortOptions []sortOptionJSON `json:"sortOptions"`
}

type vendorFiltersJSON struct {
	AppliedFilters   appliedFiltersJSON   `json:"appliedFilters"`
	AvailableFilters availableFiltersJSON `json:"availableFilters"`
}

type vendorSearchJSON struct {
	Vendors    []*vendorJSON     `json:"vendors"`
	Pagination paginationJSON    `json:"pagination"`
	Filters    vendorFiltersJSON `json:"filters"`
}

func toVendorSearchJSON(r *usecase.VendorSearchResult) *vendorSearchJSON {
	categories := r.Categories
	if categories == nil {
		categories = []string{}
	}
	options := make([]sortOptionJSON, 0, len(model.VendorSortOptions))
	for _, opt := range model.VendorSortOptions {
		options = append(options, sortOptionJSON{Value: string(opt.Value), Label: opt.Label})
	}
	return &vendorSearchJSON{
		Vendors:    mapSlice(r.Page.Items, toVendorJSON),
		Pagination: toPagination(&r.Page),
		Filters: vendorFiltersJSON{
			AppliedFilters: appliedFiltersJSON{
				Query:     r.Search.Query,
				Category:  r.Search.Category,
				Location:  r.Search.Location,
				MinRating: r.Search.MinRating,
			},
			AvailableFilters: availableFiltersJSON{
				Categories:  categories,
				SortOptions: options,
			},
		},
	}
}

// Venue

type coordinatesJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type venueLocationJSON struct {
	Address     string           `json:"address"`
	City        string           `json:"city"`
	Country     string           `json:"country"`
	Coordinates *coordinatesJSON `json:"coordinates,omitempty"`
}

type venueCapacityJSON struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

type venuePricingJSON struct {
	HourlyRate *float64 `json:"hourlyRate"`
	DailyRate  *float64 `json:"dailyRate"`
	Currency   string   `json:"currency"`
}

type venueJSON struct {
	VenueID     string            `json:"venueId"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Type        string            `json:"type"`
	Location    venueLocationJSON `json:"location"`
	Capacity    venueCapacityJSON `json:"capacity"`
	Pricing     venuePricingJSON  `json:"pricing"`
	Amenities   []string          `json:"amenities"`
	Ratings     ratingsJSON       `json:"ratings"`
	IsActive    bool              `json:"isActive"`
}

func toVenueJSON(v *model.Venue) *venueJSON {
	amenities := v.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	out := &venueJSON{
		VenueID:     v.ID.String(),
		Name:        v.Name,
		Description: v.Description,
		Type:        v.Type,
		Location: venueLocationJSON{
			Address: v.Address,
			City:    v.City,
			Country: v.Country,
		},
		Capacity: venueCapacityJSON{Min: v.CapacityMin, Max: v.CapacityMax},
		Pricing: venuePricingJSON{
			HourlyRate: v.HourlyRate,
			DailyRate:  v.DailyRate,
			Currency:   v.Currency,
		},
		Amenities: amenities,
		Ratings: ratingsJSON{
			AverageRating: v.AverageRating,
			TotalReviews:  v.TotalReviews,
		},
		IsActive: v.IsActive,
	}
	if c := v.Coordinates; c != nil {
		out.Location.Coordinates = &coordinatesJSON{Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return out
}

// Booking

type serviceDetailsJSON struct {
	ServiceName    string         `json:"serviceName"`
	Specifications map[string]any `json:"specifications"`
}

type bookingScheduleJSON struct {
	ServiceDate time.Time  `json:"serviceDate"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

type bookingPricingJSON struct {
	QuotedPrice *float64 `json:"quotedPrice"`
	FinalPrice  *float64 `json:"finalPrice"`
	Currency    string   `json:"currency"`
}

type bookingJSON struct {
	BookingID      string              `json:"bookingId"`
	EventID        string              `json:"eventId"`
	VendorID       *string             `json:"vendorId"`
	VenueID        *string             `json:"venueId"`
	ServiceDetails serviceDetailsJSON  `json:"serviceDetails"`
	Schedule       bookingScheduleJSON `json:"schedule"`
	Pricing        bookingPricingJSON  `json:"pricing"`
	Status         string              `json:"status"`
	Message        string              `json:"message"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func toBookingJSON(b *model.Booking) *bookingJSON {
	specs := b.Specifications
	if specs == nil {
		specs = map[string]any{}
	}
	return &bookingJSON{
		BookingID: b.ID.String(),
		EventID:   b.EventID.String(),
		VendorID:  optionalID(b.VendorID.String()),
		VenueID:   optionalID(b.VenueID.String()),
		ServiceDetails: serviceDetailsJSON{
			ServiceName:    b.ServiceName,
			Specifications: specs,
		},
		Schedule: bookingScheduleJSON{
			ServiceDate: b.ServiceDate,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
		},
		Pricing: bookingPricingJSON{
			QuotedPrice: b.QuotedPrice,
			FinalPrice:  b.FinalPrice,
			Currency:    b.Currency,
		},
		Status:    string(b.Status),
		Message:   b.Message,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// Payment

type paymentRecordJSON struct {
	BookingID   string    `json:"bookingId"`
	EventTitle  string    `json:"eventTitle"`
	ServiceName string    `json:"serviceName"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	PaymentDate time.Time `json:"paymentDate"`
	VendorName  *string   `json:"vendorName"`
	VenueName   *string   `json:"venueName"`
}

func toPaymentRecordJSON(p *model.PaymentRecord) *paymentRecordJSON {
	return &paymentRecordJSON{
		BookingID:   p.BookingID.String(),
		EventTitle:  p.EventTitle,
		ServiceName: p.ServiceName,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      string(p.Status),
		PaymentDate: p.PaymentDate,
		VendorName:  optionalID(p.VendorName),
		VenueName:   optionalID(p.VenueName),
	}
}

// Live

type alertJSON struct {
	AlertID     string     `json:"alertId"`
	EventID     string     `json:"eventId"`
	Type        string     `json:"type"`
	Severity    string     `json:"severity"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Category    string     `json:"category"`
	Recipients  []string   `json:"recipients"`
	Actions     []any      `json:"actions"`
	AutoResolve bool       `json:"autoResolve"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}

func toAlertJSON(a *model.Alert) *alertJSON {
	return &alertJSON{
		AlertID:     a.ID.String(),
		EventID:     a.EventID.String(),
		Type:        a.Type,
		Severity:    a.Severity,
		Title:       a.Title,
		Message:     a.Message,
		Category:    a.Category,
		Recipients:  a.Recipients,
		Actions:     a.Actions,
		AutoResolve: a.AutoResolve,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		ResolvedAt:  a.ResolvedAt,
	}
}
