package model

import (
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// SeedData is the initial dataset loaded into an empty repository
type SeedData struct {
	Users   []SeedUser   `yaml:"users"`
	Vendors []SeedVendor `yaml:"vendors"`
	Venues  []SeedVenue  `yaml:"venues"`
	Events  []SeedEvent  `yaml:"events"`
}

// SeedUser is an account to create
type SeedUser struct {
	Key       string        `yaml:"key"` // Referenced by vendors and events
	Email     string        `yaml:"email"`
	Password  string        `yaml:"password"`
	FirstName string        `yaml:"first_name"`
	LastName  string        `yaml:"last_name"`
	Role      string        `yaml:"role"`
	Verified  bool          `yaml:"verified"`
	Timezone  string        `yaml:"timezone,omitempty"`
	Business  *SeedBusiness `yaml:"business,omitempty"`
}

// SeedBusiness is the business profile of a seeded user
type SeedBusiness struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
	Website     string `yaml:"website,omitempty"`
	Phone       string `yaml:"phone,omitempty"`
	Address     string `yaml:"address,omitempty"`
	City        string `yaml:"city,omitempty"`
	Country     string `yaml:"country,omitempty"`
}

// SeedVendor is a marketplace listing to create
type SeedVendor struct {
	Owner         string   `yaml:"owner"` // SeedUser key
	BusinessName  string   `yaml:"business_name"`
	Category      string   `yaml:"category"`
	Description   string   `yaml:"description"`
	ServiceAreas  []string `yaml:"service_areas"`
	StartingPrice float64  `yaml:"starting_price"`
	Currency      string   `yaml:"currency"`
	Rating        float64  `yaml:"rating"`
	Reviews       int      `yaml:"reviews"`
	ResponseHours float64  `yaml:"response_hours"`
	Verified      bool     `yaml:"verified"`
}

// SeedVenue is a venue to create
type SeedVenue struct {
	Owner       string   `yaml:"owner,omitempty"` // SeedUser key
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Address     string   `yaml:"address"`
	City        string   `yaml:"city"`
	Country     string   `yaml:"country"`
	Latitude    *float64 `yaml:"latitude,omitempty"`
	Longitude   *float64 `yaml:"longitude,omitempty"`
	CapacityMin int      `yaml:"capacity_min"`
	CapacityMax int      `yaml:"capacity_max"`
	HourlyRate  float64  `yaml:"hourly_rate"`
	DailyRate   float64  `yaml:"daily_rate"`
	Currency    string   `yaml:"currency"`
	Amenities   []string `yaml:"amenities"`
	Rating      float64  `yaml:"rating"`
	Reviews     int      `yaml:"reviews"`
}

// SeedEvent is an event to create, relative to the seeding time
type SeedEvent struct {
	Organizer     string     `yaml:"organizer"` // SeedUser key
	Title         string     `yaml:"title"`
	Description   string     `yaml:"description"`
	Type          string     `yaml:"type"`
	Category      string     `yaml:"category"`
	StartInDays   int        `yaml:"start_in_days"`
	DurationHours int        `yaml:"duration_hours"`
	Expected      int        `yaml:"expected"`
	Capacity      int        `yaml:"capacity"`
	Budget        float64    `yaml:"budget"`
	Currency      string     `yaml:"currency"`
	Status        string     `yaml:"status"`
	Visibility    string     `yaml:"visibility"`
	Venue         string     `yaml:"venue,omitempty"` // SeedVenue name booked for the event
	Tasks         []SeedTask `yaml:"tasks"`
}

// SeedTask is a dashboard task of a seeded event
type SeedTask struct {
	Title     string `yaml:"title"`
	DueInDays int    `yaml:"due_in_days"`
	Priority  string `yaml:"priority"`
	Completed bool   `yaml:"completed,omitempty"`
}

// Validate checks references and enum values
func (s *SeedData) Validate() error {
	users := map[string]bool{}
	for _, u := range s.Users {
		if u.Key == "" || u.Email == "" {
			return goerr.New("seed user requires key and email", goerr.V("email", u.Email))
		}
		if users[u.Key] {
			return goerr.New("duplicate seed user key", goerr.V("key", u.Key))
		}
		if !types.Role(u.Role).IsValid() {
			return goerr.New("invalid seed user role", goerr.V("key", u.Key), goerr.V("role", u.Role))
		}
		users[u.Key] = true
	}

	for _, v := range s.Vendors {
		if !users[v.Owner] {
			return goerr.New("seed vendor owner not found", goerr.V("vendor", v.BusinessName), goerr.V("owner", v.Owner))
		}
	}

	venues := map[string]bool{}
	for _, v := range s.Venues {
		if v.Name == "" {
			return goerr.New("seed venue requires name")
		}
		if v.Owner != "" && !users[v.Owner] {
			return goerr.New("seed venue owner not found", goerr.V("venue", v.Name), goerr.V("owner", v.Owner))
		}
		venues[v.Name] = true
	}

	for _, e := range s.Events {
		if !users[e.Organizer] {
			return goerr.New("seed event organizer not found", goerr.V("event", e.Title), goerr.V("organizer", e.Organizer))
		}
		if !types.EventStatus(e.Status).IsValid() {
			return goerr.New("invalid seed event status", goerr.V("event", e.Title), goerr.V("status", e.Status))
		}
		if e.Venue != "" && !venues[e.Venue] {
			return goerr.New("seed event venue not found", goerr.V("event", e.Title), goerr.V("venue", e.Venue))
		}
		for _, t := range e.Tasks {
			if !types.TaskPriority(t.Priority).IsValid() {
				return goerr.New("invalid seed task priority", goerr.V("task", t.Title), goerr.V("priority", t.Priority))
			}
		}
	}
	return nil
}
