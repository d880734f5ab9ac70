package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DesignRequest describes the event an organizer wants design ideas for
type DesignRequest struct {
	EventType       string  `json:"eventType"`
	AttendeeCount   int     `json:"attendeeCount"`
	Budget          float64 `json:"budget"`
	Vibe            string  `json:"vibe"`
	Currency        string  `json:"currency,omitempty"`
	AdditionalNotes string  `json:"additionalNotes,omitempty"`
}

// DesignRecommendation is a complete event design proposal
type DesignRecommendation struct {
	Theme                 DesignTheme            `json:"theme"`
	ColorPalette          ColorPalette           `json:"colorPalette"`
	Layout                DesignLayout           `json:"layout"`
	DecorElements         []DecorElement         `json:"decorElements"`
	Timeline              []PlanningPhase        `json:"timeline"`
	BudgetBreakdown       []BudgetItem           `json:"budgetBreakdown"`
	VendorRecommendations []VendorRecommendation `json:"vendorRecommendations"`
}

type DesignTheme struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

type ColorPalette struct {
	Primary     string `json:"primary"`
	Secondary   string `json:"secondary"`
	Accent      string `json:"accent"`
	Neutral     string `json:"neutral"`
	Description string `json:"description"`
}

type DesignLayout struct {
	Style       string   `json:"style"`
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions"`
}

type DecorElement struct {
	Category    string   `json:"category"`
	Items       []string `json:"items"`
	Description string   `json:"description"`
}

type PlanningPhase struct {
	Phase     string   `json:"phase"`
	Timeframe string   `json:"timeframe"`
	Tasks     []string `json:"tasks"`
}

type BudgetItem struct {
	Category      string  `json:"category"`
	Percentage    float64 `json:"percentage"`
	EstimatedCost float64 `json:"estimatedCost"`
	Description   string  `json:"description"`
}

type VendorRecommendation struct {
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Validate checks that an externally produced design is usable
func (d *DesignRecommendation) Validate() error {
	if strings.TrimSpace(d.Theme.Name) == "" {
		return goerr.New("theme name is missing")
	}
	if d.Layout.Style == "" {
		return goerr.New("layout style is missing")
	}
	if len(d.BudgetBreakdown) == 0 {
		return goerr.New("budget breakdown is missing")
	}
	return nil
}

var designThemes = map[string]map[string]DesignTheme{
	"wedding": {
		"elegant": {
			Name:        "Timeless Elegance",
			Description: "Classic sophistication with modern touches, featuring clean lines and luxurious details",
			Keywords:    []string{"elegant", "timeless", "sophisticated", "romantic"},
		},
		"rustic": {
			Name:        "Rustic Romance",
			Description: "Charming countryside aesthetic with natural elements and warm, inviting atmosphere",
			Keywords:    []string{"rustic", "natural", "cozy", "romantic"},
		},
	},
	"conference": {
		"professional": {
			Name:        "Modern Professional",
			Description: "Clean, contemporary design that promotes focus and networking",
			Keywords:    []string{"professional", "modern", "clean", "focused"},
		},
		"innovative": {
			Name:        "Innovation Hub",
			Description: "Cutting-edge design with tech-forward elements and dynamic spaces",
			Keywords:    []string{"innovative", "tech", "dynamic", "forward-thinking"},
		},
	},
}

var colorPalettes = map[string]ColorPalette{
	"elegant": {
		Primary: "#2C3E50", Secondary: "#ECF0F1", Accent: "#E74C3C", Neutral: "#BDC3C7",
		Description: "Sophisticated navy and silver with elegant red accents",
	},
	"rustic": {
		Primary: "#8B4513", Secondary: "#F5DEB3", Accent: "#228B22", Neutral: "#D2B48C",
		Description: "Warm earth tones with natural green accents",
	},
	"professional": {
		Primary: "#34495E", Secondary: "#FFFFFF", Accent: "#3498DB", Neutral: "#95A5A6",
		Description: "Clean corporate colors with professional blue accents",
	},
}

func themeKey(vibe string) string {
	switch {
	case strings.Contains(vibe, "elegant"):
		return "elegant"
	case strings.Contains(vibe, "rustic"):
		return "rustic"
	default:
		return "professional"
	}
}

// RuleBasedDesign produces a design from fixed themes and budget ratios
func RuleBasedDesign(req *DesignRequest) *DesignRecommendation {
	eventType := strings.ToLower(req.EventType)
	vibe := strings.ToLower(req.Vibe)
	key := themeKey(vibe)

	theme, ok := designThemes[eventType][key]
	if !ok {
		theme = designThemes["conference"]["professional"]
	}
	theme.Keywords = append([]string(nil), theme.Keywords...)

	style := "Theater"
	if eventType == "wedding" {
		style = "Banquet"
	}

	return &DesignRecommendation{
		Theme:        theme,
		ColorPalette: colorPalettes[key],
		Layout: DesignLayout{
			Style:       style,
			Description: fmt.Sprintf("Optimized layout for %d attendees with focus on %s atmosphere", req.AttendeeCount, vibe),
			Suggestions: []string{
				"Create clear sight lines to main focal point",
				"Ensure adequate space for networking/mingling",
				"Position key elements for optimal flow",
			},
		},
		DecorElements: []DecorElement{
			{
				Category:    "Lighting",
				Items:       []string{"Ambient uplighting", "Accent spotlights", "String lights"},
				Description: "Layered lighting to create the perfect atmosphere",
			},
			{
				Category:    "Centerpieces",
				Items:       []string{"Floral arrangements", "Candles", "Decorative elements"},
				Description: "Eye-catching centerpieces that complement the theme",
			},
		},
		Timeline: []PlanningPhase{
			{Phase: "Planning Phase", Timeframe: "8-12 weeks before", Tasks: []string{"Finalize venue", "Book key vendors", "Send invitations"}},
			{Phase: "Preparation Phase", Timeframe: "2-4 weeks before", Tasks: []string{"Confirm details", "Final headcount", "Setup timeline"}},
		},
		BudgetBreakdown: []BudgetItem{
			{Category: "Venue", Percentage: 40, EstimatedCost: req.Budget * 0.4, Description: "Venue rental and basic amenities"},
			{Category: "Catering", Percentage: 30, EstimatedCost: req.Budget * 0.3, Description: "Food and beverage service"},
			{Category: "Decor & Entertainment", Percentage: 20, EstimatedCost: req.Budget * 0.2, Description: "Decorations, music, and entertainment"},
			{Category: "Miscellaneous", Percentage: 10, EstimatedCost: req.Budget * 0.1, Description: "Photography, transportation, and contingency"},
		},
		VendorRecommendations: []VendorRecommendation{
			{Category: "Catering", Priority: "high", Description: "Look for caterers with experience in your event type and dietary accommodations"},
			{Category: "Photography", Priority: "high", Description: "Choose photographers whose style matches your event aesthetic"},
			{Category: "Entertainment", Priority: "medium", Description: "Select entertainment that fits your audience and venue acoustics"},
		},
	}
}

// DesignResult is the outcome of a design request
type DesignResult struct {
	Recommendation *DesignRecommendation
	GeneratedAt    time.Time
	Note           string // Set when the rule-based fallback was used after an LLM failure
	Input          DesignRequest
}

// VendorGuidance advises on one vendor category
type VendorGuidance struct {
	Category        string           `json:"category"`
	Priority        string           `json:"priority"`
	Reasoning       string           `json:"reasoning"`
	SuggestedBudget string           `json:"suggestedBudget"`
	BudgetRange     *BudgetRange     `json:"budgetRange,omitempty"`
	KeyQuestions    []string         `json:"keyQuestions"`
	MatchingVendors []VendorSnapshot `json:"matchingVendors"`

	marketplaceCategory string
	minShare, maxShare  float64
}

// BudgetRange is a suggested spend in the event currency
type BudgetRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// VendorSnapshot is a short marketplace reference
type VendorSnapshot struct {
	VendorID      string  `json:"vendorId"`
	BusinessName  string  `json:"businessName"`
	AverageRating float64 `json:"averageRating"`
	StartingPrice float64 `json:"startingPrice"`
	Currency      string  `json:"currency"`
}

const maxMatchingVendors = 3

// BuildVendorGuidance produces category guidance with matching marketplace
// vendors. When event is non-nil and has a budget, budget ranges are added.
func BuildVendorGuidance(event *Event, vendors []*Vendor) []VendorGuidance {
	guidance := []VendorGuidance{
		{
			Category:        "Photography",
			Priority:        "high",
			Reasoning:       "Professional photography is essential for capturing memories",
			SuggestedBudget: "10-15% of total budget",
			KeyQuestions: []string{
				"What photography style do you prefer?",
				"Do you need both ceremony and reception coverage?",
				"How many edited photos do you expect?",
			},
			marketplaceCategory: "photography",
			minShare:            0.10,
			maxShare:            0.15,
		},
		{
			Category:        "Catering",
			Priority:        "high",
			Reasoning:       "Food quality significantly impacts guest satisfaction",
			SuggestedBudget: "25-35% of total budget",
			KeyQuestions: []string{
				"Any dietary restrictions to accommodate?",
				"Preferred service style (buffet, plated, family-style)?",
				"Need bar service included?",
			},
			marketplaceCategory: "catering",
			minShare:            0.25,
			maxShare:            0.35,
		},
		{
			Category:        "Entertainment",
			Priority:        "medium",
			Reasoning:       "Entertainment sets the mood and keeps guests engaged",
			SuggestedBudget: "8-12% of total budget",
			KeyQuestions: []string{
				"Live band or DJ preference?",
				"Any specific music genres or songs?",
				"Need microphone for speeches?",
			},
			marketplaceCategory: "entertainment",
			minShare:            0.08,
			maxShare:            0.12,
		},
	}

	ranked := make([]*Vendor, 0, len(vendors))
	for _, v := range vendors {
		if v.IsActive {
			ranked = append(ranked, v)
		}
	}
	SortVendors(ranked, VendorSortRatingDesc)

	for i := range guidance {
		g := &guidance[i]
		g.MatchingVendors = []VendorSnapshot{}
		for _, v := range ranked {
			if !strings.EqualFold(v.Category, g.marketplaceCategory) {
				continue
			}
			g.MatchingVendors = append(g.MatchingVendors, VendorSnapshot{
				VendorID:      v.ID.String(),
				BusinessName:  v.BusinessName,
				AverageRating: v.AverageRating,
				StartingPrice: v.Price(),
				Currency:      v.Currency,
			})
			if len(g.MatchingVendors) == maxMatchingVendors {
				break
			}
		}
		if event != nil && event.Budget() > 0 {
			g.BudgetRange = &BudgetRange{
				Min:      event.Budget() * g.minShare,
				Max:      event.Budget() * g.maxShare,
				Currency: event.Currency,
			}
		}
	}
	return guidance
}

// ScheduleSlot is one block of an event-day timeline
type ScheduleSlot struct {
	Time        string `json:"time"`
	Duration    int    `json:"duration"` // minutes
	Activity    string `json:"activity"`
	Description string `json:"description"`
}

// OptimizedSchedule is a suggested event-day timeline
type OptimizedSchedule struct {
	Timeline          []ScheduleSlot `json:"timeline"`
	OptimizationNotes []string       `json:"optimizationNotes"`
}

const defaultScheduleStart = "17:00"

// BuildSchedule lays the standard timeline out from startTime (HH:MM).
// An empty startTime starts at 17:00.
func BuildSchedule(startTime string) (*OptimizedSchedule, error) {
	if startTime == "" {
		startTime = defaultScheduleStart
	}
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return nil, NewValidationError("Invalid start time format", goerr.V("startTime", startTime))
	}

	slots := []ScheduleSlot{
		{Duration: 30, Activity: "Guest Arrival & Cocktails", Description: "Welcome guests with signature cocktails and light appetizers"},
		{Duration: 45, Activity: "Main Event/Ceremony", Description: "Core event programming with optimal timing for guest attention"},
		{Duration: 60, Activity: "Dinner Service", Description: "Seated dinner with entertainment between courses"},
		{Duration: 90, Activity: "Entertainment & Dancing", Description: "Live entertainment and open dance floor"},
	}
	at := start
	for i := range slots {
		slots[i].Time = at.Format("15:04")
		at = at.Add(time.Duration(slots[i].Duration) * time.Minute)
	}

	return &OptimizedSchedule{
		Timeline: slots,
		OptimizationNotes: []string{
			"Schedule accounts for natural energy flow throughout the event",
			"Meal timing optimized for guest comfort and venue logistics",
			"Buffer time included between major activities",
		},
	}, nil
}
