package model

import (
	"fmt"
	"math"
)

// Vec3 is a position or size in venue space, in meters
type Vec3 [3]float64

// VenueARData describes the 3D scene of a venue
type VenueARData struct {
	VenueModel   ARModel               `json:"venueModel"`
	Dimensions   ARDimensions          `json:"dimensions"`
	AnchorPoints []AnchorPoint         `json:"anchorPoints"`
	Lighting     ARLighting            `json:"lighting"`
	Materials    map[string]ARMaterial `json:"materials"`
}

type ARModel struct {
	ModelURL string `json:"modelUrl"`
	Scale    Vec3   `json:"scale"`
	Position Vec3   `json:"position"`
	Rotation Vec3   `json:"rotation"`
}

type ARDimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Area   float64 `json:"area"`
}

type AnchorPoint struct {
	ID       string `json:"id"`
	Position Vec3   `json:"position"`
	Label    string `json:"label"`
	Type     string `json:"type"`
}

type ARLight struct {
	Intensity float64 `json:"intensity"`
	Position  *Vec3   `json:"position,omitempty"`
	Color     string  `json:"color"`
}

type ARLighting struct {
	AmbientLight     ARLight `json:"ambientLight"`
	DirectionalLight ARLight `json:"directionalLight"`
}

type ARMaterial struct {
	Type    string `json:"type"`
	Color   string `json:"color"`
	Texture string `json:"texture"`
}

// BuildVenueARData returns the scene descriptor for a venue
func BuildVenueARData(venue *Venue) *VenueARData {
	sun := Vec3{10, 10, 5}
	return &VenueARData{
		VenueModel: ARModel{
			ModelURL: fmt.Sprintf("/ar/models/venue_%s.glb", venue.ID),
			Scale:    Vec3{1, 1, 1},
		},
		Dimensions: ARDimensions{Length: 30, Width: 20, Height: 4, Area: 600},
		AnchorPoints: []AnchorPoint{
			{ID: "entrance", Position: Vec3{0, 0, -10}, Label: "Main Entrance", Type: "entrance"},
			{ID: "stage", Position: Vec3{0, 0.5, 10}, Label: "Stage Area", Type: "stage"},
			{ID: "bar", Position: Vec3{-8, 0, 0}, Label: "Bar Area", Type: "service"},
		},
		Lighting: ARLighting{
			AmbientLight:     ARLight{Intensity: 0.4, Color: "#FFFFFF"},
			DirectionalLight: ARLight{Intensity: 0.8, Position: &sun, Color: "#FFFFFF"},
		},
		Materials: map[string]ARMaterial{
			"floor": {Type: "hardwood", Color: "#8B4513", Texture: "/ar/textures/hardwood.jpg"},
			"walls": {Type: "painted", Color: "#F5F5F5", Texture: "/ar/textures/wall.jpg"},
		},
	}
}

// Layout styles for seating previews
const (
	LayoutTheater  = "theater"
	LayoutBanquet  = "banquet"
	LayoutCocktail = "cocktail"
)

// LayoutRequest asks for a furniture preview of a venue
type LayoutRequest struct {
	AttendeeCount int
	EventType     string
	LayoutStyle   string
}

// LayoutPreview is a furnished floor plan for a venue
type LayoutPreview struct {
	LayoutType     string          `json:"layoutType"`
	Capacity       LayoutCapacity  `json:"capacity"`
	Furniture      []FurnitureItem `json:"furniture"`
	Pathways       []Pathway       `json:"pathways"`
	EmergencyExits []EmergencyExit `json:"emergencyExits"`
	Accessibility  Accessibility   `json:"accessibility"`
}

type LayoutCapacity struct {
	Recommended int `json:"recommended"`
	Maximum     int `json:"maximum"`
	Optimal     int `json:"optimal"`
}

// FurnitureItem is a group of identical furniture pieces
type FurnitureItem struct {
	Type        string  `json:"type"`
	Count       int     `json:"count"`
	Arrangement string  `json:"arrangement,omitempty"`
	Spacing     float64 `json:"spacing,omitempty"`
	Diameter    float64 `json:"diameter,omitempty"`
	Dimensions  *Vec3   `json:"dimensions,omitempty"`
	Position    *Vec3   `json:"position,omitempty"`
	Positions   []Vec3  `json:"positions,omitempty"`
}

type Pathway struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Points []Vec3  `json:"points"`
	Type   string  `json:"type"`
}

type EmergencyExit struct {
	Position Vec3    `json:"position"`
	Width    float64 `json:"width"`
	Label    string  `json:"label"`
}

type Accessibility struct {
	WheelchairAccessible bool     `json:"wheelchairAccessible"`
	AccessibleSeating    int      `json:"accessibleSeating"`
	AccessiblePaths      []string `json:"accessiblePaths"`
}

// BuildLayoutPreview furnishes the venue for req
func BuildLayoutPreview(venue *Venue, req LayoutRequest) *LayoutPreview {
	n := req.AttendeeCount
	maximum := venue.MaxCapacity()

	return &LayoutPreview{
		LayoutType: req.LayoutStyle,
		Capacity: LayoutCapacity{
			Recommended: n,
			Maximum:     maximum,
			Optimal:     min(n, int(float64(maximum)*0.85)),
		},
		Furniture: BuildFurniture(req.LayoutStyle, n),
		Pathways: []Pathway{
			{ID: "main_aisle", Width: 1.5, Points: []Vec3{{0, 0, -10}, {0, 0, 10}}, Type: "primary"},
			{ID: "side_aisle", Width: 1.0, Points: []Vec3{{-5, 0, -5}, {5, 0, -5}}, Type: "secondary"},
		},
		EmergencyExits: []EmergencyExit{
			{Position: Vec3{-10, 0, -8}, Width: 2, Label: "Emergency Exit 1"},
			{Position: Vec3{10, 0, -8}, Width: 2, Label: "Emergency Exit 2"},
		},
		Accessibility: Accessibility{
			WheelchairAccessible: true,
			AccessibleSeating:    max(2, n/50),
			AccessiblePaths:      []string{"main_aisle"},
		},
	}
}

// BuildFurniture returns the furniture for a layout style and attendee count.
// Styles other than theater and banquet are laid out as a cocktail reception.
func BuildFurniture(style string, n int) []FurnitureItem {
	switch style {
	case LayoutTheater:
		stage, stagePos := Vec3{6, 1, 4}, Vec3{0, 0.5, 8}
		return []FurnitureItem{
			{Type: "chair", Count: n, Arrangement: "rows", Spacing: 0.6, Positions: TheaterPositions(n)},
			{Type: "stage", Count: 1, Dimensions: &stage, Position: &stagePos},
		}
	case LayoutBanquet:
		tables := max(1, n/8)
		return []FurnitureItem{
			{Type: "round_table", Count: tables, Diameter: 1.8, Positions: BanquetTablePositions(tables)},
			{Type: "chair", Count: n, Arrangement: "around_tables", Positions: BanquetChairPositions(tables)},
		}
	default:
		tables := max(3, n/15)
		bar, barPos := Vec3{4, 1.2, 1}, Vec3{-8, 0, 0}
		return []FurnitureItem{
			{Type: "cocktail_table", Count: tables, Diameter: 0.8, Positions: CocktailPositions(tables)},
			{Type: "bar", Count: 1, Dimensions: &bar, Position: &barPos},
		}
	}
}

// TheaterPositions places n seats in rows facing the stage
func TheaterPositions(n int) []Vec3 {
	rows := max(8, n/12)
	perRow := min(12, n/rows)

	positions := make([]Vec3, 0, rows*perRow)
	for row := 0; row < rows; row++ {
		for seat := 0; seat < perRow; seat++ {
			x := (float64(seat) - float64(perRow)/2) * 0.6
			z := (float64(row) - float64(rows)/2) * 0.8
			positions = append(positions, Vec3{x, 0, z})
		}
	}
	if len(positions) > n {
		positions = positions[:n]
	}
	return positions
}

// BanquetTablePositions places tables on a grid 3m apart
func BanquetTablePositions(tables int) []Vec3 {
	cols := int(math.Sqrt(float64(tables))) + 1
	rows := (tables + cols - 1) / cols

	positions := make([]Vec3, 0, tables)
	for i := 0; i < tables; i++ {
		row, col := i/cols, i%cols
		x := (float64(col) - float64(cols)/2) * 3
		z := (float64(row) - float64(rows)/2) * 3
		positions = append(positions, Vec3{x, 0, z})
	}
	return positions
}

// BanquetChairPositions seats eight chairs around each table at 1.2m
func BanquetChairPositions(tables int) []Vec3 {
	const chairsPerTable = 8
	const radius = 1.2

	var positions []Vec3
	for _, t := range BanquetTablePositions(tables) {
		for i := 0; i < chairsPerTable; i++ {
			angle := float64(i) / chairsPerTable * 2 * math.Pi
			positions = append(positions, Vec3{t[0] + radius*math.Cos(angle), 0, t[2] + radius*math.Sin(angle)})
		}
	}
	return positions
}

// CocktailPositions places high-top tables three to a row, 4m apart
func CocktailPositions(tables int) []Vec3 {
	positions := make([]Vec3, 0, tables)
	for i := 0; i < tables; i++ {
		x := float64(i%3-1) * 4
		z := float64(i/3-1) * 4
		positions = append(positions, Vec3{x, 0, z})
	}
	return positions
}

// VirtualTour is a guided walkthrough of a venue
type VirtualTour struct {
	Waypoints    []TourWaypoint    `json:"waypoints"`
	Navigation   TourNavigation    `json:"navigation"`
	Interactions []TourInteraction `json:"interactions"`
}

type TourWaypoint struct {
	ID          string `json:"id"`
	Position    Vec3   `json:"position"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MediaURL    string `json:"mediaUrl"`
	Duration    int    `json:"duration"` // seconds
}

type TourNavigation struct {
	AutoAdvance        bool `json:"autoAdvance"`
	AdvanceDelay       int  `json:"advanceDelay"` // milliseconds
	AllowManualControl bool `json:"allowManualControl"`
}

type TourInteraction struct {
	Type          string `json:"type"`
	Position      *Vec3  `json:"position,omitempty"`
	StartPosition *Vec3  `json:"startPosition,omitempty"`
	EndPosition   *Vec3  `json:"endPosition,omitempty"`
	Label         string `json:"label"`
	Action        string `json:"action,omitempty"`
	Content       string `json:"content,omitempty"`
	Value         string `json:"value,omitempty"`
}

// BuildVirtualTour returns the guided tour of a venue
func BuildVirtualTour(venue *Venue) *VirtualTour {
	media := func(name string) string {
		return fmt.Sprintf("/ar/tours/venue_%s_%s.jpg", venue.ID, name)
	}
	bar, from, to := Vec3{-8, 1.5, 0}, Vec3{-10, 0, -10}, Vec3{10, 0, 10}

	return &VirtualTour{
		Waypoints: []TourWaypoint{
			{ID: "entrance", Position: Vec3{0, 1.7, -10}, Title: "Main Entrance",
				Description: "Welcome to the venue. Notice the spacious foyer area.", MediaURL: media("entrance"), Duration: 30},
			{ID: "main_hall", Position: Vec3{0, 1.7, 0}, Title: "Main Event Space",
				Description: "The main hall with flexible layout options.", MediaURL: media("main"), Duration: 45},
			{ID: "stage_area", Position: Vec3{0, 1.7, 8}, Title: "Stage & Presentation Area",
				Description: "Professional stage with full AV capabilities.", MediaURL: media("stage"), Duration: 30},
		},
		Navigation: TourNavigation{AutoAdvance: true, AdvanceDelay: 5000, AllowManualControl: true},
		Interactions: []TourInteraction{
			{Type: "hotspot", Position: &bar, Label: "Bar Area", Action: "show_info",
				Content: "Full service bar with professional bartending staff available."},
			{Type: "measurement", StartPosition: &from, EndPosition: &to, Label: "Room Dimensions", Value: "20m x 20m"},
		},
	}
}

// CapacityRequest asks how many guests a venue should hold
type CapacityRequest struct {
	VenueID            string
	TargetCapacity     int
	EventType          string
	AccessibilityNeeds bool
}

// CapacityOptimization is the capacity analysis of a venue for an event
type CapacityOptimization struct {
	Analysis      CapacityAnalysis      `json:"analysis"`
	Optimizations []CapacityAdvice      `json:"optimizations"`
	Warnings      []CapacityWarning     `json:"warnings"`
	Alternatives  []CapacityAlternative `json:"alternatives"`
}

type CapacityAnalysis struct {
	RequestedCapacity   int     `json:"requestedCapacity"`
	VenueMaximum        int     `json:"venueMaximum"`
	RecommendedCapacity int     `json:"recommendedCapacity"`
	UtilizationRate     float64 `json:"utilizationRate"`
}

type CapacityAdvice struct {
	Category       string `json:"category"`
	Recommendation string `json:"recommendation"`
	Impact         string `json:"impact"`
}

type CapacityWarning struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type CapacityAlternative struct {
	Layout      string `json:"layout"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

// OptimalLayout picks the seating style for an event type
func OptimalLayout(eventType string) string {
	switch eventType {
	case "conference", "presentation":
		return LayoutTheater
	case "wedding", "gala":
		return LayoutBanquet
	case "networking":
		return LayoutCocktail
	default:
		return LayoutTheater
	}
}

// OptimizeCapacity analyses req against the venue's maximum capacity
func OptimizeCapacity(venue *Venue, req CapacityRequest) *CapacityOptimization {
	target := req.TargetCapacity
	maximum := venue.MaxCapacity()
	recommended := min(target, int(float64(maximum)*0.85))

	var utilization float64
	if maximum > 0 {
		utilization = float64(recommended) / float64(maximum) * 100
	}

	warnings := []CapacityWarning{}
	if target > maximum {
		warnings = append(warnings, CapacityWarning{
			Type:     "overcapacity",
			Message:  fmt.Sprintf("Requested capacity (%d) exceeds venue maximum (%d)", target, maximum),
			Severity: "high",
		})
	}
	if float64(target) > float64(maximum)*0.9 {
		warnings = append(warnings, CapacityWarning{
			Type:     "comfort",
			Message:  "High capacity may impact guest comfort and movement",
			Severity: "medium",
		})
	}

	return &CapacityOptimization{
		Analysis: CapacityAnalysis{
			RequestedCapacity:   target,
			VenueMaximum:        maximum,
			RecommendedCapacity: recommended,
			UtilizationRate:     utilization,
		},
		Optimizations: []CapacityAdvice{
			{Category: "Layout", Recommendation: fmt.Sprintf("Use %s layout for maximum efficiency", OptimalLayout(req.EventType)),
				Impact: "Increases usable capacity by 15%"},
			{Category: "Flow", Recommendation: "Position entrance and exits to minimize congestion",
				Impact: "Improves guest experience and safety"},
			{Category: "Accessibility", Recommendation: "Reserve 2% of capacity for accessibility needs",
				Impact: "Ensures compliance and inclusivity"},
		},
		Warnings: warnings,
		Alternatives: []CapacityAlternative{
			{Layout: LayoutTheater, Capacity: int(float64(maximum) * 0.9), Description: "Maximum capacity with theater-style seating"},
			{Layout: LayoutBanquet, Capacity: int(float64(maximum) * 0.7), Description: "Comfortable dining with round tables"},
			{Layout: LayoutCocktail, Capacity: int(float64(maximum) * 1.2), Description: "Standing reception with high-top tables"},
		},
	}
}
