package http

import (
	"net/http"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

// PlannerHandler handles AI planning and AR venue requests
type PlannerHandler struct {
	plannerUC usecase.PlannerUseCase
	arUC      usecase.ARUseCase
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(plannerUC usecase.PlannerUseCase, arUC usecase.ARUseCase) *PlannerHandler {
	return &PlannerHandler{
		plannerUC: plannerUC,
		arUC:      arUC,
	}
}

type designResponse struct {
	DesignRecommendation *model.DesignRecommendation `json:"designRecommendation"`
	GeneratedAt          time.Time                   `json:"generatedAt"`
	Note                 string                      `json:"note,omitempty"`
	InputParameters      model.DesignRequest         `json:"inputParameters"`
}

type layoutRequest struct {
	AttendeeCount int    `json:"attendeeCount"`
	EventType     string `json:"eventType"`
	LayoutStyle   string `json:"layoutStyle"`
}

type capacityRequest struct {
	VenueID            string `json:"venueId"`
	TargetCapacity     int    `json:"targetCapacity"`
	EventType          string `json:"eventType"`
	AccessibilityNeeds bool   `json:"accessibilityNeeds"`
}

func generatedAt() time.Time {
	return time.Now().UTC()
}

func venueID(r *http.Request) types.VenueID {
	return types.VenueID(chi.URLParam(r, "venueID"))
}

// HandleEventDesigner proposes a theme, layout and budget for an event idea
func (h *PlannerHandler) HandleEventDesigner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.DesignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.plannerUC.DesignEvent(ctx, &req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, designResponse{
		DesignRecommendation: result.Recommendation,
		GeneratedAt:          result.GeneratedAt,
		Note:                 result.Note,
		InputParameters:      result.Input,
	})
}

// HandleVendorRecommendations suggests vendor categories with marketplace matches
func (h *PlannerHandler) HandleVendorRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		EventID string `json:"eventId"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	recommendations, err := h.plannerUC.RecommendVendors(ctx, authFrom(ctx).UserID, types.EventID(req.EventID))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"recommendations": recommendations,
		"generatedAt":     generatedAt(),
	})
}

// HandleScheduleOptimizer returns the recommended run of show
func (h *PlannerHandler) HandleScheduleOptimizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		StartTime string `json:"startTime"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	schedule, err := h.plannerUC.OptimizeSchedule(ctx, req.StartTime)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"optimizedSchedule": schedule,
		"generatedAt":       generatedAt(),
	})
}

// HandleARData returns the 3D model descriptor of a venue
func (h *PlannerHandler) HandleARData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data, err := h.arUC.VenueARData(ctx, venueID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"venueId":     venueID(r).String(),
		"arData":      data,
		"generatedAt": generatedAt(),
	})
}

// HandleLayoutPreview furnishes a venue for an attendee count and style
func (h *PlannerHandler) HandleLayoutPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req layoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	preview, err := h.arUC.LayoutPreview(ctx, venueID(r), model.LayoutRequest{
		AttendeeCount: req.AttendeeCount,
		EventType:     req.EventType,
		LayoutStyle:   req.LayoutStyle,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"venueId":       venueID(r).String(),
		"layoutPreview": preview,
		"generatedAt":   generatedAt(),
	})
}

// HandleVirtualTour returns the guided tour of a venue
func (h *PlannerHandler) HandleVirtualTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tour, err := h.arUC.VirtualTour(ctx, venueID(r))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"venueId":     venueID(r).String(),
		"virtualTour": tour,
		"generatedAt": generatedAt(),
	})
}

// HandleCapacityOptimizer analyses a target head count against a venue
func (h *PlannerHandler) HandleCapacityOptimizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req capacityRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	optimization, err := h.arUC.OptimizeCapacity(ctx, model.CapacityRequest{
		VenueID:            req.VenueID,
		TargetCapacity:     req.TargetCapacity,
		EventType:          req.EventType,
		AccessibilityNeeds: req.AccessibilityNeeds,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"optimization": optimization,
		"generatedAt":  generatedAt(),
	})
}
