package http

import (
	"net/http"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/go-chi/chi/v5"
)

// MarketplaceHandler handles vendor discovery and venue listing requests
type MarketplaceHandler struct {
	marketplaceUC usecase.MarketplaceUseCase
	venueUC       usecase.VenueUseCase
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(marketplaceUC usecase.MarketplaceUseCase, venueUC usecase.VenueUseCase) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceUC: marketplaceUC,
		venueUC:       venueUC,
	}
}

// HandleSearchVendors lists active vendors matching the query parameters
func (h *MarketplaceHandler) HandleSearchVendors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	result, err := h.marketplaceUC.SearchVendors(ctx, &model.VendorSearch{
		Query:     q.Get("query"),
		Category:  q.Get("category"),
		Location:  q.Get("location"),
		MinRating: queryFloat(r, "rating"),
		Sort:      model.VendorSort(q.Get("sort")),
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toVendorSearchJSON(result))
}

// HandleGetVendor returns an active vendor with owner contact details
func (h *MarketplaceHandler) HandleGetVendor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	detail, err := h.marketplaceUC.GetVendor(ctx, types.VendorID(chi.URLParam(r, "vendorID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{"vendor": toVendorDetailJSON(detail)})
}

// HandleCategories returns vendor counts per category
func (h *MarketplaceHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categories, err := h.marketplaceUC.ListCategories(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"categories": mapSlice(categories, func(c model.CategoryCount) categoryJSON {
			return categoryJSON{Name: c.Name, Count: c.Count, Slug: c.Slug}
		}),
	})
}

// HandleFeatured returns the featured vendors
func (h *MarketplaceHandler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vendors, err := h.marketplaceUC.FeaturedVendors(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{"vendors": mapSlice(vendors, toVendorJSON)})
}

type venueRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Location    struct {
		Address     string           `json:"address"`
		City        string           `json:"city"`
		Country     string           `json:"country"`
		Coordinates *coordinatesJSON `json:"coordinates"`
	} `json:"location"`
	Capacity struct {
		Min *int `json:"min"`
		Max *int `json:"max"`
	} `json:"capacity"`
	Pricing struct {
		HourlyRate *float64 `json:"hourlyRate"`
		DailyRate  *float64 `json:"dailyRate"`
		Currency   string   `json:"currency"`
	} `json:"pricing"`
	Amenities []string `json:"amenities"`
}

func (req *venueRequest) toModel() *model.CreateVenueRequest {
	out := &model.CreateVenueRequest{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Address:     req.Location.Address,
		City:        req.Location.City,
		Country:     req.Location.Country,
		CapacityMin: req.Capacity.Min,
		CapacityMax: req.Capacity.Max,
		HourlyRate:  req.Pricing.HourlyRate,
		DailyRate:   req.Pricing.DailyRate,
		Currency:    req.Pricing.Currency,
		Amenities:   req.Amenities,
	}
	if c := req.Location.Coordinates; c != nil {
		out.Coordinates = &model.Coordinates{Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return out
}

// HandleListVenues lists active venues
func (h *MarketplaceHandler) HandleListVenues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, err := h.venueUC.ListVenues(ctx, &model.VenueFilter{
		City:        r.URL.Query().Get("city"),
		MinCapacity: queryInt(r, "minCapacity"),
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{
		"venues":     mapSlice(page.Items, toVenueJSON),
		"pagination": toPagination(page),
	})
}

// HandleGetVenue returns an active venue
func (h *MarketplaceHandler) HandleGetVenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	venue, err := h.venueUC.GetVenue(ctx, types.VenueID(chi.URLParam(r, "venueID")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{"venue": toVenueJSON(venue)})
}

// HandleCreateVenue lists a venue owned by the caller
func (h *MarketplaceHandler) HandleCreateVenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req venueRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	venue, err := h.venueUC.CreateVenue(ctx, authFrom(ctx), req.toModel())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusCreated, toVenueJSON(venue))
}
