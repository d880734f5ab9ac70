package model_test

import (
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func newVendor(name, category string, rating float64, reviews int, price float64, created time.Time, areas ...string) *model.Vendor {
	v := model.NewVendor("usr_owner", name, category)
	v.AverageRating = rating
	v.TotalReviews = reviews
	v.StartingPrice = &price
	v.CreatedAt = created
	v.ServiceAreas = areas
	return v
}

func vendorNames(vendors []*model.Vendor) []string {
	names := make([]string, len(vendors))
	for i, v := range vendors {
		names[i] = v.BusinessName
	}
	return names
}

func TestVendorSearchMatch(t *testing.T) {
	base := time.Now()
	photo := newVendor("Capture Moments Photography", "photography", 4.8, 127, 2500, base, "San Francisco", "Napa Valley")
	photo.Description = "Wedding and event photography"
	catering := newVendor("Gourmet Catering Co", "catering", 4.9, 89, 75, base, "San Francisco")
	inactive := newVendor("Closed Shop", "photography", 5, 10, 10, base)
	inactive.IsActive = false

	minRating := 4.85

	tests := []struct {
		name     string
		search   model.VendorSearch
		vendor   *model.Vendor
		expected bool
	}{
		{"query in name", model.VendorSearch{Query: "capture"}, photo, true},
		{"query in description", model.VendorSearch{Query: "WEDDING"}, photo, true},
		{"query in category", model.VendorSearch{Query: "cater"}, catering, true},
		{"query no match", model.VendorSearch{Query: "florist"}, photo, false},
		{"category exact", model.VendorSearch{Category: "catering"}, catering, true},
		{"category mismatch", model.VendorSearch{Category: "catering"}, photo, false},
		{"location member", model.VendorSearch{Location: "Napa Valley"}, photo, true},
		{"location not member", model.VendorSearch{Location: "Napa Valley"}, catering, false},
		{"min rating pass", model.VendorSearch{MinRating: &minRating}, catering, true},
		{"min rating fail", model.VendorSearch{MinRating: &minRating}, photo, false},
		{"inactive excluded", model.VendorSearch{}, inactive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Equal(t, tt.search.Match(tt.vendor), tt.expected)
		})
	}
}

func TestSortVendors(t *testing.T) {
	base := time.Now()
	a := newVendor("Alpha", "music", 4.0, 5, 300, base.Add(-2*time.Hour))
	b := newVendor("Bravo", "music", 4.9, 5, 100, base.Add(-1*time.Hour))
	c := newVendor("Charlie", "music", 4.5, 5, 200, base)

	tests := []struct {
		order    model.VendorSort
		expected []string
	}{
		{model.VendorSortRatingDesc, []string{"Bravo", "Charlie", "Alpha"}},
		{model.VendorSortRatingAsc, []string{"Alpha", "Charlie", "Bravo"}},
		{model.VendorSortPriceAsc, []string{"Bravo", "Charlie", "Alpha"}},
		{model.VendorSortPriceDesc, []string{"Alpha", "Charlie", "Bravo"}},
		{model.VendorSortNameAsc, []string{"Alpha", "Bravo", "Charlie"}},
		{"something_else", []string{"Charlie", "Bravo", "Alpha"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			vendors := []*model.Vendor{a, b, c}
			model.SortVendors(vendors, tt.order)
			gt.Equal(t, vendorNames(vendors), tt.expected)
		})
	}
}

func TestCountCategories(t *testing.T) {
	base := time.Now()
	vendors := []*model.Vendor{
		newVendor("A", "Live Music", 4, 1, 1, base),
		newVendor("B", "catering", 4, 1, 1, base),
		newVendor("C", "Live Music", 4, 1, 1, base),
		newVendor("D", "audio", 4, 1, 1, base),
	}
	inactive := newVendor("E", "catering", 4, 1, 1, base)
	inactive.IsActive = false
	vendors = append(vendors, inactive)

	categories := model.CountCategories(vendors)
	gt.A(t, categories).Length(3)
	gt.Equal(t, categories[0], model.CategoryCount{Name: "Live Music", Count: 2, Slug: "live_music"})
	gt.Equal(t, categories[1].Name, "audio")
	gt.Equal(t, categories[2].Name, "catering")
}

func TestFeaturedVendors(t *testing.T) {
	base := time.Now()
	top := newVendor("Top", "catering", 4.9, 89, 1, base)
	popular := newVendor("Popular", "photography", 4.9, 127, 1, base)
	fewReviews := newVendor("Few", "music", 5.0, 4, 1, base)
	lowRating := newVendor("Low", "music", 4.4, 100, 1, base)

	featured := model.FeaturedVendors([]*model.Vendor{top, fewReviews, lowRating, popular})
	gt.Equal(t, vendorNames(featured), []string{"Popular", "Top"})

	var many []*model.Vendor
	for i := 0; i < 20; i++ {
		many = append(many, newVendor("V", "music", 4.6, 10, 1, base))
	}
	gt.A(t, model.FeaturedVendors(many)).Length(12)
}

func TestVenueFilter(t *testing.T) {
	maxCap := 500
	venue := &model.Venue{Name: "Hall", City: "San Francisco", CapacityMax: &maxCap, IsActive: true}

	gt.True(t, (&model.VenueFilter{City: "san francisco"}).Match(venue))
	gt.False(t, (&model.VenueFilter{City: "Napa"}).Match(venue))
	gt.True(t, (&model.VenueFilter{MinCapacity: 500}).Match(venue))
	gt.False(t, (&model.VenueFilter{MinCapacity: 501}).Match(venue))

	venue.IsActive = false
	gt.False(t, (&model.VenueFilter{}).Match(venue))
}

func TestCreateVenueRequestValidate(t *testing.T) {
	req := model.CreateVenueRequest{Name: "Hall", Type: "ballroom", Address: "1 Main St", City: "SF"}
	err := req.Validate()
	gt.Error(t, err)
	gt.Equal(t, model.RootMessage(err), "Missing required field: country")

	req.Country = "USA"
	gt.NoError(t, req.Validate())
}
