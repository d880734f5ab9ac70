package model

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
)

// Vendor is a marketplace listing offering a service category
type Vendor struct {
	ID                types.VendorID
	OwnerID           types.UserID
	BusinessName      string
	Category          string
	Description       string
	ServiceAreas      []string
	StartingPrice     *float64
	Currency          string
	AverageRating     float64
	TotalReviews      int
	ResponseTimeHours float64
	IsVerified        bool
	IsActive          bool
	CreatedAt         time.Time
}

// NewVendor creates an active, unverified listing
func NewVendor(ownerID types.UserID, businessName, category string) *Vendor {
	if category == "" {
		category = "general"
	}
	return &Vendor{
		ID:                types.NewVendorID(),
		OwnerID:           ownerID,
		BusinessName:      businessName,
		Category:          category,
		Currency:          "USD",
		ResponseTimeHours: 24,
		IsActive:          true,
		CreatedAt:         time.Now(),
	}
}

// Copy returns a deep copy of the vendor
func (v *Vendor) Copy() *Vendor {
	if v == nil {
		return nil
	}
	c := *v
	c.ServiceAreas = slices.Clone(v.ServiceAreas)
	if v.StartingPrice != nil {
		c.StartingPrice = floatPtr(*v.StartingPrice)
	}
	return &c
}

// Price returns the starting price or zero
func (v *Vendor) Price() float64 {
	if v.StartingPrice == nil {
		return 0
	}
	return *v.StartingPrice
}

// IsFeatured reports whether the vendor qualifies for the featured list
func (v *Vendor) IsFeatured() bool {
	return v.IsActive && v.TotalReviews >= 5 && v.AverageRating >= 4.5
}

// VendorSort selects the order of a vendor listing
type VendorSort string

const (
	VendorSortRatingDesc VendorSort = "rating_desc"
	VendorSortRatingAsc  VendorSort = "rating_asc"
	VendorSortPriceAsc   VendorSort = "price_asc"
	VendorSortPriceDesc  VendorSort = "price_desc"
	VendorSortNameAsc    VendorSort = "name_asc"
	VendorSortNewest     VendorSort = "newest"
)

// SortOption is a selectable sort order with its label
type SortOption struct {
	Value VendorSort
	Label string
}

// VendorSortOptions lists the sort orders offered to clients
var VendorSortOptions = []SortOption{
	{VendorSortRatingDesc, "Highest Rated"},
	{VendorSortRatingAsc, "Lowest Rated"},
	{VendorSortPriceAsc, "Price: Low to High"},
	{VendorSortPriceDesc, "Price: High to Low"},
	{VendorSortNameAsc, "Name: A to Z"},
	{VendorSortNewest, "Newest First"},
}

// VendorSearch narrows and orders a marketplace listing
type VendorSearch struct {
	Query     string
	Category  string
	Location  string
	MinRating *float64
	Sort      VendorSort
	Page      int
	Limit     int
}

// Match reports whether an active vendor passes the search filters
func (s *VendorSearch) Match(v *Vendor) bool {
	if !v.IsActive {
		return false
	}
	if s.Query != "" {
		q := strings.ToLower(s.Query)
		if !strings.Contains(strings.ToLower(v.BusinessName), q) &&
			!strings.Contains(strings.ToLower(v.Description), q) &&
			!strings.Contains(strings.ToLower(v.Category), q) {
			return false
		}
	}
	if s.Category != "" && v.Category != s.Category {
		return false
	}
	if s.Location != "" && !slices.Contains(v.ServiceAreas, s.Location) {
		return false
	}
	if s.MinRating != nil && v.AverageRating < *s.MinRating {
		return false
	}
	return true
}

// SortVendors orders vendors in place. Unknown orders sort newest first.
func SortVendors(vendors []*Vendor, order VendorSort) {
	var less func(a, b *Vendor) bool
	switch order {
	case VendorSortRatingDesc, "":
		less = func(a, b *Vendor) bool { return a.AverageRating > b.AverageRating }
	case VendorSortRatingAsc:
		less = func(a, b *Vendor) bool { return a.AverageRating < b.AverageRating }
	case VendorSortPriceAsc:
		less = func(a, b *Vendor) bool { return a.Price() < b.Price() }
	case VendorSortPriceDesc:
		less = func(a, b *Vendor) bool { return a.Price() > b.Price() }
	case VendorSortNameAsc:
		less = func(a, b *Vendor) bool { return a.BusinessName < b.BusinessName }
	default:
		less = func(a, b *Vendor) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(vendors, func(i, j int) bool { return less(vendors[i], vendors[j]) })
}

// CategoryCount is the number of active vendors in a category
type CategoryCount struct {
	Name  string
	Count int
	Slug  string
}

// CountCategories groups active vendors by category, most populated first
func CountCategories(vendors []*Vendor) []CategoryCount {
	counts := map[string]int{}
	for _, v := range vendors {
		if v.IsActive {
			counts[v.Category]++
		}
	}

	result := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, CategoryCount{
			Name:  name,
			Count: count,
			Slug:  strings.ReplaceAll(strings.ToLower(name), " ", "_"),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result
}

const maxFeaturedVendors = 12

// FeaturedVendors picks the highest rated well-reviewed vendors
func FeaturedVendors(vendors []*Vendor) []*Vendor {
	var featured []*Vendor
	for _, v := range vendors {
		if v.IsFeatured() {
			featured = append(featured, v)
		}
	}
	sort.SliceStable(featured, func(i, j int) bool {
		if featured[i].AverageRating != featured[j].AverageRating {
			return featured[i].AverageRating > featured[j].AverageRating
		}
		return featured[i].TotalReviews > featured[j].TotalReviews
	})
	if len(featured) > maxFeaturedVendors {
		featured = featured[:maxFeaturedVendors]
	}
	return featured
}
