package usecase

import (
	"context"
	"sort"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// VendorSearchResult is one page of a marketplace search with its filter options
type VendorSearchResult struct {
	Page       model.Page[*model.Vendor]
	Search     model.VendorSearch
	Categories []string
}

// VendorContact is the owner contact information shown with a vendor
type VendorContact struct {
	Website string
	Phone   string
	Address string
}

// VendorDetail is a vendor with its owner's contact information
type VendorDetail struct {
	Vendor  *model.Vendor
	Contact *VendorContact
}

// Marketplace implements MarketplaceUseCase
type Marketplace struct {
	repo interfaces.Repository
}

// NewMarketplace creates a new Marketplace use case
func NewMarketplace(repo interfaces.Repository) MarketplaceUseCase {
	return &Marketplace{repo: repo}
}

// SearchVendors filters, orders and paginates active vendors
func (u *Marketplace) SearchVendors(ctx context.Context, search *model.VendorSearch) (*VendorSearchResult, error) {
	if search == nil {
		search = &model.VendorSearch{}
	}
	if search.Sort == "" {
		search.Sort = model.VendorSortRatingDesc
	}

	vendors, err := u.repo.ListVendors(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendors")
	}

	var matched []*model.Vendor
	categorySet := map[string]struct{}{}
	for _, v := range vendors {
		if v.IsActive && v.Category != "" {
			categorySet[v.Category] = struct{}{}
		}
		if search.Match(v) {
			matched = append(matched, v)
		}
	}
	model.SortVendors(matched, search.Sort)

	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return &VendorSearchResult{
		Page:       model.Paginate(matched, search.Page, search.Limit),
		Search:     *search,
		Categories: categories,
	}, nil
}

// GetVendor returns an active vendor with its owner's contact details
func (u *Marketplace) GetVendor(ctx context.Context, id types.VendorID) (*VendorDetail, error) {
	if id == "" {
		return nil, goerr.Wrap(model.ErrVendorNotFound, "vendor ID is empty")
	}
	vendor, err := u.repo.GetVendor(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get vendor", goerr.V("vendorID", id))
	}
	if !vendor.IsActive {
		return nil, goerr.Wrap(model.ErrVendorNotFound, "vendor is inactive", goerr.V("vendorID", id))
	}

	detail := &VendorDetail{Vendor: vendor}

	owner, err := u.repo.GetUser(ctx, vendor.OwnerID)
	switch {
	case err == nil:
		if owner.BusinessProfile != nil {
			detail.Contact = &VendorContact{
				Website: owner.BusinessProfile.Website,
				Phone:   owner.BusinessProfile.Phone,
				Address: owner.BusinessProfile.Address,
			}
		}
	case model.HasTag(err, model.ErrTagUserNotFound):
		ctxlog.From(ctx).Warn("Vendor owner not found",
			"vendorID", id,
			"ownerID", vendor.OwnerID,
		)
	default:
		return nil, goerr.Wrap(err, "failed to get vendor owner", goerr.V("vendorID", id))
	}

	return detail, nil
}

// ListCategories counts active vendors per category
func (u *Marketplace) ListCategories(ctx context.Context) ([]model.CategoryCount, error) {
	vendors, err := u.repo.ListVendors(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendors")
	}
	return model.CountCategories(vendors), nil
}

// FeaturedVendors returns the highest rated well-reviewed vendors
func (u *Marketplace) FeaturedVendors(ctx context.Context) ([]*model.Vendor, error) {
	vendors, err := u.repo.ListVendors(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list vendors")
	}
	return model.FeaturedVendors(vendors), nil
}
