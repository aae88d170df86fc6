package usecase

import (
	"context"
	"net/url"

	"github.com/retailpulse/console/internal/domain"
	"go.uber.org/zap"
)

// ResolutionKind enumerates the three terminal outcomes of the public
// product path.
type ResolutionKind string

const (
	ResolutionRedirect ResolutionKind = "redirect"
	ResolutionView     ResolutionKind = "view"
	ResolutionNotFound ResolutionKind = "not_found"
)

// Resolution is the gateway's three-way result. Exactly one of RedirectPath
// and View is set, depending on Kind.
type Resolution struct {
	Kind         ResolutionKind
	RedirectPath string
	View         *domain.PublicProductView
}

// DisclosureGateway decides what an anonymous caller may see of a product
// record, and funnels authenticated callers to the internal search instead.
type DisclosureGateway struct {
	catalog    domain.CatalogAPI
	searchPath string
	metrics    Metrics
	log        *zap.SugaredLogger
}

// NewDisclosureGateway creates a gateway. searchPath is the internal search
// page authenticated callers are redirected to, e.g. "/inventory/products".
func NewDisclosureGateway(catalog domain.CatalogAPI, searchPath string, metrics Metrics, log *zap.SugaredLogger) *DisclosureGateway {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &DisclosureGateway{
		catalog:    catalog,
		searchPath: searchPath,
		metrics:    metrics,
		log:        log,
	}
}

// Resolve evaluates the disclosure decision in a fixed order:
//
//  1. Authenticated callers are redirected to the internal search, before
//     any fetch. They never receive the minimized projection.
//  2. The record is fetched by lookup key. A missing record, a record not
//     cleared for public disclosure, and a backend failure all resolve to
//     NotFound — one signal, so error shapes cannot be used as an
//     existence oracle.
//  3. Otherwise the record is projected down to the public field set.
//
// Callers that could not read their auth state must pass the zero AuthState
// (unauthenticated); the gateway itself never escalates.
func (g *DisclosureGateway) Resolve(ctx context.Context, lookupKey string, auth domain.AuthState) Resolution {
	if auth.Authenticated {
		g.metrics.DisclosureResolved(string(ResolutionRedirect))
		return Resolution{
			Kind:         ResolutionRedirect,
			RedirectPath: g.searchPath + "?search=" + url.QueryEscape(lookupKey),
		}
	}

	record, err := g.catalog.FetchProductByLookupKey(ctx, lookupKey)
	if err != nil || record == nil || !record.PubliclyVisible {
		if err != nil {
			g.log.Debugw("public lookup did not resolve", "error", err)
		}
		g.metrics.DisclosureResolved(string(ResolutionNotFound))
		return Resolution{Kind: ResolutionNotFound}
	}

	g.metrics.DisclosureResolved(string(ResolutionView))
	return Resolution{Kind: ResolutionView, View: ProjectPublicView(record)}
}

// ProjectPublicView reduces an internal record to the public field set.
// Stock is disclosed only as a boolean and the price with tax is derived
// here rather than trusted from upstream.
func ProjectPublicView(record *domain.ProductRecord) *domain.PublicProductView {
	view := &domain.PublicProductView{
		Name:          record.Name,
		SKU:           record.SKU,
		Category:      record.Category,
		SellingPrice:  record.SellingPrice,
		TaxPercentage: record.TaxPercentage,
		TotalPrice:    TotalPrice(record.SellingPrice, record.TaxPercentage),
		Description:   record.Description,
		Brand:         record.Brand,
		Image:         record.ImageURL,
		IsInStock:     record.StockQuantity > 0,
	}
	if record.Franchise != nil {
		view.Franchise = &domain.PublicFranchise{
			Name: record.Franchise.Name,
			Code: record.Franchise.Code,
		}
	}
	return view
}

// TotalPrice computes the tax-inclusive price from the selling price and the
// tax percentage.
func TotalPrice(sellingPrice, taxPercentage float64) float64 {
	return sellingPrice + sellingPrice*taxPercentage/100
}
