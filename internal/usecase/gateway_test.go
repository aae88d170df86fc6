package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/retailpulse/console/internal/domain"
	"go.uber.org/zap/zaptest"
)

// stubCatalog is a hand-rolled CatalogAPI double.
type stubCatalog struct {
	record *domain.ProductRecord
	err    error
	calls  int
}

func (s *stubCatalog) FetchProductByLookupKey(ctx context.Context, key string) (*domain.ProductRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func sampleRecord() *domain.ProductRecord {
	return &domain.ProductRecord{
		ID:              "prod-8812",
		SKU:             "SKU-100",
		Name:            "Espresso Beans 1kg",
		Category:        "Beverages",
		Brand:           "Casa Roma",
		Description:     "Dark roast arabica",
		ImageURL:        "https://cdn.example.com/espresso.jpg",
		SellingPrice:    1000,
		CostPrice:       640,
		TaxPercentage:   18,
		StockQuantity:   12,
		SupplierID:      "sup-3",
		PubliclyVisible: true,
		Franchise:       &domain.FranchiseRef{Name: "Downtown", Code: "DT-01"},
	}
}

func newTestGateway(t *testing.T, catalog domain.CatalogAPI) *DisclosureGateway {
	t.Helper()
	return NewDisclosureGateway(catalog, "/inventory/products", nil, zaptest.NewLogger(t).Sugar())
}

func TestGateway_AuthenticatedAlwaysRedirected(t *testing.T) {
	catalog := &stubCatalog{record: sampleRecord()}
	gateway := newTestGateway(t, catalog)

	res := gateway.Resolve(context.Background(), "SKU 100/a", domain.AuthState{Authenticated: true, Principal: "owner@hq"})

	if res.Kind != ResolutionRedirect {
		t.Fatalf("kind = %q, want redirect even when the record exists", res.Kind)
	}
	if res.View != nil {
		t.Error("authenticated caller received a public view")
	}
	if want := "/inventory/products?search=SKU+100%2Fa"; res.RedirectPath != want {
		t.Errorf("redirect path = %q, want %q", res.RedirectPath, want)
	}
	if catalog.calls != 0 {
		t.Errorf("catalog fetched %d times before redirect, want 0", catalog.calls)
	}
}

func TestGateway_AnonymousGetsMinimizedProjection(t *testing.T) {
	catalog := &stubCatalog{record: sampleRecord()}
	gateway := newTestGateway(t, catalog)

	res := gateway.Resolve(context.Background(), "SKU-100", domain.AuthState{})
	if res.Kind != ResolutionView || res.View == nil {
		t.Fatalf("kind = %q, want view", res.Kind)
	}

	view := res.View
	if view.Name != "Espresso Beans 1kg" || view.SKU != "SKU-100" || view.Brand != "Casa Roma" {
		t.Errorf("projection carried wrong identity fields: %+v", view)
	}
	if view.TotalPrice != 1180 {
		t.Errorf("totalPrice = %v, want 1180 for price 1000 at 18%%", view.TotalPrice)
	}
	if !view.IsInStock {
		t.Error("isInStock = false for stocked record")
	}
	if view.Franchise == nil || view.Franchise.Code != "DT-01" {
		t.Errorf("franchise = %+v, want {Downtown DT-01}", view.Franchise)
	}
}

func TestGateway_ProjectionNeverLeaksInternalFields(t *testing.T) {
	record := sampleRecord()
	record.StockQuantity = 0
	catalog := &stubCatalog{record: record}
	gateway := newTestGateway(t, catalog)

	res := gateway.Resolve(context.Background(), "SKU-100", domain.AuthState{})
	if res.Kind != ResolutionView {
		t.Fatalf("kind = %q, want view", res.Kind)
	}
	if res.View.IsInStock {
		t.Error("isInStock = true for zero stock")
	}

	raw, err := json.Marshal(res.View)
	if err != nil {
		t.Fatal(err)
	}
	serialized := string(raw)
	for _, leak := range []string{"stockQuantity", "costPrice", "supplierId", "\"id\"", "createdAt", "updatedAt"} {
		if strings.Contains(serialized, leak) {
			t.Errorf("serialized view leaks %s: %s", leak, serialized)
		}
	}
}

func TestGateway_NotFoundIsIndistinguishable(t *testing.T) {
	hidden := sampleRecord()
	hidden.PubliclyVisible = false

	tests := []struct {
		name    string
		catalog *stubCatalog
	}{
		{name: "record absent", catalog: &stubCatalog{err: domain.ErrNotFound}},
		{name: "backend unreachable", catalog: &stubCatalog{err: domain.ErrFetchFailure}},
		{name: "disclosure ineligible", catalog: &stubCatalog{record: hidden}},
	}

	var results []Resolution
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestGateway(t, tt.catalog).Resolve(context.Background(), "SKU-100", domain.AuthState{})
			if res.Kind != ResolutionNotFound {
				t.Fatalf("kind = %q, want not_found", res.Kind)
			}
			if res.View != nil || res.RedirectPath != "" {
				t.Errorf("not_found carried payload: %+v", res)
			}
			results = append(results, res)
		})
	}
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("not_found results differ between causes: %+v vs %+v", results[0], results[i])
		}
	}
}

func TestTotalPrice(t *testing.T) {
	tests := []struct {
		selling float64
		tax     float64
		want    float64
	}{
		{1000, 18, 1180},
		{250, 0, 250},
		{200, 5, 210},
		{0, 18, 0},
	}
	for _, tt := range tests {
		if got := TotalPrice(tt.selling, tt.tax); got != tt.want {
			t.Errorf("TotalPrice(%v, %v) = %v, want %v", tt.selling, tt.tax, got, tt.want)
		}
	}
}
