package domain

import "time"

// FranchiseRef names the franchise location a product record belongs to.
type FranchiseRef struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ProductRecord is the internal product record as the catalog service owns
// it. It is never serialized to anonymous callers directly; the disclosure
// gateway projects it into a PublicProductView first.
type ProductRecord struct {
	ID              string        `json:"id"`
	SKU             string        `json:"sku"`
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	Brand           string        `json:"brand"`
	Description     string        `json:"description"`
	ImageURL        string        `json:"imageUrl"`
	SellingPrice    float64       `json:"sellingPrice"`
	CostPrice       float64       `json:"costPrice"`
	TaxPercentage   float64       `json:"taxPercentage"`
	StockQuantity   int           `json:"stockQuantity"`
	SupplierID      string        `json:"supplierId"`
	PubliclyVisible bool          `json:"publiclyVisible"`
	Franchise       *FranchiseRef `json:"franchise,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// PublicFranchise is the franchise subset shown on the public surface.
type PublicFranchise struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// PublicProductView is the minimized projection of a product record served
// to unauthenticated callers. The field set is a binding contract: nothing
// outside it may ever reach an anonymous caller. Internal ids, exact stock
// quantity, cost price, supplier data and audit fields are deliberately
// absent; stock is disclosed only as the IsInStock boolean.
type PublicProductView struct {
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Category      string           `json:"category"`
	SellingPrice  float64          `json:"sellingPrice"`
	TaxPercentage float64          `json:"taxPercentage"`
	TotalPrice    float64          `json:"totalPrice"`
	Description   string           `json:"description,omitempty"`
	Brand         string           `json:"brand,omitempty"`
	Image         string           `json:"image,omitempty"`
	IsInStock     bool             `json:"isInStock"`
	Franchise     *PublicFranchise `json:"franchise,omitempty"`
}
