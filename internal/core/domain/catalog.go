package domain

import "github.com/shopspring/decimal"

func init() {
	// Prices and quantities are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Service is a priced laundry offering from the catalog, e.g. "Cuci Kering"
// billed per kg.
type Service struct {
	ID          int64           `json:"id"`
	Name        string          `json:"service_name"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
	Description string          `json:"description,omitempty"`
}

// PriceFor returns the total for the given quantity of this service.
func (s Service) PriceFor(quantity decimal.Decimal) decimal.Decimal {
	return s.Price.Mul(quantity)
}

// DefaultCatalog is seeded into an empty store at startup.
func DefaultCatalog() []Service {
	return []Service{
		{Name: "Cuci Kering", Unit: "kg", Price: decimal.NewFromInt(6000), IsActive: true, Description: "Cuci dan keringkan tanpa setrika"},
		{Name: "Cuci Setrika", Unit: "kg", Price: decimal.NewFromInt(8000), IsActive: true, Description: "Cuci, keringkan, dan setrika rapi"},
		{Name: "Setrika Saja", Unit: "kg", Price: decimal.NewFromInt(5000), IsActive: true},
		{Name: "Bed Cover", Unit: "pcs", Price: decimal.NewFromInt(25000), IsActive: true},
		{Name: "Jas / Blazer", Unit: "pcs", Price: decimal.NewFromInt(20000), IsActive: true, Description: "Dry clean"},
	}
}
