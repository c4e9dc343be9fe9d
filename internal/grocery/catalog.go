package grocery

import "strings"

// CatalogEntry describes one product in the simulated store catalog.
type CatalogEntry struct {
	Price     float64
	Unit      string
	Category  string
	Available bool
	StoreID   string
}

// Catalog maps lowercase product names to store entries. It is immutable
// configuration injected into the Manager, so tests can substitute their own.
type Catalog map[string]CatalogEntry

// Lookup finds a product by case-insensitive name match.
func (c Catalog) Lookup(name string) (CatalogEntry, bool) {
	entry, ok := c[strings.ToLower(strings.TrimSpace(name))]
	return entry, ok
}

// DefaultCatalog returns the simulated store inventory with prices.
func DefaultCatalog() Catalog {
	return Catalog{
		"milk":           {Price: 3.99, Unit: "gallon", Category: "dairy", Available: true, StoreID: "MILK001"},
		"eggs":           {Price: 2.49, Unit: "dozen", Category: "dairy", Available: true, StoreID: "EGG001"},
		"cheese":         {Price: 4.49, Unit: "block", Category: "dairy", Available: true, StoreID: "CHSE001"},
		"chicken breast": {Price: 8.99, Unit: "lb", Category: "meat", Available: true, StoreID: "CHKN001"},
		"broccoli":       {Price: 1.99, Unit: "head", Category: "vegetable", Available: true, StoreID: "BROC001"},
		"spinach":        {Price: 2.99, Unit: "bag", Category: "vegetable", Available: true, StoreID: "SPIN001"},
		"salmon":         {Price: 12.99, Unit: "lb", Category: "seafood", Available: true, StoreID: "SALM001"},
		"pasta":          {Price: 1.49, Unit: "box", Category: "grain", Available: true, StoreID: "PAST001"},
		"rice":           {Price: 3.29, Unit: "bag", Category: "grain", Available: true, StoreID: "RICE001"},
		"bread":          {Price: 2.79, Unit: "loaf", Category: "grain", Available: true, StoreID: "BRED001"},
		"olive oil":      {Price: 4.99, Unit: "bottle", Category: "condiment", Available: true, StoreID: "OIL001"},
		// Carried in the catalog but currently out of stock.
		"lobster": {Price: 24.99, Unit: "lb", Category: "seafood", Available: false, StoreID: "LOBS001"},
	}
}
