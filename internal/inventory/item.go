package inventory

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Item represents a single item in the fridge inventory.
type Item struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Unit       string `json:"unit"`
	ExpiryDate string `json:"expiry_date"` // YYYY-MM-DD
	Category   string `json:"category"`
}

// ExpiresOn parses the item's expiry date.
func (i Item) ExpiresOn() (time.Time, error) {
	t, err := time.Parse(dateLayout, i.ExpiryDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiry date %q for %s: %w", i.ExpiryDate, i.Name, err)
	}
	return t, nil
}

// Validate checks that an item is a well-formed inventory record.
func (i Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item has no name")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("item %s has negative quantity %d", i.Name, i.Quantity)
	}
	if _, err := i.ExpiresOn(); err != nil {
		return err
	}
	return nil
}

// DefaultItems returns the starter inventory used when no backing file exists.
func DefaultItems() []Item {
	return []Item{
		{Name: "Milk", Quantity: 1, Unit: "gallon", ExpiryDate: "2025-07-25", Category: "dairy"},
		{Name: "Eggs", Quantity: 8, Unit: "pieces", ExpiryDate: "2025-07-30", Category: "dairy"},
		{Name: "Chicken Breast", Quantity: 2, Unit: "lbs", ExpiryDate: "2025-07-22", Category: "meat"},
		{Name: "Broccoli", Quantity: 1, Unit: "head", ExpiryDate: "2025-07-21", Category: "vegetable"},
		{Name: "Carrots", Quantity: 5, Unit: "pieces", ExpiryDate: "2025-07-28", Category: "vegetable"},
		{Name: "Bread", Quantity: 1, Unit: "loaf", ExpiryDate: "2025-07-20", Category: "grain"},
		{Name: "Cheese", Quantity: 8, Unit: "oz", ExpiryDate: "2025-08-01", Category: "dairy"},
		{Name: "Tomatoes", Quantity: 3, Unit: "pieces", ExpiryDate: "2025-07-23", Category: "vegetable"},
		{Name: "Onion", Quantity: 2, Unit: "pieces", ExpiryDate: "2025-08-05", Category: "vegetable"},
		{Name: "Rice", Quantity: 2, Unit: "cups", ExpiryDate: "2026-01-01", Category: "grain"},
	}
}
