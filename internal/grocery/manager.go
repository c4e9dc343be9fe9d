package grocery

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"grocery-concierge/internal/inventory"
	"grocery-concierge/internal/planner"
)

// OrderStatus is the lifecycle state of a grocery order.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusConfirmed OrderStatus = "confirmed"
	StatusFailed    OrderStatus = "failed"
)

// Item represents a grocery item for shopping. It exists only inside a
// grocery list or an Order, never persisted on its own.
type Item struct {
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	Unit           string  `json:"unit"`
	Category       string  `json:"category"`
	EstimatedPrice float64 `json:"estimated_price"`
	StoreID        string  `json:"store_item_id,omitempty"`
	Found          bool    `json:"found"`
}

// Order is a priced grocery order.
type Order struct {
	ID          string      `json:"order_id"`
	Items       []Item      `json:"items"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"delivery_fee"`
	Tip         float64     `json:"tip"`
	Total       float64     `json:"total"`
	DeliveryAt  time.Time   `json:"estimated_delivery"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Manager derives grocery lists from meal plans and simulates store ordering
// against a static catalog.
type Manager struct {
	catalog     Catalog
	vocab       Vocabulary
	deliveryFee float64
	tipRate     float64
	now         func() time.Time
}

// NewManager creates a Manager with the given catalog and extraction
// vocabulary. deliveryFee is a fixed per-order charge; tipRate is applied to
// the subtotal.
func NewManager(catalog Catalog, vocab Vocabulary, deliveryFee, tipRate float64) *Manager {
	return &Manager{
		catalog:     catalog,
		vocab:       vocab,
		deliveryFee: deliveryFee,
		tipRate:     tipRate,
		now:         time.Now,
	}
}

// BuildList extracts required ingredients from the plan's meal descriptions
// and subtracts items already sufficiently stocked in the inventory.
// Quantities default to one unit.
func (m *Manager) BuildList(plan *planner.MealPlan, inv []inventory.Item) []Item {
	required := m.vocab.Extract(plan.MealDescriptions())

	var list []Item
	for _, ing := range required {
		if stocked(inv, ing.Name, 1) {
			continue
		}
		list = append(list, Item{
			Name:     ing.Name,
			Quantity: 1,
			Unit:     ing.Unit,
			Category: ing.Category,
		})
	}
	return list
}

func stocked(inv []inventory.Item, name string, need int) bool {
	for _, item := range inv {
		if strings.EqualFold(item.Name, name) && item.Quantity >= need {
			return true
		}
	}
	return false
}

// Price looks each item up in the catalog. Available items get their catalog
// price and store ID attached and are marked found; misses and out-of-stock
// items are marked not-found with price 0.
func (m *Manager) Price(list []Item) []Item {
	priced := make([]Item, len(list))
	for i, item := range list {
		entry, ok := m.catalog.Lookup(item.Name)
		if !ok || !entry.Available {
			item.EstimatedPrice = 0
			item.Found = false
		} else {
			item.EstimatedPrice = entry.Price
			item.StoreID = entry.StoreID
			item.Found = true
			if item.Unit == "" {
				item.Unit = entry.Unit
			}
		}
		priced[i] = item
	}
	return priced
}

// CreateOrder computes the priced order: subtotal over found items, fixed
// delivery fee, tip at the configured rate, delivery next day at 16:00.
// Orders with no found items are failed; otherwise the order starts in the
// created state and is confirmed only by Place.
func (m *Manager) CreateOrder(priced []Item) *Order {
	now := m.now()

	var subtotal float64
	found := 0
	for _, item := range priced {
		if !item.Found {
			continue
		}
		subtotal += item.EstimatedPrice * float64(item.Quantity)
		found++
	}

	status := StatusCreated
	if found == 0 {
		status = StatusFailed
	}

	subtotal = round2(subtotal)
	tip := round2(subtotal * m.tipRate)

	tomorrow := now.AddDate(0, 0, 1)
	delivery := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 16, 0, 0, 0, now.Location())

	return &Order{
		ID:          "ORD-" + uuid.NewString()[:8],
		Items:       priced,
		Subtotal:    subtotal,
		DeliveryFee: m.deliveryFee,
		Tip:         tip,
		Total:       round2(subtotal + m.deliveryFee + tip),
		DeliveryAt:  delivery,
		Status:      status,
		CreatedAt:   now,
	}
}

// Place confirms a created order. Failed orders stay failed.
func (m *Manager) Place(order *Order) {
	if order.Status == StatusCreated {
		order.Status = StatusConfirmed
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
