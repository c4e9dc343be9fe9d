// Package history persists workflow outcomes — orders and generated meal
// plans — to SQLite. History is advisory: callers treat failures here as
// warnings, never as workflow aborts.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"grocery-concierge/internal/grocery"
	"grocery-concierge/internal/planner"
)

// OrderRecord is a stored order summary.
type OrderRecord struct {
	OrderID    string
	Status     string
	Subtotal   float64
	Total      float64
	DeliveryAt time.Time
	CreatedAt  time.Time
}

// Repository handles persistence of orders and meal plans.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new history repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveOrder inserts an order with its items serialized as JSON.
func (r *Repository) SaveOrder(ctx context.Context, order *grocery.Order) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (order_id, status, subtotal, delivery_fee, tip, total, delivery_at, items, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, string(order.Status), order.Subtotal, order.DeliveryFee,
		order.Tip, order.Total, order.DeliveryAt, string(itemsJSON), order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// SavePlan inserts a generated meal plan as raw JSON.
func (r *Repository) SavePlan(ctx context.Context, plan *planner.MealPlan) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (days, source, plan_data, created_at) VALUES (?, ?, ?, ?)`,
		len(plan.Days), plan.Source, string(planJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return nil
}

// RecentOrders retrieves the N most recent order summaries.
func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]OrderRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, status, subtotal, total, delivery_at, created_at
		 FROM orders ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	defer rows.Close()

	var records []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		if err := rows.Scan(&rec.OrderID, &rec.Status, &rec.Subtotal, &rec.Total, &rec.DeliveryAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecentPlans retrieves the N most recent meal plans.
func (r *Repository) RecentPlans(ctx context.Context, limit int) ([]planner.MealPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT plan_data FROM meal_plans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent plans: %w", err)
	}
	defer rows.Close()

	var plans []planner.MealPlan
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		var plan planner.MealPlan
		if err := json.Unmarshal([]byte(raw), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
