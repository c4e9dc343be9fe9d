package calendar

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"grocery-concierge/internal/grocery"
	"grocery-concierge/internal/planner"
)

// EventKind distinguishes the reminder types the scheduler produces.
type EventKind string

const (
	KindDeliveryReminder EventKind = "delivery_reminder"
	KindMealPrep         EventKind = "meal_prep"
)

const (
	deliveryLead = time.Hour
	prepHour     = 18 // meal prep reminders fire at 6 PM
)

// Event is a scheduled calendar reminder. Events are generated records; the
// scheduler performs no conflict detection and keeps no state of its own.
type Event struct {
	ID          string    `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"start_time"`
	Kind        EventKind `json:"type"`
	OrderID     string    `json:"order_id,omitempty"`
	Day         int       `json:"day,omitempty"`
}

// Scheduler generates reminder events from orders and meal plans.
type Scheduler struct {
	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{now: time.Now}
}

// DeliveryReminder returns one event a fixed lead ahead of the order's
// delivery time.
func (s *Scheduler) DeliveryReminder(order *grocery.Order) Event {
	return Event{
		ID:    "EVT-" + uuid.NewString()[:8],
		Title: fmt.Sprintf("Grocery Delivery Arriving - Order %s", order.ID),
		Description: fmt.Sprintf("Grocery delivery, %d items, total $%.2f",
			len(order.Items), order.Total),
		StartAt: order.DeliveryAt.Add(-deliveryLead),
		Kind:    KindDeliveryReminder,
		OrderID: order.ID,
	}
}

// MealPrepReminders returns one event per plan day at a fixed evening hour,
// titled with that day's dinner.
func (s *Scheduler) MealPrepReminders(plan *planner.MealPlan) []Event {
	now := s.now()
	base := time.Date(now.Year(), now.Month(), now.Day(), prepHour, 0, 0, 0, now.Location())

	events := make([]Event, 0, len(plan.Days))
	for _, day := range plan.Days {
		events = append(events, Event{
			ID:          "EVT-" + uuid.NewString()[:8],
			Title:       fmt.Sprintf("Meal Prep - Day %d", day.Day),
			Description: fmt.Sprintf("Tonight's dinner: %s", day.Dinner),
			StartAt:     base.AddDate(0, 0, day.Day-1),
			Kind:        KindMealPrep,
			Day:         day.Day,
		})
	}
	return events
}
