// Package concierge sequences the inventory, planning, grocery and calendar
// components into the end-to-end workflow. Every step past inventory startup
// degrades to a fallback or partial result instead of aborting; degraded
// conditions surface as warnings on the returned result.
package concierge

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"grocery-concierge/internal/calendar"
	"grocery-concierge/internal/clipper"
	"grocery-concierge/internal/grocery"
	"grocery-concierge/internal/history"
	"grocery-concierge/internal/inventory"
	"grocery-concierge/internal/metrics"
	"grocery-concierge/internal/planner"
)

const (
	expiryLookaheadDays = 3
	lowStockThreshold   = 2
)

// Component modes reported by Status.
const (
	ModeOperational = "operational"
	ModeMock        = "mock_mode"
)

// Modes records which collaborators run live and which run against their
// stub/mock implementation.
type Modes struct {
	Planner  string
	Grocery  string
	Calendar string
}

// Insights is the outcome of a daily inventory check.
type Insights struct {
	Date            string           `json:"date"`
	ExpiringSoon    []inventory.Item `json:"expiring_soon"`
	LowStock        []inventory.Item `json:"low_stock"`
	TotalItems      int              `json:"total_items"`
	Recommendations []string         `json:"recommendations"`
}

// Result is the combined outcome of a plan-and-order workflow run.
type Result struct {
	ExpiringSoon []inventory.Item  `json:"expiring_soon"`
	LowStock     []inventory.Item  `json:"low_stock"`
	Plan         *planner.MealPlan `json:"meal_plan"`
	GroceryList  []grocery.Item    `json:"grocery_list"`
	Order        *grocery.Order    `json:"order"`
	Events       []calendar.Event  `json:"calendar_events"`
	Warnings     []string          `json:"warnings,omitempty"`
}

// SystemStatus summarizes component health.
type SystemStatus struct {
	TotalItems   int
	Categories   []string
	ExpiringSoon int
	LowStock     int
	Components   map[string]string
	Health       metrics.SysHealth
	SystemTime   time.Time
}

// Concierge orchestrates the smart fridge workflow.
type Concierge struct {
	store     *inventory.Store
	planner   *planner.Planner
	grocer    *grocery.Manager
	scheduler *calendar.Scheduler
	publisher calendar.Publisher
	clip      *clipper.Clipper
	repo      *history.Repository // nil when no database is configured
	modes     Modes
	dataDir   string
}

// New wires the concierge from its components. repo may be nil; history is
// then skipped entirely.
func New(
	store *inventory.Store,
	pl *planner.Planner,
	grocer *grocery.Manager,
	scheduler *calendar.Scheduler,
	publisher calendar.Publisher,
	clip *clipper.Clipper,
	repo *history.Repository,
	modes Modes,
	dataDir string,
) *Concierge {
	return &Concierge{
		store:     store,
		planner:   pl,
		grocer:    grocer,
		scheduler: scheduler,
		publisher: publisher,
		clip:      clip,
		repo:      repo,
		modes:     modes,
		dataDir:   dataDir,
	}
}

// DailyCheck inspects the inventory for expiring and low-stock items and
// produces restocking recommendations.
func (c *Concierge) DailyCheck() Insights {
	expiring := c.store.ExpiringSoon(expiryLookaheadDays)
	low := c.store.LowStock(lowStockThreshold)

	insights := Insights{
		Date:         time.Now().Format("2006-01-02"),
		ExpiringSoon: expiring,
		LowStock:     low,
		TotalItems:   c.store.Count(),
	}

	if len(expiring) > 0 {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("Use %d expiring items in today's meals", len(expiring)))
	}
	if len(low) > 0 {
		insights.Recommendations = append(insights.Recommendations,
			fmt.Sprintf("Consider restocking %d low-stock items", len(low)))
	}
	if len(insights.Recommendations) == 0 {
		insights.Recommendations = append(insights.Recommendations,
			"Your fridge is well-stocked and organized!")
	}

	return insights
}

// PlanAndOrder runs the full workflow: check inventory, plan meals, build and
// price the grocery order, schedule calendar reminders. With autoOrder false
// the order is computed and priced but not placed (it stays in the created
// state) and no calendar events are published.
func (c *Concierge) PlanAndOrder(ctx context.Context, days int, preferences []string, autoOrder bool) *Result {
	result := &Result{}

	// Step 1: check inventory.
	log.Printf("Workflow: checking inventory (%d items)", c.store.Count())
	snapshot := c.store.Items()
	result.ExpiringSoon = c.store.ExpiringSoon(expiryLookaheadDays)
	result.LowStock = c.store.LowStock(lowStockThreshold)

	// Step 2: plan meals.
	log.Printf("Workflow: generating %d-day meal plan", days)
	plan, warning := c.planner.GeneratePlan(ctx, snapshot, days, preferences)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	result.Plan = plan

	// Step 3: build and price the grocery order.
	log.Printf("Workflow: building grocery order")
	list := c.grocer.BuildList(plan, snapshot)
	priced := c.grocer.Price(list)
	result.GroceryList = priced
	for _, item := range priced {
		if !item.Found {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s is not available at the store and was excluded from the order", item.Name))
		}
	}

	order := c.grocer.CreateOrder(priced)
	if autoOrder {
		c.grocer.Place(order)
	}
	if order.Status == grocery.StatusFailed {
		result.Warnings = append(result.Warnings, "no available products to order")
	}
	result.Order = order

	// Step 4: schedule calendar reminders.
	log.Printf("Workflow: scheduling calendar reminders")
	if order.Status != grocery.StatusFailed {
		result.Events = append(result.Events, c.scheduler.DeliveryReminder(order))
	}
	result.Events = append(result.Events, c.scheduler.MealPrepReminders(plan)...)

	if order.Status == grocery.StatusConfirmed {
		for _, event := range result.Events {
			if err := c.publisher.Publish(ctx, event); err != nil {
				log.Printf("Warning: failed to publish calendar event %s: %v", event.ID, err)
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("calendar event %q was not published: %v", event.Title, err))
			}
		}
	}

	c.record(ctx, result, autoOrder)

	log.Printf("Workflow: done (order %s, %d events, %d warnings)",
		order.Status, len(result.Events), len(result.Warnings))
	return result
}

// record persists the plan and order to history. Best effort.
func (c *Concierge) record(ctx context.Context, result *Result, autoOrder bool) {
	if c.repo == nil {
		return
	}
	if err := c.repo.SavePlan(ctx, result.Plan); err != nil {
		log.Printf("Warning: failed to save meal plan to history: %v", err)
		result.Warnings = append(result.Warnings, "meal plan was not saved to history")
	}
	if result.Order != nil {
		if err := c.repo.SaveOrder(ctx, result.Order); err != nil {
			log.Printf("Warning: failed to save order to history: %v", err)
			result.Warnings = append(result.Warnings, "order was not saved to history")
		}
	}
}

// ImportRecipe clips a recipe URL and stocks its known ingredients into the
// fridge. Returns the recipe title and the number of items added.
func (c *Concierge) ImportRecipe(ctx context.Context, url string) (string, int, error) {
	title, items, err := c.clip.ClipURL(ctx, url)
	if err != nil {
		return "", 0, err
	}
	added := 0
	for _, item := range items {
		if err := c.store.AddItem(item); err != nil {
			log.Printf("Warning: failed to add clipped item %s: %v", item.Name, err)
			continue
		}
		added++
	}
	return title, added, nil
}

// RecentOrders returns stored order summaries, newest first.
func (c *Concierge) RecentOrders(ctx context.Context, limit int) ([]history.OrderRecord, error) {
	if c.repo == nil {
		return nil, fmt.Errorf("order history is not configured")
	}
	return c.repo.RecentOrders(ctx, limit)
}

// Status reports component modes and system health.
func (c *Concierge) Status() SystemStatus {
	summary := c.store.Summary()
	categories := make([]string, 0, len(summary))
	for category := range summary {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return SystemStatus{
		TotalItems:   c.store.Count(),
		Categories:   categories,
		ExpiringSoon: len(c.store.ExpiringSoon(expiryLookaheadDays)),
		LowStock:     len(c.store.LowStock(lowStockThreshold)),
		Components: map[string]string{
			"fridge":          ModeOperational,
			"meal_planner":    c.modes.Planner,
			"grocery_manager": c.modes.Grocery,
			"calendar":        c.modes.Calendar,
		},
		Health:     metrics.GetSysHealth(c.dataDir),
		SystemTime: time.Now(),
	}
}
