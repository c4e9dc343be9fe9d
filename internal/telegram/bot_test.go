package telegram

import (
	"strings"
	"testing"
	"time"

	"grocery-concierge/internal/concierge"
	"grocery-concierge/internal/grocery"
	"grocery-concierge/internal/planner"
)

func TestFormatResultMarkdownParts(t *testing.T) {
	result := &concierge.Result{
		Plan: &planner.MealPlan{
			Days: []planner.DayPlan{
				{Day: 1, Breakfast: "Omelette", Lunch: "Caesar salad", Dinner: "Grilled salmon"},
				{Day: 2, Breakfast: "Yogurt parfait", Lunch: "Chicken wrap", Dinner: "Pasta"},
			},
			Notes:  []string{"Uses up the salmon before it expires"},
			Source: planner.SourceGenerated,
		},
		GroceryList: []grocery.Item{
			{Name: "Salmon", Quantity: 2, Unit: "fillets", EstimatedPrice: 12.99, Found: true},
			{Name: "Lobster", Quantity: 1, Unit: "pieces", Found: false},
		},
		Order: &grocery.Order{
			ID:          "ORD-abc12345",
			Total:       37.58,
			DeliveryFee: 5.99,
			Tip:         4.12,
			DeliveryAt:  time.Date(2025, 7, 19, 16, 0, 0, 0, time.UTC),
			Status:      grocery.StatusCreated,
		},
		Warnings: []string{"1 items unavailable at the store"},
	}

	planOutput, groceryOutput := formatResultMarkdownParts(result)

	// Check Plan Header
	if !strings.Contains(planOutput, "📅 *Meal Plan*") {
		t.Error("Missing plan header")
	}

	// Check days and meals
	if !strings.Contains(planOutput, "*Day 1*") {
		t.Error("Missing day heading")
	}
	if !strings.Contains(planOutput, "Grilled salmon") {
		t.Error("Missing dinner entry")
	}
	if !strings.Contains(planOutput, "_Uses up the salmon before it expires_") {
		t.Error("Missing plan note")
	}

	// Check Grocery List
	if !strings.Contains(groceryOutput, "🛒 *Grocery List*") {
		t.Error("Missing grocery list header")
	}
	if !strings.Contains(groceryOutput, "• Salmon: 2 fillets ($25.98)") {
		t.Error("Missing priced grocery item")
	}
	if !strings.Contains(groceryOutput, "• Lobster: _not available_") {
		t.Error("Missing unavailable grocery item")
	}

	// Check order summary and warnings
	if !strings.Contains(groceryOutput, "*Total: $37.58*") {
		t.Error("Missing order total")
	}
	if !strings.Contains(groceryOutput, "⚠️ 1 items unavailable at the store") {
		t.Error("Missing warning line")
	}
}

func TestFormatResultMarkdownPartsEmptyList(t *testing.T) {
	result := &concierge.Result{
		Plan: &planner.MealPlan{
			Days:   []planner.DayPlan{{Day: 1, Breakfast: "Toast", Lunch: "Soup", Dinner: "Stir-fry"}},
			Source: planner.SourceFallback,
		},
	}

	_, groceryOutput := formatResultMarkdownParts(result)

	if !strings.Contains(groceryOutput, "_Nothing needed; the fridge covers the plan._") {
		t.Error("Missing empty-list message")
	}
	if strings.Contains(groceryOutput, "💰") {
		t.Error("Order summary should be absent when no order exists")
	}
}
