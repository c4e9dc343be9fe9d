package planner

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"grocery-concierge/internal/inventory"
	"grocery-concierge/internal/llm"
)

type MockTextGenerator struct {
	Response    string
	ShouldError bool
	LastPrompt  string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.LastPrompt = prompt
	if m.ShouldError {
		return "", fmt.Errorf("mock timeout")
	}
	return m.Response, nil
}

func testItems() []inventory.Item {
	return []inventory.Item{
		{Name: "Eggs", Quantity: 8, Unit: "pieces", ExpiryDate: "2025-07-30", Category: "dairy"},
		{Name: "Broccoli", Quantity: 1, Unit: "head", ExpiryDate: "2025-07-21", Category: "vegetable"},
	}
}

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("ParsesGeneratedResponse", func(t *testing.T) {
		gen := &MockTextGenerator{
			Response: `{"days": [
				{"day": 1, "breakfast": "Omelette", "lunch": "Broccoli soup", "dinner": "Fried rice"},
				{"day": 2, "breakfast": "Toast", "lunch": "Salad", "dinner": "Pasta"}
			], "notes": ["Use the broccoli first"]}`,
		}
		p := NewPlanner(gen, DefaultFallback())

		plan, warning := p.GeneratePlan(ctx, testItems(), 2, []string{"vegetarian"})
		if warning != "" {
			t.Fatalf("Expected no warning, got %q", warning)
		}
		if plan.Source != SourceGenerated {
			t.Errorf("Expected source %q, got %q", SourceGenerated, plan.Source)
		}
		if len(plan.Days) != 2 {
			t.Fatalf("Expected 2 days, got %d", len(plan.Days))
		}
		if plan.Days[0].Dinner != "Fried rice" {
			t.Errorf("Expected day 1 dinner 'Fried rice', got '%s'", plan.Days[0].Dinner)
		}
		if len(plan.Notes) != 1 {
			t.Errorf("Expected 1 note, got %d", len(plan.Notes))
		}
	})

	t.Run("PromptContainsInventoryAndPreferences", func(t *testing.T) {
		gen := &MockTextGenerator{Response: "{}"}
		p := NewPlanner(gen, DefaultFallback())

		p.GeneratePlan(ctx, testItems(), 3, []string{"vegetarian", "no nuts"})
		if !strings.Contains(gen.LastPrompt, "Eggs: 8 pieces") {
			t.Errorf("Prompt missing inventory line, got:\n%s", gen.LastPrompt)
		}
		if !strings.Contains(gen.LastPrompt, "vegetarian, no nuts") {
			t.Errorf("Prompt missing preferences, got:\n%s", gen.LastPrompt)
		}
		if !strings.Contains(gen.LastPrompt, "3-day meal plan") {
			t.Errorf("Prompt missing day count, got:\n%s", gen.LastPrompt)
		}
	})

	t.Run("GenerationErrorFallsBack", func(t *testing.T) {
		p := NewPlanner(&MockTextGenerator{ShouldError: true}, DefaultFallback())

		plan, warning := p.GeneratePlan(ctx, testItems(), 7, nil)
		if warning == "" {
			t.Error("Expected a degradation warning")
		}
		if plan.Source != SourceFallback {
			t.Errorf("Expected fallback source, got %q", plan.Source)
		}
		if len(plan.Days) != 7 {
			t.Fatalf("Expected exactly 7 days, got %d", len(plan.Days))
		}
		for _, day := range plan.Days {
			if day.Breakfast == "" || day.Lunch == "" || day.Dinner == "" {
				t.Errorf("Day %d has an empty meal slot", day.Day)
			}
		}
	})

	t.Run("MalformedResponseFallsBack", func(t *testing.T) {
		p := NewPlanner(&MockTextGenerator{Response: "here is your plan: eat well"}, DefaultFallback())

		plan, warning := p.GeneratePlan(ctx, testItems(), 3, nil)
		if warning == "" {
			t.Error("Expected a degradation warning")
		}
		if plan.Source != SourceFallback || len(plan.Days) != 3 {
			t.Errorf("Expected 3-day fallback plan, got source=%q days=%d", plan.Source, len(plan.Days))
		}
	})

	t.Run("StubResponseFallsBackSilently", func(t *testing.T) {
		p := NewPlanner(llm.NewStubGenerator(), DefaultFallback())

		plan, warning := p.GeneratePlan(ctx, testItems(), 4, nil)
		if warning != "" {
			t.Errorf("Stub mode is not a failure, got warning %q", warning)
		}
		if plan.Source != SourceFallback || len(plan.Days) != 4 {
			t.Errorf("Expected 4-day fallback plan, got source=%q days=%d", plan.Source, len(plan.Days))
		}
	})

	t.Run("NormalizesShortAndLongPlans", func(t *testing.T) {
		gen := &MockTextGenerator{
			Response: `{"days": [{"day": 1, "breakfast": "Omelette"}]}`,
		}
		p := NewPlanner(gen, DefaultFallback())

		plan, _ := p.GeneratePlan(ctx, testItems(), 3, nil)
		if len(plan.Days) != 3 {
			t.Fatalf("Expected plan padded to 3 days, got %d", len(plan.Days))
		}
		if plan.Days[0].Breakfast != "Omelette" {
			t.Errorf("Expected generated breakfast kept, got '%s'", plan.Days[0].Breakfast)
		}
		if plan.Days[0].Lunch != DefaultFallback().Lunch {
			t.Errorf("Expected empty slot filled from template, got '%s'", plan.Days[0].Lunch)
		}
		if plan.Days[2].Day != 3 {
			t.Errorf("Expected padded day numbered 3, got %d", plan.Days[2].Day)
		}

		gen.Response = `{"days": [
			{"day": 1, "breakfast": "A", "lunch": "B", "dinner": "C"},
			{"day": 2, "breakfast": "D", "lunch": "E", "dinner": "F"},
			{"day": 3, "breakfast": "G", "lunch": "H", "dinner": "I"}
		]}`
		plan, _ = p.GeneratePlan(ctx, testItems(), 2, nil)
		if len(plan.Days) != 2 {
			t.Errorf("Expected plan truncated to 2 days, got %d", len(plan.Days))
		}
	})

	t.Run("MarkdownFencedResponse", func(t *testing.T) {
		gen := &MockTextGenerator{
			Response: "```json\n{\"days\": [{\"day\": 1, \"breakfast\": \"Toast\", \"lunch\": \"Soup\", \"dinner\": \"Curry\"}]}\n```",
		}
		p := NewPlanner(gen, DefaultFallback())

		plan, warning := p.GeneratePlan(ctx, testItems(), 1, nil)
		if warning != "" {
			t.Fatalf("Expected fenced JSON to parse, got warning %q", warning)
		}
		if plan.Days[0].Dinner != "Curry" {
			t.Errorf("Expected dinner 'Curry', got '%s'", plan.Days[0].Dinner)
		}
	})
}

func TestMealDescriptions(t *testing.T) {
	plan := &MealPlan{Days: []DayPlan{
		{Day: 1, Breakfast: "A", Lunch: "B", Dinner: "C"},
		{Day: 2, Breakfast: "D", Lunch: "E", Dinner: "F"},
	}}

	meals := plan.MealDescriptions()
	if len(meals) != 6 {
		t.Fatalf("Expected 6 meal descriptions, got %d", len(meals))
	}
	if meals[5] != "F" {
		t.Errorf("Expected last meal 'F', got '%s'", meals[5])
	}
}
