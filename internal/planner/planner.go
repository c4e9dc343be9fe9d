package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"text/template"

	"grocery-concierge/internal/inventory"
	"grocery-concierge/internal/llm"
)

//go:embed plan_prompt.md
var planPrompt string

// Plan sources.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// DayPlan holds the three meal slots for a single day.
type DayPlan struct {
	Day       int    `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// MealPlan represents a multi-day meal plan.
type MealPlan struct {
	Days   []DayPlan `json:"days"`
	Notes  []string  `json:"notes,omitempty"`
	Source string    `json:"source"`
}

// FallbackTemplate is the canned day template used when generation is
// unavailable or fails. It is injected configuration so tests can substitute
// their own.
type FallbackTemplate struct {
	Breakfast string
	Lunch     string
	Dinner    string
	Notes     []string
}

// DefaultFallback returns the standard canned plan template.
func DefaultFallback() FallbackTemplate {
	return FallbackTemplate{
		Breakfast: "Scrambled eggs with cheese",
		Lunch:     "Chicken and vegetable stir-fry",
		Dinner:    "Grilled salmon with rice and broccoli",
		Notes: []string{
			"Use ingredients expiring soon first.",
			"Consider batch cooking for efficiency.",
		},
	}
}

// Planner handles the generation of meal plans.
type Planner struct {
	textGen  llm.TextGenerator
	fallback FallbackTemplate
	tmpl     *template.Template
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator, fallback FallbackTemplate) *Planner {
	tmpl := template.Must(template.New("plan").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(planPrompt))
	return &Planner{
		textGen:  textGen,
		fallback: fallback,
		tmpl:     tmpl,
	}
}

// GeneratePlan produces a plan with exactly days entries, three meal slots
// each. Generation failures never propagate: the returned plan falls back to
// the canned template and the failure is reported as a warning string
// (empty when the plan is clean).
func (p *Planner) GeneratePlan(ctx context.Context, items []inventory.Item, days int, preferences []string) (*MealPlan, string) {
	if days < 1 {
		days = 1
	}

	prompt, err := p.buildPrompt(items, days, preferences)
	if err != nil {
		log.Printf("Warning: failed to build planning prompt: %v", err)
		return p.FallbackPlan(days), fmt.Sprintf("meal planning degraded to fallback: %v", err)
	}

	response, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		log.Printf("Warning: meal plan generation failed: %v", err)
		return p.FallbackPlan(days), fmt.Sprintf("meal planning degraded to fallback: %v", err)
	}

	plan, err := parsePlan(response)
	if err != nil {
		log.Printf("Warning: could not parse generated meal plan: %v", err)
		return p.FallbackPlan(days), fmt.Sprintf("meal planning degraded to fallback: %v", err)
	}

	if len(plan.Days) == 0 {
		// The stub generator lands here: nothing usable was produced.
		return p.FallbackPlan(days), ""
	}

	p.normalize(plan, days)
	plan.Source = SourceGenerated
	return plan, ""
}

// FallbackPlan builds the deterministic canned plan for the requested number
// of days.
func (p *Planner) FallbackPlan(days int) *MealPlan {
	if days < 1 {
		days = 1
	}
	plan := &MealPlan{
		Source: SourceFallback,
		Notes:  append([]string(nil), p.fallback.Notes...),
	}
	for day := 1; day <= days; day++ {
		plan.Days = append(plan.Days, DayPlan{
			Day:       day,
			Breakfast: p.fallback.Breakfast,
			Lunch:     p.fallback.Lunch,
			Dinner:    p.fallback.Dinner,
		})
	}
	return plan
}

func (p *Planner) buildPrompt(items []inventory.Item, days int, preferences []string) (string, error) {
	var buf bytes.Buffer
	err := p.tmpl.Execute(&buf, struct {
		Days        int
		Inventory   []inventory.Item
		Preferences []string
	}{
		Days:        days,
		Inventory:   items,
		Preferences: preferences,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// normalize forces the plan to exactly days entries: extra days are dropped,
// missing days and empty meal slots are filled from the fallback template.
func (p *Planner) normalize(plan *MealPlan, days int) {
	if len(plan.Days) > days {
		plan.Days = plan.Days[:days]
	}
	for len(plan.Days) < days {
		plan.Days = append(plan.Days, DayPlan{})
	}
	for i := range plan.Days {
		plan.Days[i].Day = i + 1
		if plan.Days[i].Breakfast == "" {
			plan.Days[i].Breakfast = p.fallback.Breakfast
		}
		if plan.Days[i].Lunch == "" {
			plan.Days[i].Lunch = p.fallback.Lunch
		}
		if plan.Days[i].Dinner == "" {
			plan.Days[i].Dinner = p.fallback.Dinner
		}
	}
}

func parsePlan(response string) (*MealPlan, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var plan MealPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse meal plan JSON: %w", err)
	}
	return &plan, nil
}

// MealDescriptions returns every meal slot text in the plan, used for
// ingredient extraction.
func (m *MealPlan) MealDescriptions() []string {
	var meals []string
	for _, day := range m.Days {
		meals = append(meals, day.Breakfast, day.Lunch, day.Dinner)
	}
	return meals
}
