package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"grocery-concierge/internal/calendar"
	"grocery-concierge/internal/clipper"
	"grocery-concierge/internal/concierge"
	"grocery-concierge/internal/config"
	"grocery-concierge/internal/database"
	"grocery-concierge/internal/grocery"
	"grocery-concierge/internal/history"
	"grocery-concierge/internal/inventory"
	"grocery-concierge/internal/llm"
	"grocery-concierge/internal/planner"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := inventory.NewStore(cfg.InventoryFile)
	if err != nil {
		log.Fatalf("Failed to initialize inventory store: %v", err)
	}

	c, cleanup := buildConcierge(ctx, cfg, store)
	defer cleanup()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "check":
		runCheck(c)
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		days := planCmd.Int("days", 7, "Number of days to plan for")
		diet := planCmd.String("diet", "", "Comma-separated dietary preferences")
		autoOrder := planCmd.Bool("auto-order", false, "Place the grocery order automatically")
		planCmd.Parse(os.Args[2:])

		var prefs []string
		for _, p := range strings.Split(*diet, ",") {
			if p = strings.TrimSpace(p); p != "" {
				prefs = append(prefs, p)
			}
		}
		runPlan(ctx, c, *days, prefs, *autoOrder)
	case "add":
		addCmd := flag.NewFlagSet("add", flag.ExitOnError)
		name := addCmd.String("name", "", "Item name")
		qty := addCmd.Int("qty", 1, "Quantity")
		unit := addCmd.String("unit", "pieces", "Unit")
		expires := addCmd.String("expires", "", "Expiry date (YYYY-MM-DD)")
		category := addCmd.String("category", "misc", "Category")
		addCmd.Parse(os.Args[2:])

		if *name == "" || *expires == "" {
			log.Fatal("Both -name and -expires are required")
		}
		item := inventory.Item{Name: *name, Quantity: *qty, Unit: *unit, ExpiryDate: *expires, Category: *category}
		if err := store.AddItem(item); err != nil {
			log.Fatalf("Failed to add item: %v", err)
		}
		fmt.Printf("Added %d %s of %s.\n", *qty, *unit, *name)
	case "remove":
		removeCmd := flag.NewFlagSet("remove", flag.ExitOnError)
		name := removeCmd.String("name", "", "Item name")
		qty := removeCmd.Int("qty", 1, "Quantity to remove")
		removeCmd.Parse(os.Args[2:])

		if *name == "" {
			log.Fatal("-name is required")
		}
		if err := store.RemoveItem(*name, *qty); err != nil {
			log.Fatalf("Failed to remove item: %v", err)
		}
		fmt.Printf("Removed %d of %s.\n", *qty, *name)
	case "list":
		runList(store)
	case "clip":
		if len(os.Args) < 3 {
			log.Fatal("Usage: grocery-concierge clip <url>")
		}
		title, added, err := c.ImportRecipe(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Failed to clip recipe: %v", err)
		}
		fmt.Printf("Clipped %q and stocked %d ingredients.\n", title, added)
	case "orders":
		ordersCmd := flag.NewFlagSet("orders", flag.ExitOnError)
		limit := ordersCmd.Int("limit", 10, "Number of orders to show")
		ordersCmd.Parse(os.Args[2:])
		runOrders(ctx, c, *limit)
	case "status":
		runStatus(c)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// buildConcierge selects live adapters or stubs per the available
// credentials and wires the orchestrator. The returned cleanup releases
// the LLM client, if one was created.
func buildConcierge(ctx context.Context, cfg *config.Config, store *inventory.Store) (*concierge.Concierge, func()) {
	modes := concierge.Modes{
		Planner:  concierge.ModeMock,
		Grocery:  concierge.ModeMock,
		Calendar: concierge.ModeMock,
	}

	var textGen llm.TextGenerator = llm.NewStubGenerator()
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("Warning: failed to initialize Gemini client, using stub: %v", err)
		} else {
			textGen = gemini
			modes.Planner = concierge.ModeOperational
		}
	}

	var publisher calendar.Publisher = calendar.NewMockPublisher()
	if cfg.CalendarCreds != "" && cfg.CalendarURL != "" {
		publisher = calendar.NewHTTPPublisher(cfg.CalendarURL, cfg.CalendarCreds)
		modes.Calendar = concierge.ModeOperational
	}

	if cfg.StoreAPIKey != "" {
		// The store integration is simulated either way; the key only
		// reflects intent in the status report.
		modes.Grocery = concierge.ModeOperational
	}

	// Order history is advisory; a missing database degrades it away.
	var repo *history.Repository
	if db, err := database.NewDB(cfg.DatabasePath); err != nil {
		log.Printf("Warning: order history disabled: %v", err)
	} else {
		repo = history.NewRepository(db.SQL)
	}

	cleanup := func() {
		if closer, ok := textGen.(llm.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Printf("Warning: failed to close LLM client: %v", err)
			}
		}
	}

	return concierge.New(
		store,
		planner.NewPlanner(textGen, planner.DefaultFallback()),
		grocery.NewManager(grocery.DefaultCatalog(), grocery.DefaultVocabulary(), cfg.DeliveryFee, cfg.TipRate),
		calendar.NewScheduler(),
		publisher,
		clipper.NewClipper(textGen, grocery.DefaultVocabulary()),
		repo,
		modes,
		filepath.Dir(cfg.DatabasePath),
	), cleanup
}

func runCheck(c *concierge.Concierge) {
	insights := c.DailyCheck()

	fmt.Println("=== DAILY FRIDGE CHECK ===")
	fmt.Printf("Date: %s\n", insights.Date)
	fmt.Printf("Total items in fridge: %d\n", insights.TotalItems)

	if len(insights.ExpiringSoon) > 0 {
		fmt.Printf("\nExpiring soon (%d items):\n", len(insights.ExpiringSoon))
		for _, item := range insights.ExpiringSoon {
			fmt.Printf("  - %s: %d %s (expires %s)\n", item.Name, item.Quantity, item.Unit, item.ExpiryDate)
		}
	}
	if len(insights.LowStock) > 0 {
		fmt.Printf("\nLow stock (%d items):\n", len(insights.LowStock))
		for _, item := range insights.LowStock {
			fmt.Printf("  - %s: %d %s\n", item.Name, item.Quantity, item.Unit)
		}
	}

	fmt.Println("\nRecommendations:")
	for _, rec := range insights.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

func runPlan(ctx context.Context, c *concierge.Concierge, days int, prefs []string, autoOrder bool) {
	result := c.PlanAndOrder(ctx, days, prefs, autoOrder)

	fmt.Printf("=== %d-DAY MEAL PLAN (%s) ===\n", len(result.Plan.Days), result.Plan.Source)
	for _, day := range result.Plan.Days {
		fmt.Printf("\nDay %d:\n", day.Day)
		fmt.Printf("  Breakfast: %s\n", day.Breakfast)
		fmt.Printf("  Lunch:     %s\n", day.Lunch)
		fmt.Printf("  Dinner:    %s\n", day.Dinner)
	}
	for _, note := range result.Plan.Notes {
		fmt.Printf("\nNote: %s\n", note)
	}

	fmt.Println("\n=== GROCERY LIST ===")
	if len(result.GroceryList) == 0 {
		fmt.Println("Nothing needed; the fridge covers the plan.")
	}
	for _, item := range result.GroceryList {
		if item.Found {
			fmt.Printf("  [x] %s: %d %s - $%.2f\n", item.Name, item.Quantity, item.Unit, item.EstimatedPrice*float64(item.Quantity))
		} else {
			fmt.Printf("  [ ] %s: not available\n", item.Name)
		}
	}

	if result.Order != nil {
		fmt.Println("\n=== ORDER ===")
		fmt.Printf("Order %s (%s)\n", result.Order.ID, result.Order.Status)
		fmt.Printf("Subtotal: $%.2f  Delivery: $%.2f  Tip: $%.2f  Total: $%.2f\n",
			result.Order.Subtotal, result.Order.DeliveryFee, result.Order.Tip, result.Order.Total)
		fmt.Printf("Estimated delivery: %s\n", result.Order.DeliveryAt.Format("2006-01-02 15:04"))
	}

	if len(result.Events) > 0 {
		fmt.Println("\n=== CALENDAR ===")
		for _, event := range result.Events {
			fmt.Printf("  %s - %s\n", event.StartAt.Format("2006-01-02 15:04"), event.Title)
		}
	}

	for _, warning := range result.Warnings {
		fmt.Printf("\nWarning: %s\n", warning)
	}
}

func runList(store *inventory.Store) {
	summary := store.Summary()
	for category, items := range summary {
		fmt.Printf("%s:\n", category)
		for _, item := range items {
			fmt.Printf("  - %s: %d %s (expires %s)\n", item.Name, item.Quantity, item.Unit, item.ExpiryDate)
		}
	}
}

func runOrders(ctx context.Context, c *concierge.Concierge, limit int) {
	records, err := c.RecentOrders(ctx, limit)
	if err != nil {
		log.Fatalf("Failed to load order history: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No orders yet.")
		return
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  $%.2f  (%s, delivery %s)\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.OrderID, rec.Total,
			rec.Status, rec.DeliveryAt.Format("2006-01-02 15:04"))
	}
}

func runStatus(c *concierge.Concierge) {
	status := c.Status()

	fmt.Println("=== SYSTEM STATUS ===")
	fmt.Printf("Items: %d across %s\n", status.TotalItems, strings.Join(status.Categories, ", "))
	fmt.Printf("Expiring soon: %d  Low stock: %d\n", status.ExpiringSoon, status.LowStock)
	fmt.Println("\nComponents:")
	for component, mode := range status.Components {
		fmt.Printf("  %s: %s\n", component, mode)
	}
	fmt.Printf("\nRAM: %dMB (alloc) / %dMB (sys)  Goroutines: %d  Data: %s\n",
		status.Health.AllocMB, status.Health.SysMB, status.Health.Goroutines, status.Health.DataSize)
	fmt.Printf("System time: %s\n", status.SystemTime.Format("2006-01-02 15:04:05"))
}

func printUsage() {
	fmt.Println("Usage: grocery-concierge <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  check      Run the daily fridge check")
	fmt.Println("  plan       Generate a meal plan and grocery order (-days, -diet, -auto-order)")
	fmt.Println("  add        Add an item to the fridge (-name, -qty, -unit, -expires, -category)")
	fmt.Println("  remove     Remove quantity of an item (-name, -qty)")
	fmt.Println("  list       Show the fridge inventory by category")
	fmt.Println("  clip       Import a recipe URL's ingredients into the fridge")
	fmt.Println("  orders     Show recent order history (-limit)")
	fmt.Println("  status     Show component and system status")
}
