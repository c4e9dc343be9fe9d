package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

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
	"grocery-concierge/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL are required for the bot")
	}

	ctx := context.Background()

	store, err := inventory.NewStore(cfg.InventoryFile)
	if err != nil {
		log.Fatalf("Failed to initialize inventory store: %v", err)
	}

	modes := concierge.Modes{
		Planner:  concierge.ModeMock,
		Grocery:  concierge.ModeMock,
		Calendar: concierge.ModeMock,
	}

	var textGen llm.TextGenerator = llm.NewStubGenerator()
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		textGen = gemini
		modes.Planner = concierge.ModeOperational
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	var publisher calendar.Publisher = calendar.NewMockPublisher()
	if cfg.CalendarCreds != "" && cfg.CalendarURL != "" {
		publisher = calendar.NewHTTPPublisher(cfg.CalendarURL, cfg.CalendarCreds)
		modes.Calendar = concierge.ModeOperational
	}
	if cfg.StoreAPIKey != "" {
		modes.Grocery = concierge.ModeOperational
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	c := concierge.New(
		store,
		planner.NewPlanner(textGen, planner.DefaultFallback()),
		grocery.NewManager(grocery.DefaultCatalog(), grocery.DefaultVocabulary(), cfg.DeliveryFee, cfg.TipRate),
		calendar.NewScheduler(),
		publisher,
		clipper.NewClipper(textGen, grocery.DefaultVocabulary()),
		history.NewRepository(db.SQL),
		modes,
		filepath.Dir(cfg.DatabasePath),
	)

	bot, err := telegram.NewBot(cfg, c)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Concierge Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
