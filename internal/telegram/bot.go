package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"grocery-concierge/internal/concierge"
	"grocery-concierge/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API and the concierge orchestrator.
type Bot struct {
	api       *tgbotapi.BotAPI
	concierge *concierge.Concierge
	cfg       *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, c *concierge.Concierge) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:       bot,
		concierge: c,
		cfg:       cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	switch {
	case msg.Text == "/check":
		b.handleCheckRequest(msg)
	case msg.Text == "/status":
		b.handleStatusRequest(msg)
	case strings.HasPrefix(msg.Text, "http://"), strings.HasPrefix(msg.Text, "https://"):
		b.handleClipperRequest(msg)
	default:
		b.handlePlannerRequest(msg)
	}
}

func (b *Bot) handleCheckRequest(msg *tgbotapi.Message) {
	insights := b.concierge.DailyCheck()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧊 *Fridge Check* (%s)\n\n", insights.Date))
	sb.WriteString(fmt.Sprintf("Items in fridge: %d\n", insights.TotalItems))

	if len(insights.ExpiringSoon) > 0 {
		sb.WriteString("\n⏰ *Expiring Soon*\n")
		for _, item := range insights.ExpiringSoon {
			sb.WriteString(fmt.Sprintf("• %s: %d %s (by %s)\n", item.Name, item.Quantity, item.Unit, item.ExpiryDate))
		}
	}
	if len(insights.LowStock) > 0 {
		sb.WriteString("\n📉 *Low Stock*\n")
		for _, item := range insights.LowStock {
			sb.WriteString(fmt.Sprintf("• %s: %d %s\n", item.Name, item.Quantity, item.Unit))
		}
	}

	sb.WriteString("\n💡 *Recommendations*\n")
	for _, rec := range insights.Recommendations {
		sb.WriteString(fmt.Sprintf("• %s\n", rec))
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func (b *Bot) handleStatusRequest(msg *tgbotapi.Message) {
	status := b.concierge.Status()

	var sb strings.Builder
	sb.WriteString("📊 *System Status*\n\n")
	sb.WriteString(fmt.Sprintf("Items: %d (%s)\n", status.TotalItems, strings.Join(status.Categories, ", ")))
	sb.WriteString(fmt.Sprintf("Expiring soon: %d, low stock: %d\n", status.ExpiringSoon, status.LowStock))

	sb.WriteString("\n🔌 *Components*\n")
	for component, mode := range status.Components {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", component, mode))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", status.Health.AllocMB, status.Health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", status.Health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", status.Health.DataSize))

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Clipping recipe...* \n(Extracting ingredients into your fridge)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()

	title, added, err := b.concierge.ImportRecipe(ctx, msg.Text)
	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Stocked!*\n\n*Title:* %s\n*Ingredients added:* %d", title, added)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	statusText := "🧑‍🍳 *Thinking...* \n(Checking the fridge and generating your plan)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()

	log.Printf("Generating plan for request: %s", msg.Text)

	var prefs []string
	if req := strings.TrimSpace(msg.Text); req != "" {
		prefs = append(prefs, req)
	}

	// Orders created from chat stay pending; confirmation is a
	// deliberate act, not a side effect of asking for a plan.
	result := b.concierge.PlanAndOrder(ctx, 7, prefs, false)

	planText, groceryText := formatResultMarkdownParts(result)

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, planText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	groceryMsg := tgbotapi.NewMessage(msg.Chat.ID, groceryText)
	groceryMsg.ParseMode = "Markdown"
	b.api.Send(groceryMsg)
}

func formatResultMarkdownParts(result *concierge.Result) (string, string) {
	var pb strings.Builder
	pb.WriteString("📅 *Meal Plan*\n\n")

	for _, dp := range result.Plan.Days {
		pb.WriteString(fmt.Sprintf("*Day %d*\n", dp.Day))
		pb.WriteString(fmt.Sprintf("🍳 %s\n", dp.Breakfast))
		pb.WriteString(fmt.Sprintf("🥪 %s\n", dp.Lunch))
		pb.WriteString(fmt.Sprintf("🍽 %s\n\n", dp.Dinner))
	}
	for _, note := range result.Plan.Notes {
		pb.WriteString(fmt.Sprintf("_%s_\n", note))
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Grocery List*\n\n")
	if len(result.GroceryList) == 0 {
		sb.WriteString("_Nothing needed; the fridge covers the plan._\n")
	}
	for _, item := range result.GroceryList {
		if item.Found {
			sb.WriteString(fmt.Sprintf("• %s: %d %s ($%.2f)\n", item.Name, item.Quantity, item.Unit, item.EstimatedPrice*float64(item.Quantity)))
		} else {
			sb.WriteString(fmt.Sprintf("• %s: _not available_\n", item.Name))
		}
	}

	if result.Order != nil {
		sb.WriteString(fmt.Sprintf("\n💰 *Total: $%.2f* (incl. $%.2f delivery, $%.2f tip)\n", result.Order.Total, result.Order.DeliveryFee, result.Order.Tip))
		sb.WriteString(fmt.Sprintf("📦 Order %s, delivery %s\n", result.Order.ID, result.Order.DeliveryAt.Format("Mon 15:04")))
	}

	for _, warning := range result.Warnings {
		sb.WriteString(fmt.Sprintf("\n⚠️ %s\n", warning))
	}

	return pb.String(), sb.String()
}
