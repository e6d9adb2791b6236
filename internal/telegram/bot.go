package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"grocery-planner/internal/cart"
	"grocery-planner/internal/catalog"
	"grocery-planner/internal/config"
	"grocery-planner/internal/locator"
	"grocery-planner/internal/logging"
	"grocery-planner/internal/metrics"
	"grocery-planner/internal/nutrition"
	"grocery-planner/internal/recipe"
	"grocery-planner/internal/shared"
)

// LocationTimeout bounds how long /stores waits for a shared location.
const LocationTimeout = 2 * time.Minute

// Engine is the grocery engine the bot drives. *app.App implements it.
type Engine interface {
	Search(ctx context.Context, term string) ([]catalog.Product, shared.SearchOutcome)
	AddToCart(ctx context.Context, userID string, productID, qty int) (catalog.Product, error)
	SetQuantity(ctx context.Context, userID string, productID, qty int) (bool, error)
	RemoveFromCart(ctx context.Context, userID string, productID int) (bool, error)
	Cart(ctx context.Context, userID string) (*cart.Cart, error)
	ClearCart(ctx context.Context, userID string) (int64, error)
	CartRecipes(ctx context.Context, userID string) ([]recipe.GeneratedRecipe, error)
	CartNutrition(ctx context.Context, userID string) (nutrition.Totals, error)
	LocateStores(ctx context.Context, geo locator.Geolocator) locator.Result
	ImportRecipe(ctx context.Context, rawURL string) (*recipe.Recipe, error)
	ImportedRecipes(ctx context.Context) ([]recipe.Recipe, error)
	RecipeStats(ctx context.Context) (recipe.Stats, error)
	DailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
	Health() metrics.SysHealth
}

// sender is the part of the Telegram API the bot uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Bot wraps the Telegram API and the grocery engine.
type Bot struct {
	api    sender
	engine Engine
	cfg    *config.Config
	log    *zap.Logger

	mu      sync.Mutex
	prompts map[int64]*locator.Prompt

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, engine Engine, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	b := newBot(api, cfg, engine, logger)
	b.log.Info("authorized", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook for %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	b.log.Info("webhook set", zap.String("response", resp.Description))
	return b, nil
}

func newBot(api sender, cfg *config.Config, engine Engine, logger *zap.Logger) *Bot {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		api:     api,
		engine:  engine,
		cfg:     cfg,
		log:     logging.OrNop(logger).Named("telegram"),
		prompts: make(map[int64]*locator.Prompt),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// Shutdown stops pending location prompts and waits for in-flight updates.
func (b *Bot) Shutdown(ctx context.Context) error {
	b.cancel()
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Warn("failed to parse update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if !b.allowed(update.CallbackQuery.From) {
			return
		}
		b.spawn(func() { b.handleCallbackQuery(update.CallbackQuery) })
		return
	}

	if update.Message == nil || !b.allowed(update.Message.From) {
		return
	}
	b.spawn(func() { b.processMessage(update.Message) })
}

func (b *Bot) spawn(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// allowed admits everyone when no allow-list is configured.
func (b *Bot) allowed(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if len(b.cfg.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if from.ID == id {
			return true
		}
	}
	b.log.Warn("unauthorized access attempt",
		zap.Int64("user_id", from.ID),
		zap.String("username", from.UserName),
	)
	return false
}

func userKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if msg.Location != nil {
		b.handleLocation(msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImport(msg, text)
		return
	}
	if !msg.IsCommand() {
		if text == skipLabel {
			b.declineLocation(msg)
			return
		}
		b.handleSearch(msg, text)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
	case "search":
		b.handleSearch(msg, args)
	case "add":
		b.handleAdd(msg, args)
	case "qty":
		b.handleSetQuantity(msg, args)
	case "remove":
		b.handleRemove(msg, args)
	case "cart":
		b.handleCart(msg)
	case "clear":
		b.handleClear(msg)
	case "recipes":
		b.handleRecipes(msg)
	case "nutrition":
		b.handleNutrition(msg)
	case "stores":
		b.handleStores(msg)
	case "skip":
		b.declineLocation(msg)
	case "import":
		b.handleImport(msg, args)
	case "imported":
		b.handleImported(msg)
	case "metrics":
		b.handleMetricsRequest(msg)
	default:
		b.reply(msg.Chat.ID, "🤔 Unknown command. Try /help.")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(m); err != nil {
		b.log.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) replyError(chatID int64, action string, err error) {
	b.log.Error("request failed", zap.String("action", action), zap.Error(err))
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.reply(chatID, fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", action, safeErr))
}

func (b *Bot) handleSearch(msg *tgbotapi.Message, term string) {
	if term == "" {
		b.reply(msg.Chat.ID, "Usage: /search <product>")
		return
	}
	products, outcome := b.engine.Search(b.ctx, term)

	m := tgbotapi.NewMessage(msg.Chat.ID, formatSearch(term, products, outcome))
	m.ParseMode = tgbotapi.ModeMarkdown
	if kb, ok := addKeyboard(products); ok {
		m.ReplyMarkup = kb
	}
	if _, err := b.api.Send(m); err != nil {
		b.log.Warn("failed to send search results", zap.Error(err))
	}
}

func (b *Bot) handleAdd(msg *tgbotapi.Message, args string) {
	id, qty, err := parseAddArgs(args)
	if err != nil {
		b.reply(msg.Chat.ID, "Usage: /add <id> [quantity]")
		return
	}
	b.addToCart(msg.Chat.ID, msg.From.ID, id, qty)
}

func (b *Bot) addToCart(chatID, userID int64, productID, qty int) {
	p, err := b.engine.AddToCart(b.ctx, userKey(userID), productID, qty)
	if err != nil {
		b.replyError(chatID, "adding to cart", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("🛒 Added %d × *%s* to your cart.", qty, escape(p.Name)))
}

func (b *Bot) handleSetQuantity(msg *tgbotapi.Message, args string) {
	id, qty, err := parseAddArgs(args)
	if err != nil || len(strings.Fields(args)) != 2 {
		b.reply(msg.Chat.ID, "Usage: /qty <id> <quantity>")
		return
	}
	ok, err := b.engine.SetQuantity(b.ctx, userKey(msg.From.ID), id, qty)
	if err != nil {
		b.replyError(msg.Chat.ID, "updating cart", err)
		return
	}
	if !ok {
		b.reply(msg.Chat.ID, fmt.Sprintf("Item %d is not in your cart.", id))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✏️ Item %d set to %d.", id, qty))
}

func (b *Bot) handleRemove(msg *tgbotapi.Message, args string) {
	id, err := strconv.Atoi(args)
	if err != nil {
		b.reply(msg.Chat.ID, "Usage: /remove <id>")
		return
	}
	removed, err := b.engine.RemoveFromCart(b.ctx, userKey(msg.From.ID), id)
	if err != nil {
		b.replyError(msg.Chat.ID, "updating cart", err)
		return
	}
	if !removed {
		b.reply(msg.Chat.ID, fmt.Sprintf("Item %d is not in your cart.", id))
		return
	}
	b.reply(msg.Chat.ID, "🗑 Removed.")
}

func (b *Bot) handleCart(msg *tgbotapi.Message) {
	c, err := b.engine.Cart(b.ctx, userKey(msg.From.ID))
	if err != nil {
		b.replyError(msg.Chat.ID, "loading cart", err)
		return
	}
	b.reply(msg.Chat.ID, formatCart(c))
}

func (b *Bot) handleClear(msg *tgbotapi.Message) {
	n, err := b.engine.ClearCart(b.ctx, userKey(msg.From.ID))
	if err != nil {
		b.replyError(msg.Chat.ID, "clearing cart", err)
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🧹 Cleared %d item(s).", n))
}

func (b *Bot) handleRecipes(msg *tgbotapi.Message) {
	recipes, err := b.engine.CartRecipes(b.ctx, userKey(msg.From.ID))
	if err != nil {
		b.replyError(msg.Chat.ID, "suggesting recipes", err)
		return
	}
	b.reply(msg.Chat.ID, formatRecipes(recipes))
}

func (b *Bot) handleNutrition(msg *tgbotapi.Message) {
	totals, err := b.engine.CartNutrition(b.ctx, userKey(msg.From.ID))
	if err != nil {
		b.replyError(msg.Chat.ID, "computing nutrition", err)
		return
	}
	b.reply(msg.Chat.ID, formatNutrition(totals))
}

// handleStores asks for the user's location and ranks stores once it
// arrives, is declined, or times out.
func (b *Bot) handleStores(msg *tgbotapi.Message) {
	userID := msg.From.ID
	prompt := locator.NewPrompt()

	b.mu.Lock()
	if _, pending := b.prompts[userID]; pending {
		b.mu.Unlock()
		b.reply(msg.Chat.ID, "📍 Still waiting for your location. Share it, or send /skip.")
		return
	}
	b.prompts[userID] = prompt
	b.mu.Unlock()

	m := tgbotapi.NewMessage(msg.Chat.ID, "📍 Share your location to find nearby stores, or tap *Skip*.")
	m.ParseMode = tgbotapi.ModeMarkdown
	m.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 Share location"),
			tgbotapi.NewKeyboardButton(skipLabel),
		),
	)
	if _, err := b.api.Send(m); err != nil {
		b.log.Warn("failed to send location prompt", zap.Error(err))
	}

	b.spawn(func() {
		defer func() {
			b.mu.Lock()
			delete(b.prompts, userID)
			b.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(b.ctx, LocationTimeout)
		defer cancel()
		res := b.engine.LocateStores(ctx, prompt)

		out := tgbotapi.NewMessage(msg.Chat.ID, formatStores(res))
		out.ParseMode = tgbotapi.ModeMarkdown
		out.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		if _, err := b.api.Send(out); err != nil {
			b.log.Warn("failed to send stores", zap.Error(err))
		}
	})
}

func (b *Bot) pendingPrompt(userID int64) *locator.Prompt {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.prompts[userID]
}

func (b *Bot) handleLocation(msg *tgbotapi.Message) {
	prompt := b.pendingPrompt(msg.From.ID)
	if prompt == nil {
		b.reply(msg.Chat.ID, "Thanks! Send /stores to find stores near you.")
		return
	}
	prompt.Deliver(locator.Coordinate{Lat: msg.Location.Latitude, Lng: msg.Location.Longitude})
}

func (b *Bot) declineLocation(msg *tgbotapi.Message) {
	prompt := b.pendingPrompt(msg.From.ID)
	if prompt == nil {
		b.reply(msg.Chat.ID, "Nothing to skip.")
		return
	}
	prompt.Decline()
}

func (b *Bot) handleImport(msg *tgbotapi.Message, rawURL string) {
	if rawURL == "" {
		b.reply(msg.Chat.ID, "Usage: /import <recipe url>")
		return
	}
	b.reply(msg.Chat.ID, "✂️ *Clipping recipe...*")

	ctx, cancel := context.WithTimeout(b.ctx, time.Minute)
	defer cancel()
	rec, err := b.engine.ImportRecipe(ctx, rawURL)
	if err != nil {
		b.replyError(msg.Chat.ID, "clipping recipe", err)
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ *Recipe Saved!*\n\n*Title:* %s\n*Ingredients:* %s",
		escape(rec.Title), escape(strings.Join(rec.Ingredients, ", "))))
}

func (b *Bot) handleImported(msg *tgbotapi.Message) {
	recipes, err := b.engine.ImportedRecipes(b.ctx)
	if err != nil {
		b.replyError(msg.Chat.ID, "listing recipes", err)
		return
	}
	b.reply(msg.Chat.ID, formatImported(recipes))
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", zap.Error(err))
	}
	if query.Message == nil {
		return
	}

	action, arg, ok := strings.Cut(query.Data, "|")
	if !ok || action != "add" {
		return
	}
	id, err := strconv.Atoi(arg)
	if err != nil {
		return
	}
	b.addToCart(query.Message.Chat.ID, query.From.ID, id, 1)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}
	usage, err := b.engine.DailyUsage(b.ctx, 7)
	if err != nil {
		b.replyError(msg.Chat.ID, "fetching metrics", err)
		return
	}
	stats, err := b.engine.RecipeStats(b.ctx)
	if err != nil {
		b.replyError(msg.Chat.ID, "fetching metrics", err)
		return
	}
	b.reply(msg.Chat.ID, formatMetrics(usage, stats, b.engine.Health()))
}

func parseAddArgs(args string) (id, qty int, err error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, 0, fmt.Errorf("expected <id> [quantity]")
	}
	id, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q", fields[0])
	}
	qty = 1
	if len(fields) == 2 {
		qty, err = strconv.Atoi(fields[1])
		if err != nil || qty <= 0 {
			return 0, 0, fmt.Errorf("invalid quantity %q", fields[1])
		}
	}
	return id, qty, nil
}
