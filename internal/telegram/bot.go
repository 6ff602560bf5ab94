// Package telegram runs the webhook-driven Telegram bot front-end.
package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"paw-kitchen/internal/app"
	"paw-kitchen/internal/config"
	"paw-kitchen/internal/energy"
	"paw-kitchen/internal/planner"
	"paw-kitchen/internal/ratio"
	"paw-kitchen/internal/shopping"
	"paw-kitchen/internal/supplements"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API and the planning application.
type Bot struct {
	api      *tgbotapi.BotAPI
	app      *app.App
	sessions *SessionStore
	cfg      *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:      api,
		app:      application,
		sessions: NewSessionStore(),
		cfg:      cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler on the given mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
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

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}

	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/start", "/help":
		b.reply(msg.Chat.ID, helpText)
	case "/profile":
		b.handleProfile(msg.Chat.ID, args)
	case "/pantry":
		b.handlePantry(msg.Chat.ID, args)
	case "/preset":
		b.handlePreset(msg.Chat.ID, args)
	case "/energy":
		b.handleEnergy(msg.Chat.ID)
	case "/plan":
		b.handlePlan(msg.Chat.ID, args)
	case "/supplements":
		b.handleSupplements(msg.Chat.ID, args)
	case "/reset":
		b.sessions.Reset(msg.Chat.ID)
		b.reply(msg.Chat.ID, "Session cleared. Set a new profile with /profile.")
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send /help for the command list.")
	}
}

const helpText = `🐾 *Paw Kitchen*

Plan a week of balanced home-cooked meals for your dog.

*Commands*
/profile <weight\_kg> <age\_years> [activity] [intact] [flags...] — set the dog's profile
/pantry <ingredient ids...> — restrict planning to these ingredients (empty to list, ` + "`clear`" + ` to reset)
/preset <name> — pick a macro preset (balanced, weight, active, senior, puppy, gentle\_gi)
/energy — show the daily calorie target
/plan [days] — compute the weekly plan
/supplements [focus] — supplement suggestions
/reset — start over

Activity is one of low, normal, high, athletic. Flags are e.g. weight\_loss, pancreatitis\_risk, kidney\_concern.`

func (b *Bot) handleProfile(chatID int64, args []string) {
	if len(args) < 2 {
		b.reply(chatID, "Usage: /profile <weight_kg> <age_years> [activity] [intact] [flags...]")
		return
	}

	weight, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Weight %q is not a number.", args[0]))
		return
	}
	age, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Age %q is not a number.", args[1]))
		return
	}

	profile := energy.AnimalProfile{
		WeightKg: weight,
		AgeYears: age,
		Activity: energy.ActivityNormal,
		Neutered: true,
	}
	for _, arg := range args[2:] {
		switch arg {
		case "low", "normal", "high", "athletic":
			profile.Activity = energy.ActivityLevel(arg)
		case "intact":
			profile.Neutered = false
		case "neutered":
			profile.Neutered = true
		default:
			profile.HealthFlags = append(profile.HealthFlags, energy.HealthFlag(arg))
		}
	}

	target, err := b.app.EstimateEnergy(profile)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ %v", err))
		return
	}

	b.sessions.Update(chatID, func(s *Session) {
		s.Profile = profile
		s.HasProfile = true
	})
	b.reply(chatID, fmt.Sprintf(
		"✅ Profile saved: %.1f kg, %.1f years (%s).\nDaily target: *%.0f kcal*. Run /plan when ready.",
		weight, age, target.Stage, target.MER,
	))
}

func (b *Bot) handlePantry(chatID int64, args []string) {
	if len(args) == 0 {
		sess := b.sessions.Get(chatID)
		if len(sess.PantryIDs) == 0 {
			b.reply(chatID, "Pantry is unset; plans draw from the full catalog. Send /pantry <ids...> to restrict it.")
			return
		}
		b.reply(chatID, "Current pantry: "+strings.Join(sess.PantryIDs, ", "))
		return
	}

	if len(args) == 1 && args[0] == "clear" {
		b.sessions.Update(chatID, func(s *Session) { s.PantryIDs = nil })
		b.reply(chatID, "Pantry cleared; plans will use the full catalog.")
		return
	}

	if _, err := b.app.Catalog().Select(args); err != nil {
		b.reply(chatID, fmt.Sprintf("❌ %v", err))
		return
	}
	b.sessions.Update(chatID, func(s *Session) { s.PantryIDs = args })
	b.reply(chatID, fmt.Sprintf("✅ Pantry set to %d ingredients.", len(args)))
}

func (b *Bot) handlePreset(chatID int64, args []string) {
	if len(args) == 0 {
		var names []string
		for _, p := range ratio.Presets() {
			names = append(names, p.Name)
		}
		b.reply(chatID, "Presets: "+strings.Join(names, ", "))
		return
	}

	spec, err := ratio.Preset(args[0])
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ %v", err))
		return
	}
	b.sessions.Update(chatID, func(s *Session) { s.Preset = spec.Name })
	b.reply(chatID, fmt.Sprintf(
		"✅ Preset *%s*: %.0f%% protein / %.0f%% fat / %.0f%% carb.",
		spec.Name, spec.ProteinPct, spec.FatPct, spec.CarbPct,
	))
}

func (b *Bot) handleEnergy(chatID int64) {
	sess := b.sessions.Get(chatID)
	if !sess.HasProfile {
		b.reply(chatID, "Set a profile first: /profile <weight_kg> <age_years>")
		return
	}

	target, err := b.app.EstimateEnergy(sess.Profile)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("❌ %v", err))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚡ *Energy target*\nRER: %.0f kcal\nMER: %.0f kcal (%s)\n", target.RER, target.MER, target.Stage))
	for _, r := range target.Rationale {
		sb.WriteString(fmt.Sprintf("• %s\n", r))
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) handlePlan(chatID int64, args []string) {
	sess := b.sessions.Get(chatID)
	if !sess.HasProfile {
		b.reply(chatID, "Set a profile first: /profile <weight_kg> <age_years>")
		return
	}

	days := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			b.reply(chatID, fmt.Sprintf("Days %q is not a positive number.", args[0]))
			return
		}
		days = n
	}

	statusMsg := tgbotapi.NewMessage(chatID, "🧑‍🍳 *Balancing meals...*")
	statusMsg.ParseMode = "Markdown"
	sent, err := b.api.Send(statusMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	plan, err := b.app.ComputeWeeklyPlan(ctx, app.PlanInput{
		Profile:   sess.Profile,
		Preset:    sess.Preset,
		PantryIDs: sess.PantryIDs,
		Days:      days,
	})

	if err != nil {
		log.Printf("Error computing plan: %v", err)
		edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, fmt.Sprintf("❌ *Could not compute plan:*\n%v", err))
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, formatPlanMarkdown(plan))
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	// Second message with the shopping list, like a grocery note you can
	// forward on its own.
	b.reply(chatID, formatShoppingMarkdown(shopping.FromPlan(plan)))
}

func (b *Bot) handleSupplements(chatID int64, args []string) {
	var entries []supplements.Entry
	if len(args) == 0 {
		entries = supplements.Guide()
	} else {
		var focuses []supplements.Focus
		for _, a := range args {
			focuses = append(focuses, supplements.Focus(a))
		}
		entries = supplements.SuggestFor(focuses...)
	}

	if len(entries) == 0 {
		b.reply(chatID, "No suggestions for that focus. Try skin_coat, gut, joint, senior, or weight.")
		return
	}

	var sb strings.Builder
	sb.WriteString("💊 *Supplement guide*\n\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("*%s* — %s\n", e.Name, e.Why))
		if e.Cautions != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n", e.Cautions))
		}
		sb.WriteString("\n")
	}
	b.reply(chatID, sb.String())
}

func formatPlanMarkdown(plan *planner.WeeklyPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Weekly Plan* (target %.0f kcal/day, %s)\n\n", plan.Target.MER, plan.Spec.Name))

	for _, day := range plan.Days {
		sb.WriteString(fmt.Sprintf("*Day %d* — %.0f kcal, Ca:P %.2f\n", day.Day, day.Totals.Kcal, day.CaPRatio))
		for _, p := range day.Portions {
			sb.WriteString(fmt.Sprintf("• %s: %.0f g\n", p.Ingredient.Name, p.Grams))
		}
		if day.Note != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n", day.Note))
		}
		sb.WriteString("\n")
	}

	if len(plan.Report) > 0 {
		sb.WriteString("⚠️ *Findings*\n")
		for code, f := range plan.Report {
			sb.WriteString(fmt.Sprintf("• [%s] %s: %s\n", f.Severity, code, f.Message))
		}
	}

	return sb.String()
}

func formatShoppingMarkdown(list shopping.List) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n")
	groups := []struct {
		label string
		items []shopping.Item
	}{
		{"Fresh", list.Fresh},
		{"Frozen", list.Frozen},
		{"Pantry", list.Pantry},
	}
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n_%s_\n", g.label))
		for _, item := range g.items {
			sb.WriteString(fmt.Sprintf("• %s: %.0f g\n", item.Name, item.TotalGrams))
		}
	}
	return sb.String()
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}
