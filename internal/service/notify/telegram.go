package notify

import (
	"context"
	"fmt"
	"strings"

	"TradeYodha/internal/domain/models"
	domsvc "TradeYodha/internal/domain/service"
	applogger "TradeYodha/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers tier-gated alerts to a Telegram chat.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	maxTier int
	l       *applogger.Logger
}

// NewTelegramNotifier creates a notifier. Signals with Tier > maxTier are
// silently skipped so context-tier chatter never reaches the channel.
func NewTelegramNotifier(token string, chatID int64, maxTier int, l *applogger.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	if maxTier <= 0 {
		maxTier = 2
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, maxTier: maxTier, l: l}, nil
}

// Notify sends the signal to the configured chat.
func (n *TelegramNotifier) Notify(ctx context.Context, sig *models.Signal) error {
	if sig == nil || sig.Tier > n.maxTier {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, FormatSignal(sig))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		if n.l != nil {
			n.l.Error("telegram send failed",
				applogger.String("ticker", sig.Ticker),
				applogger.String("type", string(sig.Type)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// FormatSignal renders the alert message body in HTML parse mode.
func FormatSignal(sig *models.Signal) string {
	var b strings.Builder

	icon := "⚪" // white circle
	switch sig.Bias {
	case models.BiasBullish:
		icon = "\U0001f7e2" // green circle
	case models.BiasBearish:
		icon = "\U0001f534" // red circle
	}

	fmt.Fprintf(&b, "%s <b>%s</b> | %s\n", icon, sig.Ticker, escapeHTML(sig.Title))
	fmt.Fprintf(&b, "%s\n", escapeHTML(sig.Summary))
	fmt.Fprintf(&b, "Tier %d · %s · $%.2f\n", sig.Tier, sig.Confidence, sig.Price)
	if sig.Target1 != nil && sig.Stop != nil {
		fmt.Fprintf(&b, "Target $%.2f / Stop $%.2f\n", *sig.Target1, *sig.Stop)
	}
	return b.String()
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

var _ domsvc.Notifier = (*TelegramNotifier)(nil)
