// Package notify reports run progress and warnings to Telegram. A nil
// notifier is valid and silently drops everything, so callers never guard.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hh24tech/sisal-sync/internal/pkg/config"
)

const defaultMinSendInterval = 2 * time.Second

type Notifier struct {
	bot         *tgbotapi.BotAPI
	chatID      int64
	minInterval time.Duration

	mu       sync.Mutex
	lastSent time.Time
}

// New creates a notifier, or returns nil (and no error) when the token is
// empty so that Telegram stays optional.
func New(cfg *config.TelegramConfig) (*Notifier, error) {
	if cfg == nil || cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	interval := cfg.MinSendInterval
	if interval <= 0 {
		interval = defaultMinSendInterval
	}

	slog.Info("Telegram notifier initialized", "bot", bot.Self.UserName, "chat_id", cfg.ChatID)
	return &Notifier{bot: bot, chatID: cfg.ChatID, minInterval: interval}, nil
}

// Warnf sends a formatted warning message.
func (n *Notifier) Warnf(format string, args ...any) {
	n.send("⚠️ " + fmt.Sprintf(format, args...))
}

// RunSummary reports one finished category pass.
func (n *Notifier) RunSummary(category string, regions, fixtures, sent, failed int, elapsed time.Duration) {
	n.send(fmt.Sprintf(
		"✅ %s done\nRegions: %d\nFixtures: %d\nSent: %d\nFailed: %d\nTook: %s",
		category, regions, fixtures, sent, failed, elapsed.Round(time.Second),
	))
}

func (n *Notifier) send(text string) {
	if n == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := n.minInterval - time.Since(n.lastSent); wait > 0 {
		time.Sleep(wait)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Warn("Failed to send telegram message", "error", err)
		return
	}
	n.lastSent = time.Now()
}
