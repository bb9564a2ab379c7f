package notify

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"eventtrader/internal/config"
)

// TelegramNotifier pushes messages to a single chat via the Bot API.
type TelegramNotifier struct {
	bot     *telego.Bot
	chatID  int64
	timeout time.Duration
}

func NewTelegramNotifier(cfg config.NotifyConfig) (*TelegramNotifier, error) {
	token := os.Getenv(cfg.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("telegram token missing: set %s", cfg.TokenEnv)
	}
	rawChatID := os.Getenv(cfg.ChatIDEnv)
	chatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", cfg.ChatIDEnv, err)
	}
	bot, err := telego.NewBot(token, telego.WithDiscardLogger())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, timeout: timeout}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	msg := tu.Message(tu.ID(n.chatID), text).WithParseMode(telego.ModeMarkdown)
	if _, err := n.bot.SendMessage(sendCtx, msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
