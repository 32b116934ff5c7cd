package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flight-price-bot/config"
	"flight-price-bot/utils"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// Telegram sends messages through the Bot API to a single chat
type Telegram struct {
	bot    *bot.Bot
	token  string
	chatID string
	logger *utils.Logger
}

// NewTelegram creates a Telegram notifier from configuration. No request is
// made here; the token is first used by the initial send.
func NewTelegram(cfg *config.Config, logger *utils.Logger) (*Telegram, error) {
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	b, err := bot.New(cfg.BotToken,
		bot.WithServerURL(strings.TrimRight(cfg.TelegramAPIURL, "/")),
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(cfg.HTTPTimeout, client),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: telegram client: %v", config.ErrConfig, err)
	}
	return &Telegram{bot: b, token: cfg.BotToken, chatID: cfg.ChatID, logger: logger}, nil
}

// SendText posts a plain text message
func (t *Telegram) SendText(ctx context.Context, message string) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   message,
	})
	if err != nil {
		return fmt.Errorf("%w: sendMessage: %s", ErrDelivery, t.redact(err))
	}
	t.logger.Debug("Message delivered: %s", message)
	return nil
}

// SendPhoto uploads an image file with a caption
func (t *Telegram) SendPhoto(ctx context.Context, path, caption string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open photo: %v", ErrDelivery, err)
	}
	defer file.Close()

	start := time.Now()
	_, err = t.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  t.chatID,
		Photo:   &tgmodels.InputFileUpload{Filename: filepath.Base(path), Data: file},
		Caption: caption,
	})
	if err != nil {
		return fmt.Errorf("%w: sendPhoto: %s", ErrDelivery, t.redact(err))
	}
	t.logger.Since("photo "+filepath.Base(path), start)
	return nil
}

// redact strips the bot token, which transport errors carry inside the request URL
func (t *Telegram) redact(err error) string {
	return strings.ReplaceAll(err.Error(), t.token, "<bot-token>")
}
