// Package telegram hosts the bot on the Telegram Bot API via long polling.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/PizaSukeruton/tmbot3000/internal/engine"
	"github.com/PizaSukeruton/tmbot3000/internal/model"
)

// Bot bridges Telegram updates to the engine.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *engine.Engine
	log    zerolog.Logger
}

// New creates a Telegram bot host.
func New(token string, eng *engine.Engine, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Bot{api: api, engine: eng, log: log}, nil
}

// Run polls for updates until ctx is done. One message is handled at a time.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Str("username", b.api.Self.UserName).Msg("telegram: polling")

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	req := model.Request{
		Message: msg.Text,
		Member:  model.Member{Name: msg.From.UserName, Locale: msg.From.LanguageCode},
	}
	resp := b.engine.GenerateResponse(ctx, req)

	b.log.Debug().
		Str("intent", string(resp.Intent)).
		Str("type", string(resp.Type)).
		Int64("chat", msg.Chat.ID).
		Msg("telegram: answered")

	reply := tgbotapi.NewMessage(msg.Chat.ID, resp.Text)
	if _, err := b.api.Send(reply); err != nil {
		b.log.Warn().Err(err).Int64("chat", msg.Chat.ID).Msg("telegram: send failed")
	}
}
