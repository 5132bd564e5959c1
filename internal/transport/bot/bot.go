package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"price_tracker/internal/transport/bot/handler"
	"price_tracker/pkg/contextx"
	"price_tracker/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const pollTimeoutSeconds = 60

// Bot представляет собой Telegram-бота
type Bot struct {
	bot          *telego.Bot
	handler      *handler.Handler
	allowedChats []int64
}

func New(bot *telego.Bot, h *handler.Handler, allowedChats []int64) *Bot {
	return &Bot{
		bot:          bot,
		handler:      h,
		allowedChats: allowedChats,
	}
}

// Run принимает команды через long polling до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{Commands: handler.Commands}); err != nil {
		logger(ctx).Warn("failed to set bot commands", logx.Error(err))
	}

	updates, err := b.bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: pollTimeoutSeconds,
	})
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(b.bot, updates)
	if err != nil {
		return fmt.Errorf("failed to create bot handler: %w", err)
	}

	b.handler.RegisterRoutes(botHandler, b.allowedChats)

	go func() {
		if err := botHandler.Start(); err != nil {
			logger(ctx).Error("bot handler stopped", logx.Error(err))
		}
	}()

	logger(ctx).Info("bot started", slog.Int("allowed-chats", len(b.allowedChats)))

	<-ctx.Done()

	if err := botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	logger(ctx).Info("bot stopped")

	return ctx.Err()
}
