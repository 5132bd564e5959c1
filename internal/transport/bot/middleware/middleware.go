package middleware

import (
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"price_tracker/pkg/contextx"
	"price_tracker/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Logging records every command with the chat it came from and how long the
// answer took.
func Logging() th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if update.Message == nil {
			return ctx.Next(update)
		}

		traced, _ := contextx.StartTrace(ctx, "", logx.FieldTraceID)
		ctx = ctx.WithContext(traced)

		command, _, _ := strings.Cut(strings.TrimSpace(update.Message.Text), " ")
		attrs := []any{
			slog.Int64(logx.FieldChatID, update.Message.Chat.ID),
			slog.String(logx.FieldCommand, command),
		}

		logger(ctx).Info("command received", attrs...)

		start := time.Now()
		err := ctx.Next(update)

		attrs = append(attrs, slog.Int64(logx.FieldDurationMs, time.Since(start).Milliseconds()))
		if err != nil {
			logger(ctx).Error("command failed", append(attrs, logx.Error(err))...)
			return err
		}

		logger(ctx).Debug("command answered", attrs...)

		return nil
	}
}

// AllowedChats drops updates from chats not in ids. An empty list lets
// everyone through.
func AllowedChats(ids []int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if len(ids) == 0 {
			return ctx.Next(update)
		}

		var chatID int64

		switch {
		case update.Message != nil:
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
			chatID = update.CallbackQuery.Message.GetChat().ID
		default:
			return nil
		}

		if slices.Contains(ids, chatID) {
			return ctx.Next(update)
		}

		logger(ctx).Warn("update from foreign chat dropped", slog.Int64(logx.FieldChatID, chatID))

		return nil
	}
}
