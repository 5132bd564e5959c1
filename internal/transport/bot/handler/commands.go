package handler

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"price_tracker/internal/domain"
	"price_tracker/internal/transport/bot/view"
	"price_tracker/pkg/logx"
)

const (
	CommandStart         = "start"
	CommandHelp          = "help"
	CommandListTracked   = "list_tracked"
	CommandAdd           = "add"
	CommandRemove        = "remove"
	CommandTimeUntilNext = "time_until_next_update"
)

// Commands is the bot menu, in display order.
var Commands = []telego.BotCommand{ //nolint:gochecknoglobals
	{Command: CommandListTracked, Description: "Show tracked items"},
	{Command: CommandAdd, Description: "Track a product page: /add <url>"},
	{Command: CommandRemove, Description: "Stop tracking a product page: /remove <url>"},
	{Command: CommandTimeUntilNext, Description: "Time until unchanged prices are posted again"},
}

// Answer returns the reply to a command message. arg is everything after the
// command itself.
func (h *Handler) Answer(ctx context.Context, command, arg string) string {
	switch command {
	case CommandStart, CommandHelp:
		return view.StartMessage
	case CommandListTracked:
		return h.listTracked()
	case CommandAdd:
		return h.add(ctx, arg)
	case CommandRemove:
		return h.remove(ctx, arg)
	case CommandTimeUntilNext:
		return view.NextUpdate(h.svc.NextUpdateIn(h.now()))
	default:
		return view.StartMessage
	}
}

func (h *Handler) listTracked() string {
	lines := h.svc.List()
	if len(lines) == 0 {
		return view.EmptyList
	}

	return strings.Join(lines, "\n")
}

func (h *Handler) add(ctx context.Context, arg string) string {
	if arg == "" {
		return view.AddUsage
	}

	item, err := h.svc.Add(ctx, arg)
	if err != nil {
		logger(ctx).Info("add rejected", slog.String(logx.FieldURL, arg), logx.Error(err))
		return domain.Reason(err)
	}

	return view.Added(item.Name)
}

func (h *Handler) remove(ctx context.Context, arg string) string {
	if arg == "" {
		return view.RemoveUsage
	}

	item, err := h.svc.Remove(ctx, arg)
	if err != nil {
		logger(ctx).Info("remove rejected", slog.String(logx.FieldURL, arg), logx.Error(err))
		return domain.Reason(err)
	}

	return view.Removed(item.Name)
}

// OnCommand answers any registered command in the chat it came from.
func (h *Handler) OnCommand(ctx *th.Context, msg telego.Message) error {
	command, arg := SplitCommand(msg.Text)

	_, err := ctx.Bot().SendMessage(ctx, tu.Message(tu.ID(msg.Chat.ID), h.Answer(ctx, command, arg)))

	return err
}

// SplitCommand turns "/add@my_bot  https://x " into ("add", "https://x").
func SplitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)

	head, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, rest = text[:i], strings.TrimSpace(text[i:])
	}

	head = strings.TrimPrefix(head, "/")
	head, _, _ = strings.Cut(head, "@")

	return strings.ToLower(head), rest
}
