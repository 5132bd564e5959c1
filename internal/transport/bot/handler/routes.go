package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"price_tracker/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, allowedChats []int64) {
	commands := bh.Group(th.AnyCommand())
	commands.Use(middleware.Logging())
	commands.Use(middleware.AllowedChats(allowedChats))

	commands.HandleMessage(h.OnCommand, th.CommandEqual(CommandStart))
	commands.HandleMessage(h.OnCommand, th.CommandEqual(CommandHelp))
	commands.HandleMessage(h.OnCommand, th.CommandEqual(CommandListTracked))
	commands.HandleMessage(h.OnCommand, th.CommandEqual(CommandAdd))
	commands.HandleMessage(h.OnCommand, th.CommandEqual(CommandRemove))
	commands.HandleMessage(h.OnCommand, th.CommandEqual(CommandTimeUntilNext))
}
