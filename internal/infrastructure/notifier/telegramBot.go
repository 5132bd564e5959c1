package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf16"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"price_tracker/pkg/logx"
)

// MaxMessageLen is the Telegram limit for one text message, in UTF-16 code
// units.
const MaxMessageLen = 4096

// MessageSender is the part of *telego.Bot the notifier needs.
type MessageSender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// TelegramBot delivers notifications to one chat.
type TelegramBot struct {
	bot    MessageSender
	chatID int64
}

func NewTelegramBot(bot MessageSender, chatID int64) *TelegramBot {
	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}
}

// SendText sends text as plain messages, split on line boundaries when it
// does not fit into one.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	chunks := SplitText(text, MaxMessageLen)

	for i, chunk := range chunks {
		// Telegram refuses blank messages.
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(b.chatID), chunk)); err != nil {
			return fmt.Errorf("send message %d/%d: %w", i+1, len(chunks), err)
		}
	}

	logger(ctx).Debug("notification sent",
		slog.Int64(logx.FieldChatID, b.chatID),
		slog.Int("messages", len(chunks)),
	)

	return nil
}

// SplitText cuts text into pieces of at most limit UTF-16 code units, the
// unit Telegram counts in, preferring line breaks. Empty lines are kept. A
// single line longer than limit is cut mid-line on a rune boundary.
func SplitText(text string, limit int) []string {
	if limit <= 0 || utf16Len(text) <= limit {
		return []string{text}
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
		lines   int
	)

	flush := func() {
		if lines > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			size, lines = 0, 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for utf16Len(line) > limit {
			head, tail := cutUnits(line, limit)
			flush()
			chunks = append(chunks, head)
			line = tail
		}

		units := utf16Len(line)

		need := units
		if lines > 0 {
			need++
		}

		if lines > 0 && size+need > limit {
			flush()
			need = units
		}

		if lines > 0 {
			current.WriteByte('\n')
		}

		current.WriteString(line)
		size += need
		lines++
	}

	flush()

	return chunks
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}

	return n
}

// cutUnits splits s after the longest prefix of at most limit UTF-16 units.
// The prefix holds at least one rune.
func cutUnits(s string, limit int) (string, string) {
	n := 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if n+w > limit && i > 0 {
			return s[:i], s[i:]
		}

		n += w
	}

	return s, ""
}
