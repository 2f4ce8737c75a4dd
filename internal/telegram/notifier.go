package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ogaydukov/boostup/internal/domain"
	"github.com/ogaydukov/boostup/pkg/logger"
)

const queueSize = 256

// Notifier pushes order and reward events to a Telegram chat. Every call is
// fire-and-forget: messages are queued and sent by a background worker, a
// full queue drops the message, and send failures are only logged. An empty
// bot token disables the notifier entirely.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	queue  chan string
}

func New(token string, chatID int64) *Notifier {
	n := &Notifier{
		chatID: chatID,
		queue:  make(chan string, queueSize),
	}

	if token == "" || chatID == 0 {
		logger.Log.Info("telegram notifications disabled, no token or chat ID configured")
		return n
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Log.Error("error connecting to telegram, notifications disabled", logger.Error(err))
		return n
	}

	n.bot = bot
	return n
}

// Run starts the send worker. It returns immediately; the worker stops when
// ctx is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	if n.bot == nil {
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case text := <-n.queue:
				msg := tgbotapi.NewMessage(n.chatID, text)
				msg.ParseMode = tgbotapi.ModeMarkdown
				if _, err := n.bot.Send(msg); err != nil {
					logger.Log.Warn("error sending telegram notification", logger.Error(err))
				}
			}
		}
	}()
}

func (n *Notifier) OrderCreated(order domain.Order, login string) {
	n.enqueue(fmt.Sprintf(
		"📦 *New Order Received*\n👤 User: `%s`\n🆔 Task ID: `%s`\n📺 Type: %s\n🔗 Link: %s\n📝 Title: %s\n🔢 Quantity: %d",
		login, order.TaskID, order.VideoType, order.VideoLink, order.Title, order.Quantity,
	))
}

func (n *Notifier) ContactRewarded(login, method, contact string) {
	n.enqueue(fmt.Sprintf(
		"📇 Contact Submitted\n👤 User: `%s`\n🔌 Method: %s\n📞 Contact: %s",
		login, method, contact,
	))
}

func (n *Notifier) enqueue(text string) {
	if n.bot == nil {
		return
	}

	select {
	case n.queue <- text:
	default:
		logger.Log.Warn("telegram notification queue full, dropping message")
	}
}
