package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/shopbot/core/logger"
	"github.com/m3rciful/shopbot/core/telegram/keyboard"
	"github.com/m3rciful/shopbot/core/telegram/sender"
	"github.com/m3rciful/shopbot/shop/workflow"
)

type boundTransport struct {
	bot        *tele.Bot
	dispatcher *sender.Dispatcher
}

// Messenger delivers workflow notifications over Telegram. Outbound calls go
// through the async dispatcher; when the queue is saturated or closed the
// message is sent inline instead of being dropped.
//
// The engine is constructed before the bot connects, so the transport is
// bound later, from the runtime OnStart hook.
type Messenger struct {
	admins    []int64
	transport atomic.Pointer[boundTransport]
}

// NewMessenger creates an unbound messenger for the given administrator set.
func NewMessenger(admins []int64) *Messenger {
	return &Messenger{admins: admins}
}

// Bind attaches the live bot and dispatcher. Must be called before the first
// delivery attempt.
func (m *Messenger) Bind(bot *tele.Bot, dispatcher *sender.Dispatcher) {
	m.transport.Store(&boundTransport{bot: bot, dispatcher: dispatcher})
}

func (m *Messenger) send(ctx context.Context, action string, run func(bot *tele.Bot) error) error {
	tr := m.transport.Load()
	if tr == nil || tr.bot == nil {
		return fmt.Errorf("messenger: transport not bound")
	}
	do := func() error { return run(tr.bot) }
	if tr.dispatcher == nil {
		return do()
	}
	if err := tr.dispatcher.Enqueue(ctx, action, "sendMessage", do); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("err", err.Error()),
			)
			return do()
		}
		return err
	}
	return nil
}

// SendToUser delivers markdown text to a single user.
func (m *Messenger) SendToUser(ctx context.Context, userID int64, text string) error {
	return m.send(ctx, "send.text", func(bot *tele.Bot) error {
		_, err := bot.Send(&tele.User{ID: userID}, text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		return err
	})
}

// proofMedia rebuilds the sendable for a stored proof reference. The kind
// recorded at intake decides the resend type; a bare file id sends as photo.
func proofMedia(mediaRef string) tele.Sendable {
	kind, id, ok := strings.Cut(mediaRef, ":")
	if !ok {
		return &tele.Photo{File: tele.File{FileID: mediaRef}}
	}
	if kind == proofKindDocument {
		return &tele.Document{File: tele.File{FileID: id}}
	}
	return &tele.Photo{File: tele.File{FileID: id}}
}

// ForwardMedia re-sends previously uploaded media by its proof reference.
func (m *Messenger) ForwardMedia(ctx context.Context, userID int64, mediaRef string) error {
	media := proofMedia(mediaRef)
	return m.send(ctx, "send.media", func(bot *tele.Bot) error {
		_, err := bot.Send(&tele.User{ID: userID}, media)
		return err
	})
}

// BroadcastToAdmins delivers content to every administrator. When the content
// carries an order id, approve/reject buttons scoped to that order are
// attached. Delivery is independent per admin; the first error is returned
// after all attempts.
func (m *Messenger) BroadcastToAdmins(ctx context.Context, content workflow.Content) error {
	var markup *tele.ReplyMarkup
	if content.OrderID != "" {
		markup = keyboard.InlineButtonsRows([]keyboard.InlineBtn{
			{Text: "✅ Approve", Unique: cbApprove, Data: content.OrderID},
			{Text: "❌ Reject", Unique: cbReject, Data: content.OrderID},
		})
	}

	var firstErr error
	for _, adminID := range m.admins {
		err := m.send(ctx, "send.broadcast", func(bot *tele.Bot) error {
			opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}
			_, err := bot.Send(&tele.User{ID: adminID}, content.Text, opts)
			return err
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
