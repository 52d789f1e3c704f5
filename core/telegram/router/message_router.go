package router

import (
	"time"

	tg "github.com/m3rciful/shopbot/core/telegram"
	"github.com/m3rciful/shopbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for plain text updates: registered commands
// typed as text are resolved through the registry, everything else falls
// through to the registry text fallback or the UnknownText handler.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			// Admin-only commands are reachable only through their gated
			// command endpoint, never through the text fallback.
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil && !cmd.AdminOnly {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}

// MediaOptions binds media updates to an intake handler.
type MediaOptions struct {
	// OnMedia handles photo and document uploads.
	OnMedia tele.HandlerFunc
	// Unexpected runs when no intake handler is configured.
	Unexpected tele.HandlerFunc
}

// MediaRoutes builds handlers for photo and document updates. Uploads are the
// payment-proof intake of the shop flow, so both endpoints share one handler.
func MediaRoutes(opts MediaOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if opts.OnMedia != nil {
			return handleWithSummary(c, "media", start, "", "", func() error {
				return opts.OnMedia(c)
			})
		}
		if opts.Unexpected != nil {
			return handleWithSummary(c, "unexpected_media", start, "", "", func() error {
				return opts.Unexpected(c)
			})
		}
		logHandlerSummary(c, "unexpected_media", start, "skip", "ok", nil)
		return nil
	}

	wrapped := middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler))
	return []tg.Route{
		{Endpoint: tele.OnPhoto, Handler: wrapped},
		{Endpoint: tele.OnDocument, Handler: wrapped},
	}
}
