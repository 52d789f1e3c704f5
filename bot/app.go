// Package bot assembles the storefront application: configuration, the order
// workflow engine, and the Telegram surface wired through the shared core
// runtime.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	coretelegram "github.com/m3rciful/shopbot/core/telegram"
	"github.com/m3rciful/shopbot/core/telegram/commands"
	"github.com/m3rciful/shopbot/core/telegram/router"
	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/credentials"
	"github.com/m3rciful/shopbot/shop/store"
	"github.com/m3rciful/shopbot/shop/workflow"
)

// App is the composed storefront bot.
type App struct {
	cfg       *Config
	engine    *workflow.Engine
	handlers  *Handlers
	messenger *Messenger
}

// New builds the application from validated configuration. db may be nil for
// the memory store.
func New(cfg *Config, db *sqlx.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}

	cat, err := catalog.New(cfg.Shop.Plans)
	if err != nil {
		return nil, err
	}

	var (
		orders store.Store
		creds  credentials.Provider
	)
	switch {
	case cfg.UsesDatabase():
		if db == nil {
			return nil, fmt.Errorf("bot: postgres store selected but no database connection provided")
		}
		orders = store.NewPostgres(db)
		creds = credentials.NewVault(db)
	default:
		orders = store.NewMemory()
		creds = credentials.NewMemory(cfg.Shop.Credentials)
	}

	messenger := NewMessenger(cfg.Core.Telegram.AdminIDs)
	engine, err := workflow.NewEngine(workflow.Options{
		Store:          orders,
		Catalog:        cat,
		Credentials:    creds,
		Messenger:      messenger,
		AdminIDs:       cfg.Core.Telegram.AdminIDs,
		PaymentDetails: cfg.Shop.PaymentDetails,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		engine:    engine,
		handlers:  NewHandlers(engine, cat),
		messenger: messenger,
	}, nil
}

func (a *App) buildRegistry() (*coretelegram.Registry, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handlers.Start,
		Description: "Welcome and plan selection",
	})
	reg.RegisterCommand("/order", commands.Command{
		Handler:     a.handlers.Order,
		Description: "Pick a plan and get payment instructions",
		Aliases:     []string{"buy"},
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handlers.Help,
		Description: "How the purchase flow works",
	})
	reg.RegisterCommand("/orders", commands.Command{
		Handler:     a.handlers.Orders,
		Description: "List open orders",
		AdminOnly:   true,
	})

	if err := reg.RegisterCallback(cbPlan, a.handlers.PlanSelected); err != nil {
		return nil, err
	}
	if err := reg.RegisterCallback(cbApprove, a.handlers.Approve); err != nil {
		return nil, err
	}
	if err := reg.RegisterCallback(cbReject, a.handlers.Reject); err != nil {
		return nil, err
	}
	if err := reg.RegisterCallback(cbCancel, a.handlers.Cancel); err != nil {
		return nil, err
	}

	reg.SetTextFallback(a.handlers.UnknownText)
	return reg, nil
}

// TelegramRunOptions exposes the bot wiring to the shared runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg, err := a.buildRegistry()
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs: a.cfg.Core.Telegram.AdminIDs,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{})...)
	routes = append(routes, router.MediaRoutes(router.MediaOptions{
		OnMedia: a.handlers.Proof,
	})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			a.messenger.Bind(rt.Bot, rt.Dispatcher)
			return nil
		},
	}, nil
}
