package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/shopbot/core/telegram/helpers"
	"github.com/m3rciful/shopbot/core/telegram/keyboard"
	"github.com/m3rciful/shopbot/shop/catalog"
	"github.com/m3rciful/shopbot/shop/workflow"
)

// Handlers binds Telegram updates to the workflow engine.
type Handlers struct {
	engine  *workflow.Engine
	catalog *catalog.Catalog
}

// NewHandlers wires handlers around the engine and the plan catalog.
func NewHandlers(engine *workflow.Engine, cat *catalog.Catalog) *Handlers {
	return &Handlers{engine: engine, catalog: cat}
}

func (h *Handlers) planKeyboard() *tele.ReplyMarkup {
	plans := h.catalog.Plans()
	buttons := make([]keyboard.InlineBtn, 0, len(plans)+1)
	for _, p := range plans {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   planButtonLabel(p),
			Unique: cbPlan,
			Data:   p.ID,
		})
	}
	buttons = append(buttons, keyboard.InlineBtn{Text: "❌ Cancel", Unique: cbCancel})
	return keyboard.InlineButtons(buttons)
}

// Start greets the buyer and shows the plan chooser.
func (h *Handlers) Start(c tele.Context) error {
	return tghelpers.SendMD(c, startText(), h.planKeyboard())
}

// Help explains the flow; administrators see their extra commands.
func (h *Handlers) Help(c tele.Context) error {
	return tghelpers.SendMD(c, helpText(h.engine.IsAdmin(c.Sender().ID)))
}

// Order shows the plan chooser.
func (h *Handlers) Order(c tele.Context) error {
	return tghelpers.SendMD(c, choosePlanText(h.catalog.Plans()), h.planKeyboard())
}

// Orders lists every non-terminal order, oldest first. Admin-only.
func (h *Handlers) Orders(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	open, err := h.engine.ListOpen(ctx)
	if err != nil {
		return err
	}
	return tghelpers.SendMD(c, openOrdersText(open))
}

// UnknownText nudges the buyer back to the command surface.
func (h *Handlers) UnknownText(c tele.Context) error {
	return tghelpers.SendText(c, unknownTextReply())
}
