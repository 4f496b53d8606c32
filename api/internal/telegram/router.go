// Package telegram is the bot front-end: send a prescription photo to the
// bot, get the normalized medicine list back as a message.
package telegram

import (
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"rx-scanner/api/internal/vision"
)

type Router struct {
	Bot    *tgbotapi.BotAPI
	Engine vision.Engine

	httpc *http.Client
}

func NewRouter(bot *tgbotapi.BotAPI, engine vision.Engine) *Router {
	return &Router{
		Bot:    bot,
		Engine: engine,
		httpc:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	r.send(cid, "Send a photo of a prescription and I will list the medicines on it.")
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send a photo of a medical prescription — I will extract each medicine with its dosage, duration, meal timing and frequency.\nCommands: /health")
	case "health":
		r.send(cid, "OK: "+r.Engine.Name())
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		slog.Error("telegram send failed", "chat_id", chatID, "error", err)
	}
}
