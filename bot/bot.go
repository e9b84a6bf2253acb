// Package bot adapts Telegram updates to game events and replays the
// engine's replies back to the chat.
package bot

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/diegocalderon71/escape-san-antonio-bot/game"
)

const sendRetries = 5

// Bot wires the Telegram API to the game engine.
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *game.Engine
	store  *game.Store
	assets string
	log    *zap.SugaredLogger
}

// New authenticates against the Telegram API.
func New(cfg Config, engine *game.Engine, store *game.Store, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		engine: engine,
		store:  store,
		assets: cfg.AssetDir,
		log:    log,
	}, nil
}

// Username returns the authenticated bot account name.
func (b *Bot) Username() string { return b.api.Self.UserName }

// Run polls for updates until the update channel closes. Each update is
// handled on its own goroutine; the engine serializes per scope key.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		if update.Message != nil {
			go b.handleMessage(update.Message)
		} else if update.CallbackQuery != nil {
			go b.handleCallback(update.CallbackQuery)
		}
	}
}

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	if m.Text == "" || m.From == nil {
		return
	}
	chatID := m.Chat.ID
	key := b.store.Resolve(game.ChatKey(chatID), game.UserKey(m.From.ID))

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			b.deliver(chatID, b.engine.Intro())
		case "pista":
			b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventHint}))
		case "inventario":
			b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventInventory}))
		case "estado":
			b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventStatus}))
		case "reiniciar":
			b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventRestart}))
		default:
			b.sendText(chatID, "Comando desconocido. Usa /start para ver los disponibles.")
		}
		return
	}

	b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventText, Text: m.Text}))
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch cb.Data {
	case game.ChoiceModeIndividual:
		key := game.UserKey(cb.From.ID)
		b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventModeSelected, Mode: game.ModeIndividual}))
	case game.ChoiceModeGroup:
		if cb.Message.Chat.IsPrivate() {
			b.sendText(chatID, "El modo GRUPO solo funciona dentro de un grupo de Telegram.")
			break
		}
		key := game.ChatKey(chatID)
		b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventModeSelected, Mode: game.ModeGroup}))
	default:
		key := b.store.Resolve(game.ChatKey(chatID), game.UserKey(cb.From.ID))
		b.deliver(chatID, b.engine.Handle(key, game.Event{Kind: game.EventChoice, Choice: cb.Data}))
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warnw("answer callback", "error", err)
	}
}

// deliver replays the engine's replies in order.
func (b *Bot) deliver(chatID int64, replies []game.Reply) {
	for _, r := range replies {
		if r.ImageAsset != "" {
			b.sendPhoto(chatID, r)
			continue
		}
		msg := tgbotapi.NewMessage(chatID, r.Text)
		if kb, ok := keyboard(r.Buttons); ok {
			msg.ReplyMarkup = kb
		}
		b.send(msg)
	}
}

// sendPhoto sends the room image with the prompt as caption, degrading to
// plain text with a warning when the asset file is missing.
func (b *Bot) sendPhoto(chatID int64, r game.Reply) {
	path := filepath.Join(b.assets, r.ImageAsset)
	if _, err := os.Stat(path); err != nil {
		b.log.Warnw("room image missing", "asset", path)
		b.sendText(chatID, r.Text+"\n\n(AVISO: no encuentro "+r.ImageAsset+")")
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = r.Text
	if _, err := b.api.Send(photo); err != nil {
		b.log.Errorw("send photo", "error", err)
		b.sendText(chatID, r.Text)
	}
}

func keyboard(rows [][]game.Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var btns []tgbotapi.InlineKeyboardButton
		for _, btn := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		kbRows = append(kbRows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

// send retries on Telegram rate limiting with exponential backoff.
func (b *Bot) send(msg tgbotapi.MessageConfig) {
	backoff := time.Second
	for i := 0; i < sendRetries; i++ {
		_, err := b.api.Send(msg)
		if err == nil {
			return
		}
		if strings.Contains(err.Error(), "Too Many Requests") || strings.Contains(err.Error(), "Bad Gateway") {
			b.log.Warnw("send message retry", "attempt", i+1, "error", err)
			time.Sleep(backoff)
			backoff *= 2
			continue
		}
		b.log.Errorw("send message", "error", err)
		return
	}
	b.log.Errorw("send message gave up", "attempts", sendRetries)
}
