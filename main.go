package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/diegocalderon71/escape-san-antonio-bot/bot"
	"github.com/diegocalderon71/escape-san-antonio-bot/game"
	"github.com/diegocalderon71/escape-san-antonio-bot/storage"
)

func main() {
	cfg, err := bot.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		sugar.Fatalw("open storage", "path", cfg.DBPath, "error", err)
	}
	defer db.Close()

	store := game.NewStore(nil)
	saved, err := db.LoadAll()
	if err != nil {
		sugar.Fatalw("load sessions", "error", err)
	}
	for key, sess := range saved {
		store.Seed(key, sess)
	}
	sugar.Infow("sessions restored", "count", len(saved))

	engine := game.NewEngine(store, db, sugar)

	go func() {
		if err := bot.RunHealth(cfg.Port, sugar); err != nil {
			sugar.Fatalw("health server", "error", err)
		}
	}()

	b, err := bot.New(cfg, engine, store, sugar)
	if err != nil {
		sugar.Fatalw("telegram auth", "error", err)
	}
	sugar.Infow("bot started", "username", b.Username())
	b.Run()
}
