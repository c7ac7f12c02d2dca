package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jjoak3/dumptrick/internal/auth"
	"github.com/jjoak3/dumptrick/internal/cache"
	"github.com/jjoak3/dumptrick/internal/config"
	"github.com/jjoak3/dumptrick/internal/engine"
	"github.com/jjoak3/dumptrick/internal/server"
	"github.com/jjoak3/dumptrick/internal/session"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	historian := cache.New(cfg.RedisAddr)
	if historian != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := historian.Ping(ctx); err != nil {
			log.WithError(err).Warn("action historian unreachable, continuing without it")
			historian = nil
		}
		cancel()
	}

	game := engine.New(engine.Config{
		BotFill:    cfg.BotFill,
		Expiration: cfg.GameExpiration,
		Historian:  historian,
		Logger:     log,
	})
	registry := session.NewRegistry()
	issuer := auth.NewIssuer(cfg.JWTSecret, 0)
	srv := server.New(game, registry, issuer, log)

	log.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"bot_fill": cfg.BotFill,
		"game":     game.ID,
	}).Info("listening")
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
