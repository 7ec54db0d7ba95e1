// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mkarasz/holdem/internal/auth"
	"github.com/mkarasz/holdem/internal/broker"
	"github.com/mkarasz/holdem/internal/config"
	"github.com/mkarasz/holdem/internal/game"
	"github.com/mkarasz/holdem/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	sessions, err := auth.NewSessions(cfg.TokenExpire)
	if err != nil {
		log.Fatalf("failed to init sessions: %v", err)
	}
	users := auth.NewUserStore(logger)

	b := broker.New(logger, cfg.HeartbeatInterval)
	defer b.Close()

	evaluator := game.NewEvaluator()
	tables := game.NewTableStore(game.TableConfig{
		StartingMoney: cfg.StartingMoney,
		SmallBlind:    cfg.SmallBlind,
		ActionTimeout: cfg.ActionTimeout,
	}, b, evaluator, logger)

	// New table subscribers get the current state replayed immediately,
	// instead of racing an explicit resend request.
	b.SetTableReplay(func(name string) {
		if t := tables.Get(name); t != nil {
			t.EmitEvents()
		}
	})

	srv := handlers.NewServer(logger, users, sessions, tables, b)

	logger.Infof("holdem server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
