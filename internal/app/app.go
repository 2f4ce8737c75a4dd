package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ogaydukov/boostup/internal/config"
	_ "github.com/ogaydukov/boostup/internal/postgres/migrations"
	"github.com/ogaydukov/boostup/internal/telegram"
)

type App struct {
	Config   *config.Config
	DB       *sql.DB
	Notifier *telegram.Notifier
}

func New(cfg *config.Config) (*App, error) {
	db, err := initDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		DB:       db,
		Notifier: telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID),
	}, nil
}

func initDB(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("error closing database after ping failure: %w", closeErr)
		}
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if err = goose.Up(db, "./internal/postgres/migrations"); err != nil {
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return db, nil
}

func (app *App) Run(ctx context.Context) {
	app.Notifier.Run(ctx)
}
