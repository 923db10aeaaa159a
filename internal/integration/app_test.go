package integration_test

import (
	"log/slog"
	"os"

	"github.com/cinehall/cinehall/internal/app"
	"github.com/cinehall/cinehall/internal/notifier"
	appvalidator "github.com/cinehall/cinehall/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestApp struct {
	App      *app.Application
	DB       *pgxpool.Pool
	Notifier *notifier.MockNotifier
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	notif := notifier.NewMockNotifier()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	application := app.NewApp(cfg, logger, db, redisClient, validator, notif)

	return &TestApp{
		App:      application,
		DB:       db,
		Notifier: notif,
	}, nil
}
