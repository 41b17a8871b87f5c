package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/config"
	"github.com/oksasatya/standup-tracker/internal/domain/entity"
	"github.com/oksasatya/standup-tracker/internal/domain/repository"
	pginfra "github.com/oksasatya/standup-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
)

const (
	demoEmail    = "demo@standups.local"
	demoPassword = "password123"
	demoName     = "Demo User"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	db := pginfra.OpenDB(pool)
	defer func() { _ = db.Close() }()

	if err := seed(ctx, pginfra.NewUserRepository(db), pginfra.NewStandupRepository(db), logger, time.Now()); err != nil {
		logger.WithError(err).Fatal("seed failed")
	}
}

// seed ensures the demo user exists and has a standup for day. An existing entry is left alone.
func seed(ctx context.Context, users repository.UserRepository, standups repository.StandupRepository, logger *logrus.Logger, day time.Time) error {
	u, err := users.GetByEmail(ctx, demoEmail)
	if errors.Is(err, repository.ErrNotFound) {
		u = &entity.User{Email: demoEmail, Password: demoPassword, Name: demoName, Timezone: "UTC"}
		err = users.Create(ctx, u)
	}
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"id": u.ID, "email": u.Email, "password": demoPassword}).Info("seeded user")

	day = entity.DayStart(day)
	existing, err := standups.FindByUserAndDate(ctx, u.ID, day)
	if err == nil {
		logger.WithFields(logrus.Fields{"id": existing.ID, "status": existing.Status}).Info("standup for the day already exists")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	st, err := standups.CreateOrUpdateDraft(ctx, &entity.Standup{
		UserID:    u.ID,
		Date:      day,
		Yesterday: "Set up the local environment",
		Today:     "Try the [API](http://localhost:8080/api/v1/health)",
		Blockers:  entity.DefaultBlockers,
		Status:    entity.StandupDraft,
	})
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"id": st.ID, "date": st.Date.Format("2006-01-02")}).Info("seeded standup")
	return nil
}
