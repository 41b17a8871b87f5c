package container

import (
	"database/sql"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/config"
	"github.com/oksasatya/standup-tracker/internal/application"
	repo "github.com/oksasatya/standup-tracker/internal/domain/repository"
	pginfra "github.com/oksasatya/standup-tracker/internal/infrastructure/postgres"
	"github.com/oksasatya/standup-tracker/internal/infrastructure/search"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
)

// Infra holds the clients constructed by main. Optional ones (ES, GCS, Jobs) may be nil.
type Infra struct {
	DB     *sql.DB
	Redis  *redis.Client
	ES     *elasticsearch.Client
	GCS    *storage.Client
	Jobs   *helpers.RabbitPublisher
	Logger *logrus.Logger
}

// Container is built once at startup and handed to the router; nothing is looked up globally.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Redis   *redis.Client
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager

	Users    repo.UserRepository
	Tokens   repo.RefreshTokenRepository
	Standups repo.StandupRepository

	Auth     *application.AuthService
	Standup  *application.StandupService
	User     *application.UserService
	Sweeper  *application.TokenSweeper
	Searcher *search.StandupIndex
}

func New(cfg *config.Config, infra Infra) *Container {
	c := &Container{
		Config:  cfg,
		Logger:  infra.Logger,
		Redis:   infra.Redis,
		JWT:     helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.IsProduction(), cfg.AccessCookieMaxAge, cfg.RefreshCookieMaxAge),
	}

	c.Users = pginfra.NewUserRepository(infra.DB)
	c.Tokens = pginfra.NewRefreshTokenRepository(infra.DB)
	c.Standups = pginfra.NewStandupRepository(infra.DB)

	// typed nils must not leak into the interfaces
	var jobs application.JobPublisher
	if infra.Jobs != nil && cfg.MailSendEnabled {
		jobs = infra.Jobs
	}
	var uploader application.ObjectUploader
	if infra.GCS != nil && cfg.GCSBucket != "" {
		uploader = helpers.NewGCSUploader(infra.GCS, cfg.GCSBucket)
	}

	c.Auth = application.NewAuthService(c.Users, c.Tokens, c.JWT, infra.Redis, jobs, c.Logger)
	c.Auth.AppName = cfg.AppName
	c.Auth.AppURL = cfg.AppURL

	c.Searcher = search.NewStandupIndex(infra.ES, cfg.ESStandupsIndex)
	c.Standup = application.NewStandupService(c.Standups, c.Searcher, c.Logger)

	c.User = application.NewUserService(c.Users, uploader, c.Auth, jobs, c.Logger)
	c.User.AppName = cfg.AppName

	c.Sweeper = application.NewTokenSweeper(c.Tokens, cfg.TokenCleanupInterval, c.Logger)
	return c
}
