package main

import (
	"appointments/cmd/internal/calendar"
	"appointments/cmd/internal/config"
	"appointments/cmd/internal/domain/sqlite"
	"appointments/cmd/internal/domain/sqlite/repository"
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/presenter"
	"appointments/cmd/internal/service"
	"appointments/cmd/internal/utils"
	"appointments/cmd/internal/utils/validators"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// application holds everything the commands share.
type application struct {
	cfg      *config.Config
	db       *gorm.DB
	location *time.Location
	now      func() time.Time

	users     *service.DefaultUserService
	recurring *service.DefaultRecurringService
	oneTime   *service.DefaultOneTimeService
	games     *service.DefaultGameEncounterService
	sweeper   *service.Sweeper
}

func newApplication(cfg *config.Config) (*application, error) {
	log.SetLevel(cfg.GommonLevel())

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	now := utils.ClockIn(loc)

	validate := validator.New()
	if err := validators.Register(validate, now); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	// Init SQLite
	db, err := sqlite.Init(cfg.Database, cfg.TablePrefix)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	recurringRepo := repository.NewRecurringRepository(db)
	oneTimeRepo := repository.NewOneTimeRepository(db)
	gameRepo := repository.NewGameEncounterRepository(db)

	gate := permission.NewGate(grantRepo)
	p := presenter.New(presenter.NewGermanDates(), now)
	cal := calendar.NewBuilder(loc, now)

	sweeper := service.NewSweeper(now)
	sweeper.Register(service.KindOneTime, oneTimeRepo)
	sweeper.Register(service.KindGameEncounters, gameRepo)

	// Getting services
	return &application{
		cfg:       cfg,
		db:        db,
		location:  loc,
		now:       now,
		users:     service.NewUserService(userRepo, grantRepo, validate),
		recurring: service.NewRecurringService(recurringRepo, gate, validate, p, cal),
		oneTime:   service.NewOneTimeService(oneTimeRepo, gate, validate, p, cal),
		games:     service.NewGameEncounterService(gameRepo, gate, validate, p, cal, cfg.GameSubTitle),
		sweeper:   sweeper,
	}, nil
}

func (a *application) Close() {
	sqlDB, err := a.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warnf("failed to close database: %v", err)
	}
}
