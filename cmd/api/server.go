package main

import (
	"appointments/cmd/internal/presenter"
	"appointments/cmd/internal/routes"
	"appointments/cmd/internal/service"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func newServer(app *application) (*echo.Echo, error) {
	renderer, err := routes.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Errorf("%s %s %d %s [%s]: %v", v.Method, v.URI, v.Status, v.Latency, v.RequestID, v.Error)
				return nil
			}
			log.Infof("%s %s %d %s [%s]", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.CORS())

	actors := routes.ActorMiddleware(app.users, []byte(app.cfg.JWTSecret))
	scope := routes.ParamScope{Param: "path"}

	// Getting routes
	userRoutes := routes.NewUserDefault(app.users)
	recurringRoutes := routes.NewAppointmentRoute[*presenter.RecurringEntry, *service.RecurringListing](service.KindRecurring, app.recurring, scope)
	oneTimeRoutes := routes.NewAppointmentRoute[*presenter.OneTimeEntry, *service.OneTimeListing](service.KindOneTime, app.oneTime, scope)
	gameRoutes := routes.NewAppointmentRoute[*presenter.GameEncounterEntry, *service.GameEncounterListing](service.KindGameEncounters, app.games, scope)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Users
	e.GET("/users/me", userRoutes.GetMe, actors)

	// Appointments, scoped by path
	paths := e.Group("/paths/:path", actors)
	recurringRoutes.Register(paths.Group("/"+service.KindRecurring, routes.SweepMiddleware(app.sweeper, service.KindRecurring)))
	oneTimeRoutes.Register(paths.Group("/"+service.KindOneTime, routes.SweepMiddleware(app.sweeper, service.KindOneTime)))
	gameRoutes.Register(paths.Group("/"+service.KindGameEncounters, routes.SweepMiddleware(app.sweeper, service.KindGameEncounters)))

	return e, nil
}
