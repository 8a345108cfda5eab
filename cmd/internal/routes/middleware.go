package routes

import (
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/service"
	"appointments/cmd/internal/utils"
	"appointments/cmd/internal/utils/apierror"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const actorKey = "actor"

type ActorResolver interface {
	ResolveActor(sub string) (*permission.Actor, error)
}

type Sweeper interface {
	Sweep(kind string)
}

// ScopeResolver derives the path id every appointment query is scoped by.
type ScopeResolver interface {
	PathID(c echo.Context) (int, error)
}

// ParamScope reads the path id from a route parameter.
type ParamScope struct {
	Param string
}

func (p ParamScope) PathID(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param(p.Param))
}

// ActorMiddleware authenticates the caller by bearer token. Requests without
// an Authorization header continue anonymously; invalid tokens and unknown
// subjects get 401.
func ActorMiddleware(resolver ActorResolver, secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, err := utils.ParseTokenDataCtx(c, secret)
			if errors.Is(err, utils.ErrNoToken) {
				return next(c)
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			actor, err := resolver.ResolveActor(data.Sub)
			if errors.Is(err, service.ErrUnknownSubject) {
				log.Warnf("rejecting token: %v", err)
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}
			if err != nil {
				log.Errorf("failed to resolve token subject: %v", err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// SweepMiddleware removes elapsed appointments of kind before the handler runs.
func SweepMiddleware(sweeper Sweeper, kind string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sweeper.Sweep(kind)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) *permission.Actor {
	actor, _ := c.Get(actorKey).(*permission.Actor)
	return actor
}
