package routes

import (
	"appointments/cmd/internal/service"
	"appointments/cmd/internal/utils/apierror"
	"net/http"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUser(sub string) (*service.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

// GetMe returns the user behind the bearer token.
func (u *DefaultUserRoute) GetMe(c echo.Context) error {
	actor := actorFrom(c)
	if actor == nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.GetUser(actor.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}
