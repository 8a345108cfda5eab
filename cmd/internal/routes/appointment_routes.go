package routes

import (
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/service"
	"appointments/cmd/internal/utils"
	"appointments/cmd/internal/utils/apierror"
	"appointments/cmd/internal/validation"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// AppointmentService is what the routes of one appointment kind need. E is
// the display entry of a created row, L the listing returned by List.
type AppointmentService[E, L any] interface {
	Index(actor *permission.Actor, pathID int) (*service.IndexContent, apierror.ErrorResponse)
	List(actor *permission.Actor, pathID int, page service.Page) (L, apierror.ErrorResponse)
	Create(actor *permission.Actor, pathID int, fields validation.Fields) (E, apierror.ErrorResponse)
	Delete(actor *permission.Actor, pathID, id int) apierror.ErrorResponse
	Export(pathID int) (string, apierror.ErrorResponse)
}

type DefaultAppointmentRoute[E, L any] struct {
	Kind    string
	Service AppointmentService[E, L]
	Scope   ScopeResolver
}

func NewAppointmentRoute[E, L any](kind string, svc AppointmentService[E, L], scope ScopeResolver) *DefaultAppointmentRoute[E, L] {
	return &DefaultAppointmentRoute[E, L]{Kind: kind, Service: svc, Scope: scope}
}

type indexView struct {
	*service.IndexContent
	Kind   string
	PathID int
	Base   string
}

func (a *DefaultAppointmentRoute[E, L]) Index(c echo.Context) error {
	pathID, apierr := a.pathID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	content, apierr := a.Service.Index(actorFrom(c), pathID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	view := indexView{
		IndexContent: content,
		Kind:         a.Kind,
		PathID:       pathID,
		Base:         strings.TrimSuffix(c.Request().URL.Path, "/"),
	}
	return c.Render(http.StatusOK, a.Kind, view)
}

func (a *DefaultAppointmentRoute[E, L]) Read(c echo.Context) error {
	pathID, apierr := a.pathID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	listing, apierr := a.Service.List(actorFrom(c), pathID, parsePage(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, listing)
}

func (a *DefaultAppointmentRoute[E, L]) Create(c echo.Context) error {
	pathID, apierr := a.pathID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	form, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	entry, apierr := a.Service.Create(actorFrom(c), pathID, utils.SanitizeForm(form))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, entry)
}

func (a *DefaultAppointmentRoute[E, L]) Delete(c echo.Context) error {
	pathID, apierr := a.pathID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	rawID := strings.TrimSpace(c.FormValue("id"))
	if rawID == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int"))
	}

	if apierr := a.Service.Delete(actorFrom(c), pathID, id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func (a *DefaultAppointmentRoute[E, L]) Calendar(c echo.Context) error {
	pathID, apierr := a.pathID(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	feed, apierr := a.Service.Export(pathID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", fmt.Sprintf("%s-%d.ics", a.Kind, pathID)))
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// Register mounts the routes of the kind on g.
func (a *DefaultAppointmentRoute[E, L]) Register(g *echo.Group) {
	g.GET("", a.Index)
	g.GET("/read", a.Read)
	g.POST("/create", a.Create)
	g.POST("/delete", a.Delete)
	g.GET("/ical", a.Calendar)
}

func (a *DefaultAppointmentRoute[E, L]) pathID(c echo.Context) (int, apierror.ErrorResponse) {
	pathID, err := a.Scope.PathID(c)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError("path", "int")
	}
	return pathID, nil
}

// parsePage reads offset and count. Values that are missing or no integers
// count as zero, which selects the defaults.
func parsePage(c echo.Context) service.Page {
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	count, _ := strconv.Atoi(c.QueryParam("count"))
	return service.Page{Offset: offset, Count: count}
}
