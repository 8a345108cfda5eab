package service

import (
	"appointments/cmd/internal/domain/sqlite/repository"
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/utils/apierror"
	"errors"

	"github.com/labstack/gommon/log"
)

// DefaultPageSize is used when a listing is requested without a count.
const DefaultPageSize = 500

type PermissionGate interface {
	CheckPermission(actor *permission.Actor, pathID int, action permission.Action) (permission.AccessLevel, error)
}

// Page selects a window of a listing.
type Page struct {
	Offset int
	Count  int
}

// Normalize applies the default page size and clamps negative values.
func (p Page) Normalize() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Count <= 0 {
		p.Count = DefaultPageSize
	}
	return p
}

// HasNext reports whether rows remain after the window [offset, offset+limit).
func HasNext(offset, limit int, count int64) bool {
	return int64(offset)+int64(limit) < count
}

// IndexContent is shown by the listing shell before any entries are loaded.
type IndexContent struct {
	Title         string `json:"title"`
	SubTitle      string `json:"subTitle,omitempty"`
	Caption       string `json:"caption,omitempty"`
	CreateAllowed bool   `json:"create_allowed"`
}

func allowed(gate PermissionGate, actor *permission.Actor, pathID int, action permission.Action) (bool, apierror.ErrorResponse) {
	level, err := gate.CheckPermission(actor, pathID, action)
	if err != nil {
		log.Errorf("failed to check %s permission in path %d: %v", action, pathID, err)
		return false, apierror.InternalServerError
	}
	return level.Allowed(), nil
}

func requirePermission(gate PermissionGate, actor *permission.Actor, pathID int, action permission.Action) apierror.ErrorResponse {
	ok, apierr := allowed(gate, actor, pathID, action)
	if apierr != nil {
		return apierr
	}
	if !ok {
		return apierror.ForbiddenError
	}
	return nil
}

// deleteError translates the result of a scoped delete.
func deleteError(kind string, pathID, id int, err error) apierror.ErrorResponse {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apierror.NotFoundError
	}
	log.Errorf("failed to delete %s %d in path %d: %v", kind, id, pathID, err)
	return apierror.InternalServerError
}

// Kinds of appointments, also used as route segments and sweeper names.
const (
	KindRecurring      = "recurring-appointments"
	KindOneTime        = "one-time-appointments"
	KindGameEncounters = "game-encounters"
)

// exportLimit bounds the rows of a calendar feed.
const exportLimit = 10000
