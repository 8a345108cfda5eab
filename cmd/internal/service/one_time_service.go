package service

import (
	"appointments/cmd/internal/calendar"
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/presenter"
	"appointments/cmd/internal/utils/apierror"
	"appointments/cmd/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type OneTimeRepository interface {
	List(pathID, offset, limit int) ([]*entity.OneTimeAppointment, error)
	Count(pathID int) (int64, error)
	Save(appt *entity.OneTimeAppointment) error
	Delete(pathID, id int) error
}

type OneTimeListing struct {
	Entries       []*presenter.OneTimeEntry `json:"entries"`
	Offset        int                       `json:"offset"`
	HasNext       bool                      `json:"hasNext"`
	HasChangeable bool                      `json:"has_changeable"`
	CreateAllowed bool                      `json:"create_allowed"`
}

type DefaultOneTimeService struct {
	OneTimeRepo OneTimeRepository
	Gate        PermissionGate
	Presenter   *presenter.Presenter
	Calendar    *calendar.Builder
	rules       *validation.Ruleset
}

func NewOneTimeService(repo OneTimeRepository, gate PermissionGate, validate *validator.Validate, p *presenter.Presenter, cal *calendar.Builder) *DefaultOneTimeService {
	rules := validation.NewRuleset(validate).
		AddRules("sdstartdate", validation.NotEmpty(), validation.FutureDate()).
		AddRules("sdstarttime", validation.Time()).
		AddRules("sdenddate", validation.FutureDate(), validation.DateGreaterThan("sdstartdate")).
		AddRules("sdendtime", validation.Time()).
		AddRules("sddesc", validation.NotEmpty()).
		AddRules("sdlocation", validation.NotEmpty()).
		AddRules("sdchangeable", validation.Bool())

	return &DefaultOneTimeService{OneTimeRepo: repo, Gate: gate, Presenter: p, Calendar: cal, rules: rules}
}

func (o *DefaultOneTimeService) Index(actor *permission.Actor, pathID int) (*IndexContent, apierror.ErrorResponse) {
	createAllowed, apierr := allowed(o.Gate, actor, pathID, permission.ActionCreate)
	if apierr != nil {
		return nil, apierr
	}
	return &IndexContent{
		Title:         "Termine",
		Caption:       "Hier findest du alle Termine",
		CreateAllowed: createAllowed,
	}, nil
}

func (o *DefaultOneTimeService) List(actor *permission.Actor, pathID int, page Page) (*OneTimeListing, apierror.ErrorResponse) {
	page = page.Normalize()

	appts, err := o.OneTimeRepo.List(pathID, page.Offset, page.Count)
	if err != nil {
		log.Errorf("failed to list one-time appointments of path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	count, err := o.OneTimeRepo.Count(pathID)
	if err != nil {
		log.Errorf("failed to count one-time appointments of path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	deleteAllowed, apierr := allowed(o.Gate, actor, pathID, permission.ActionDelete)
	if apierr != nil {
		return nil, apierr
	}
	createAllowed, apierr := allowed(o.Gate, actor, pathID, permission.ActionCreate)
	if apierr != nil {
		return nil, apierr
	}

	listing := &OneTimeListing{
		Entries:       make([]*presenter.OneTimeEntry, len(appts)),
		Offset:        page.Offset + page.Count,
		HasNext:       HasNext(page.Offset, page.Count, count),
		CreateAllowed: createAllowed,
	}

	viewer := presenter.Viewer{Actor: actor, DeleteAllowed: deleteAllowed}
	for i, appt := range appts {
		listing.Entries[i] = o.Presenter.OneTime(appt, viewer)
		if appt.Changeable {
			listing.HasChangeable = true
		}
	}
	return listing, nil
}

func (o *DefaultOneTimeService) Create(actor *permission.Actor, pathID int, fields validation.Fields) (*presenter.OneTimeEntry, apierror.ErrorResponse) {
	if apierr := requirePermission(o.Gate, actor, pathID, permission.ActionCreate); apierr != nil {
		return nil, apierr
	}

	ok, values := o.rules.Validate(fields)
	if !ok {
		return nil, apierror.NewValidationFailedError(values)
	}

	owner := actor.UserID
	appt := &entity.OneTimeAppointment{
		PathID:      pathID,
		UserID:      &owner,
		StartDate:   values.Get("sdstartdate"),
		Description: values.Get("sddesc"),
		Location:    values.Get("sdlocation"),
		Changeable:  values.Get("sdchangeable") == "1",
	}
	if start := values.Get("sdstarttime"); start != "" {
		start += ":00"
		appt.StartTime = &start
	}
	if end := values.Get("sdendtime"); end != "" {
		end += ":00"
		appt.EndTime = &end
	}
	if end := values.Get("sdenddate"); end != "" && end != appt.StartDate {
		appt.EndDate = &end
	}

	if err := o.OneTimeRepo.Save(appt); err != nil {
		log.Errorf("failed to save one-time appointment in path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	deleteAllowed, apierr := allowed(o.Gate, actor, pathID, permission.ActionDelete)
	if apierr != nil {
		return nil, apierr
	}
	return o.Presenter.OneTime(appt, presenter.Viewer{Actor: actor, DeleteAllowed: deleteAllowed}), nil
}

func (o *DefaultOneTimeService) Delete(actor *permission.Actor, pathID, id int) apierror.ErrorResponse {
	if apierr := requirePermission(o.Gate, actor, pathID, permission.ActionDelete); apierr != nil {
		return apierr
	}
	return deleteError("one-time appointment", pathID, id, o.OneTimeRepo.Delete(pathID, id))
}

func (o *DefaultOneTimeService) Export(pathID int) (string, apierror.ErrorResponse) {
	appts, err := o.OneTimeRepo.List(pathID, 0, exportLimit)
	if err != nil {
		log.Errorf("failed to export one-time appointments of path %d: %v", pathID, err)
		return "", apierror.InternalServerError
	}
	return o.Calendar.OneTime(pathID, appts), nil
}
