package service

import (
	"appointments/cmd/internal/calendar"
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/presenter"
	"appointments/cmd/internal/utils/apierror"
	"appointments/cmd/internal/validation"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type RecurringRepository interface {
	List(pathID, offset, limit int) ([]*entity.RecurringAppointment, error)
	Count(pathID int) (int64, error)
	Save(appt *entity.RecurringAppointment) error
	Delete(pathID, id int) error
}

type RecurringListing struct {
	Entries       []*presenter.RecurringEntry `json:"entries"`
	Offset        int                         `json:"offset"`
	HasNext       bool                        `json:"hasNext"`
	CreateAllowed bool                        `json:"create_allowed"`
}

type DefaultRecurringService struct {
	RecurringRepo RecurringRepository
	Gate          PermissionGate
	Presenter     *presenter.Presenter
	Calendar      *calendar.Builder
	rules         *validation.Ruleset
}

func NewRecurringService(repo RecurringRepository, gate PermissionGate, validate *validator.Validate, p *presenter.Presenter, cal *calendar.Builder) *DefaultRecurringService {
	rules := validation.NewRuleset(validate).
		AddRules("pdday", validation.NotEmpty(), validation.OneOf(validation.Weekdays()...)).
		AddRules("pdfrom", validation.NotEmpty(), validation.Time()).
		AddRules("pdtill", validation.TimeGreaterThan("pdfrom")).
		AddRules("pddesc", validation.NotEmpty())

	return &DefaultRecurringService{RecurringRepo: repo, Gate: gate, Presenter: p, Calendar: cal, rules: rules}
}

func (r *DefaultRecurringService) Index(actor *permission.Actor, pathID int) (*IndexContent, apierror.ErrorResponse) {
	createAllowed, apierr := allowed(r.Gate, actor, pathID, permission.ActionCreate)
	if apierr != nil {
		return nil, apierr
	}
	return &IndexContent{Title: "Wöchentliche Termine", CreateAllowed: createAllowed}, nil
}

func (r *DefaultRecurringService) List(actor *permission.Actor, pathID int, page Page) (*RecurringListing, apierror.ErrorResponse) {
	page = page.Normalize()

	appts, err := r.RecurringRepo.List(pathID, page.Offset, page.Count)
	if err != nil {
		log.Errorf("failed to list recurring appointments of path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	count, err := r.RecurringRepo.Count(pathID)
	if err != nil {
		log.Errorf("failed to count recurring appointments of path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	deleteAllowed, apierr := allowed(r.Gate, actor, pathID, permission.ActionDelete)
	if apierr != nil {
		return nil, apierr
	}
	createAllowed, apierr := allowed(r.Gate, actor, pathID, permission.ActionCreate)
	if apierr != nil {
		return nil, apierr
	}

	viewer := presenter.Viewer{Actor: actor, DeleteAllowed: deleteAllowed}
	entries := make([]*presenter.RecurringEntry, len(appts))
	for i, appt := range appts {
		entries[i] = r.Presenter.Recurring(appt, viewer)
	}

	return &RecurringListing{
		Entries:       entries,
		Offset:        page.Offset + page.Count,
		HasNext:       HasNext(page.Offset, page.Count, count),
		CreateAllowed: createAllowed,
	}, nil
}

func (r *DefaultRecurringService) Create(actor *permission.Actor, pathID int, fields validation.Fields) (*presenter.RecurringEntry, apierror.ErrorResponse) {
	if apierr := requirePermission(r.Gate, actor, pathID, permission.ActionCreate); apierr != nil {
		return nil, apierr
	}

	ok, values := r.rules.Validate(fields)
	if !ok {
		return nil, apierror.NewValidationFailedError(values)
	}

	day, _ := strconv.Atoi(values.Get("pdday"))
	appt := &entity.RecurringAppointment{
		PathID:      pathID,
		UserID:      actor.UserID,
		Day:         day,
		StartTime:   values.Get("pdfrom") + ":00",
		Description: values.Get("pddesc"),
	}
	if till := values.Get("pdtill"); till != "" {
		till += ":00"
		appt.EndTime = &till
	}

	if err := r.RecurringRepo.Save(appt); err != nil {
		log.Errorf("failed to save recurring appointment in path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	deleteAllowed, apierr := allowed(r.Gate, actor, pathID, permission.ActionDelete)
	if apierr != nil {
		return nil, apierr
	}
	return r.Presenter.Recurring(appt, presenter.Viewer{Actor: actor, DeleteAllowed: deleteAllowed}), nil
}

func (r *DefaultRecurringService) Delete(actor *permission.Actor, pathID, id int) apierror.ErrorResponse {
	if apierr := requirePermission(r.Gate, actor, pathID, permission.ActionDelete); apierr != nil {
		return apierr
	}
	return deleteError("recurring appointment", pathID, id, r.RecurringRepo.Delete(pathID, id))
}

func (r *DefaultRecurringService) Export(pathID int) (string, apierror.ErrorResponse) {
	appts, err := r.RecurringRepo.List(pathID, 0, exportLimit)
	if err != nil {
		log.Errorf("failed to export recurring appointments of path %d: %v", pathID, err)
		return "", apierror.InternalServerError
	}
	return r.Calendar.Recurring(pathID, appts), nil
}
