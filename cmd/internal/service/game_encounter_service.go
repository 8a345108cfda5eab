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

type GameEncounterRepository interface {
	List(pathID, offset, limit int) ([]*entity.GameEncounter, error)
	Count(pathID int) (int64, error)
	Save(game *entity.GameEncounter) error
	Delete(pathID, id int) error
}

type GameEncounterListing struct {
	Entries       []*presenter.GameEncounterEntry `json:"entries"`
	Offset        int                             `json:"offset"`
	HasNext       bool                            `json:"hasNext"`
	CreateAllowed bool                            `json:"create_allowed"`
}

type DefaultGameEncounterService struct {
	GameRepo  GameEncounterRepository
	Gate      PermissionGate
	Presenter *presenter.Presenter
	Calendar  *calendar.Builder
	SubTitle  string
	rules     *validation.Ruleset
}

func NewGameEncounterService(repo GameEncounterRepository, gate PermissionGate, validate *validator.Validate, p *presenter.Presenter, cal *calendar.Builder, subTitle string) *DefaultGameEncounterService {
	rules := validation.NewRuleset(validate).
		AddRules("home", validation.NotEmpty()).
		AddRules("guest", validation.NotEmpty()).
		AddRules("startTime", validation.NotEmpty(), validation.Time()).
		AddRules("startDate", validation.NotEmpty(), validation.FutureDate())

	return &DefaultGameEncounterService{GameRepo: repo, Gate: gate, Presenter: p, Calendar: cal, SubTitle: subTitle, rules: rules}
}

func (g *DefaultGameEncounterService) Index(actor *permission.Actor, pathID int) (*IndexContent, apierror.ErrorResponse) {
	createAllowed, apierr := allowed(g.Gate, actor, pathID, permission.ActionCreate)
	if apierr != nil {
		return nil, apierr
	}
	return &IndexContent{
		Title:         "Spielpläne Saison " + presenter.Season(g.Presenter.Now()),
		SubTitle:      g.SubTitle,
		CreateAllowed: createAllowed,
	}, nil
}

func (g *DefaultGameEncounterService) List(actor *permission.Actor, pathID int, page Page) (*GameEncounterListing, apierror.ErrorResponse) {
	page = page.Normalize()

	games, err := g.GameRepo.List(pathID, page.Offset, page.Count)
	if err != nil {
		log.Errorf("failed to list game encounters of path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	count, err := g.GameRepo.Count(pathID)
	if err != nil {
		log.Errorf("failed to count game encounters of path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	deleteAllowed, apierr := allowed(g.Gate, actor, pathID, permission.ActionDelete)
	if apierr != nil {
		return nil, apierr
	}
	createAllowed, apierr := allowed(g.Gate, actor, pathID, permission.ActionCreate)
	if apierr != nil {
		return nil, apierr
	}

	viewer := presenter.Viewer{Actor: actor, DeleteAllowed: deleteAllowed}
	entries := make([]*presenter.GameEncounterEntry, len(games))
	for i, game := range games {
		entries[i] = g.Presenter.GameEncounter(game, viewer)
	}

	return &GameEncounterListing{
		Entries:       entries,
		Offset:        page.Offset + page.Count,
		HasNext:       HasNext(page.Offset, page.Count, count),
		CreateAllowed: createAllowed,
	}, nil
}

func (g *DefaultGameEncounterService) Create(actor *permission.Actor, pathID int, fields validation.Fields) (*presenter.GameEncounterEntry, apierror.ErrorResponse) {
	if apierr := requirePermission(g.Gate, actor, pathID, permission.ActionCreate); apierr != nil {
		return nil, apierr
	}

	ok, values := g.rules.Validate(fields)
	if !ok {
		return nil, apierror.NewValidationFailedError(values)
	}

	game := &entity.GameEncounter{
		PathID:    pathID,
		UserID:    actor.UserID,
		Home:      values.Get("home"),
		Guest:     values.Get("guest"),
		StartDate: values.Get("startDate"),
		StartTime: values.Get("startTime") + ":00",
	}

	if err := g.GameRepo.Save(game); err != nil {
		log.Errorf("failed to save game encounter in path %d: %v", pathID, err)
		return nil, apierror.InternalServerError
	}

	deleteAllowed, apierr := allowed(g.Gate, actor, pathID, permission.ActionDelete)
	if apierr != nil {
		return nil, apierr
	}
	return g.Presenter.GameEncounter(game, presenter.Viewer{Actor: actor, DeleteAllowed: deleteAllowed}), nil
}

func (g *DefaultGameEncounterService) Delete(actor *permission.Actor, pathID, id int) apierror.ErrorResponse {
	if apierr := requirePermission(g.Gate, actor, pathID, permission.ActionDelete); apierr != nil {
		return apierr
	}
	return deleteError("game encounter", pathID, id, g.GameRepo.Delete(pathID, id))
}

func (g *DefaultGameEncounterService) Export(pathID int) (string, apierror.ErrorResponse) {
	games, err := g.GameRepo.List(pathID, 0, exportLimit)
	if err != nil {
		log.Errorf("failed to export game encounters of path %d: %v", pathID, err)
		return "", apierror.InternalServerError
	}
	return g.Calendar.GameEncounters(pathID, games), nil
}
