package service

import (
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/utils"
	"appointments/cmd/internal/utils/apierror"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// ErrUnknownSubject is returned by ResolveActor when no user carries the subject.
var ErrUnknownSubject = errors.New("unknown subject")

type UserRepository interface {
	FindBySub(sub string) (*entity.User, error)
	Save(user *entity.User) error
}

type GrantRepository interface {
	Upsert(grant *entity.Grant) error
}

type CreateUserRequest struct {
	Sub      string `json:"sub" validate:"required,max=128"`
	Username string `json:"username" validate:"required,min=2,max=80"`
	IsAdmin  bool   `json:"is_admin"`
}

type GrantRequest struct {
	Sub    string `json:"sub" validate:"required"`
	PathID int    `json:"path_id" validate:"gt=0"`
	Action string `json:"action" validate:"required,oneof=create delete"`
	Level  string `json:"level" validate:"required,oneof=forbidden own all full"`
}

type UserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type DefaultUserService struct {
	UserRepo  UserRepository
	GrantRepo GrantRepository
	Validate  *validator.Validate
}

func NewUserService(userRepo UserRepository, grantRepo GrantRepository, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, GrantRepo: grantRepo, Validate: validate}
}

// CreateUser registers the subject of an access token as a user.
func (u *DefaultUserService) CreateUser(req *CreateUserRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	found, err := u.UserRepo.FindBySub(req.Sub)
	if err != nil {
		log.Errorf("failed to check if user %s already exists: %v", req.Sub, err)
		return nil, apierror.InternalServerError
	}
	if found != nil {
		return nil, apierror.UserAlreadyExistsError
	}

	now := utils.NowUTC()
	user := &entity.User{
		SubUUID:   req.Sub,
		Username:  req.Username,
		IsAdmin:   req.IsAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to create user %s: %v", req.Sub, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) SetGrant(req *GrantRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	level, err := permission.ParseAccessLevel(req.Level)
	if err != nil {
		return apierror.NewInvalidParamTypeError("level", "access level")
	}

	user, apierr := u.fetchBySub(req.Sub)
	if apierr != nil {
		return apierr
	}
	if user == nil {
		return apierror.NotFoundError
	}

	grant := &entity.Grant{PathID: req.PathID, UserID: user.ID, Action: req.Action, Level: int(level)}
	if err := u.GrantRepo.Upsert(grant); err != nil {
		log.Errorf("failed to grant %s in path %d to user %d: %v", req.Action, req.PathID, user.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (u *DefaultUserService) GetUser(sub string) (*UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchBySub(sub)
	if apierr != nil {
		return nil, apierr
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

// ResolveActor maps a token subject to the actor of a request. Unknown
// subjects yield ErrUnknownSubject, storage failures any other error.
func (u *DefaultUserService) ResolveActor(sub string) (*permission.Actor, error) {
	user, err := u.UserRepo.FindBySub(sub)
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", sub, err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSubject, sub)
	}
	return &permission.Actor{UserID: user.ID, Sub: user.SubUUID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

func (u *DefaultUserService) fetchBySub(sub string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindBySub(sub)
	if err != nil {
		log.Errorf("failed to find user (%s) by sub: %v", sub, err)
		return nil, apierror.InternalServerError
	}
	return user, nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		IsAdmin:   user.IsAdmin,
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}
}
