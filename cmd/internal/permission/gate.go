package permission

import (
	"appointments/cmd/internal/domain/entity"
	"fmt"
	"strings"
)

type AccessLevel int

const (
	Forbidden AccessLevel = iota
	ReadOwn
	ReadAll
	Full
)

var levelNames = map[AccessLevel]string{
	Forbidden: "forbidden",
	ReadOwn:   "own",
	ReadAll:   "all",
	Full:      "full",
}

func (l AccessLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("AccessLevel(%d)", int(l))
}

// Allowed reports whether the level permits the action at all.
func (l AccessLevel) Allowed() bool {
	return l != Forbidden
}

func ParseAccessLevel(s string) (AccessLevel, error) {
	for level, name := range levelNames {
		if strings.EqualFold(s, name) {
			return level, nil
		}
	}
	return Forbidden, fmt.Errorf("unknown access level %q", s)
}

type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(s)); a {
	case ActionCreate, ActionDelete:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Actor is the authenticated caller of a request. A nil *Actor is anonymous.
type Actor struct {
	UserID   int
	Sub      string
	Username string
	IsAdmin  bool
}

// Owns reports whether the actor created a row owned by userID.
func (a *Actor) Owns(userID int) bool {
	return a != nil && a.UserID == userID
}

type GrantRepository interface {
	FindGrant(pathID, userID int, action string) (*entity.Grant, error)
}

type DefaultGate struct {
	GrantRepo GrantRepository
}

func NewGate(grantRepo GrantRepository) *DefaultGate {
	return &DefaultGate{GrantRepo: grantRepo}
}

// CheckPermission returns the access level of actor for action inside pathID.
// Admins may do everything, anonymous callers nothing; everybody else needs a
// grant for the path.
func (g *DefaultGate) CheckPermission(actor *Actor, pathID int, action Action) (AccessLevel, error) {
	if actor == nil {
		return Forbidden, nil
	}
	if actor.IsAdmin {
		return Full, nil
	}

	grant, err := g.GrantRepo.FindGrant(pathID, actor.UserID, string(action))
	if err != nil {
		return Forbidden, fmt.Errorf("find grant for user %d in path %d: %w", actor.UserID, pathID, err)
	}
	if grant == nil {
		return Forbidden, nil
	}
	return AccessLevel(grant.Level), nil
}
