package repository

import (
	"appointments/cmd/internal/domain/entity"
	"errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultGrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) *DefaultGrantRepository {
	return &DefaultGrantRepository{db: db}
}

// FindGrant returns the grant of a user for an action in a path, or nil.
func (g *DefaultGrantRepository) FindGrant(pathID, userID int, action string) (*entity.Grant, error) {
	var grant entity.Grant
	err := g.db.
		Where("path_id = ?", pathID).
		Where("user_id = ?", userID).
		Where("action = ?", action).
		First(&grant).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Upsert stores the grant, replacing the level of an existing one.
func (g *DefaultGrantRepository) Upsert(grant *entity.Grant) error {
	return g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path_id"}, {Name: "user_id"}, {Name: "action"}},
		DoUpdates: clause.AssignmentColumns([]string{"level"}),
	}).Create(grant).Error
}
