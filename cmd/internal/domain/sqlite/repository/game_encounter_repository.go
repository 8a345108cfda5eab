package repository

import (
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/utils"
	"gorm.io/gorm"
	"time"
)

type DefaultGameEncounterRepository struct {
	db    *gorm.DB
	table scopedTable[entity.GameEncounter]
}

func NewGameEncounterRepository(db *gorm.DB) *DefaultGameEncounterRepository {
	return &DefaultGameEncounterRepository{
		db:    db,
		table: scopedTable[entity.GameEncounter]{db: db, order: "start_date desc, start_time desc, id desc"},
	}
}

func (g *DefaultGameEncounterRepository) List(pathID, offset, limit int) ([]*entity.GameEncounter, error) {
	return g.table.list(pathID, offset, limit)
}

func (g *DefaultGameEncounterRepository) Count(pathID int) (int64, error) {
	return g.table.count(pathID)
}

func (g *DefaultGameEncounterRepository) Save(game *entity.GameEncounter) error {
	return g.table.save(game)
}

func (g *DefaultGameEncounterRepository) Delete(pathID, id int) error {
	return g.table.delete(pathID, id)
}

// DeleteExpired removes every encounter dated today or earlier. The date
// counts as its midnight, so a game is gone from the first sweep of its day.
func (g *DefaultGameEncounterRepository) DeleteExpired(now time.Time) (int64, error) {
	today := now.Format(utils.DateLayout)

	res := g.db.
		Where("start_date <= ?", today).
		Delete(&entity.GameEncounter{})

	if res.Error != nil {
		return 0, storageError("delete expired", res.Error)
	}
	return res.RowsAffected, nil
}
