package repository

import (
	"appointments/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultRecurringRepository struct {
	table scopedTable[entity.RecurringAppointment]
}

func NewRecurringRepository(db *gorm.DB) *DefaultRecurringRepository {
	return &DefaultRecurringRepository{
		table: scopedTable[entity.RecurringAppointment]{db: db, order: "day asc, start_time asc, id asc"},
	}
}

// List returns the appointments of a path ordered by weekday and start time.
func (r *DefaultRecurringRepository) List(pathID, offset, limit int) ([]*entity.RecurringAppointment, error) {
	return r.table.list(pathID, offset, limit)
}

func (r *DefaultRecurringRepository) Count(pathID int) (int64, error) {
	return r.table.count(pathID)
}

func (r *DefaultRecurringRepository) Save(appt *entity.RecurringAppointment) error {
	return r.table.save(appt)
}

func (r *DefaultRecurringRepository) Delete(pathID, id int) error {
	return r.table.delete(pathID, id)
}
