package repository

import (
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/utils"
	"gorm.io/gorm"
	"time"
)

// OneTimeGraceDays is how long a one-time appointment stays listed after it ended.
const OneTimeGraceDays = 5

type DefaultOneTimeRepository struct {
	db    *gorm.DB
	table scopedTable[entity.OneTimeAppointment]
}

func NewOneTimeRepository(db *gorm.DB) *DefaultOneTimeRepository {
	return &DefaultOneTimeRepository{
		db:    db,
		table: scopedTable[entity.OneTimeAppointment]{db: db, order: "start_date desc, start_time desc, id desc"},
	}
}

// List returns the appointments of a path, newest start date first.
func (r *DefaultOneTimeRepository) List(pathID, offset, limit int) ([]*entity.OneTimeAppointment, error) {
	return r.table.list(pathID, offset, limit)
}

func (r *DefaultOneTimeRepository) Count(pathID int) (int64, error) {
	return r.table.count(pathID)
}

func (r *DefaultOneTimeRepository) Save(appt *entity.OneTimeAppointment) error {
	return r.table.save(appt)
}

func (r *DefaultOneTimeRepository) Delete(pathID, id int) error {
	return r.table.delete(pathID, id)
}

// DeleteExpired removes appointments whose last day lies more than
// OneTimeGraceDays before now. Appointments without an end date end on their
// start date.
func (r *DefaultOneTimeRepository) DeleteExpired(now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -OneTimeGraceDays).Format(utils.DateLayout)

	res := r.db.
		Where("(end_date IS NULL AND start_date <= ?) OR end_date <= ?", cutoff, cutoff).
		Delete(&entity.OneTimeAppointment{})

	if res.Error != nil {
		return 0, storageError("delete expired", res.Error)
	}
	return res.RowsAffected, nil
}
