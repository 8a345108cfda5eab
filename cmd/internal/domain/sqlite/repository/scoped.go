package repository

import "gorm.io/gorm"

// scopedTable holds the queries shared by every appointment kind. The path id
// is a mandatory argument of each query, so no method can reach another scope.
type scopedTable[T any] struct {
	db    *gorm.DB
	order string
}

func (s scopedTable[T]) list(pathID, offset, limit int) ([]*T, error) {
	var rows []*T
	err := s.db.
		Where("path_id = ?", pathID).
		Order(s.order).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error

	if err != nil {
		return nil, storageError("list", err)
	}
	return rows, nil
}

func (s scopedTable[T]) count(pathID int) (int64, error) {
	var count int64
	err := s.db.Model(new(T)).
		Where("path_id = ?", pathID).
		Count(&count).Error

	if err != nil {
		return 0, storageError("count", err)
	}
	return count, nil
}

func (s scopedTable[T]) save(row *T) error {
	return storageError("insert", s.db.Create(row).Error)
}

func (s scopedTable[T]) delete(pathID, id int) error {
	res := s.db.
		Where("id = ?", id).
		Where("path_id = ?", pathID).
		Delete(new(T))

	if res.Error != nil {
		return storageError("delete", res.Error)
	}
	if res.RowsAffected != 1 {
		return ErrNotFound
	}
	return nil
}
