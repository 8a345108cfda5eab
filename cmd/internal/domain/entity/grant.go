package entity

// Grant gives a user an access level for one action inside one path.
type Grant struct {
	ID     int    `gorm:"primaryKey"`
	PathID int    `gorm:"not null;uniqueIndex:idx_grant_scope"`
	UserID int    `gorm:"not null;uniqueIndex:idx_grant_scope"` // References: users(id)
	Action string `gorm:"not null;uniqueIndex:idx_grant_scope"`
	Level  int    `gorm:"not null"`
}
