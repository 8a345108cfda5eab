package entity

type User struct {
	ID        int    `gorm:"primaryKey"`
	SubUUID   string `gorm:"not null;uniqueIndex"`
	Username  string `gorm:"not null"`
	IsAdmin   bool   `gorm:"not null"`
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`
}
