package entity

type GameEncounter struct {
	ID        int    `gorm:"primaryKey"`
	PathID    int    `gorm:"not null;index"`
	UserID    int    `gorm:"not null"` // References: users(id)
	Home      string `gorm:"not null"`
	Guest     string `gorm:"not null"`
	StartDate string `gorm:"not null;index"` // YYYY-MM-DD
	StartTime string `gorm:"not null"`       // HH:MM:SS
}
