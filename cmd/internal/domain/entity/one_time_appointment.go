package entity

type OneTimeAppointment struct {
	ID          int     `gorm:"primaryKey"`
	PathID      int     `gorm:"not null;index"`
	UserID      *int    // References: users(id)
	StartDate   string  `gorm:"not null;index"` // YYYY-MM-DD
	StartTime   *string // HH:MM:SS
	EndDate     *string // YYYY-MM-DD, nil when equal to StartDate
	EndTime     *string // HH:MM:SS
	Description string  `gorm:"not null"`
	Location    string  `gorm:"not null"`
	Changeable  bool    `gorm:"not null"`
}
