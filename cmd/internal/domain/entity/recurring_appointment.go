package entity

// RecurringAppointment repeats every week on Day (0 = Monday ... 6 = Sunday).
type RecurringAppointment struct {
	ID          int     `gorm:"primaryKey"`
	PathID      int     `gorm:"not null;index"`
	UserID      int     `gorm:"not null"` // References: users(id)
	Day         int     `gorm:"not null"`
	StartTime   string  `gorm:"not null"` // HH:MM:SS
	EndTime     *string // HH:MM:SS
	Description string  `gorm:"not null"`
}
