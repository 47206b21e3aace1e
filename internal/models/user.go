package models

import "time"

// User is an operator account allowed to download the registration sheet.
type User struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string `gorm:"type:varchar(255)" validate:"required,min=6"` // bcrypt hash, no json tag
	CreatedAt time.Time
}
