package dbmodels

import (
	"request-approval-backend/models"
)

type User struct {
	BaseModel
	Email        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string          `gorm:"type:varchar(150);index;not null"`
	PasswordHash string          `gorm:"type:varchar(128);not null" json:"-"`
	Role         models.UserRole `gorm:"type:varchar(20);not null"`
	ManagerID    *uint           `gorm:"index"`
}
