package dbmodels

import (
	"request-approval-backend/models"
	"time"
)

type Request struct {
	BaseModel
	Title           string               `gorm:"type:varchar(255);not null"`
	Description     string               `gorm:"not null"`
	Status          models.RequestStatus `gorm:"type:varchar(30);index;not null"`
	CreatedByID     uint                 `gorm:"index;not null"`
	CreatedBy       *User                `gorm:"foreignKey:CreatedByID"`
	AssignedToID    uint                 `gorm:"index;not null"`
	AssignedTo      *User                `gorm:"foreignKey:AssignedToID"`
	ApprovedByID    *uint
	ApprovedBy      *User `gorm:"foreignKey:ApprovedByID"`
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason *string
	ClosedAt        *time.Time
}
