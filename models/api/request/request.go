package requestapimodels

import (
	"request-approval-backend/lib/utils/apperr"
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"
	"strings"
	"time"
	"unicode/utf8"
)

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ManagerName string `json:"managerName"` // display name of the caller's manager
}

func (r CreateRequest) Validate() apperr.FieldErrors {
	fields := apperr.FieldErrors{}
	if strings.TrimSpace(r.Title) == "" {
		fields.Add("title", "title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		fields.Add("description", "description is required")
	}
	if utf8.RuneCountInString(r.ManagerName) < 2 {
		fields.Add("managerName", "manager name must be at least 2 characters")
	}
	return fields
}

type RejectRequest struct {
	Reason *string `json:"reason,omitempty"`
}

func (r RejectRequest) Validate() apperr.FieldErrors {
	fields := apperr.FieldErrors{}
	if r.Reason != nil && *r.Reason == "" {
		fields.Add("reason", "reason must be at least 1 character")
	}
	return fields
}

type UserBrief struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RequestView struct {
	ID              uint                 `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Status          models.RequestStatus `json:"status"`
	CreatedByID     uint                 `json:"createdById"`
	AssignedToID    uint                 `json:"assignedToId"`
	ApprovedByID    *uint                `json:"approvedById"`
	ApprovedAt      *time.Time           `json:"approvedAt"`
	RejectedAt      *time.Time           `json:"rejectedAt"`
	RejectionReason *string              `json:"rejectionReason"`
	ClosedAt        *time.Time           `json:"closedAt"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	CreatedBy       *UserBrief           `json:"createdBy,omitempty"`
	AssignedTo      *UserBrief           `json:"assignedTo,omitempty"`
}

func RequestConvert(rec dbmodels.Request) RequestView {
	result := RequestView{
		ID:              rec.ID,
		Title:           rec.Title,
		Description:     rec.Description,
		Status:          rec.Status,
		CreatedByID:     rec.CreatedByID,
		AssignedToID:    rec.AssignedToID,
		ApprovedByID:    rec.ApprovedByID,
		ApprovedAt:      rec.ApprovedAt,
		RejectedAt:      rec.RejectedAt,
		RejectionReason: rec.RejectionReason,
		ClosedAt:        rec.ClosedAt,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	if rec.CreatedBy != nil {
		result.CreatedBy = &UserBrief{Name: rec.CreatedBy.Name, Email: rec.CreatedBy.Email}
	}
	if rec.AssignedTo != nil {
		result.AssignedTo = &UserBrief{Name: rec.AssignedTo.Name, Email: rec.AssignedTo.Email}
	}
	return result
}
