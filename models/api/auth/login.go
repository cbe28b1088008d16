package authapimodels

import (
	"request-approval-backend/lib/utils/apperr"
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() apperr.FieldErrors {
	fields := apperr.FieldErrors{}
	ValidateEmail(fields, r.Email)
	ValidatePassword(fields, r.Password)
	return fields
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type UserView struct {
	ID    uint            `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:    rec.ID,
		Email: rec.Email,
		Name:  rec.Name,
		Role:  rec.Role,
	}
}

type MeView struct {
	UserView
	ManagerID   *uint                                 `json:"managerId"`
	Permissions map[models.Module][]models.Permission `json:"permissions"`
}
