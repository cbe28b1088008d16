package authapimodels

import (
	"net/mail"
	"request-approval-backend/lib/utils/apperr"
	"request-approval-backend/models"
	"strings"
	"unicode/utf8"
)

type SignupRequest struct {
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Password    string          `json:"password"`
	Role        models.UserRole `json:"role"`
	ManagerID   *int64          `json:"managerId,omitempty"`   // preferred manager reference
	ManagerName *string         `json:"managerName,omitempty"` // used when managerId is absent
}

type requiredField struct {
	field   string
	message string
	present func(r SignupRequest) bool
}

// fields that become mandatory depending on the requested role
var signupRoleRules = map[models.UserRole][]requiredField{
	models.EmployeeRole: {
		{
			field:   "managerName",
			message: "manager name is required",
			present: func(r SignupRequest) bool { return r.HasManagerID() || r.HasManagerName() },
		},
	},
	models.ManagerRole: {},
}

func (r SignupRequest) HasManagerID() bool {
	return r.ManagerID != nil
}

func (r SignupRequest) HasManagerName() bool {
	return r.ManagerName != nil && strings.TrimSpace(*r.ManagerName) != ""
}

func (r SignupRequest) Validate() apperr.FieldErrors {
	fields := apperr.FieldErrors{}
	ValidateEmail(fields, r.Email)
	if utf8.RuneCountInString(strings.TrimSpace(r.Name)) < 2 {
		fields.Add("name", "name must be at least 2 characters")
	}
	ValidatePassword(fields, r.Password)
	if err := r.Role.Validate(); err != nil {
		fields.Add("role", "role must be one of EMPLOYEE, MANAGER")
	}
	if r.ManagerID != nil && *r.ManagerID <= 0 {
		fields.Add("managerId", "manager id must be a positive integer")
	}
	if r.ManagerName != nil && utf8.RuneCountInString(*r.ManagerName) < 2 {
		fields.Add("managerName", "manager name must be at least 2 characters")
	}
	for _, rule := range signupRoleRules[r.Role] {
		if !rule.present(r) {
			fields.Add(rule.field, rule.message)
		}
	}
	return fields
}

func ValidateEmail(fields apperr.FieldErrors, email string) {
	if strings.TrimSpace(email) == "" {
		fields.Add("email", "email is required")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		fields.Add("email", "email is invalid")
	}
}

func ValidatePassword(fields apperr.FieldErrors, password string) {
	if utf8.RuneCountInString(password) < 6 {
		fields.Add("password", "password must be at least 6 characters")
	}
}
