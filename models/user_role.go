package models

import "github.com/pkg/errors"

type UserRole string

const (
	EmployeeRole UserRole = "EMPLOYEE"
	ManagerRole  UserRole = "MANAGER"
)

var roleHumanName = map[UserRole]string{
	EmployeeRole: "Employee",
	ManagerRole:  "Manager",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) Validate() error {
	if _, exist := roleHumanName[r]; !exist {
		return errors.Errorf("unknown role: %q", string(r))
	}
	return nil
}

func (r UserRole) IsManager() bool {
	return r == ManagerRole
}

func (r UserRole) IsEmployee() bool {
	return r == EmployeeRole
}

// AuthUser is the caller identity carried by a verified token.
type AuthUser struct {
	ID   uint
	Role UserRole
}
