package rbac

import (
	"request-approval-backend/models"

	log "github.com/sirupsen/logrus"
)

var (
	EmployeeRoleSet = []models.UserRole{models.EmployeeRole}
	ManagerRoleSet  = []models.UserRole{models.ManagerRole}
	AllRoles        = []models.UserRole{models.EmployeeRole, models.ManagerRole}
)

func (i *impl) initRules() {
	i.profile()
	i.requests()
	i.approvals()
}

func (i *impl) mustRegister(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string) {
	if err := i.RegisterRule(module, permission, roles, swaggerPattern, nil); err != nil {
		log.WithError(err).Fatal("invalid rbac rule")
	}
}

func (i *impl) profile() {
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/auth/me [get]")
}

func (i *impl) requests() {
	// VIEW
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/requests [get]")
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/requests/{id} [get]")
	i.mustRegister(models.RequestModule, models.ViewPermission, AllRoles, "/api/requests/{id}/slip [get]")
	i.mustRegister(models.RequestModule, models.ExportPermission, AllRoles, "/api/requests/export [get]")
	// CREATE / CLOSE
	i.mustRegister(models.RequestModule, models.CreatePermission, EmployeeRoleSet, "/api/requests [post]")
	i.mustRegister(models.RequestModule, models.ClosePermission, EmployeeRoleSet, "/api/requests/{id}/close [post]")
}

func (i *impl) approvals() {
	i.mustRegister(models.ApprovalModule, models.ApprovePermission, ManagerRoleSet, "/api/requests/{id}/approve [post]")
	i.mustRegister(models.ApprovalModule, models.RejectPermission, ManagerRoleSet, "/api/requests/{id}/reject [post]")
}
