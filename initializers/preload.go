package initializers

import (
	"context"
	"request-approval-backend/lib/utils/apperr"
	"request-approval-backend/models"
	authapimodels "request-approval-backend/models/api/auth"
	requestapimodels "request-approval-backend/models/api/request"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	demoPassword    = "password"
	demoManagerName = "Manager One"
)

var demoEmployees = []authapimodels.SignupRequest{
	{Email: "employee.a@example.com", Name: "Employee A", Password: demoPassword, Role: models.EmployeeRole},
	{Email: "employee.b@example.com", Name: "Employee B", Password: demoPassword, Role: models.EmployeeRole},
}

// SeedDemoData adds a demo manager with two employees and one pending request.
// Accounts that already exist are left untouched.
func SeedDemoData(ctx context.Context, svc *Services) error {
	_, err := svc.Account.CreateAccount(ctx, authapimodels.SignupRequest{
		Email:    "manager@example.com",
		Name:     demoManagerName,
		Password: demoPassword,
		Role:     models.ManagerRole,
	})
	if err != nil && !apperr.Is(err, apperr.KindConflict) {
		return errors.Wrap(err, "demo manager")
	}

	managerName := demoManagerName
	for idx, signup := range demoEmployees {
		signup.ManagerName = &managerName
		view, err := svc.Account.CreateAccount(ctx, signup)
		if apperr.Is(err, apperr.KindConflict) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "demo employee %s", signup.Email)
		}
		if idx != 0 {
			continue
		}
		employee := models.AuthUser{ID: view.ID, Role: view.Role}
		_, err = svc.Requests.Create(ctx, employee, requestapimodels.CreateRequest{
			Title:       "Access Request",
			Description: "Grant access to system",
			ManagerName: demoManagerName,
		})
		if err != nil {
			return errors.Wrap(err, "demo request")
		}
	}
	log.Info("demo data seeded")
	return nil
}
