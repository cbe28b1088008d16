package accounthandler

import (
	"context"
	"request-approval-backend/db/testdb"
	managerresolve "request-approval-backend/lib/manager-resolve"
	"request-approval-backend/lib/rbac"
	usersstore "request-approval-backend/lib/users/store"
	"request-approval-backend/lib/utils/apperr"
	authutils "request-approval-backend/lib/utils/auth-utils"
	"request-approval-backend/lib/utils/password"
	"request-approval-backend/models"
	authapimodels "request-approval-backend/models/api/auth"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// staleCheckStore hides existing emails from the up-front check, like a
// concurrent signup that has not committed yet.
type staleCheckStore struct {
	usersstore.Provider
}

func (staleCheckStore) ExistByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func newTestHandler(t *testing.T) (Provider, usersstore.Provider, authutils.Provider) {
	store := usersstore.NewInstance(testdb.New(t))
	tokens := authutils.NewInstance(testSecret, 0)
	h := NewHandler(store, managerresolve.NewHandler(store), password.NewInstance(bcrypt.MinCost), tokens, rbac.NewHandler())
	return h, store, tokens
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}

func fieldsOf(t *testing.T, err error) apperr.FieldErrors {
	appErr, ok := apperr.As(err)
	require.True(t, ok, "expected app error, got %v", err)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	h, store, _ := newTestHandler(t)

	manager, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
		Email:    "manager@example.com",
		Name:     "Manager One",
		Password: "password",
		Role:     models.ManagerRole,
	})
	require.NoError(t, err)
	require.NotZero(t, manager.ID)
	require.Equal(t, models.ManagerRole, manager.Role)

	t.Run(`manager has no manager and hashed password`, func(t *testing.T) {
		rec, err := store.GetByID(ctx, manager.ID)
		require.NoError(t, err)
		require.Nil(t, rec.ManagerID)
		require.NotEqual(t, "password", rec.PasswordHash)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("password")))
	})

	t.Run(`employee by manager name`, func(t *testing.T) {
		view, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:       "a@example.com",
			Name:        "Employee A",
			Password:    "password",
			Role:        models.EmployeeRole,
			ManagerName: strPtr("Manager One"),
		})
		require.NoError(t, err)
		require.Equal(t, authapimodels.UserView{ID: view.ID, Email: "a@example.com", Name: "Employee A", Role: models.EmployeeRole}, view)

		rec, err := store.GetByID(ctx, view.ID)
		require.NoError(t, err)
		require.NotNil(t, rec.ManagerID)
		require.Equal(t, manager.ID, *rec.ManagerID)
	})

	t.Run(`employee by manager id wins over name`, func(t *testing.T) {
		view, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:       "b@example.com",
			Name:        "Employee B",
			Password:    "password",
			Role:        models.EmployeeRole,
			ManagerID:   int64Ptr(int64(manager.ID)),
			ManagerName: strPtr("Nobody Here"),
		})
		require.NoError(t, err)
		rec, err := store.GetByID(ctx, view.ID)
		require.NoError(t, err)
		require.Equal(t, manager.ID, *rec.ManagerID)
	})

	t.Run(`employee without manager`, func(t *testing.T) {
		_, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:    "c@example.com",
			Name:     "Employee C",
			Password: "password",
			Role:     models.EmployeeRole,
		})
		require.Equal(t, []string{"manager name is required"}, fieldsOf(t, err)["managerName"])
	})

	t.Run(`employee with unknown manager name`, func(t *testing.T) {
		_, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:       "c@example.com",
			Name:        "Employee C",
			Password:    "password",
			Role:        models.EmployeeRole,
			ManagerName: strPtr("Ghost"),
		})
		require.Equal(t, []string{"manager not found"}, fieldsOf(t, err)["managerName"])
		exist, err := store.ExistByEmail(ctx, "c@example.com")
		require.NoError(t, err)
		require.False(t, exist)
	})

	t.Run(`employee with id of non manager`, func(t *testing.T) {
		employee, err := store.FindByEmail(ctx, "a@example.com")
		require.NoError(t, err)
		_, err = h.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:     "c@example.com",
			Name:      "Employee C",
			Password:  "password",
			Role:      models.EmployeeRole,
			ManagerID: int64Ptr(int64(employee.ID)),
		})
		require.Equal(t, []string{"invalid manager reference"}, fieldsOf(t, err)["managerName"])
	})

	t.Run(`invalid input`, func(t *testing.T) {
		_, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:    "not-an-email",
			Name:     "X",
			Password: "123",
			Role:     "ADMIN",
		})
		fields := fieldsOf(t, err)
		require.Contains(t, fields, "email")
		require.Contains(t, fields, "name")
		require.Contains(t, fields, "password")
		require.Contains(t, fields, "role")
	})

	t.Run(`duplicate email`, func(t *testing.T) {
		_, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:    "manager@example.com",
			Name:     "Manager Two",
			Password: "password",
			Role:     models.ManagerRole,
		})
		require.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run(`duplicate email caught by unique index`, func(t *testing.T) {
		racing := NewHandler(staleCheckStore{store}, managerresolve.NewHandler(store), password.NewInstance(bcrypt.MinCost),
			authutils.NewInstance(testSecret, 0), rbac.NewHandler())
		_, err := racing.CreateAccount(ctx, authapimodels.SignupRequest{
			Email:    "manager@example.com",
			Name:     "Manager Two",
			Password: "password",
			Role:     models.ManagerRole,
		})
		require.True(t, apperr.Is(err, apperr.KindConflict))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	h, _, tokens := newTestHandler(t)

	manager, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
		Email:    "manager@example.com",
		Name:     "Manager One",
		Password: "password",
		Role:     models.ManagerRole,
	})
	require.NoError(t, err)

	t.Run(`success`, func(t *testing.T) {
		resp, err := h.Login(ctx, authapimodels.LoginRequest{Email: "manager@example.com", Password: "password"})
		require.NoError(t, err)
		require.Equal(t, manager, resp.User)

		authUser, err := tokens.ParseToken(resp.Token)
		require.NoError(t, err)
		require.Equal(t, models.AuthUser{ID: manager.ID, Role: models.ManagerRole}, authUser)
	})

	t.Run(`wrong password`, func(t *testing.T) {
		_, err := h.Login(ctx, authapimodels.LoginRequest{Email: "manager@example.com", Password: "password1"})
		require.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	})

	t.Run(`unknown email`, func(t *testing.T) {
		_, err := h.Login(ctx, authapimodels.LoginRequest{Email: "nobody@example.com", Password: "password"})
		require.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	})

	t.Run(`invalid input`, func(t *testing.T) {
		_, err := h.Login(ctx, authapimodels.LoginRequest{Email: "", Password: ""})
		require.True(t, apperr.Is(err, apperr.KindValidation))
	})
}

func TestMeAndManagers(t *testing.T) {
	ctx := context.Background()
	h, _, _ := newTestHandler(t)

	second, err := h.CreateAccount(ctx, authapimodels.SignupRequest{Email: "z@example.com", Name: "Zed Manager", Password: "password", Role: models.ManagerRole})
	require.NoError(t, err)
	first, err := h.CreateAccount(ctx, authapimodels.SignupRequest{Email: "m@example.com", Name: "Alpha Manager", Password: "password", Role: models.ManagerRole})
	require.NoError(t, err)
	employee, err := h.CreateAccount(ctx, authapimodels.SignupRequest{
		Email: "a@example.com", Name: "Employee A", Password: "password", Role: models.EmployeeRole, ManagerName: strPtr("Zed Manager"),
	})
	require.NoError(t, err)

	t.Run(`managers sorted by name`, func(t *testing.T) {
		list, err := h.ListManagers(ctx)
		require.NoError(t, err)
		require.Equal(t, []authapimodels.UserView{first, second}, list)
	})

	t.Run(`me for employee`, func(t *testing.T) {
		me, err := h.Me(ctx, employee.ID)
		require.NoError(t, err)
		require.Equal(t, employee, me.UserView)
		require.NotNil(t, me.ManagerID)
		require.Equal(t, second.ID, *me.ManagerID)
		require.Contains(t, me.Permissions[models.RequestModule], models.CreatePermission)
		require.Empty(t, me.Permissions[models.ApprovalModule])
	})

	t.Run(`me for manager`, func(t *testing.T) {
		me, err := h.Me(ctx, first.ID)
		require.NoError(t, err)
		require.Nil(t, me.ManagerID)
		require.Contains(t, me.Permissions[models.ApprovalModule], models.ApprovePermission)
	})

	t.Run(`me for missing user`, func(t *testing.T) {
		_, err := h.Me(ctx, 9999)
		require.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	})
}
