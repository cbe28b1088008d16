package initializers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"request-approval-backend/config"
	"request-approval-backend/db/testdb"
	"request-approval-backend/models"
	apimodels "request-approval-backend/models/api"
	authapimodels "request-approval-backend/models/api/auth"
	requestapimodels "request-approval-backend/models/api/request"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClient struct {
	t   *testing.T
	app *fiber.App
}

func newTestClient(t *testing.T) (*testClient, *Services) {
	conf := &config.Configuration{}
	conf.App.BodyLimitBytes = 1 << 20
	conf.App.CorsAllowOrigins = "*"
	conf.Auth.JWTSecret = "e2e-secret"
	conf.Auth.JWTExpireInSec = 3600
	conf.Auth.BcryptCost = bcrypt.MinCost
	svc := NewServices(conf, testdb.New(t))
	return &testClient{t: t, app: NewApp(svc)}, svc
}

func (c *testClient) do(method, path, token string, body interface{}) (int, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, raw
}

func (c *testClient) json(method, path, token string, body interface{}, wantStatus int, out interface{}) {
	status, raw := c.do(method, path, token, body)
	require.Equal(c.t, wantStatus, status, string(raw))
	if out != nil {
		require.NoError(c.t, json.Unmarshal(raw, out), string(raw))
	}
}

func (c *testClient) signup(request authapimodels.SignupRequest) authapimodels.UserView {
	view := authapimodels.UserView{}
	c.json(http.MethodPost, "/api/auth/signup", "", request, fiber.StatusCreated, &view)
	return view
}

func (c *testClient) login(email string) string {
	resp := authapimodels.LoginResponse{}
	c.json(http.MethodPost, "/api/auth/login", "", authapimodels.LoginRequest{Email: email, Password: "password"}, fiber.StatusOK, &resp)
	require.NotEmpty(c.t, resp.Token)
	return resp.Token
}

func strPtr(s string) *string {
	return &s
}

func TestApp(t *testing.T) {
	c, _ := newTestClient(t)

	managerOne := c.signup(authapimodels.SignupRequest{Email: "manager@example.com", Name: "Manager One", Password: "password", Role: models.ManagerRole})
	managerTwo := c.signup(authapimodels.SignupRequest{Email: "manager2@example.com", Name: "Manager Two", Password: "password", Role: models.ManagerRole})
	employeeA := c.signup(authapimodels.SignupRequest{
		Email: "a@example.com", Name: "Employee A", Password: "password", Role: models.EmployeeRole, ManagerName: strPtr("Manager One"),
	})
	managerTwoID := int64(managerTwo.ID)
	c.signup(authapimodels.SignupRequest{
		Email: "b@example.com", Name: "Employee B", Password: "password", Role: models.EmployeeRole, ManagerID: &managerTwoID,
	})

	managerOneToken := c.login("manager@example.com")
	managerTwoToken := c.login("manager2@example.com")
	employeeAToken := c.login("a@example.com")
	employeeBToken := c.login("b@example.com")

	t.Run(`health and metrics`, func(t *testing.T) {
		status, raw := c.do(http.MethodGet, "/health", "", nil)
		require.Equal(t, fiber.StatusOK, status)
		require.JSONEq(t, `{"status":"ok"}`, string(raw))
	})

	t.Run(`signup failures`, func(t *testing.T) {
		body := apimodels.Response{}
		c.json(http.MethodPost, "/api/auth/signup", "", authapimodels.SignupRequest{
			Email: "c@example.com", Name: "Employee C", Password: "password", Role: models.EmployeeRole,
		}, fiber.StatusBadRequest, &body)
		require.Equal(t, "fail", body.Status)
		require.Equal(t, []string{"manager name is required"}, body.Errors["managerName"])

		c.json(http.MethodPost, "/api/auth/signup", "", authapimodels.SignupRequest{
			Email: "manager@example.com", Name: "Manager Again", Password: "password", Role: models.ManagerRole,
		}, fiber.StatusConflict, nil)

		status, _ := c.do(http.MethodPost, "/api/auth/signup", "", nil)
		require.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run(`login failures`, func(t *testing.T) {
		c.json(http.MethodPost, "/api/auth/login", "", authapimodels.LoginRequest{Email: "manager@example.com", Password: "wrong-password"}, fiber.StatusUnauthorized, nil)
		c.json(http.MethodPost, "/api/auth/login", "", authapimodels.LoginRequest{Email: "manager@example.com"}, fiber.StatusBadRequest, nil)
	})

	t.Run(`me and managers`, func(t *testing.T) {
		me := authapimodels.MeView{}
		c.json(http.MethodGet, "/api/auth/me", employeeAToken, nil, fiber.StatusOK, &me)
		require.Equal(t, employeeA, me.UserView)
		require.Equal(t, managerOne.ID, *me.ManagerID)
		require.Contains(t, me.Permissions[models.RequestModule], models.CreatePermission)

		c.json(http.MethodGet, "/api/auth/me", "", nil, fiber.StatusUnauthorized, nil)

		managers := []authapimodels.UserView{}
		c.json(http.MethodGet, "/api/auth/managers", "", nil, fiber.StatusOK, &managers)
		require.Equal(t, []authapimodels.UserView{managerOne, managerTwo}, managers)
	})

	var created requestapimodels.RequestView
	t.Run(`worked example`, func(t *testing.T) {
		c.json(http.MethodPost, "/api/requests", employeeAToken, requestapimodels.CreateRequest{
			Title: "Leave", Description: "Two days off", ManagerName: "Manager One",
		}, fiber.StatusCreated, &created)
		require.Equal(t, models.RequestStatusPendingApproval, created.Status)
		require.Equal(t, employeeA.ID, created.AssignedToID)

		path := fmt.Sprintf("/api/requests/%d", created.ID)

		// employee B is not a manager; manager two does not manage A
		c.json(http.MethodPost, path+"/approve", employeeBToken, nil, fiber.StatusForbidden, nil)
		c.json(http.MethodPost, path+"/approve", managerTwoToken, nil, fiber.StatusForbidden, nil)
		c.json(http.MethodPost, path+"/close", employeeAToken, nil, fiber.StatusConflict, nil)

		approved := requestapimodels.RequestView{}
		c.json(http.MethodPost, path+"/approve", managerOneToken, nil, fiber.StatusOK, &approved)
		require.Equal(t, models.RequestStatusApproved, approved.Status)
		require.NotNil(t, approved.ApprovedAt)

		c.json(http.MethodPost, path+"/approve", managerOneToken, nil, fiber.StatusConflict, nil)
		c.json(http.MethodPost, path+"/reject", managerOneToken, nil, fiber.StatusConflict, nil)

		closed := requestapimodels.RequestView{}
		c.json(http.MethodPost, path+"/close", employeeAToken, nil, fiber.StatusOK, &closed)
		require.Equal(t, models.RequestStatusClosed, closed.Status)
		require.NotNil(t, closed.ClosedAt)
	})

	t.Run(`reject with and without body`, func(t *testing.T) {
		first := requestapimodels.RequestView{}
		c.json(http.MethodPost, "/api/requests", employeeAToken, requestapimodels.CreateRequest{
			Title: "Monitor", Description: "Second screen", ManagerName: "Manager One",
		}, fiber.StatusCreated, &first)
		rejected := requestapimodels.RequestView{}
		c.json(http.MethodPost, fmt.Sprintf("/api/requests/%d/reject", first.ID), managerOneToken,
			requestapimodels.RejectRequest{Reason: strPtr("no budget")}, fiber.StatusOK, &rejected)
		require.Equal(t, models.RequestStatusRejected, rejected.Status)
		require.Equal(t, "no budget", *rejected.RejectionReason)
		c.json(http.MethodPost, fmt.Sprintf("/api/requests/%d/approve", first.ID), managerOneToken, nil, fiber.StatusConflict, nil)

		second := requestapimodels.RequestView{}
		c.json(http.MethodPost, "/api/requests", employeeAToken, requestapimodels.CreateRequest{
			Title: "Chair", Description: "Ergonomic chair", ManagerName: "Manager One",
		}, fiber.StatusCreated, &second)
		c.json(http.MethodPost, fmt.Sprintf("/api/requests/%d/reject", second.ID), managerOneToken,
			requestapimodels.RejectRequest{Reason: strPtr("")}, fiber.StatusBadRequest, nil)
		c.json(http.MethodPost, fmt.Sprintf("/api/requests/%d/reject", second.ID), managerOneToken, nil, fiber.StatusOK, &rejected)
		require.Nil(t, rejected.RejectionReason)
	})

	t.Run(`create failures`, func(t *testing.T) {
		body := apimodels.Response{}
		c.json(http.MethodPost, "/api/requests", employeeAToken, requestapimodels.CreateRequest{
			Title: "Leave", Description: "Days off", ManagerName: "Manager Two",
		}, fiber.StatusBadRequest, &body)
		require.Equal(t, []string{"manager does not match your account"}, body.Errors["managerName"])

		c.json(http.MethodPost, "/api/requests", managerOneToken, requestapimodels.CreateRequest{
			Title: "Leave", Description: "Days off", ManagerName: "Manager Two",
		}, fiber.StatusForbidden, nil)
		c.json(http.MethodPost, "/api/requests", "", requestapimodels.CreateRequest{}, fiber.StatusUnauthorized, nil)
	})

	t.Run(`list scoping`, func(t *testing.T) {
		list := []requestapimodels.RequestView{}
		c.json(http.MethodGet, "/api/requests", managerOneToken, nil, fiber.StatusOK, &list)
		require.Len(t, list, 3)
		require.Equal(t, created.ID, list[len(list)-1].ID)
		for _, item := range list {
			require.Equal(t, employeeA.ID, item.AssignedToID)
			require.Equal(t, "Employee A", item.AssignedTo.Name)
		}

		c.json(http.MethodGet, "/api/requests", managerTwoToken, nil, fiber.StatusOK, &list)
		require.Empty(t, list)
		c.json(http.MethodGet, "/api/requests", employeeBToken, nil, fiber.StatusOK, &list)
		require.Empty(t, list)
		c.json(http.MethodGet, "/api/requests", "", nil, fiber.StatusUnauthorized, nil)
		c.json(http.MethodGet, "/api/requests", "garbage", nil, fiber.StatusUnauthorized, nil)
	})

	t.Run(`get, export and slip`, func(t *testing.T) {
		path := fmt.Sprintf("/api/requests/%d", created.ID)
		view := requestapimodels.RequestView{}
		c.json(http.MethodGet, path, employeeAToken, nil, fiber.StatusOK, &view)
		require.Equal(t, created.ID, view.ID)
		c.json(http.MethodGet, path, employeeBToken, nil, fiber.StatusForbidden, nil)
		c.json(http.MethodGet, "/api/requests/999999", employeeAToken, nil, fiber.StatusNotFound, nil)
		c.json(http.MethodGet, "/api/requests/abc", employeeAToken, nil, fiber.StatusBadRequest, nil)
		c.json(http.MethodPost, "/api/requests/999999/approve", managerOneToken, nil, fiber.StatusNotFound, nil)

		status, raw := c.do(http.MethodGet, "/api/requests/export", managerOneToken, nil)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "PK", string(raw[:2]))

		status, raw = c.do(http.MethodGet, path+"/slip", employeeAToken, nil)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "%PDF", string(raw[:4]))
	})

	t.Run(`metrics`, func(t *testing.T) {
		status, raw := c.do(http.MethodGet, "/metrics", "", nil)
		require.Equal(t, fiber.StatusOK, status)
		require.Contains(t, string(raw), `request_lifecycle_operations_total{action="approve",result="ok"} 1`)
		require.Contains(t, string(raw), `request_lifecycle_operations_total{action="approve",result="conflict"}`)
	})
}

func TestSeedDemoData(t *testing.T) {
	c, svc := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, SeedDemoData(ctx, svc))
	// idempotent
	require.NoError(t, SeedDemoData(ctx, svc))

	token := c.login("manager@example.com")
	list := []requestapimodels.RequestView{}
	c.json(http.MethodGet, "/api/requests", token, nil, fiber.StatusOK, &list)
	require.Len(t, list, 1)
	require.Equal(t, "Access Request", list[0].Title)

	c.login("employee.b@example.com")
}
