package apiv1

import (
	"request-approval-backend/controllers"
	accounthandler "request-approval-backend/lib/account"
	"request-approval-backend/middleware"
	authapimodels "request-approval-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
	account accounthandler.Provider
}

// InitAuthApiRouters mounts /auth. Only "me" requires a token.
func InitAuthApiRouters(router fiber.Router, base controllers.BaseAPIController, account accounthandler.Provider, protected ...fiber.Handler) {
	controller := authApiController{
		BaseAPIController: base,
		account:           account,
	}
	router.Route("auth", func(authRouter fiber.Router) {
		authRouter.Post("signup", controller.signup)
		authRouter.Post("login", controller.login)
		authRouter.Get("managers", controller.managers)
		authRouter.Get("me", append(protected, controller.me)...)
	})
}

// @Summary Registration
// @Tags Auth
// @Description Creates an EMPLOYEE or MANAGER account. Employees name their manager by managerId or managerName.
// @Param	body	body	authapimodels.SignupRequest	true	"request body"
// @Success 201 {object} authapimodels.UserView
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/auth/signup [post]
func (c *authApiController) signup(ctx *fiber.Ctx) error {
	var payload authapimodels.SignupRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "signup")
	}
	resp, err := c.account.CreateAccount(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create account")
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary Login
// @Tags Auth
// @Description Exchanges credentials for a 7 day token
// @Param	body	body	authapimodels.LoginRequest	true	"request body"
// @Success 200 {object} authapimodels.LoginResponse
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/auth/login [post]
func (c *authApiController) login(ctx *fiber.Ctx) error {
	var payload authapimodels.LoginRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "login")
	}
	resp, err := c.account.Login(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to login")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Current user
// @Tags Auth
// @Description Current user with manager id and permissions
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} authapimodels.MeView
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/auth/me [get]
func (c *authApiController) me(ctx *fiber.Ctx) error {
	resp, err := c.account.Me(ctx.UserContext(), middleware.GetUserID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to load current user")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Managers
// @Tags Auth
// @Description Managers to pick from on the signup form
// @Success 200 {array} authapimodels.UserView
// @Failure 500 {object} apimodels.Response
// @router /api/auth/managers [get]
func (c *authApiController) managers(ctx *fiber.Ctx) error {
	resp, err := c.account.ListManagers(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list managers")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}
