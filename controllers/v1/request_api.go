package apiv1

import (
	"fmt"
	"request-approval-backend/controllers"
	requestshandler "request-approval-backend/lib/requests"
	"request-approval-backend/middleware"
	requestapimodels "request-approval-backend/models/api/request"

	"github.com/gofiber/fiber/v2"
)

type requestApiController struct {
	controllers.BaseAPIController
	requests requestshandler.Provider
}

// InitRequestApiRouters mounts /requests behind the given auth handlers.
func InitRequestApiRouters(router fiber.Router, base controllers.BaseAPIController, requests requestshandler.Provider, protected ...fiber.Handler) {
	controller := requestApiController{
		BaseAPIController: base,
		requests:          requests,
	}
	router.Route("requests", func(requestRouter fiber.Router) {
		for _, handler := range protected {
			requestRouter.Use(handler)
		}
		requestRouter.Post("", controller.create)
		requestRouter.Get("", controller.list)
		requestRouter.Get("export", controller.export)
		requestRouter.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Get("slip", controller.slip)
			idRoute.Post("approve", controller.approve) // manager of the assignee
			idRoute.Post("reject", controller.reject)   // manager of the assignee
			idRoute.Post("close", controller.close)     // the assignee, once approved
		})
	})
}

// @Summary Create
// @Tags Requests
// @Description Submits a request to the caller's own manager
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body	body	requestapimodels.CreateRequest	true	"request body"
// @Success 201 {object} requestapimodels.RequestView
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests [post]
func (c *requestApiController) create(ctx *fiber.Ctx) error {
	var payload requestapimodels.CreateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "create request")
	}
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	resp, err := c.requests.Create(ctx.UserContext(), caller, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to create request")
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// @Summary List
// @Tags Requests
// @Description Managers get their employees' requests, employees their own. Newest first.
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {array} requestapimodels.RequestView
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests [get]
func (c *requestApiController) list(ctx *fiber.Ctx) error {
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	resp, err := c.requests.List(ctx.UserContext(), caller)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to list requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Export
// @Tags Requests
// @Description The caller's request list as an xlsx workbook
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {file} file
// @Failure 401 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests/export [get]
func (c *requestApiController) export(ctx *fiber.Ctx) error {
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	buf, err := c.requests.Export(ctx.UserContext(), caller)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to export requests")
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="requests.xlsx"`)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Get by ID
// @Tags Requests
// @Description Get by ID
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} requestapimodels.RequestView
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests/{id} [get]
func (c *requestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "get request")
	}
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	resp, err := c.requests.Get(ctx.UserContext(), caller, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to get request")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Slip
// @Tags Requests
// @Description One page PDF summary of the request
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests/{id}/slip [get]
func (c *requestApiController) slip(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "request slip")
	}
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	pdfFile, err := c.requests.Slip(ctx.UserContext(), caller, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to render request slip")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="request-%d.pdf"`, id))
	return ctx.Status(fiber.StatusOK).Send(pdfFile)
}

// @Summary Approve
// @Tags Requests
// @Description Manager of the assigned employee approves a pending request
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} requestapimodels.RequestView
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests/{id}/approve [post]
func (c *requestApiController) approve(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "approve request")
	}
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	resp, err := c.requests.Approve(ctx.UserContext(), caller, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to approve request")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Reject
// @Tags Requests
// @Description Manager of the assigned employee rejects a pending request. The body is optional.
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Param	body	body	requestapimodels.RejectRequest	false	"request body"
// @Success 200 {object} requestapimodels.RequestView
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests/{id}/reject [post]
func (c *requestApiController) reject(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "reject request")
	}
	var payload requestapimodels.RejectRequest
	if err = c.OptionalBodyParser(ctx, &payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "reject request")
	}
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	resp, err := c.requests.Reject(ctx.UserContext(), caller, id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to reject request")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Close
// @Tags Requests
// @Description The assigned employee closes an approved request
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    int  				    	true         "rec ID"
// @Success 200 {object} requestapimodels.RequestView
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/requests/{id}/close [post]
func (c *requestApiController) close(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "close request")
	}
	caller, err := middleware.GetAuthUser(ctx)
	if err != nil {
		return ctx.SendStatus(fiber.StatusUnauthorized)
	}
	resp, err := c.requests.Close(ctx.UserContext(), caller, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "failed to close request")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}
