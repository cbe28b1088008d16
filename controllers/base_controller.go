package controllers

import (
	"request-approval-backend/fiberlog"
	"request-approval-backend/lib/utils/apperr"
	"request-approval-backend/middleware"
	apimodels "request-approval-backend/models/api"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct {
	// HealthCheck reports whether the database is reachable; used to word 500 responses.
	HealthCheck func() error
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:      fiber.StatusBadRequest,
	apperr.KindUnauthenticated: fiber.StatusUnauthorized,
	apperr.KindForbidden:       fiber.StatusForbidden,
	apperr.KindNotFound:        fiber.StatusNotFound,
	apperr.KindConflict:        fiber.StatusConflict,
	apperr.KindInternal:        fiber.StatusInternalServerError,
}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		c.GetLogger(ctx).WithError(err).Debug("failed to parse request body")
		return apperr.FieldError("body", "request body must be a JSON object")
	}
	return nil
}

// OptionalBodyParser leaves out untouched when the request has no body.
func (c *BaseAPIController) OptionalBodyParser(ctx *fiber.Ctx, out interface{}) error {
	if len(ctx.Body()) == 0 {
		return nil
	}
	return c.BodyParser(ctx, out)
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.FieldError("id", "id must be a positive integer")
	}
	return uint(id), nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	entry := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if requestID, ok := ctx.Locals(fiberlog.RequestIDLocal).(string); ok && requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	if userID := middleware.GetUserID(ctx); userID != 0 {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}

// SendError writes the fail envelope for err with the status of its kind.
// Causes of internal errors are logged, never returned.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	kind := apperr.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if kind == apperr.KindInternal {
		logger.WithError(err).Error(msg)
		message := "unexpected error"
		if c.HealthCheck != nil && c.HealthCheck() != nil {
			message = "database unavailable"
		}
		return ctx.Status(status).JSON(apimodels.NewError(message))
	}
	appErr, _ := apperr.As(err)
	if kind == apperr.KindValidation {
		return ctx.Status(status).JSON(apimodels.NewFieldError(appErr.Message, appErr.Fields))
	}
	return ctx.Status(status).JSON(apimodels.NewError(appErr.Message))
}

// ErrorHandler is the fiber fallback for errors returned by handlers and middleware.
func (c *BaseAPIController) ErrorHandler(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(apimodels.NewError(fiberErr.Message))
	}
	return c.SendError(ctx, c.GetLogger(ctx), err, "unhandled error")
}
