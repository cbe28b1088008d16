package middleware

import (
	"request-approval-backend/lib/rbac"
	apimodels "request-approval-backend/models/api"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// RbacMiddleware rejects callers whose role is not allowed on the route.
// Routes without a registered rule pass through.
func RbacMiddleware(rules rbac.Provider) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		user, err := GetAuthUser(ctx)
		if err != nil {
			log.WithError(err).Debug("token carries no usable identity")
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("invalid or expired token"))
		}

		handler, found := rules.GetRuleFunc(ctx.Method(), ctx.Path())
		if !found {
			return ctx.Next()
		}
		if !handler(user.ID, user.Role, ctx.Path()) {
			log.
				WithField("user_id", user.ID).
				WithField("role", user.Role).
				WithField("path", ctx.Path()).
				Debug("rbac denied")
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation not permitted for role " + user.Role.ToHuman()))
		}
		return ctx.Next()
	}
}
