package middleware

import (
	apimodels "request-approval-backend/models/api"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// AuthorizationRequired verifies the bearer token and stores it under Locals("user").
func AuthorizationRequired(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		Claims: jwt.MapClaims{},
		SigningKey: jwtware.SigningKey{
			JWTAlg: jwtware.HS256,
			Key:    []byte(secret),
		},
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			log.WithError(err).Debug("token rejected")
			message := "invalid or expired token"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				message = "missing or malformed authorization header"
			}
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError(message))
		},
	})
}
