package middleware

import (
	authutils "request-approval-backend/lib/utils/auth-utils"
	"request-approval-backend/models"

	"github.com/gofiber/fiber/v2"
)

// GetAuthUser reads the caller identity from the verified token.
func GetAuthUser(ctx *fiber.Ctx) (models.AuthUser, error) {
	return authutils.UserFromClaims(authutils.GetClaims(ctx))
}

func GetUserID(ctx *fiber.Ctx) uint {
	user, err := GetAuthUser(ctx)
	if err != nil {
		return 0
	}
	return user.ID
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	user, err := GetAuthUser(ctx)
	if err != nil {
		return ""
	}
	return user.Role
}
