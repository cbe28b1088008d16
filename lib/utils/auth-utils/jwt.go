package authutils

import (
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

// Provider issues and parses the signed identity assertions handed out at login.
type Provider interface {
	GetToken(user dbmodels.User) (tokenString string, err error)
	ParseToken(tokenString string) (models.AuthUser, error)
}

func NewInstance(secret string, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return impl{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

type impl struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (i impl) GetToken(user dbmodels.User) (tokenString string, err error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"name": user.Name,
		"role": string(user.Role),
		"exp":  now.Add(i.ttl).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i impl) ParseToken(tokenString string) (models.AuthUser, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.AuthUser{}, errors.Wrap(err, "token verification failed")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.AuthUser{}, errors.New("unexpected claims type")
	}
	return UserFromClaims(claims)
}

func UserFromClaims(claims jwt.MapClaims) (models.AuthUser, error) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return models.AuthUser{}, errors.New("token has no subject")
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return models.AuthUser{}, errors.Errorf("invalid subject: %q", sub)
	}
	role, _ := claims["role"].(string)
	userRole := models.UserRole(role)
	if err = userRole.Validate(); err != nil {
		return models.AuthUser{}, err
	}
	return models.AuthUser{ID: uint(id), Role: userRole}, nil
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}
