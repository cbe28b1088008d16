package accounthandler

import (
	"context"
	managerresolve "request-approval-backend/lib/manager-resolve"
	"request-approval-backend/lib/rbac"
	usersstore "request-approval-backend/lib/users/store"
	"request-approval-backend/lib/utils/apperr"
	authutils "request-approval-backend/lib/utils/auth-utils"
	"request-approval-backend/lib/utils/password"
	authapimodels "request-approval-backend/models/api/auth"
	dbmodels "request-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Provider interface {
	CreateAccount(ctx context.Context, request authapimodels.SignupRequest) (authapimodels.UserView, error)
	Login(ctx context.Context, request authapimodels.LoginRequest) (authapimodels.LoginResponse, error)
	Me(ctx context.Context, userID uint) (authapimodels.MeView, error)
	ListManagers(ctx context.Context) ([]authapimodels.UserView, error)
}

func NewHandler(usersStore usersstore.Provider, resolver managerresolve.Provider, passwords password.Provider,
	tokens authutils.Provider, rbacProvider rbac.Provider) Provider {
	return impl{
		usersStore:   usersStore,
		resolver:     resolver,
		passwords:    passwords,
		tokens:       tokens,
		rbacProvider: rbacProvider,
	}
}

type impl struct {
	usersStore   usersstore.Provider
	resolver     managerresolve.Provider
	passwords    password.Provider
	tokens       authutils.Provider
	rbacProvider rbac.Provider
}

const errEmailInUse = "email already in use"

func (i impl) CreateAccount(ctx context.Context, request authapimodels.SignupRequest) (authapimodels.UserView, error) {
	if fields := request.Validate(); !fields.Empty() {
		return authapimodels.UserView{}, apperr.Validation(fields)
	}
	logger := log.WithField("email", request.Email)

	exist, err := i.usersStore.ExistByEmail(ctx, request.Email)
	if err != nil {
		logger.WithError(err).Error("failed to check email")
		return authapimodels.UserView{}, apperr.Internal(err, "failed to check email")
	}
	if exist {
		return authapimodels.UserView{}, apperr.Conflict(errEmailInUse)
	}

	rec := dbmodels.User{
		Email: request.Email,
		Name:  request.Name,
		Role:  request.Role,
	}
	if request.Role.IsEmployee() {
		manager, err := i.resolveSignupManager(ctx, request)
		if err != nil {
			return authapimodels.UserView{}, err
		}
		rec.ManagerID = &manager.ID
	}

	rec.PasswordHash, err = i.passwords.Hash(request.Password)
	if err != nil {
		logger.WithError(err).Error("failed to hash password")
		return authapimodels.UserView{}, apperr.Internal(err, "failed to hash password")
	}

	rec.ID, err = i.usersStore.Create(ctx, rec)
	if err != nil {
		// two signups for the same address raced past the check above
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return authapimodels.UserView{}, apperr.Conflict(errEmailInUse)
		}
		logger.WithError(err).Error("failed to create user")
		return authapimodels.UserView{}, apperr.Internal(err, "failed to create user")
	}
	logger.
		WithField("user_id", rec.ID).
		WithField("role", rec.Role).
		Info("account created")
	return authapimodels.UserConvert(rec), nil
}

func (i impl) resolveSignupManager(ctx context.Context, request authapimodels.SignupRequest) (*dbmodels.User, error) {
	ref := managerresolve.ManagerRef{}
	if request.HasManagerID() {
		id := uint(*request.ManagerID)
		ref.ByID = &id
	} else if request.HasManagerName() {
		ref.ByName = *request.ManagerName
	}
	manager, err := i.resolver.Resolve(ctx, ref)
	if err == nil {
		return manager, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	if ref.ByID != nil {
		return nil, apperr.FieldError("managerName", "invalid manager reference")
	}
	return nil, apperr.FieldError("managerName", "manager not found")
}

func (i impl) Login(ctx context.Context, request authapimodels.LoginRequest) (authapimodels.LoginResponse, error) {
	if fields := request.Validate(); !fields.Empty() {
		return authapimodels.LoginResponse{}, apperr.Validation(fields)
	}
	logger := log.WithField("email", request.Email)
	user, err := i.usersStore.FindByEmail(ctx, request.Email)
	if err != nil {
		logger.WithError(err).Error("failed to find user by email")
		return authapimodels.LoginResponse{}, apperr.Internal(err, "failed to find user")
	}
	if user == nil {
		logger.Debug("user with this email not found")
		return authapimodels.LoginResponse{}, apperr.Unauthenticated("invalid credentials")
	}
	if !i.passwords.Verify(user.PasswordHash, request.Password) {
		logger.Debug("password check failed")
		return authapimodels.LoginResponse{}, apperr.Unauthenticated("invalid credentials")
	}
	token, err := i.tokens.GetToken(*user)
	if err != nil {
		logger.WithError(err).Error("failed to sign token")
		return authapimodels.LoginResponse{}, apperr.Internal(err, "failed to sign token")
	}
	return authapimodels.LoginResponse{
		Token: token,
		User:  authapimodels.UserConvert(*user),
	}, nil
}

func (i impl) Me(ctx context.Context, userID uint) (authapimodels.MeView, error) {
	user, err := i.usersStore.GetByID(ctx, userID)
	if err != nil {
		log.WithField("user_id", userID).WithError(err).Error("failed to load user")
		return authapimodels.MeView{}, apperr.Internal(err, "failed to load user")
	}
	if user == nil {
		return authapimodels.MeView{}, apperr.Unauthenticated("user no longer exists")
	}
	return authapimodels.MeView{
		UserView:    authapimodels.UserConvert(*user),
		ManagerID:   user.ManagerID,
		Permissions: i.rbacProvider.GetPermissions(user.Role),
	}, nil
}

func (i impl) ListManagers(ctx context.Context) ([]authapimodels.UserView, error) {
	list, err := i.usersStore.ListManagers(ctx)
	if err != nil {
		log.WithError(err).Error("failed to list managers")
		return nil, apperr.Internal(err, "failed to list managers")
	}
	result := make([]authapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, authapimodels.UserConvert(rec))
	}
	return result, nil
}
