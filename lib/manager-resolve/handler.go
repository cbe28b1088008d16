package managerresolve

import (
	"context"
	usersstore "request-approval-backend/lib/users/store"
	"request-approval-backend/lib/utils/apperr"
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"

	log "github.com/sirupsen/logrus"
)

// ManagerRef points at a manager account. ByID wins over ByName.
// PreferID breaks ties when several managers share ByName.
type ManagerRef struct {
	ByID     *uint
	ByName   string
	PreferID *uint
}

type Provider interface {
	Resolve(ctx context.Context, ref ManagerRef) (*dbmodels.User, error)
}

func NewHandler(usersStore usersstore.Provider) Provider {
	return impl{
		usersStore: usersStore,
	}
}

type impl struct {
	usersStore usersstore.Provider
}

func (i impl) Resolve(ctx context.Context, ref ManagerRef) (*dbmodels.User, error) {
	switch {
	case ref.ByID != nil:
		return i.byID(ctx, *ref.ByID)
	case ref.ByName != "":
		return i.byName(ctx, ref.ByName, ref.PreferID)
	default:
		return nil, apperr.FieldError("managerName", "manager reference is required")
	}
}

func (i impl) byID(ctx context.Context, id uint) (*dbmodels.User, error) {
	rec, err := i.usersStore.GetByID(ctx, id)
	if err != nil {
		log.WithField("manager_id", id).WithError(err).Error("manager lookup failed")
		return nil, apperr.Internal(err, "manager lookup failed")
	}
	if rec == nil || rec.Role != models.ManagerRole {
		return nil, apperr.NotFound("manager not found")
	}
	return rec, nil
}

func (i impl) byName(ctx context.Context, name string, preferID *uint) (*dbmodels.User, error) {
	logger := log.WithField("manager_name", name)
	list, err := i.usersStore.FindManagersByName(ctx, name)
	if err != nil {
		logger.WithError(err).Error("manager lookup failed")
		return nil, apperr.Internal(err, "manager lookup failed")
	}
	switch len(list) {
	case 0:
		return nil, apperr.NotFound("manager not found")
	case 1:
		return &list[0], nil
	}
	if preferID != nil {
		for idx := range list {
			if list[idx].ID == *preferID {
				return &list[idx], nil
			}
		}
	}
	logger.
		WithField("matches", len(list)).
		Warn("manager name is ambiguous")
	return nil, apperr.FieldError("managerName", "manager name is ambiguous, use the manager id")
}
