package usersstore

import (
	"context"
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.User) (uint, error)
	GetByID(ctx context.Context, id uint) (rec *dbmodels.User, err error)
	FindByEmail(ctx context.Context, email string) (rec *dbmodels.User, err error)
	ExistByEmail(ctx context.Context, email string) (bool, error)
	FindManagersByName(ctx context.Context, name string) (list []dbmodels.User, err error)
	ListManagers(ctx context.Context) (list []dbmodels.User, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(ctx context.Context, rec dbmodels.User) (uint, error) {
	err := i.db.WithContext(ctx).
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(ctx context.Context, id uint) (rec *dbmodels.User, err error) {
	err = i.db.WithContext(ctx).
		Model(dbmodels.User{}).
		Where("id = ?", id).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) FindByEmail(ctx context.Context, email string) (rec *dbmodels.User, err error) {
	err = i.db.WithContext(ctx).
		Model(dbmodels.User{}).
		Where("email = ?", email).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) ExistByEmail(ctx context.Context, email string) (bool, error) {
	err := i.db.WithContext(ctx).
		Where("email = ?", email).
		First(&dbmodels.User{}).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindManagersByName returns every manager with exactly this name, oldest account first.
func (i impl) FindManagersByName(ctx context.Context, name string) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	err = i.db.WithContext(ctx).
		Where("name = ?", name).
		Where("role = ?", models.ManagerRole).
		Order("id asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListManagers(ctx context.Context) (list []dbmodels.User, err error) {
	list = []dbmodels.User{}
	err = i.db.WithContext(ctx).
		Where("role = ?", models.ManagerRole).
		Order("name asc, id asc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
