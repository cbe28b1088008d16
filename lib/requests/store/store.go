package requestsstore

import (
	"context"
	"request-approval-backend/models"
	dbmodels "request-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(ctx context.Context, rec dbmodels.Request) (id uint, err error)
	GetByID(ctx context.Context, id uint) (rec *dbmodels.Request, err error)
	// UpdateWithStatus applies updMap only while the record is still in the expected status.
	UpdateWithStatus(ctx context.Context, id uint, expected models.RequestStatus, updMap map[string]interface{}) (updated bool, err error)
	ListForManager(ctx context.Context, managerID uint) (list []dbmodels.Request, err error)
	ListForEmployee(ctx context.Context, userID uint) (list []dbmodels.Request, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(ctx context.Context, rec dbmodels.Request) (id uint, err error) {
	err = i.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(ctx context.Context, id uint) (*dbmodels.Request, error) {
	rec := dbmodels.Request{}
	err := i.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("CreatedBy").
		Preload("AssignedTo").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) UpdateWithStatus(ctx context.Context, id uint, expected models.RequestStatus, updMap map[string]interface{}) (bool, error) {
	if len(updMap) == 0 {
		return false, errors.New("empty update")
	}
	tx := i.db.WithContext(ctx).
		Model(&dbmodels.Request{}).
		Where("id = ?", id).
		Where("status = ?", expected).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListForManager(ctx context.Context, managerID uint) (list []dbmodels.Request, err error) {
	subordinates := i.db.
		Model(&dbmodels.User{}).
		Select("id").
		Where("manager_id = ?", managerID)
	tx := i.db.WithContext(ctx).
		Where("assigned_to_id IN (?)", subordinates)
	return i.list(tx)
}

func (i impl) ListForEmployee(ctx context.Context, userID uint) (list []dbmodels.Request, err error) {
	tx := i.db.WithContext(ctx).
		Where("created_by_id = ? OR assigned_to_id = ?", userID, userID)
	return i.list(tx)
}

func (i impl) list(tx *gorm.DB) (list []dbmodels.Request, err error) {
	list = []dbmodels.Request{}
	err = tx.
		Preload("CreatedBy").
		Preload("AssignedTo").
		Order("created_at desc").
		Order("id desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
