package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	dbmodels "request-approval-backend/models/db"
)

func AutoMigrateDB(db *gorm.DB) error {
	log.Info("running migrations")
	if err := db.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "failed to migrate User")
	}
	if err := db.AutoMigrate(&dbmodels.Request{}); err != nil {
		return errors.Wrap(err, "failed to migrate Request")
	}
	log.Info("migrations applied")
	return nil
}
