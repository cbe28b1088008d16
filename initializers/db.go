package initializers

import (
	"request-approval-backend/config"
	"request-approval-backend/db"

	"gorm.io/gorm"
)

func InitDBConnection(conf *config.Configuration) (*gorm.DB, error) {
	return db.Connect(db.Options{
		Host:      conf.Database.Host,
		Port:      conf.Database.Port,
		Database:  conf.Database.Name,
		User:      conf.Database.User,
		Password:  conf.Database.Password,
		DebugMode: conf.DebugMode(),
		Migrate:   conf.MigrateOnStart(),
	})
}
