package db

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Host      string
	Port      string
	Database  string
	User      string
	Password  string
	DebugMode bool
	Migrate   bool
}

func Connect(opts Options) (*gorm.DB, error) {
	dbConnString := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s",
		opts.Host, opts.Port, opts.User, opts.Database, opts.Password)
	db, err := gorm.Open(postgres.Open(dbConnString), &gorm.Config{
		Logger:         gorm_logrus.New(),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "database connection failed")
	}
	if opts.DebugMode {
		db.Logger = logger.Default.LogMode(logger.Info)
		db = db.Debug()
	}
	if opts.Migrate {
		if err = AutoMigrateDB(db); err != nil {
			return nil, err
		}
	}
	log.Info("database connection established")
	return db, nil
}

func PingDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err = sqlDB.Ping(); err != nil {
		return err
	}
	return nil
}
