package initializers

import (
	"context"
	"request-approval-backend/config"
	"request-approval-backend/fiberlog"
	accounthandler "request-approval-backend/lib/account"
	xlsexport "request-approval-backend/lib/export/xls"
	managerresolve "request-approval-backend/lib/manager-resolve"
	"request-approval-backend/lib/rbac"
	requestshandler "request-approval-backend/lib/requests"
	requestsstore "request-approval-backend/lib/requests/store"
	usersstore "request-approval-backend/lib/users/store"
	authutils "request-approval-backend/lib/utils/auth-utils"
	"request-approval-backend/lib/utils/metrics"
	"request-approval-backend/lib/utils/password"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Services holds everything the HTTP layer needs. Built once at startup.
type Services struct {
	Config       *config.Configuration
	DB           *gorm.DB
	Registry     *prometheus.Registry
	LoggerConfig *fiberlog.Config
	Rbac         rbac.Provider
	Account      accounthandler.Provider
	Requests     requestshandler.Provider
}

func InitAllServices(ctx context.Context, conf *config.Configuration) (*Services, error) {
	loggerConfig := InitLogger()
	gdb, err := InitDBConnection(conf)
	if err != nil {
		return nil, err
	}
	svc := NewServices(conf, gdb)
	svc.LoggerConfig = loggerConfig
	if conf.SeedDemo() {
		if err = SeedDemoData(ctx, svc); err != nil {
			return nil, errors.Wrap(err, "demo data seeding failed")
		}
	}
	return svc, nil
}

// NewServices wires stores and handlers over an open database.
func NewServices(conf *config.Configuration, gdb *gorm.DB) *Services {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	usersStore := usersstore.NewInstance(gdb)
	requestsStore := requestsstore.NewInstance(gdb)
	resolver := managerresolve.NewHandler(usersStore)
	rbacProvider := rbac.NewHandler()
	tokens := authutils.NewInstance(conf.Auth.JWTSecret, time.Duration(conf.Auth.JWTExpireInSec)*time.Second)

	return &Services{
		Config:       conf,
		DB:           gdb,
		Registry:     registry,
		LoggerConfig: NewAccessLogConfig(),
		Rbac:         rbacProvider,
		Account:      accounthandler.NewHandler(usersStore, resolver, password.NewInstance(conf.Auth.BcryptCost), tokens, rbacProvider),
		Requests:     requestshandler.NewHandler(requestsStore, usersStore, resolver, xlsexport.NewHandler(), metrics.NewInstance(registry)),
	}
}
