package initializers

import (
	"os"
	"request-approval-backend/controllers"
	apiv1 "request-approval-backend/controllers/v1"
	"request-approval-backend/db"
	"request-approval-backend/fiberlog"
	"request-approval-backend/middleware"
	"strings"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const swaggerFile = "./docs/swagger.json"

// NewApp builds the HTTP application over svc.
func NewApp(svc *Services) *fiber.App {
	base := controllers.BaseAPIController{
		HealthCheck: func() error {
			return db.PingDB(svc.DB)
		},
	}
	app := fiber.New(fiber.Config{
		BodyLimit:    svc.Config.App.BodyLimitBytes,
		ErrorHandler: base.ErrorHandler,
	})
	app.Use(fiberRecover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: fiberlog.RequestIDLocal,
	}))
	if svc.Config.App.ErrNotifyURL != "" {
		app.Use(middleware.ErrNotify(svc.Config.App.ErrNotifyURL))
	}

	// the swagger middleware panics when the file is missing
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			Path:     "/swagger",
			FilePath: swaggerFile,
			Title:    "Request approval API",
		}))
	} else {
		log.WithField("file", swaggerFile).Debug("swagger file not found, docs disabled")
	}

	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.Registry, promhttp.HandlerOpts{})))

	loggerConfig := svc.LoggerConfig
	if loggerConfig == nil {
		loggerConfig = NewAccessLogConfig()
	}
	api := app.Group("/api",
		fiberlog.New(*loggerConfig),
		cors.New(cors.Config{
			AllowOrigins: strings.Join(svc.Config.CorsOrigins(), ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET, POST, OPTIONS",
		}),
	)
	protected := []fiber.Handler{
		middleware.AuthorizationRequired(svc.Config.Auth.JWTSecret),
		middleware.RbacMiddleware(svc.Rbac),
	}
	apiv1.InitAuthApiRouters(api, base, svc.Account, protected...)
	apiv1.InitRequestApiRouters(api, base, svc.Requests, protected...)
	return app
}
