package initializers

import (
	"request-approval-backend/fiberlog"
	"request-approval-backend/middleware"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

func jsonFormatter() *log.JSONFormatter {
	return &log.JSONFormatter{
		FieldMap: log.FieldMap{
			log.FieldKeyTime: "@timestamp",
			log.FieldKeyMsg:  "message",
		},
	}
}

// InitLogger configures the global logger and returns the access log config.
func InitLogger() *fiberlog.Config {
	log.SetFormatter(jsonFormatter())
	log.SetLevel(log.InfoLevel)
	return NewAccessLogConfig()
}

func NewAccessLogConfig() *fiberlog.Config {
	logger := log.New()
	logger.SetFormatter(jsonFormatter())
	logger.SetLevel(log.InfoLevel)
	return &fiberlog.Config{
		Logger: logger,
		Tags: []string{
			fiberlog.TagMethod,
			fiberlog.TagPath,
			fiberlog.TagStatus,
			fiberlog.TagLatency,
			fiberlog.TagIP,
			fiberlog.TagRequestID,
		},
		Custom: map[string]func(c *fiber.Ctx) interface{}{
			"user_id": func(c *fiber.Ctx) interface{} {
				if userID := middleware.GetUserID(c); userID != 0 {
					return userID
				}
				return ""
			},
		},
	}
}
