package fiberlog

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Config is config for middleware
type Config struct {
	Logger *logrus.Logger
	Tags   []string
	// Custom adds fields computed by the caller, keyed by field name
	Custom map[string]func(c *fiber.Ctx) interface{}
	// Skip excludes matching requests from the log
	Skip func(path string) bool
}

// ConfigDefault is the default config
var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagRequestID,
	},
}
