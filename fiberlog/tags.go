package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid           = "pid"
	TagTime          = "time"
	TagIP            = "ip"
	TagHost          = "host"
	TagMethod        = "method"
	TagPath          = "path"
	TagRoute         = "route"
	TagURL           = "url"
	TagUA            = "ua"
	TagReferer       = "referer"
	TagLatency       = "latency"
	TagStatus        = "status"
	TagBytesReceived = "bytes_received"
	TagBytesSent     = "bytes_sent"
	TagRequestID     = "request_id"
	TagError         = "error"
)

// RequestIDLocal is the Locals key the requestid middleware stores the id under.
const RequestIDLocal = "requestid"

type data struct {
	pid   int
	start time.Time
	end   time.Time
	err   error
}

// FuncTag produces the value of one log field.
type FuncTag func(c *fiber.Ctx, d *data) interface{}

var tagFuncs = map[string]FuncTag{
	TagPid: func(c *fiber.Ctx, d *data) interface{} {
		return d.pid
	},
	TagTime: func(c *fiber.Ctx, d *data) interface{} {
		return d.start.Format(time.RFC3339)
	},
	TagIP: func(c *fiber.Ctx, d *data) interface{} {
		return c.IP()
	},
	TagHost: func(c *fiber.Ctx, d *data) interface{} {
		return c.Hostname()
	},
	TagMethod: func(c *fiber.Ctx, d *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, d *data) interface{} {
		return c.Path()
	},
	TagRoute: func(c *fiber.Ctx, d *data) interface{} {
		return c.Route().Path
	},
	TagURL: func(c *fiber.Ctx, d *data) interface{} {
		return c.OriginalURL()
	},
	TagUA: func(c *fiber.Ctx, d *data) interface{} {
		return c.Get(fiber.HeaderUserAgent)
	},
	TagReferer: func(c *fiber.Ctx, d *data) interface{} {
		return c.Get(fiber.HeaderReferer)
	},
	TagLatency: func(c *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagStatus: func(c *fiber.Ctx, d *data) interface{} {
		return c.Response().StatusCode()
	},
	TagBytesReceived: func(c *fiber.Ctx, d *data) interface{} {
		return len(c.Request().Body())
	},
	TagBytesSent: func(c *fiber.Ctx, d *data) interface{} {
		return len(c.Response().Body())
	},
	TagRequestID: func(c *fiber.Ctx, d *data) interface{} {
		id, _ := c.Locals(RequestIDLocal).(string)
		return id
	},
	TagError: func(c *fiber.Ctx, d *data) interface{} {
		if d.err == nil {
			return ""
		}
		return d.err.Error()
	},
}

// getFuncTagMap picks the tag functions named in cfg plus its custom fields.
func getFuncTagMap(cfg Config) map[string]FuncTag {
	ftm := make(map[string]FuncTag, len(cfg.Tags)+len(cfg.Custom))
	for _, tag := range cfg.Tags {
		if ft, ok := tagFuncs[tag]; ok {
			ftm[tag] = ft
		}
	}
	for name, fn := range cfg.Custom {
		custom := fn
		ftm[name] = func(c *fiber.Ctx, d *data) interface{} {
			return custom(c)
		}
	}
	return ftm
}
