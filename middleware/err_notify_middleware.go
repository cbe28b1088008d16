package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"request-approval-backend/fiberlog"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type errNotifyPayload struct {
	Code      int    `json:"code"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

// ErrNotify reports 5xx responses to an operator webhook at addr.
func ErrNotify(addr string) fiber.Handler {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < fiber.StatusInternalServerError {
			return err
		}

		var data struct {
			Message string `json:"message"`
		}
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr != nil || data.Message == "" {
			data.Message = string(c.Response().Body())
		}
		payload := errNotifyPayload{
			Code:   statusCode,
			Method: c.Method(),
			Path:   c.OriginalURL(),
			Error:  data.Message,
		}
		if r := c.Route(); r != nil {
			payload.Path = r.Path
		}
		payload.RequestID, _ = c.Locals(fiberlog.RequestIDLocal).(string)

		go func() {
			body, marshalErr := json.Marshal(payload)
			if marshalErr != nil {
				return
			}
			resp, reqErr := client.Post(addr, fiber.MIMEApplicationJSON, bytes.NewReader(body))
			if reqErr != nil {
				log.WithError(reqErr).Warn("error sending error notification")
				return
			}
			_ = resp.Body.Close()
		}()
		return err
	}
}
