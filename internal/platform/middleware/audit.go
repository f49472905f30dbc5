package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// auditedResources are the /api/v1 segments whose responses carry patient
// data.
var auditedResources = map[string]bool{
	"patients": true,
	"visits":   true,
}

// Audit logs a "phi_access" line for every request under /api/v1/patients or
// /api/v1/visits, after the handler has run.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			resource, rest, ok := auditedPath(req.URL.Path)
			if !ok {
				return next(c)
			}

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			requestID, _ := c.Get("request_id").(string)

			logger.Info().
				Str("type", "phi_audit").
				Str("request_id", requestID).
				Str("resource", resource).
				Str("action", action(req.Method, rest)).
				Str("record_id", recordID(rest)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", c.RealIP()).
				Str("user_agent", req.UserAgent()).
				Int("status", status).
				Msg("phi_access")

			return err
		}
	}
}

// auditedPath splits /api/v1/<resource>/<rest...> and reports whether the
// resource is audited.
func auditedPath(path string) (resource string, rest []string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/api/v1/")
	if trimmed == path {
		return "", nil, false
	}
	segments := strings.Split(strings.Trim(trimmed, "/"), "/")
	if !auditedResources[segments[0]] {
		return "", nil, false
	}
	return segments[0], segments[1:], true
}

func action(method string, rest []string) string {
	if len(rest) > 0 && (rest[0] == "search" || rest[0] == "patients") {
		return "search"
	}
	switch method {
	case http.MethodPost:
		if len(rest) > 0 && rest[0] == "delete" {
			return "delete"
		}
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return "read"
}

// recordID returns the numeric identifier following the resource, if any.
func recordID(rest []string) string {
	if len(rest) == 0 {
		return ""
	}
	if _, err := strconv.ParseInt(rest[0], 10, 64); err != nil {
		return ""
	}
	return rest[0]
}
