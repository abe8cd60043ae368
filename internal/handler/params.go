package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// floatQuery parses a required float query parameter.  The second return
// value is false when the parameter is absent or unparsable; callers answer
// with 400 in that case, before any index access happens.
func floatQuery(c echo.Context, name string) (float64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// floatQueryDefault parses an optional float query parameter, falling back
// to def when absent.  An unparsable value is reported via the bool.
func floatQueryDefault(c echo.Context, name string, def float64) (float64, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// optQuery returns a pointer to the query parameter's value, or nil when the
// parameter is absent.  Optional filters travel as explicit present/absent
// values instead of sentinel strings.
func optQuery(c echo.Context, name string) *string {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	return &raw
}
