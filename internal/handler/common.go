package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// errNoIdentity is returned by getUserID when the context carries no usable
// caller identity.
var errNoIdentity = errors.New("invalid user_id in context")

// getUserID extracts the authenticated caller's id from echo.Context and
// converts it to uint64. The session bag travels through JSON, so numbers
// usually arrive as float64; other shapes are tolerated, and anything
// unusable is reported the same way as an absent identity.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		if t >= 0 {
			return uint64(t), nil
		}
	case int64:
		if t >= 0 {
			return uint64(t), nil
		}
	case float64:
		if t >= 0 && t == float64(uint64(t)) {
			return uint64(t), nil
		}
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errNoIdentity
}
