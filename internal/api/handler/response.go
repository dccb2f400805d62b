package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"trezzy/internal/pkg/errorx"
)

// RestAbort writes data with 200, or renders err as {error, ...details} with
// the status of its kind. Unclassified errors never leak their message.
func RestAbort(c echo.Context, data any, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, data)
	}

	kind := errorx.KindOf(err)
	body := map[string]any{}
	for k, v := range errorx.DetailsOf(err) {
		body[k] = v
	}

	switch kind {
	case errorx.Service:
		log.WithError(err).WithField("uri", c.Request().RequestURI).Error("request failed")
		body["error"] = "Server error"
	case errorx.Upstream:
		log.WithError(err).WithField("uri", c.Request().RequestURI).Warn("upstream unavailable")
		body["error"] = "Service temporarily unavailable, try again later"
	default:
		body["error"] = err.Error()
	}

	return c.JSON(kind.StatusCode(), body)
}

// HTTPErrorHandler renders echo's own errors (unknown route, bad method) in the
// same {error} shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		//nolint:errcheck
		c.JSON(he.Code, map[string]any{"error": msg})
		return
	}

	//nolint:errcheck
	RestAbort(c, nil, err)
}

// flexID accepts a user id sent either as a JSON string or a JSON number.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = flexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

func bindBody(c echo.Context, body any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, body); err != nil {
		return errorx.Wrap(errors.New("invalid request body"), errorx.Validation)
	}
	return nil
}

