package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"trezzy/internal/pkg/errorx"
	"trezzy/internal/services"
)

type groupClaim struct {
	container *do.Injector
}

func (gr *groupClaim) CheckClaim(c echo.Context) error {
	var body userRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceClaim, err := do.Invoke[*services.ServiceClaim](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceClaim.AttemptClaim(c.Request().Context(), string(body.UserID))
	return RestAbort(c, result, err)
}
