package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"trezzy/internal/pkg/errorx"
	"trezzy/internal/services"
)

type groupReferral struct {
	container *do.Injector
}

type registerReferralRequest struct {
	ReferrerID flexID `json:"referrerId"`
	UserID     flexID `json:"userId"`
	Handle     string `json:"handle"`
}

func (gr *groupReferral) RegisterReferral(c echo.Context) error {
	var body registerReferralRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceReferral, err := do.Invoke[*services.ServiceReferral](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceReferral.RegisterReferral(c.Request().Context(), string(body.ReferrerID), string(body.UserID), body.Handle)
	return RestAbort(c, result, err)
}

func (gr *groupReferral) CountReferrals(c echo.Context) error {
	serviceReferral, err := do.Invoke[*services.ServiceReferral](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	count, err := serviceReferral.CountReferrals(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, map[string]int{"count": count}, nil)
}
