package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"trezzy/internal/pkg/errorx"
	"trezzy/internal/services"
)

type groupWallet struct {
	container *do.Injector
}

type userRequest struct {
	UserID flexID `json:"userId"`
}

func (gr *groupWallet) GetWallet(c echo.Context) error {
	var body userRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	wallet, err := serviceWallet.GetOrCreateWallet(c.Request().Context(), string(body.UserID))
	return RestAbort(c, wallet, err)
}

func (gr *groupWallet) RevealWallet(c echo.Context) error {
	var body userRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceWallet, err := do.Invoke[*services.ServiceWallet](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	secret, err := serviceWallet.RevealWallet(c.Request().Context(), string(body.UserID))
	return RestAbort(c, secret, err)
}
