package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"trezzy/internal/models"
	"trezzy/internal/pkg/errorx"
	"trezzy/internal/services"
)

type groupBalance struct {
	container *do.Injector
}

type updateBalanceRequest struct {
	UserID flexID               `json:"userId"`
	Action models.BalanceAction `json:"action"`
	Amount int64                `json:"amount"`
	Reason string               `json:"reason"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (gr *groupBalance) UpdateBalance(c echo.Context) error {
	var body updateBalanceRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceBalance, err := do.Invoke[*services.ServiceBalance](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	balance, err := serviceBalance.UpdateBalance(c.Request().Context(), string(body.UserID), body.Action, body.Amount, body.Reason)
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, balanceResponse{balance}, nil)
}

func (gr *groupBalance) GetBalance(c echo.Context) error {
	serviceBalance, err := do.Invoke[*services.ServiceBalance](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	balance, err := serviceBalance.GetBalance(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, balanceResponse{balance}, nil)
}
