package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"trezzy/internal/models"
	"trezzy/internal/pkg/errorx"
	"trezzy/internal/services"
)

type groupHistory struct {
	container *do.Injector
}

type saveHistoryRequest struct {
	UserID  flexID             `json:"userId"`
	Type    models.HistoryType `json:"type"`
	Message string             `json:"message"`
}

type historyResponse struct {
	History []*models.HistoryEntry `json:"history"`
}

func (gr *groupHistory) SaveHistory(c echo.Context) error {
	var body saveHistoryRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceHistory, err := do.Invoke[*services.ServiceHistory](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entry, err := serviceHistory.SaveHistory(c.Request().Context(), string(body.UserID), body.Type, body.Message)
	return RestAbort(c, entry, err)
}

func (gr *groupHistory) GetHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	serviceHistory, err := do.Invoke[*services.ServiceHistory](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	entries, err := serviceHistory.GetHistory(c.Request().Context(), c.Param("userId"), limit)
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, historyResponse{entries}, nil)
}

func (gr *groupHistory) DeleteHistory(c echo.Context) error {
	serviceHistory, err := do.Invoke[*services.ServiceHistory](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	deleted, err := serviceHistory.DeleteHistory(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, map[string]int64{"deleted": deleted}, nil)
}

func (gr *groupHistory) HasUnread(c echo.Context) error {
	serviceHistory, err := do.Invoke[*services.ServiceHistory](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	unread, err := serviceHistory.HasUnread(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, map[string]bool{"unread": unread}, nil)
}

func (gr *groupHistory) MarkRead(c echo.Context) error {
	serviceHistory, err := do.Invoke[*services.ServiceHistory](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	updated, err := serviceHistory.MarkRead(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, map[string]int64{"updated": updated}, nil)
}
