package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"trezzy/internal/models"
	"trezzy/internal/pkg/errorx"
	"trezzy/internal/services"
)

type groupTask struct {
	container *do.Injector
}

type tasksResponse struct {
	Tasks []*models.Task `json:"tasks"`
}

type submitTaskRequest struct {
	UserID        flexID `json:"userId"`
	TaskID        string `json:"taskId"`
	WalletAddress string `json:"walletAddress"`
	Handle        string `json:"handle"`
}

type reviewRequest struct {
	SubmissionIDs []int64                 `json:"submissionIds"`
	Status        models.SubmissionStatus `json:"status"`
}

type submissionsResponse struct {
	Users []*models.UserSubmissions `json:"users"`
}

func (gr *groupTask) GetTasks(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	tasks, err := serviceTask.ListOpenTasks(c.Request().Context(), c.QueryParam("userId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, tasksResponse{tasks}, nil)
}

func (gr *groupTask) GetTask(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	task, err := serviceTask.GetTask(c.Request().Context(), c.Param("taskId"))
	return RestAbort(c, task, err)
}

func (gr *groupTask) SubmitTask(c echo.Context) error {
	var body submitTaskRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	submission, err := serviceTask.SubmitTask(c.Request().Context(), &models.SubmissionInput{
		UserID:        string(body.UserID),
		TaskID:        body.TaskID,
		WalletAddress: body.WalletAddress,
		Handle:        body.Handle,
	})
	return RestAbort(c, submission, err)
}

func (gr *groupTask) CreateTask(c echo.Context) error {
	var body models.TaskInput
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	task, err := serviceTask.CreateTask(c.Request().Context(), &body)
	return RestAbort(c, task, err)
}

func (gr *groupTask) DeactivateTask(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceTask.DeactivateTask(c.Request().Context(), c.Param("taskId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, map[string]bool{"success": true}, nil)
}

func (gr *groupTask) AllSubmittedTasks(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	users, err := serviceTask.ListSubmissions(c.Request().Context())
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, submissionsResponse{users}, nil)
}

func (gr *groupTask) UserSubmissions(c echo.Context) error {
	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	submissions, err := serviceTask.ListUserSubmissions(c.Request().Context(), c.Param("userId"))
	return RestAbort(c, submissions, err)
}

func (gr *groupTask) ReviewSubmissions(c echo.Context) error {
	var body reviewRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceTask, err := do.Invoke[*services.ServiceTask](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	result, err := serviceTask.ReviewSubmissions(c.Request().Context(), body.SubmissionIDs, body.Status)
	return RestAbort(c, result, err)
}

type groupAdmin struct {
	container *do.Injector
}

func (gr *groupAdmin) IsAdmin(c echo.Context) error {
	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	admin, err := serviceConfig.IsAdmin(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, map[string]bool{"admin": admin}, nil)
}

type setConfigRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (gr *groupAdmin) SetConfig(c echo.Context) error {
	var body setConfigRequest
	if err := bindBody(c, &body); err != nil {
		return RestAbort(c, nil, err)
	}
	if err := services.ValidateConfig(body.Key, body.Value); err != nil {
		return RestAbort(c, nil, err)
	}

	serviceConfig, err := do.Invoke[*services.ServiceConfig](gr.container)
	if err != nil {
		return RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceConfig.SetConfig(c.Request().Context(), body.Key, body.Value)
	if err != nil {
		return RestAbort(c, nil, err)
	}
	return RestAbort(c, map[string]bool{"success": true}, nil)
}
