package handler

import (
	"net/http"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
)

type Config struct {
	Container      *do.Injector
	Mode           string
	Origins        []string
	AdminAPIKey    string
	RequestTimeout time.Duration
	ServiceName    string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.HTTPErrorHandler = HTTPErrorHandler
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())
	r.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Api-Key"},
		MaxAge:       60 * 60,
	}))
	r.Use(RequestTimeout(cfg.RequestTimeout))

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "trezzy-backend"
	}
	r.GET("", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "active",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	w := groupWallet{cfg.Container}
	r.POST("/get-wallet", w.GetWallet)

	admin := AuthnAdmin(cfg.AdminAPIKey)

	h := groupHistory{cfg.Container}
	r.POST("/save-history", h.SaveHistory, admin)
	r.GET("/get-history/:userId", h.GetHistory)
	r.DELETE("/delete-history/:userId", h.DeleteHistory, admin)
	r.GET("/has-unread-history/:userId", h.HasUnread)
	r.POST("/mark-history-read/:userId", h.MarkRead)

	b := groupBalance{cfg.Container}
	r.POST("/update-balance", b.UpdateBalance, admin)
	r.GET("/get-balance/:userId", b.GetBalance)

	cl := groupClaim{cfg.Container}
	r.POST("/check-claim", cl.CheckClaim)

	rf := groupReferral{cfg.Container}
	r.POST("/register-referral", rf.RegisterReferral)
	r.GET("/get-referrals/:userId", rf.CountReferrals)

	t := groupTask{cfg.Container}
	r.GET("/get-tasks", t.GetTasks)
	r.GET("/get-task/:taskId", t.GetTask)
	r.POST("/submit-task", t.SubmitTask)

	a := groupAdmin{cfg.Container}
	r.GET("/is-admin/:userId", a.IsAdmin)

	r.POST("/reveal-wallet", w.RevealWallet, admin)
	r.POST("/create-task", t.CreateTask, admin)
	r.POST("/deactivate-task/:taskId", t.DeactivateTask, admin)
	r.GET("/all-submitted-tasks", t.AllSubmittedTasks, admin)
	r.GET("/submitted-tasks/:userId", t.UserSubmissions, admin)
	r.POST("/review-submissions", t.ReviewSubmissions, admin)
	r.POST("/set-config", a.SetConfig, admin)

	return r, nil
}
