// Package web serves the HTML surface: server-rendered forms over
// cookie sessions, with one-time flash notifications after redirects.
package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkrail/go-todo-web/internal/media"
	"github.com/mkrail/go-todo-web/internal/services"
)

type Handler interface {
	HandleAuthMiddleware(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleNewTaskPage(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleEditTaskPage(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTaskPage(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleToggleTask(c *gin.Context)

	HandleRegisterPage(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLoginPage(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleResetRequestPage(c *gin.Context)
	HandleResetRequest(c *gin.Context)
	HandleResetConfirmPage(c *gin.Context)
	HandleResetConfirm(c *gin.Context)

	HandleProfilePage(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
}

// Options carries the per-deployment knobs the handlers need.
type Options struct {
	CookieName     string
	SessionTTL     time.Duration
	SecureCookies  bool
	MediaURLPrefix string
	MaxUploadSize  int64
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	tasks    services.TaskService
	profiles services.ProfileService
	media    *media.Store
	opts     Options
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
	profileService services.ProfileService,
	mediaStore *media.Store,
	opts Options,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		tasks:    taskService,
		profiles: profileService,
		media:    mediaStore,
		opts:     opts,
	}
}

// RegisterRoutes wires the whole HTTP surface onto the router and
// installs the embedded templates and static media serving.
func RegisterRoutes(router *gin.Engine, h Handler, mediaURLPrefix, mediaRoot string) {
	router.SetHTMLTemplate(mustParseTemplates())
	router.Static(mediaURLPrefix, mediaRoot)

	router.GET("/register/", h.HandleRegisterPage)
	router.POST("/register/", h.HandleRegister)
	router.GET("/login/", h.HandleLoginPage)
	router.POST("/login/", h.HandleLogin)
	router.GET("/password-reset/", h.HandleResetRequestPage)
	router.POST("/password-reset/", h.HandleResetRequest)
	router.GET("/password-reset-confirm/:token/", h.HandleResetConfirmPage)
	router.POST("/password-reset-confirm/:token/", h.HandleResetConfirm)

	authed := router.Group("/", h.HandleAuthMiddleware)
	authed.GET("", h.HandleListTasks)
	authed.GET("/create/", h.HandleNewTaskPage)
	authed.POST("/create/", h.HandleCreateTask)
	authed.GET("/update/:id/", h.HandleEditTaskPage)
	authed.POST("/update/:id/", h.HandleUpdateTask)
	authed.GET("/delete/:id/", h.HandleDeleteTaskPage)
	authed.POST("/delete/:id/", h.HandleDeleteTask)
	authed.POST("/toggle/:id/", h.HandleToggleTask)
	authed.POST("/logout/", h.HandleLogout)
	authed.GET("/profile/", h.HandleProfilePage)
	authed.POST("/profile/", h.HandleUpdateProfile)
}
