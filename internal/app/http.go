package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/mkrail/go-todo-web/internal/config"
	"github.com/mkrail/go-todo-web/internal/delivery/http/web"
	"github.com/mkrail/go-todo-web/internal/media"
	"github.com/mkrail/go-todo-web/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.Media.MaxUploadSize
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal, then drain in-flight requests
	// within the configured shutdown timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router *gin.Engine) {
	cfg := config.Global()

	mediaStore := media.NewStore(globalLogger, cfg.Media.Root)

	authService := services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		cfg.Session.TTL,
		cfg.Reset.Issuer,
		[]byte(cfg.Reset.SigningKey),
		cfg.Reset.TokenTTL,
	)
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	profileService := services.NewProfileService(globalLogger, globalPostgresPool)

	handler := web.New(
		globalLogger,
		authService,
		sessionService,
		taskService,
		profileService,
		mediaStore,
		web.Options{
			CookieName:     cfg.Session.CookieName,
			SessionTTL:     cfg.Session.TTL,
			SecureCookies:  cfg.Session.Secure,
			MediaURLPrefix: cfg.Media.URLPrefix,
			MaxUploadSize:  cfg.Media.MaxUploadSize,
		},
	)

	web.RegisterRoutes(router, handler, cfg.Media.URLPrefix, cfg.Media.Root)
}
