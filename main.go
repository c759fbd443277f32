package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/racethestates/api/config"
	"github.com/racethestates/api/db"
	"github.com/racethestates/api/handlers"
	applog "github.com/racethestates/api/logger"
	"github.com/racethestates/api/mail"
	mw "github.com/racethestates/api/middleware"
	"github.com/racethestates/api/stats"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	var mailer mail.Sender = mail.NewSMTPSender(cfg)
	if cfg.Debug {
		mailer = &mail.LogSender{Log: logger}
	}

	agg := stats.New(db.NewStore(bdb), cfg.Regions)
	h := handlers.New(bdb, agg, mailer, handlers.NewSocialVerifier(cfg), cfg)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	api := e.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/google-login", h.GoogleLogin)
	api.POST("/facebook-login", h.FacebookLogin)
	api.POST("/password-reset", h.PasswordResetRequest)
	api.GET("/password-reset/validate", h.PasswordResetValidate)
	api.POST("/password-reset/confirm", h.PasswordResetConfirm)

	// Protected – require valid JWT in Authorization header
	auth := api.Group("", mw.JWT(cfg.JWTKey()))
	auth.GET("/states", h.ListStates)
	auth.POST("/states", h.CreateState)
	auth.GET("/states/:id", h.GetState)
	auth.PUT("/states/:id", h.UpdateState)
	auth.DELETE("/states/:id", h.DeleteState)
	auth.GET("/races", h.ListRaces)
	auth.POST("/races", h.CreateRace)
	auth.GET("/races/:id", h.GetRace)
	auth.PUT("/races/:id", h.UpdateRace)
	auth.DELETE("/races/:id", h.DeleteRace)
	auth.GET("/race-images", h.ListRaceImages)
	auth.POST("/race-images", h.CreateRaceImage)
	auth.DELETE("/race-images/:id", h.DeleteRaceImage)
	auth.GET("/dashboard", h.Dashboard)
	auth.GET("/race-log", h.RaceLog)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
