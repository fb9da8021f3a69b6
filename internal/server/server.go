package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/campuslink/campuslink/config"
	"github.com/campuslink/campuslink/internal/chat"
	"github.com/campuslink/campuslink/internal/intent"
	"github.com/campuslink/campuslink/internal/retrieval"
	"github.com/campuslink/campuslink/internal/store"
	"github.com/campuslink/campuslink/provider"
	"github.com/campuslink/campuslink/repository"
)

// Run wires the whole backend and serves until the listener fails.
func Run(cfg *appconfig.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie", "Authorization"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	secret := cfg.General.JWTSecret
	if secret == "" {
		return fmt.Errorf("jwt secret not configured (general.jwt_secret)")
	}
	if cfg.Providers.OpenAI.APIKey == "" {
		return fmt.Errorf("openai api key not configured (providers.openai.api_key)")
	}

	ctx := context.Background()

	dsn, err := cfg.Databases.Postgres.DSN()
	if err != nil {
		return err
	}
	if err := Migrate(cfg.Server.MigrationsDir, dsn, "up", 0); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		return err
	}

	sessions, err := repository.NewSessionStore(ctx, repository.StoreTypeRedis, repository.RedisOptions{
		Host:       cfg.Databases.Redis.Host,
		Port:       cfg.Databases.Redis.Port,
		Password:   cfg.Databases.Redis.Password,
		DB:         cfg.Databases.Redis.DB,
		Timeout:    cfg.Databases.Redis.Timeout,
		SessionTTL: cfg.Chat.SessionTTL,
	})
	if err != nil {
		return err
	}

	llm, err := provider.New(provider.OpenAI, provider.Options{
		APIKey:          cfg.Providers.OpenAI.APIKey,
		CompletionModel: cfg.Providers.OpenAI.CompletionModel,
		AnalysisModel:   cfg.Providers.OpenAI.AnalysisModel,
		Temperature:     cfg.Providers.OpenAI.Temperature,
		MaxTokens:       cfg.Providers.OpenAI.MaxTokens,
		Timeout:         cfg.Providers.OpenAI.Timeout,
	})
	if err != nil {
		return err
	}

	index, err := retrieval.NewIndex()
	if err != nil {
		return err
	}
	all, err := st.AllTopics(ctx)
	if err != nil {
		return err
	}
	if err := index.IndexAll(all); err != nil {
		return err
	}
	log.Printf("indexed %d topics", len(all))

	analyzer := intent.NewAnalyzer(llm, nil)
	engine := retrieval.NewEngine(st, index, analyzer, nil)
	manager := chat.NewManager(sessions, cfg.Chat.HistoryWindow, nil)
	askService := chat.NewService(analyzer, engine, manager, llm, st, nil)

	api := e.Group("/api")
	auth := &AuthHandler{Store: st, Secret: []byte(secret)}
	auth.Register(api.Group("/auth"))

	th := &TopicsHandler{Store: st, Index: index}
	th.Register(api.Group("/topics"), auth.Secret)

	dh := &DepartmentsHandler{Store: st}
	dh.Register(api.Group("/departments"), auth.Secret)

	ch := &ChatHandler{Chat: askService, Manager: manager, Sessions: sessions}
	ch.Register(api.Group("/chat"), auth.Secret)

	if addr == "" {
		addr = cfg.Server.Address
		if addr == "" {
			addr = ":8080"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
