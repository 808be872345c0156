package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	custommw "surprise_week/internal/middleware"
	httprouters "surprise_week/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m        *http.ServeMux
	log      *slog.Logger
	e        *echo.Echo
	routers  *httprouters.Routers
	host     string
	port     string
	mediaDir string
}

func New(log *slog.Logger, sessionSecret, host, port, mediaDir string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(custommw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:        mux,
		log:      log,
		e:        e,
		routers:  routers,
		host:     host,
		port:     port,
		mediaDir: mediaDir,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	api := s.e.Group("/api/v1")
	{
		// the entrance and the public settings are reachable without a token
		api.POST("/entrance", s.routers.Entrance)
		api.GET("/settings", s.routers.GetSettings)

		debug := s.e.Group("/debug")
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}

		swagger := s.e.Group("/swag")
		{
			swagger.GET("/swagger/*", echoSwagger.WrapHandler)
		}

		s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
		s.e.Static("/media", s.mediaDir)

		guarded := api.Group("", s.routers.RequireAccess)
		{
			guarded.PUT("/settings", s.routers.UpdateSettings)
			guarded.GET("/stats", s.routers.Stats)

			guarded.GET("/surprises", s.routers.ListSurprises)
			guarded.GET("/surprises/next", s.routers.NextUnlock)
			guarded.GET("/surprises/:id", s.routers.GetSurprise)
			guarded.POST("/surprises", s.routers.CreateSurprise)
			guarded.PUT("/surprises/:id", s.routers.UpdateSurprise)
			guarded.POST("/surprises/:id/answers", s.routers.AnswerQuiz)

			guarded.POST("/upload", s.routers.Upload)
			guarded.GET("/uploads/:batch_id", s.routers.UploadProgress)

			guarded.GET("/memories", s.routers.ListMemories)
			guarded.GET("/memories/:id", s.routers.GetMemory)
			guarded.POST("/memories", s.routers.CreateMemory)
			guarded.PUT("/memories/:id", s.routers.UpdateMemory)
		}
	}
}
