package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/oles/exam-system/docs"
	"github.com/oles/exam-system/internal/api/handler"
	"github.com/oles/exam-system/internal/api/middleware"
	"github.com/oles/exam-system/internal/core/ports"
)

// Deps is everything the router wires into handlers and middleware.
type Deps struct {
	Auth        ports.AuthService
	Tokens      ports.TokenService
	Users       ports.UserRepository
	Questions   ports.QuestionService
	Exams       ports.ExamService
	Submissions ports.SubmissionService

	// Readiness checks keyed by dependency name.
	Checks map[string]handler.Check

	Logger     zerolog.Logger
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "exam_http",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Security: the gate resolves identity, the policy decides ---
	e.Use(middleware.Authenticate(d.Tokens, d.Users, d.Logger))
	e.Use(middleware.Authorize(middleware.DefaultPolicy()))

	// --- Ops (public) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                   // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Admin routes ---
	questions := handler.NewQuestionHandler(d.Questions)
	exams := handler.NewExamHandler(d.Exams)
	results := handler.NewResultHandler(d.Submissions)

	admin := e.Group("/api/admin")
	admin.POST("/questions", questions.Create)
	admin.GET("/questions", questions.List)
	admin.GET("/questions/:id", questions.Get)
	admin.PUT("/questions/:id", questions.Update)
	admin.DELETE("/questions/:id", questions.Delete)

	admin.POST("/exams", exams.Create)
	admin.GET("/exams", exams.List)
	admin.GET("/exams/:id", exams.Get)
	admin.POST("/exams/:id/addQuestion/:qid", exams.AddQuestion)
	admin.DELETE("/exams/:id", exams.Delete)

	admin.GET("/results", results.List)
	admin.GET("/results/user/:userId", results.ForUser)

	// --- Candidate routes ---
	candidateHandler := handler.NewCandidateHandler(d.Exams, d.Submissions)
	candidate := e.Group("/api/candidate")
	candidate.GET("/exams", candidateHandler.ListExams)
	candidate.GET("/exams/:id", candidateHandler.GetExam)
	candidate.POST("/exams/:id/submit", candidateHandler.Submit)
	candidate.GET("/results", candidateHandler.Results)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
