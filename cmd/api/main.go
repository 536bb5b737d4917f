package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-master/internal/adapter"
	"quiz-master/internal/cache"
	"quiz-master/internal/config"
	"quiz-master/internal/database"
	"quiz-master/internal/handler"
	"quiz-master/internal/logger"
	"quiz-master/internal/middleware"
	"quiz-master/internal/notification"
	"quiz-master/internal/repository"
	"quiz-master/internal/scheduler"
	"quiz-master/internal/service"
	"quiz-master/internal/validation"

	"quiz-master/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Database
	db, err := database.NewSQLXSQLiteDB(cfg.DB.Path)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	subjectRepository := repository.NewSQLXSubjectRepository(db)
	chapterRepository := repository.NewSQLXChapterRepository(db)
	quizRepository := repository.NewSQLXQuizRepository(db)
	questionRepository := repository.NewSQLXQuestionRepository(db)
	userRepository := repository.NewSQLXUserRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Outbound adapters
	notifier := adapter.NewSMTPNotifier(cfg.SMTP)
	sessionStore := adapter.NewNoopSessionStore()
	renderer := notification.NewRenderer()

	// Services
	catalogService := service.NewCatalogService(subjectRepository, chapterRepository, quizRepository, questionRepository, attemptRepository, txManager)
	quizService := service.NewQuizService(chapterRepository, quizRepository, questionRepository, attemptRepository, txManager)
	userService := service.NewUserService(userRepository, txManager)
	submissionService := service.NewSubmissionService(quizRepository, questionRepository, attemptRepository, userRepository, chapterRepository, subjectRepository, notifier, renderer)
	reportService := service.NewReportService(attemptRepository, quizRepository, cacheAdapter)
	taskService := service.NewTaskService(userRepository, attemptRepository, notifier, renderer, cacheAdapter, sessionStore, cfg.DB.Path, cfg.Tasks)

	// Scheduler and manual dispatch
	statusStore := scheduler.NewStatusStore(cacheAdapter)
	runner := scheduler.NewRunner(scheduler.NewRegistry(taskService), statusStore)
	cronScheduler, err := scheduler.NewScheduler(runner)
	if err != nil {
		appLogger.Fatal("Failed to build scheduler", zap.Error(err))
	}
	dispatcher := scheduler.NewDispatcher(runner, cfg.Tasks.Workers)

	dispatcherCtx, cancelDispatcher := context.WithCancel(context.Background())
	defer cancelDispatcher()
	dispatcher.Start(dispatcherCtx)
	cronScheduler.Start()

	// Handlers
	validator := validation.NewValidator()
	catalogHandler := handler.NewCatalogHandler(catalogService, validator)
	quizHandler := handler.NewQuizHandler(quizService, validator)
	userHandler := handler.NewUserHandler(userService, validator)
	studentHandler := handler.NewStudentHandler(submissionService, validator)
	reportHandler := handler.NewReportHandler(reportService)
	taskHandler := handler.NewTaskHandler(dispatcher, validator)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,X-User-ID", MaxAge: 300}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	// Admin surface
	adminGroup := apiGroup.Group("/admin", middleware.RequireRole(userService, domain.RoleAdmin))
	adminGroup.Get("/subjects", catalogHandler.GetSubjects)
	adminGroup.Post("/subjects", catalogHandler.CreateSubject)
	adminGroup.Get("/subjects/:id", catalogHandler.GetSubject)
	adminGroup.Put("/subjects/:id", catalogHandler.UpdateSubject)
	adminGroup.Delete("/subjects/:id", catalogHandler.DeleteSubject)
	adminGroup.Get("/subjects/:id/chapters", catalogHandler.GetChapters)
	adminGroup.Post("/chapters", catalogHandler.CreateChapter)
	adminGroup.Put("/chapters/:id", catalogHandler.UpdateChapter)
	adminGroup.Delete("/chapters/:id", catalogHandler.DeleteChapter)
	adminGroup.Get("/chapters/:id/quizzes", quizHandler.GetQuizzes)
	adminGroup.Post("/quizzes", quizHandler.CreateQuiz)
	adminGroup.Get("/quizzes/:id", quizHandler.GetQuiz)
	adminGroup.Put("/quizzes/:id", quizHandler.UpdateQuiz)
	adminGroup.Delete("/quizzes/:id", quizHandler.DeleteQuiz)
	adminGroup.Get("/quizzes/:id/questions", quizHandler.GetQuestions)
	adminGroup.Post("/questions", quizHandler.CreateQuestion)
	adminGroup.Put("/questions/:id", quizHandler.UpdateQuestion)
	adminGroup.Delete("/questions/:id", quizHandler.DeleteQuestion)
	adminGroup.Get("/users", userHandler.GetUsers)
	adminGroup.Post("/users", userHandler.CreateUser)
	adminGroup.Get("/users/:id", userHandler.GetUser)
	adminGroup.Put("/users/:id", userHandler.UpdateUser)
	adminGroup.Delete("/users/:id", userHandler.DeleteUser)
	adminGroup.Post("/users/:id/toggle", userHandler.ToggleActive)
	adminGroup.Post("/tasks/:name/trigger", taskHandler.TriggerTask)
	adminGroup.Get("/tasks/status/:id", taskHandler.GetTaskStatus)

	// Reports (admin only)
	reportGroup := apiGroup.Group("/reports", middleware.RequireRole(userService, domain.RoleAdmin))
	reportGroup.Get("/summary", reportHandler.GetSummary)
	reportGroup.Get("/quiz-activity", reportHandler.GetQuizActivity)
	reportGroup.Get("/time-series", reportHandler.GetTimeSeries)
	reportGroup.Get("/leaderboard", reportHandler.GetLeaderboard)

	// Student surface. Registered last: its role guard mounts at the bare
	// /api prefix and must not shadow the admin and report groups.
	studentGroup := apiGroup.Group("", middleware.RequireRole(userService, domain.RoleStudent))
	studentGroup.Get("/quizzes", studentHandler.GetAvailableQuizzes)
	studentGroup.Get("/quizzes/:id", studentHandler.GetQuiz)
	studentGroup.Post("/quizzes/:id/submit", studentHandler.SubmitQuiz)
	studentGroup.Get("/students/me/stats", studentHandler.GetStats)
	studentGroup.Get("/students/me/attempts", studentHandler.GetAttemptHistory)
	studentGroup.Get("/students/me/attempts/:id", studentHandler.GetAttempt)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	cronScheduler.Stop()
	dispatcher.Stop()
	appLogger.Info("Server exited gracefully")
}
