package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elearnhub/database"
	"elearnhub/internal/config"
	"elearnhub/internal/dispatch"
	"elearnhub/internal/handler"
	"elearnhub/internal/middleware"
	"elearnhub/internal/repository"
	"elearnhub/internal/service"
	"elearnhub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := newRedisClient(cfg)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	statusUpdateRepo := repository.NewStatusUpdateRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	roomRepo := repository.NewChatRoomRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Notification dispatch: eager mode runs jobs inline, worker mode
	// hands them to a background pool.
	var queue dispatch.Queue
	var workerQueue *dispatch.WorkerQueue
	if cfg.DispatchEager {
		queue = dispatch.NewEagerQueue()
	} else {
		workerQueue = dispatch.NewWorkerQueue(cfg.DispatchWorkers, logger)
		workerQueue.Start()
		queue = workerQueue
	}
	notifier := dispatch.NewNotifier(queue, notificationRepo, enrollmentRepo, logger)

	// Services
	authService := service.NewAuthService(userRepo, profileRepo, refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo, profileRepo, statusUpdateRepo)
	courseService := service.NewCourseService(courseRepo, enrollmentRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, userRepo, notifier)
	materialService := service.NewMaterialService(materialRepo, courseRepo, enrollmentRepo, notifier, cfg)
	feedbackService := service.NewFeedbackService(feedbackRepo, courseRepo, enrollmentRepo)
	chatService := service.NewChatService(roomRepo, messageRepo, userRepo, courseRepo, enrollmentRepo)
	notificationService := service.NewNotificationService(notificationRepo, redisClient)

	// Real-time fan-out
	broker := ws.NewRedisBroker(redisClient, logger)
	hub := ws.NewHub(broker, logger)

	router := setupRouter(cfg, logger, authService, userService, courseService,
		enrollmentService, materialService, feedbackService, chatService,
		notificationService, hub)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.HTTPPort, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}

	hub.Shutdown()
	if workerQueue != nil {
		workerQueue.Shutdown()
	}
	redisClient.Close()
	logger.Info("bye")
}

func setupRouter(
	cfg *config.Config,
	logger *slog.Logger,
	authService service.AuthService,
	userService service.UserService,
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
	materialService service.MaterialService,
	feedbackService service.FeedbackService,
	chatService service.ChatService,
	notificationService service.NotificationService,
	hub *ws.Hub,
) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth endpoints are rate limited per IP
	authLimiter := middleware.NewRateLimiter(5, 10)
	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(r.Group("/api/auth", authLimiter.Middleware()))

	api := r.Group("/api", middleware.AuthMiddleware(authService))
	handler.NewUserHandler(userService).RegisterRoutes(api.Group("/users"))
	handler.NewCourseHandler(courseService, enrollmentService, materialService, feedbackService).RegisterRoutes(api.Group("/courses"))
	handler.NewChatHandler(chatService).RegisterRoutes(api.Group("/chat"))
	handler.NewNotificationHandler(notificationService).RegisterRoutes(api.Group("/notifications"))

	// WebSocket endpoints authenticate via ?token= since browsers cannot
	// set headers on the upgrade request.
	wsGroup := r.Group("/ws", middleware.AuthMiddleware(authService))
	wsGroup.GET("/chat/:room_id", ws.DirectChatHandler(hub, chatService, logger))
	wsGroup.GET("/course/:course_id", ws.CourseChatHandler(hub, chatService, logger))

	return r
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}

func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
