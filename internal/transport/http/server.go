package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "taskdeck/internal/app"
	"taskdeck/internal/bootstrap"
	"taskdeck/internal/cache"
	"taskdeck/internal/pkg/passhash"
	rabbitmqClient "taskdeck/internal/platform/rabbitmq"
	"taskdeck/internal/repository"
	"taskdeck/internal/transport/http/handler"
	"taskdeck/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	taskRepo := repository.NewTaskRepository(app.MySQL)

	hasher := passhash.New(passhash.Params{
		Time:      app.Config.Hash.Time,
		MemoryKiB: app.Config.Hash.MemoryKiB,
		Threads:   app.Config.Hash.Threads,
		KeyLen:    app.Config.Hash.KeyLen,
	})
	publisher := rabbitmqClient.NewAuthEventPublisher(app.MQConn, app.Config.RabbitMQ.AuthEventQueue)
	taskCache := cache.NewTaskCache(app.Redis, time.Duration(app.Config.Redis.TaskTTLSeconds)*time.Second)

	authService := appsvc.NewAuthService(
		userRepo,
		hasher,
		publisher,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	taskService := appsvc.NewTaskService(taskRepo, taskCache)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)

	taskGroup := v1.Group("/tasks")
	taskGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	taskGroup.GET("", taskHandler.List)
	taskGroup.GET("/due", taskHandler.FindByDue)
	taskGroup.GET("/today", taskHandler.FindDueFromToday)
	taskGroup.GET("/:id", taskHandler.Get)
	taskGroup.POST("", taskHandler.Create)
	taskGroup.PUT("/:id", taskHandler.Update)
	taskGroup.DELETE("/:id", taskHandler.Delete)

	return router
}
