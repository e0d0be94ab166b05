package api

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"backend/internal/app/auction"
	"backend/internal/app/config"
	"backend/internal/app/handler"
	"backend/internal/app/middleware"
	"backend/internal/app/notify"
	"backend/internal/app/redis"
	"backend/internal/app/repository"
	"backend/internal/app/scheduler"
	"backend/internal/app/storage"
	"backend/internal/app/workflow"
	"backend/internal/app/ws"
	"backend/internal/pkg"
)

// StartServer собирает все зависимости платформы торгов и запускает HTTP-сервер.
// Фоновые компоненты (планировщик, вебсокет-хаб) живут до сигнала остановки
func StartServer() {
	logrus.Info("Starting auction server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal("ошибка чтения конфигурации: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(cfg.DSN())
	if err != nil {
		logrus.Fatal("ошибка инициализации репозитория: ", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logrus.Fatal("ошибка подключения к Redis: ", err)
	}
	defer redisClient.Close()

	minioClient, err := storage.NewMinIOClient(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.MinIO.Bucket,
		cfg.MinIO.UseSSL,
	)
	if err != nil {
		logrus.Fatal("ошибка подключения к MinIO: ", err)
	}

	clock, err := auction.NewCivilClock(cfg.Auction.Timezone)
	if err != nil {
		logrus.Fatal("ошибка инициализации часового пояса: ", err)
	}

	// события статусов и рейтинга идут через redis pub/sub,
	// вебсокет-хаб раздаёт их подписчикам
	broadcaster := notify.NewEventPublisher(redisClient)
	hub := ws.NewHub(redisClient)
	go hub.Run(ctx)

	sched := scheduler.New(repo, broadcaster, clock,
		cfg.Auction.StatusSweepInterval, cfg.Auction.RankingSweepInterval)
	sched.Start(ctx)
	defer sched.Stop()

	wf := workflow.New(repo, notify.LogNotifier{}, clock, cfg.Auction.ShortlistSize)

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, minioClient, authHandler, wf, hub, broadcaster, clock, cfg)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.Default()
	router.Use(cors.Default())

	apiHandler.RegisterAPIRoutes(router, authMiddleware)

	// Swagger документация (генерируется swag init)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	app := pkg.NewApp(cfg, router)
	app.RunApp()

	logrus.Info("Server down")
}
