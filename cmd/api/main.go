package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigmarket/config"
	"gigmarket/internal/events"
	"gigmarket/internal/handler"
	"gigmarket/internal/middleware"
	internalredis "gigmarket/internal/redis"
	"gigmarket/internal/repository"
	"gigmarket/internal/services"
	"gigmarket/internal/storage"
	"gigmarket/internal/transport/httpdto"
	"gigmarket/internal/viewers"
	ws "gigmarket/internal/websocket"
	"gigmarket/pkg/database"
	"gigmarket/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	logg := logger.New(cfg.Environment)
	logger.SetGlobalLogger(logg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	bus := events.NewRedisBus(rdb, logg)

	var store *storage.Client
	if cfg.S3Bucket != "" {
		store, err = storage.NewClient(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
			PresignTTL: cfg.S3PresignTTL,
		})
		if err != nil {
			log.Fatalf("s3 client: %v", err)
		}
	}

	orderRepo := repository.NewOrderRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	gigRepo := repository.NewGigRepository(pool)

	registry := viewers.NewRegistry()

	authService := services.NewAuthService(userRepo, cfg)
	notificationService := services.NewNotificationService(notificationRepo, registry, bus, logg)
	statusService := services.NewStatusService(orderRepo, notificationService, bus, logg, cfg.StoreWriteTimeout)
	messageService := services.NewMessageService(orderRepo, messageRepo, notificationService, bus, logg)
	orderService := services.NewOrderService(orderRepo, gigRepo, userRepo, messageRepo, logg)
	gigService := services.NewGigService(gigRepo)
	userService := services.NewUserService(userRepo)
	uploadService := services.NewUploadService(store)

	hub := ws.NewHub()
	go hub.Run(ctx)

	bridge := ws.NewBridge(bus, hub)
	bridgeSub, err := bridge.Run(ctx)
	if err != nil {
		log.Fatalf("event bridge: %v", err)
	}
	defer bridgeSub.Close()

	limiter := internalredis.NewRateLimiter(rdb, internalredis.DefaultRateLimitConfig())

	router := buildRouter(routerDeps{
		cfg:       cfg,
		log:       logg,
		auth:      authService,
		limiter:   limiter,
		gigs:      handler.NewGigHandler(gigService),
		orders:    handler.NewOrderHandler(orderService, statusService),
		messages:  handler.NewMessageHandler(messageService),
		notifs:    handler.NewNotificationHandler(notificationService),
		viewersH:  handler.NewViewerHandler(registry),
		users:     handler.NewUserHandler(authService, userService),
		uploads:   handler.NewUploadHandler(uploadService),
		wsHandler: ws.NewHandler(authService, hub, ws.NewChannelAuthorizer(orderRepo), logg),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.AppPort),
		Handler: router,
	}

	go func() {
		logg.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logg.Infof("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
}

type routerDeps struct {
	cfg       *config.Config
	log       *logger.Logger
	auth      *services.AuthService
	limiter   *internalredis.RateLimiter
	gigs      *handler.GigHandler
	orders    *handler.OrderHandler
	messages  *handler.MessageHandler
	notifs    *handler.NotificationHandler
	viewersH  *handler.ViewerHandler
	users     *handler.UserHandler
	uploads   *handler.UploadHandler
	wsHandler *ws.Handler
}

func buildRouter(d routerDeps) *gin.Engine {
	if d.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(d.log))
	r.Use(middleware.ErrorHandler(d.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse("ok"))
	})

	r.GET("/ws", d.wsHandler.Connect)

	api := r.Group("/api")
	api.GET("/gigs", d.gigs.List)
	api.GET("/gigs/:id", d.gigs.Get)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(d.auth))

	authed.POST("/gigs", d.gigs.Create)
	authed.POST("/gigs/:id/order", d.orders.Create)
	authed.POST("/uploads/presign", d.uploads.Presign)

	authed.GET("/orders", d.orders.List)
	authed.GET("/orders/:id", d.orders.Get)
	authed.PATCH("/orders/:id/status", d.orders.UpdateStatus)
	authed.GET("/orders/:id/timeline", d.orders.Timeline)
	authed.GET("/orders/:id/messages", d.messages.List)
	authed.POST("/orders/:id/messages", middleware.MessageRateLimitMiddleware(d.limiter), d.messages.Post)

	authed.GET("/notifications", d.notifs.List)
	authed.PATCH("/notifications/:id", d.notifs.MarkRead)

	authed.POST("/viewers", d.viewersH.Set)
	authed.GET("/viewers", d.viewersH.Get)

	authed.GET("/me", d.users.Me)
	authed.GET("/users/:id", d.users.Get)

	return r
}
