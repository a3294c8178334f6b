package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"robeurope-backend/internal/config"
	"robeurope-backend/internal/database"
	"robeurope-backend/internal/handlers"
	"robeurope-backend/internal/middleware"
	"robeurope-backend/internal/push"
	"robeurope-backend/internal/services"
	"robeurope-backend/internal/store"
	"robeurope-backend/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title           RobEurope Realtime API
// @version         1.0
// @description     Realtime presence, chat and collaborative code sessions
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	ctx := context.Background()
	redisStore, err := store.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisStore.Close()

	pgStore := store.NewPostgresStore(db)
	hub := ws.NewHub(nil)

	var delivery services.PushDelivery
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		delivery = push.NewDelivery(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber)
	} else {
		log.Println("VAPID keys not set, push delivery disabled")
	}

	chatService := services.NewChatService(pgStore, pgStore, pgStore, hub)
	collabService := services.NewCollabService(redisStore, hub)
	notifyService := services.NewNotifyService(hub, delivery, redisStore)

	leadHours, _ := strconv.Atoi(cfg.ReminderLead)
	if leadHours <= 0 {
		leadHours = 24
	}
	intervalMin, _ := strconv.Atoi(cfg.ReminderInterval)
	if intervalMin <= 0 {
		intervalMin = 30
	}
	reminderService := services.NewReminderService(
		pgStore, pgStore, redisStore, notifyService,
		time.Duration(leadHours)*time.Hour,
	)
	go reminderService.Run(ctx, time.Duration(intervalMin)*time.Minute)

	chatHandler := handlers.NewChatHandler(chatService)
	notifyHandler := handlers.NewNotifyHandler(redisStore)
	wsHandler := handlers.NewWSHandler(hub, collabService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		api.POST("/rooms/:kind/:id/messages", chatHandler.SendMessage)
		api.GET("/rooms/:kind/:id/messages", chatHandler.GetMessages)
		api.POST("/messages/:id/reactions", chatHandler.ToggleReaction)
		api.POST("/push/subscribe", notifyHandler.Subscribe)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
