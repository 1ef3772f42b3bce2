package main

import (
	"log"
	"strconv"

	"github.com/pandupatra/math-tug-of-war/internal/config"
	"github.com/pandupatra/math-tug-of-war/internal/database"
	"github.com/pandupatra/math-tug-of-war/internal/handlers"
	"github.com/pandupatra/math-tug-of-war/internal/leaderboard"
	"github.com/pandupatra/math-tug-of-war/internal/middleware"
	"github.com/pandupatra/math-tug-of-war/internal/services"
	"github.com/pandupatra/math-tug-of-war/internal/store"
	"github.com/pandupatra/math-tug-of-war/internal/ws"

	_ "github.com/pandupatra/math-tug-of-war/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Math Tug-of-War API
// @version         1.0
// @description     Two-player realtime arithmetic duel with a daily leaderboard
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	var sessionStore store.Store
	if cfg.StoreDriver == "memory" {
		log.Println("using in-memory session store")
		sessionStore = store.NewMemory()
	} else {
		db := database.Connect(cfg)
		database.AutoMigrate(db)
		sessionStore = store.NewPostgres(db)
	}

	var aggregator *leaderboard.Aggregator
	if cfg.RedisHost != "" {
		aggregator = leaderboard.NewAggregator(database.ConnectRedis(cfg))
	} else {
		log.Println("REDIS_HOST not set, leaderboard disabled")
	}

	stepSize, _ := strconv.Atoi(cfg.StepSize)
	pollActive, _ := strconv.Atoi(cfg.PollActiveMS)
	pollIdle, _ := strconv.Atoi(cfg.PollIdleMS)
	if pollActive <= 0 {
		pollActive = 1000
	}
	if pollIdle <= 0 {
		pollIdle = 3000
	}

	hub := ws.NewHub()

	var recorder services.ResultRecorder
	if aggregator != nil {
		recorder = aggregator
	}
	sessionService := services.NewSessionService(sessionStore, recorder, stepSize)

	sessionHandler := handlers.NewSessionHandler(sessionService, hub, pollActive, pollIdle)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/session/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		sessions := api.Group("/sessions")
		sessions.Use(middleware.PlayerToken())
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/join", sessionHandler.JoinSession)
			sessions.POST("/:id/answer", sessionHandler.SubmitAnswer)
			sessions.POST("/:id/rematch", sessionHandler.Rematch)
		}

		if aggregator != nil {
			leaderboardHandler := handlers.NewLeaderboardHandler(aggregator)
			api.GET("/leaderboard", leaderboardHandler.GetDaily)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
