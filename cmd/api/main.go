package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	db "github.com/linknest/gofiber-connect-api/infrastructure/persistence/database"
	"github.com/linknest/gofiber-connect-api/pkg/app"
	"github.com/linknest/gofiber-connect-api/pkg/configs"
	"github.com/linknest/gofiber-connect-api/pkg/di"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using existing environment")
	}

	database, err := configs.NewDatabase()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.SetupDatabase(database.DB); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	redisConfig := configs.LoadRedisConfig()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Host + ":" + redisConfig.Port,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("connected to redis")

	container, err := di.NewContainer(database.DB, redisClient)
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}

	go container.WebSocketHub.Run(ctx)
	log.Println("websocket hub started")

	go container.ConnectionCleanupScheduler.Start(ctx)
	log.Println("connection cleanup scheduler started")

	fiberApp := app.SetupApp(container)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		log.Printf("server listening on port %s", port)
		if err := fiberApp.Listen(":" + port); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-c
	log.Println("shutting down...")
	cancel()

	if err := fiberApp.Shutdown(); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}
	log.Println("shutdown complete")
}
