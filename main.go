package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"huskerbot-go/bot"
	"huskerbot-go/config"
	"huskerbot-go/database"
	"huskerbot-go/handlers"
	"huskerbot-go/logging"
	"huskerbot-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(logging.Config{
		Level:       cfg.Logging.Level,
		EnableColor: cfg.Logging.EnableColor,
	})
	logger := logging.WithPrefix("main")

	loc := cfg.Location()

	db, err := database.NewMongoConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		Timeout:  cfg.Database.Timeout,
	})
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	gameRepo := database.NewMongoGameRepository(db)
	pickRepo := database.NewMongoPickRepository(db)

	espnService := services.NewESPNService()
	leaderboardService := services.NewLeaderboardService()

	discordBot, err := bot.New(cfg, nil)
	if err != nil {
		logger.Fatalf("Failed to create Discord bot: %v", err)
	}
	surface := discordBot.Surface()
	surface.SetLocation(loc)

	pickemService := services.NewPickemService(gameRepo, pickRepo, espnService, surface, leaderboardService, loc)
	if cfg.App.SeasonOverride > 0 {
		pickemService.SetSeasonOverride(cfg.App.SeasonOverride)
	}
	discordBot.SetPickemService(pickemService)

	if err := discordBot.Start(); err != nil {
		logger.Fatalf("Failed to start Discord bot: %v", err)
	}
	defer discordBot.Stop()

	scheduler := services.NewScheduler(pickemService, loc)
	if err := scheduler.Start(cfg.App.PickemCron); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	var server *http.Server
	if cfg.Server.Enabled {
		router := mux.NewRouter()
		apiHandler := handlers.NewPickemAPIHandler(pickemService, gameRepo, pickRepo, leaderboardService)
		apiHandler.RegisterRoutes(router)

		server = &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
		}
		go func() {
			logger.Infof("API server listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("API server error: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorf("API server shutdown error: %v", err)
		}
	}
}
