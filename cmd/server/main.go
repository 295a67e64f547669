package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wordquest/internal/audio"
	"wordquest/internal/config"
	"wordquest/internal/content"
	"wordquest/internal/database"
	"wordquest/internal/engine"
	"wordquest/internal/games"
	"wordquest/internal/games/anagram"
	"wordquest/internal/games/matchup"
	"wordquest/internal/games/memory"
	"wordquest/internal/games/spellingbee"
	"wordquest/internal/handlers"
	"wordquest/internal/models"
	"wordquest/internal/repository"
	"wordquest/internal/security"
	"wordquest/internal/service"
)

func main() {
	// .env is optional; real deployments use the environment
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	topicRepo := repository.NewTopicRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	resultRepo := repository.NewResultRepository(db)

	// Seed default question banks
	var speech content.Speech
	if cfg.GenerateTTS {
		speech = audio.NewTTSService(cfg.AudioPath)
	}
	seeder := content.NewSeeder(topicRepo, questionRepo, speech, "/static/audio")
	if err := seeder.SeedFromDir(cfg.SeedsPath); err != nil {
		log.Printf("Warning: Failed to seed question banks: %v", err)
	}

	// Services
	emailService, err := service.NewEmailService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	registry := games.NewRegistry()
	registry.Register(models.GameAnagram, func(d models.Difficulty, topicID int64, h engine.Hooks) games.Game {
		return anagram.New(d, topicID, h)
	})
	registry.Register(models.GameMatchUp, func(d models.Difficulty, topicID int64, h engine.Hooks) games.Game {
		return matchup.New(d, topicID, h)
	})
	registry.Register(models.GameMemory, func(d models.Difficulty, topicID int64, h engine.Hooks) games.Game {
		return memory.New(d, topicID, h)
	})
	registry.Register(models.GameSpellingBee, func(d models.Difficulty, topicID int64, h engine.Hooks) games.Game {
		return spellingbee.New(d, topicID, h)
	})

	library := content.NewLibrary(questionRepo)
	gameService := service.NewGameService(registry, library, resultRepo, scoreRepo, emailService)

	// Handlers
	limiter := security.NewRateLimiter(60, time.Minute)
	middleware := handlers.NewMiddleware(playerRepo, cfg.SessionDuration, limiter)
	gameHandler := handlers.NewGameHandler(gameService, topicRepo, scoreRepo, resultRepo, playerRepo)
	wsHandler := handlers.NewWSHandler(gameService)

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	mux.HandleFunc("GET /api/topics", middleware.WithPlayer(gameHandler.ListTopics))
	mux.HandleFunc("POST /api/play/{game}/start", middleware.RateLimit(middleware.WithPlayer(gameHandler.StartGame)))
	mux.HandleFunc("POST /api/play/action", middleware.WithPlayer(gameHandler.Action))
	mux.HandleFunc("GET /api/play/state", middleware.WithPlayer(gameHandler.State))
	mux.HandleFunc("POST /api/play/exit", middleware.WithPlayer(gameHandler.ExitGame))
	mux.HandleFunc("GET /api/play/ws", middleware.WithPlayer(wsHandler.Serve))
	mux.HandleFunc("GET /api/me", middleware.WithPlayer(gameHandler.Me))
	mux.HandleFunc("PUT /api/me", middleware.WithPlayer(gameHandler.UpdateProfile))
	mux.HandleFunc("DELETE /api/me", middleware.WithPlayer(gameHandler.Forget))

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
