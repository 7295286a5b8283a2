package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/savepath/savepath-api/internal/analyzer"
	"github.com/savepath/savepath-api/internal/config"
	"github.com/savepath/savepath-api/internal/database"
	"github.com/savepath/savepath-api/internal/handlers"
	"github.com/savepath/savepath-api/internal/repository"
	"github.com/savepath/savepath-api/internal/scheduler"
	"github.com/savepath/savepath-api/internal/services"
	"github.com/savepath/savepath-api/pkg/logger"
	"github.com/savepath/savepath-api/pkg/middleware"
	"github.com/savepath/savepath-api/pkg/notifier"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, goalRepo, notificationRepo)
	goalService := services.NewGoalService(goalRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	productAnalyzer := analyzer.NewGeminiAnalyzer(cfg.GeminiAPIKey)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	goalHandler := handlers.NewGoalHandler(goalService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	analyzeHandler := handlers.NewAnalyzeHandler(productAnalyzer, goalService)

	// Daily reminder scheduler
	reminder := scheduler.NewDailyReminder(userRepo, notificationService, notifier.New(cfg.PushURL))
	if err := reminder.Start(); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer reminder.Stop()

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.DeleteUserHandler).Methods("DELETE")

	// Goal routes
	protectedGoalRoutes := router.PathPrefix("/goals").Subrouter()
	protectedGoalRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedGoalRoutes.HandleFunc("", goalHandler.CreateGoalHandler).Methods("POST")
	protectedGoalRoutes.HandleFunc("", goalHandler.GetGoalsHandler).Methods("GET")
	protectedGoalRoutes.HandleFunc("/{id}", goalHandler.GetGoalHandler).Methods("GET")
	protectedGoalRoutes.HandleFunc("/{id}", goalHandler.UpdateGoalHandler).Methods("PUT")
	protectedGoalRoutes.HandleFunc("/{id}", goalHandler.DeleteGoalHandler).Methods("DELETE")
	protectedGoalRoutes.HandleFunc("/{id}/savings", goalHandler.LogSavingsHandler).Methods("POST")
	protectedGoalRoutes.HandleFunc("/{id}/progress", goalHandler.GetGoalProgressHandler).Methods("GET")

	// Notification routes
	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/read", notificationHandler.MarkAllReadHandler).Methods("POST")

	// Analyzer routes
	protectedAnalyzeRoutes := router.PathPrefix("").Subrouter()
	protectedAnalyzeRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAnalyzeRoutes.HandleFunc("/analyze", analyzeHandler.AnalyzeProductHandler).Methods("POST")
	protectedAnalyzeRoutes.HandleFunc("/insights", analyzeHandler.GetInsightHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	// Stop the reminder scheduler on shutdown signals
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down")
		reminder.Stop()
		os.Exit(0)
	}()

	port := cfg.Port
	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
