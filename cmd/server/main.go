package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dias221467/Recipe_Manager/internal/config"
	"github.com/Dias221467/Recipe_Manager/internal/database"
	"github.com/Dias221467/Recipe_Manager/internal/handlers"
	"github.com/Dias221467/Recipe_Manager/internal/jobs"
	"github.com/Dias221467/Recipe_Manager/internal/repository"
	"github.com/Dias221467/Recipe_Manager/internal/scheduler"
	"github.com/Dias221467/Recipe_Manager/internal/services"
	"github.com/Dias221467/Recipe_Manager/pkg/email"
	"github.com/Dias221467/Recipe_Manager/pkg/logger"
	"github.com/Dias221467/Recipe_Manager/pkg/metrics"
	"github.com/Dias221467/Recipe_Manager/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file and environment
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Database connection error")
	}
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		logger.Log.WithError(err).Fatal("Failed to create indexes")
	}
	cancelIndexes()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	mealPlanRepo := repository.NewMealPlanRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	mealTypeRepo := repository.NewMealTypeRepository(db)
	shoppingListRepo := repository.NewShoppingListRepository(db)

	// --- Services ---
	hub := handlers.NewNotificationHub(cfg.JWTSecret)
	notificationService := services.NewNotificationService(notificationRepo, mealPlanRepo)
	notificationService.SetPublisher(hub)

	userService := services.NewUserService(userRepo)
	ingredientService := services.NewCatalogService("ingredient", ingredientRepo)
	mealTypeService := services.NewCatalogService("meal type", mealTypeRepo)
	recipeService := services.NewRecipeService(recipeRepo, ingredientRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo)
	mealPlanService := services.NewMealPlanService(mealPlanRepo, recipeRepo)
	shoppingListService := services.NewShoppingListService(shoppingListRepo, recipeRepo, ingredientRepo)
	recommendationService := services.NewRecommendationService(userRepo, recipeRepo, cfg.RecommendationWindow, time.Now)

	// --- Background jobs ---
	matcher := jobs.NewSubscriptionMatcher(subscriptionRepo, recipeRepo, notificationService)
	sweep := jobs.NewReminderSweep(userRepo, mealPlanRepo, notificationRepo, notificationService)
	if cfg.SMTP.Enabled() {
		sweep.Mailer = email.NewSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Sender, cfg.SMTP.Password)
		logger.Log.WithField("host", cfg.SMTP.Host).Info("Reminder e-mail delivery enabled")
	}

	sched := scheduler.New()
	tasks := []scheduler.Task{
		{
			Name: "subscription_matcher",
			Spec: cfg.SubscriptionMatchSchedule,
			Run:  func(ctx context.Context) error { return matcher.RunOnce(ctx, time.Now()) },
		},
		{
			Name: "meal_plan_reminders",
			Spec: cfg.ReminderSweepSchedule,
			Run:  func(ctx context.Context) error { return sweep.RunOnce(ctx, time.Now()) },
		},
		{
			Name: "recommendation_refresh",
			Spec: cfg.RecommendationRefreshSchedule,
			Run:  recommendationService.RefreshAll,
		},
	}
	for _, t := range tasks {
		if err := sched.Register(t); err != nil {
			logger.Log.WithError(err).Fatal("Failed to schedule background task")
		}
	}
	sched.Start()

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	recipeHandler := handlers.NewRecipeHandler(recipeService, recommendationService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	ingredientHandler := handlers.NewCatalogHandler(ingredientService, "ingredient")
	mealTypeHandler := handlers.NewCatalogHandler(mealTypeService, "meal type")
	shoppingListHandler := handlers.NewShoppingListHandler(shoppingListService)

	router := mux.NewRouter()
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	// Public routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/refresh", userHandler.RefreshTokenHandler).Methods("POST")
	router.HandleFunc("/recipes/search", recipeHandler.SearchRecipesHandler).Methods("POST")
	router.HandleFunc("/ws/notifications", hub.NotificationWebSocketHandler).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// User routes
	protectedUserRoutes := router.PathPrefix("/users/me").Subrouter()
	protectedUserRoutes.Use(auth)
	protectedUserRoutes.HandleFunc("", userHandler.GetMeHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/dietary-restrictions", userHandler.UpdateDietaryRestrictionsHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/notification-preferences", userHandler.UpdateNotificationPreferencesHandler).Methods("PUT")

	// Recipe routes
	protectedRecipeRoutes := router.PathPrefix("/recipes").Subrouter()
	protectedRecipeRoutes.Use(auth)
	protectedRecipeRoutes.HandleFunc("", recipeHandler.CreateRecipeHandler).Methods("POST")
	protectedRecipeRoutes.HandleFunc("/recommended", recipeHandler.GetRecommendedRecipesHandler).Methods("GET")
	protectedRecipeRoutes.HandleFunc("/{id}", recipeHandler.GetRecipeHandler).Methods("GET")
	protectedRecipeRoutes.HandleFunc("/{id}", recipeHandler.UpdateRecipeHandler).Methods("PUT")
	protectedRecipeRoutes.HandleFunc("/{id}", recipeHandler.DeleteRecipeHandler).Methods("DELETE")
	protectedRecipeRoutes.HandleFunc("/{id}/ingredients", recipeHandler.GetRecipeIngredientsHandler).Methods("GET")
	protectedRecipeRoutes.HandleFunc("/{id}/ingredients", recipeHandler.SetRecipeIngredientsHandler).Methods("PUT")

	// Catalog routes
	for prefix, h := range map[string]*handlers.CatalogHandler{
		"/ingredients": ingredientHandler,
		"/meal-types":  mealTypeHandler,
	} {
		catalogRoutes := router.PathPrefix(prefix).Subrouter()
		catalogRoutes.Use(auth)
		catalogRoutes.HandleFunc("", h.CreateItemHandler).Methods("POST")
		catalogRoutes.HandleFunc("", h.ListItemsHandler).Methods("GET")
		catalogRoutes.HandleFunc("/{id}", h.GetItemHandler).Methods("GET")
		catalogRoutes.HandleFunc("/{id}", h.DeleteItemHandler).Methods("DELETE")
	}

	// Subscription routes
	protectedSubscriptionRoutes := router.PathPrefix("/subscriptions").Subrouter()
	protectedSubscriptionRoutes.Use(auth)
	protectedSubscriptionRoutes.HandleFunc("", subscriptionHandler.CreateSubscriptionHandler).Methods("POST")
	protectedSubscriptionRoutes.HandleFunc("", subscriptionHandler.GetSubscriptionsHandler).Methods("GET")
	protectedSubscriptionRoutes.HandleFunc("/{id}", subscriptionHandler.DeleteSubscriptionHandler).Methods("DELETE")

	// Meal plan routes
	protectedMealPlanRoutes := router.PathPrefix("/meal-plans").Subrouter()
	protectedMealPlanRoutes.Use(auth)
	protectedMealPlanRoutes.HandleFunc("", mealPlanHandler.CreateMealPlanHandler).Methods("POST")
	protectedMealPlanRoutes.HandleFunc("", mealPlanHandler.GetMealPlansHandler).Methods("GET")
	protectedMealPlanRoutes.HandleFunc("/{id}", mealPlanHandler.GetMealPlanHandler).Methods("GET")
	protectedMealPlanRoutes.HandleFunc("/{id}", mealPlanHandler.UpdateMealPlanHandler).Methods("PUT")
	protectedMealPlanRoutes.HandleFunc("/{id}", mealPlanHandler.DeleteMealPlanHandler).Methods("DELETE")
	protectedMealPlanRoutes.HandleFunc("/{id}/recipes", mealPlanHandler.AddRecipeHandler).Methods("POST")
	protectedMealPlanRoutes.HandleFunc("/{id}/recipes/{recipeId}", mealPlanHandler.RemoveRecipeHandler).Methods("DELETE")

	// Shopping list routes
	protectedShoppingListRoutes := router.PathPrefix("/shopping-lists").Subrouter()
	protectedShoppingListRoutes.Use(auth)
	protectedShoppingListRoutes.HandleFunc("", shoppingListHandler.CreateShoppingListHandler).Methods("POST")
	protectedShoppingListRoutes.HandleFunc("", shoppingListHandler.GetShoppingListsHandler).Methods("GET")
	protectedShoppingListRoutes.HandleFunc("/{id}", shoppingListHandler.GetShoppingListHandler).Methods("GET")
	protectedShoppingListRoutes.HandleFunc("/{id}", shoppingListHandler.DeleteShoppingListHandler).Methods("DELETE")
	protectedShoppingListRoutes.HandleFunc("/{id}/items/{ingredientId}", shoppingListHandler.SetItemPurchasedHandler).Methods("PATCH")

	// Notification routes
	protectedNotificationRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotificationRoutes.Use(auth)
	protectedNotificationRoutes.HandleFunc("", notificationHandler.GetUserNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("", notificationHandler.CreateNotificationHandler).Methods("POST")
	protectedNotificationRoutes.HandleFunc("/unread", notificationHandler.GetUnreadNotificationsHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/count", notificationHandler.CountUnreadHandler).Methods("GET")
	protectedNotificationRoutes.HandleFunc("/read-all", notificationHandler.MarkAllAsReadHandler).Methods("PUT")
	protectedNotificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("PUT")
	protectedNotificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.Port).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("HTTP server shutdown failed")
	}
	sched.Stop()
	if err := db.Client().Disconnect(ctx); err != nil {
		logger.Log.WithError(err).Error("MongoDB disconnect failed")
	}
}
