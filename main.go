package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayfare/categories"
	"wayfare/db"
	"wayfare/ids"
	"wayfare/itinerary"
	"wayfare/locations"
	"wayfare/ratelim"
	"wayfare/rdx"
	"wayfare/routes"
	"wayfare/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// requestLogger tags each request with an id and logs method, path and
// duration once the handler returns.
func requestLogger(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("requestID", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// health is a simple liveness handler.
func health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":    "OK",
		"message":   "wayfare API is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment")
	}

	port := env("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, env("MONGODB_URI", "mongodb://localhost:27017"))
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		logger.Fatal("index creation failed", zap.Error(err))
	}

	// the cache is optional; without Redis the browse endpoint just
	// hits Mongo every time
	var cache *rdx.Cache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cache, err = rdx.New(redisURL, logger)
		if err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
	} else {
		logger.Info("REDIS_URL not set, location cache disabled")
	}

	validate := utils.NewValidator()
	alloc := ids.Sequential{}
	rateLimiter := ratelim.NewRateLimiter()

	itineraryStore := itinerary.NewMongoStore(database, alloc)
	itineraryHandler := itinerary.NewHandler(itinerary.NewService(itineraryStore, logger), validate, logger)
	locationHandler := locations.NewHandler(database, alloc, cache, validate, logger)
	categoryHandler := categories.NewHandler(database, alloc, validate, logger)

	router := httprouter.New()
	router.GET("/api/health", health)
	routes.AddItineraryRoutes(router, itineraryHandler, rateLimiter)
	routes.AddLocationRoutes(router, locationHandler, rateLimiter)
	routes.AddCategoryRoutes(router, categoryHandler, rateLimiter)
	routes.AddStaticRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"}, // lock down in production
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)

	server := &http.Server{
		Addr:              port,
		Handler:           requestLogger(logger, securityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if err := database.Close(shutdownCtx); err != nil {
		logger.Error("database close failed", zap.Error(err))
	}
	logger.Info("server stopped cleanly")
}
