package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nevos-health/nevos-api/internal/handlers"
	"github.com/nevos-health/nevos-api/internal/middleware"
	"github.com/nevos-health/nevos-api/internal/services"
	"github.com/nevos-health/nevos-api/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Println("WARNING: JWT_SECRET is NOT SET; login will fail.")
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		log.Println("WARNING: GEMINI_API_KEY is NOT SET; AI features will fail.")
	}

	// A failed database connection degrades data-dependent endpoints instead
	// of killing the process; analysis results still render, they just can't
	// be saved.
	st := connectStore()

	geminiSvc := services.NewGeminiService()
	notificationSvc := services.NewNotificationService()
	h := handlers.NewHandler(st, geminiSvc, notificationSvc)

	router := setupRouter(h)

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second, // classification calls can be slow
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	log.Printf("Starting server on port %s", port)
	waitForShutdown(server)
}

func connectStore() store.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(os.Getenv("MONGO_URI")))
	if err != nil {
		log.Printf("Failed to connect to MongoDB: %v — running without a database", err)
		return nil
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Printf("Failed to ping MongoDB: %v — running without a database", err)
		return nil
	}

	db := client.Database(os.Getenv("MONGO_DATABASE"))
	st := store.NewMongoStore(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Printf("Failed to ensure indexes: %v", err)
	}
	log.Println("Successfully connected to MongoDB!")
	return st
}

func setupRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	r.Use(
		limitBodySize(16<<20), // image uploads plus multipart overhead
		cors.New(cors.Config{
			AllowOrigins:     []string{corsOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/logout", h.Logout)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware())
	{
		apiRoutes.GET("/me", h.GetCurrentUser)
		apiRoutes.PUT("/me", h.UpdateCurrentUser)

		apiRoutes.POST("/analyses", h.AnalyzeImage)
		apiRoutes.GET("/analyses", h.GetHistory)
		apiRoutes.GET("/analyses/:id/report", h.ExportReport)

		apiRoutes.POST("/chat", h.HandleChat)
		apiRoutes.GET("/hospitals", h.FindHospitals)
		apiRoutes.POST("/appointments", h.CreateAppointment)

		apiRoutes.GET("/diseases", h.GetDiseases)
		apiRoutes.GET("/services", h.GetServices)
	}

	return r
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func waitForShutdown(server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
