package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/gunjand01/Quiz-App/internal/auth"
	"github.com/gunjand01/Quiz-App/internal/models"
	"github.com/gunjand01/Quiz-App/internal/quiz"
	"github.com/gunjand01/Quiz-App/pkg/cache"
	"github.com/gunjand01/Quiz-App/pkg/database"
	"github.com/gunjand01/Quiz-App/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Initialize WebSocket hub for live result streams
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	quizRepo := quiz.NewRepository(db)

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, jwtSecret)
	quizService := quiz.NewService(quizRepo, redisCache, wsHub)

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	quizHandler := quiz.NewHandler(quizService)

	// Setup router
	router := mux.NewRouter()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3000"
	}
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Public quiz routes: anyone can load, take, and inspect results
	router.HandleFunc("/api/quiz/{quizId:[0-9]+}", quizHandler.GetQuiz).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/quiz/{quizId:[0-9]+}/questions", quizHandler.GetQuestions).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/quiz/{quizId:[0-9]+}/answers", quizHandler.SubmitAnswers).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/quiz/{quizId:[0-9]+}/impression", quizHandler.RecordImpression).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/quiz/{quizId:[0-9]+}/analysis", quizHandler.GetAnalysis).Methods("GET", "OPTIONS")

	// Owner routes - JWT required
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret))
	apiRouter.HandleFunc("/quiz/my-quizzes", quizHandler.GetMyQuizzes).Methods("GET")
	apiRouter.HandleFunc("/quiz", quizHandler.CreateQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{quizId:[0-9]+}/questions", quizHandler.AddQuestions).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{quizId:[0-9]+}", quizHandler.EditQuiz).Methods("PUT", "OPTIONS")
	apiRouter.HandleFunc("/quiz/{quizId:[0-9]+}", quizHandler.DeleteQuiz).Methods("DELETE", "OPTIONS")

	// WebSocket endpoint: live analysis updates while results accumulate
	router.HandleFunc("/ws/quiz/{quizId:[0-9]+}", wsHub.HandleWebSocket)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
