// Package server contains the HTTP handlers for the marketplace API endpoints.
package server

import (
	"context"
	"fmt"
	"log"

	"github.com/rockyhaque/uplift-orbit-server/internal/cache"
	"github.com/rockyhaque/uplift-orbit-server/internal/config"
	"github.com/rockyhaque/uplift-orbit-server/internal/database"
	"github.com/rockyhaque/uplift-orbit-server/internal/middleware"
	"github.com/rockyhaque/uplift-orbit-server/internal/models"
	"github.com/rockyhaque/uplift-orbit-server/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config  *config.Config
	mongo   *mongo.Client
	redis   *redis.Client
	jobRepo repository.JobRepository
	bidRepo repository.BidRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	// Initialize database
	client, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	// Initialize Redis
	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	server := &Server{
		config:  cfg,
		mongo:   client,
		redis:   redisClient,
		jobRepo: repository.NewJobRepository(db),
		bidRepo: repository.NewBidRepository(db),
	}

	return server, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes Mongo/Redis.
func NewServerWithDeps(cfg *config.Config, db *mongo.Database, redisClient *redis.Client) *Server {
	return &Server{
		config:  cfg,
		mongo:   db.Client(),
		redis:   redisClient,
		jobRepo: repository.NewJobRepository(db),
		bidRepo: repository.NewBidRepository(db),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate the request ID to the logger
	app.Use(middleware.ContextMiddleware())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Credentialed CORS so the browser client can carry the session cookie.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:5174"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Liveness
	app.Get("/", s.Liveness)

	// Session
	app.Post("/jwt", s.CreateToken)
	app.Get("/logout", s.Logout)

	// Jobs
	app.Get("/jobs", s.GetJobs)
	app.Get("/jobs/:email", s.AuthRequired(), s.GetJobsByOwner)
	app.Get("/allJobs", s.GetPagedJobs)
	app.Get("/jobsCount", s.GetJobsCount)
	app.Post("/job", s.CreateJob)
	app.Get("/job/:id", s.GetJob)
	app.Put("/job/:id", s.UpdateJob)
	app.Delete("/job/:id", s.DeleteJob)

	// Bids
	app.Post("/bid", s.CreateBid)
	app.Patch("/bid/:id", s.UpdateBidStatus)
	app.Get("/mybids/:email", s.AuthRequired(), s.GetMyBids)
	app.Get("/bidRequests/:email", s.AuthRequired(), s.GetBidRequests)
}

// Liveness handles GET /
func (s *Server) Liveness(c *fiber.Ctx) error {
	return c.SendString("Uplift Orbit Server is running...")
}

// AuthRequired returns middleware that validates the session cookie and
// stores the authenticated email in request locals.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(sessionCookieName)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized Access!"))
		}

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized Access!"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized Access!"))
		}

		email, ok := claims["email"].(string)
		if !ok || email == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized Access!"))
		}

		// Store the authenticated identity in context
		c.Locals("userEmail", email)
		ctx := context.WithValue(c.UserContext(), middleware.UserEmailKey, email)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.mongo != nil {
		if err := s.mongo.Disconnect(ctx); err != nil {
			log.Printf("error disconnecting mongo: %v", err)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
