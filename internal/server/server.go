package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dufutao1/EarthLord-sub000/internal/auth"
	"github.com/dufutao1/EarthLord-sub000/internal/claim"
	"github.com/dufutao1/EarthLord-sub000/internal/config"
	"github.com/dufutao1/EarthLord-sub000/internal/stream"
	"github.com/dufutao1/EarthLord-sub000/internal/territory"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
	Claims *claim.Manager
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) (*Server, error) {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	hub := stream.NewHub(redisClient)

	// The territory store is both the collision oracle and the sink for
	// validated claims. Without a database it falls back to memory so the
	// server stays usable in development.
	var oracle claim.TerritoryOracle
	var sink claim.Sink
	var territorySvc *territory.Service
	if db != nil {
		territorySvc = territory.NewService(db)
		oracle = territorySvc
		sink = territorySvc
	} else {
		mem := territory.NewMemoryOracle()
		oracle = mem
		sink = mem
	}

	mgr, err := claim.NewManager(cfg.ClaimThresholds(), oracle, stream.NewClaimEvents(hub))
	if err != nil {
		return nil, err
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: hub,
		Claims: mgr,
	}

	registerRoutes(s, territorySvc, sink)
	return s, nil
}

func registerRoutes(s *Server, territorySvc *territory.Service, sink claim.Sink) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	claim.RegisterRoutes(s.App.Group("/claims"), s.Claims, sink, jwtMiddleware)
	if territorySvc != nil {
		territory.RegisterRoutes(s.App.Group("/territories"), territorySvc, jwtMiddleware)
	}
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
