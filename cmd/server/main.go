package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"             // .env loader for local development
	"github.com/labstack/echo/v4"          // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo built-in middleware (CORS)

	"github.com/iliyamo/geo-ads-backend/internal/config"
	"github.com/iliyamo/geo-ads-backend/internal/database"
	"github.com/iliyamo/geo-ads-backend/internal/handler"
	"github.com/iliyamo/geo-ads-backend/internal/hub"
	"github.com/iliyamo/geo-ads-backend/internal/layout"
	"github.com/iliyamo/geo-ads-backend/internal/ledger"
	"github.com/iliyamo/geo-ads-backend/internal/middleware"
	"github.com/iliyamo/geo-ads-backend/internal/queue"
	"github.com/iliyamo/geo-ads-backend/internal/repository"
	"github.com/iliyamo/geo-ads-backend/internal/router"
	"github.com/iliyamo/geo-ads-backend/internal/security"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Database holds the advertisements; everything spatial is in memory.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Composition root: the layout is loaded once, the index built once,
	// and both are passed by handle to every consumer.  No globals.
	registry := layout.NewRegistry()
	index := layout.NewSpatialIndex(registry.GetLayout())
	placementLedger := ledger.New()
	broadcastHub := hub.New(placementLedger)
	adRepo := repository.NewAdvertisementRepo(db)

	engine, err := security.NewEngine(security.ModeFromEnv())
	if err != nil {
		log.Fatalf("security: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.CORS()) // display nodes connect from their own origins

	// Redis-backed response cache and rate limiting; both degrade to
	// no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: response cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAdvertisements(e, &handler.AdvertisementHandler{Repo: adRepo})
	router.RegisterLayout(e, &handler.LayoutHandler{Registry: registry, Index: index})
	router.RegisterRecommendations(e, &handler.RecommendationHandler{Index: index, AdRepo: adRepo})
	router.RegisterPlacements(e, &handler.PlacementHandler{
		Index:       index,
		AdRepo:      adRepo,
		Ledger:      placementLedger,
		Hub:         broadcastHub,
		RabbitMQURL: cfg.RabbitMQURL,
	})
	router.RegisterStreams(e, &handler.WSHandler{
		Hub:           broadcastHub,
		Index:         index,
		AdRepo:        adRepo,
		SigningSecret: cfg.SigningSecret,
		NodeID:        cfg.NodeID,
		Engine:        engine,
	})

	// Background consumer mirroring placement events into logs/placement.log.
	go func() {
		if err := queue.StartPlacementConsumer(cfg.RabbitMQURL); err != nil {
			log.Printf("placement consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
