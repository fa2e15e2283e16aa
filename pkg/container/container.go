package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"poultry-market-backend/internal/config"
	infraCache "poultry-market-backend/internal/infrastructure/cache"
	"poultry-market-backend/internal/infrastructure/database"
	"poultry-market-backend/internal/infrastructure/messaging"
	"poultry-market-backend/internal/infrastructure/queue"
	"poultry-market-backend/pkg/cache"
	"poultry-market-backend/pkg/jwt"

	feedHandler "poultry-market-backend/internal/domains/feed/handler"
	feedService "poultry-market-backend/internal/domains/feed/service"
	followHandler "poultry-market-backend/internal/domains/follow/handler"
	followRepo "poultry-market-backend/internal/domains/follow/repository"
	followService "poultry-market-backend/internal/domains/follow/service"
	listingHandler "poultry-market-backend/internal/domains/listing/handler"
	listingRepo "poultry-market-backend/internal/domains/listing/repository"
	listingService "poultry-market-backend/internal/domains/listing/service"
	messageHandler "poultry-market-backend/internal/domains/message/handler"
	messageRepo "poultry-market-backend/internal/domains/message/repository"
	messageService "poultry-market-backend/internal/domains/message/service"
	ratingHandler "poultry-market-backend/internal/domains/rating/handler"
	ratingRepo "poultry-market-backend/internal/domains/rating/repository"
	ratingService "poultry-market-backend/internal/domains/rating/service"
	searchHandler "poultry-market-backend/internal/domains/search/handler"
	searchService "poultry-market-backend/internal/domains/search/service"
	userHandler "poultry-market-backend/internal/domains/user/handler"
	userRepo "poultry-market-backend/internal/domains/user/repository"
	userService "poultry-market-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph shared by the API and the worker.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB // nil with the memory driver
	Cache       cache.Cache          // nil when Redis is disabled or unreachable
	JWTManager  *jwt.Manager
	Publisher   messaging.Publisher
	AsynqClient *asynq.Client
	Jobs        *queue.JobDispatcher

	// Repositories
	UserRepo    userRepo.Repository
	ListingRepo listingRepo.Repository
	RatingRepo  ratingRepo.Repository
	FollowRepo  followRepo.Repository
	MessageRepo messageRepo.Repository

	// Services
	UserService    userService.ServiceInterface
	RatingService  ratingService.ServiceInterface
	Annotator      *listingService.Annotator
	ListingService listingService.ServiceInterface
	SearchCompiler *searchService.Compiler
	SearchService  searchService.ServiceInterface
	FollowService  followService.ServiceInterface
	FeedService    feedService.ServiceInterface
	MessageService messageService.ServiceInterface

	// Handlers
	UserHandler    *userHandler.UserHandler
	ListingHandler *listingHandler.ListingHandler
	RatingHandler  *ratingHandler.RatingHandler
	SearchHandler  *searchHandler.SearchHandler
	FollowHandler  *followHandler.FollowHandler
	FeedHandler    *feedHandler.FeedHandler
	MessageHandler *messageHandler.MessageHandler
}

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("[Container] Initializing...")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[Container] Config loaded (environment=%s, store=%s)", cfg.App.Environment, cfg.Database.Driver)

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("[Container] Ready")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	if cfg.Database.Driver == "postgres" {
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.HealthCheck(context.Background()); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		c.DB = db
		log.Println("[Container] PostgreSQL connected")
	} else {
		log.Println("[Container] Using in-memory stores")
	}

	if cfg.Redis.Enabled {
		redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		// Redis is optional: without it results are simply not cached.
		if err := redisCache.Connect(context.Background()); err != nil {
			log.Printf("[Container] Redis unavailable, caching disabled: %v", err)
			_ = redisCache.Close()
		} else {
			c.Cache = redisCache
		}

		c.AsynqClient = asynq.NewClient(queue.RedisOpt(cfg))
		c.Jobs = queue.NewJobDispatcher(c.AsynqClient)
	}

	c.Publisher = messaging.NoopPublisher{}
	if cfg.NATS.URL != "" {
		publisher, err := messaging.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			log.Printf("[Container] NATS unavailable, events disabled: %v", err)
		} else {
			c.Publisher = publisher
			log.Println("[Container] NATS connected")
		}
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Hour)
	return nil
}

func (c *Container) initRepositories() {
	if c.DB == nil {
		c.UserRepo = userRepo.NewMemoryRepository()
		c.RatingRepo = ratingRepo.NewMemoryRepository()
		c.FollowRepo = followRepo.NewMemoryRepository()
		c.MessageRepo = messageRepo.NewMemoryRepository()
		return
	}

	pool := c.DB.Pool
	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.RatingRepo = ratingRepo.NewPostgresRepository(pool)
	c.FollowRepo = followRepo.NewPostgresRepository(pool)
	c.ListingRepo = listingRepo.NewPostgresRepository(pool)
	c.MessageRepo = messageRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.RatingService = ratingService.NewRatingService(c.RatingRepo, c.UserRepo, c.Cache, c.Publisher)

	// The memory listing store needs the rating source for rating filters;
	// Postgres joins the ratings table instead.
	if c.ListingRepo == nil {
		c.ListingRepo = listingRepo.NewMemoryRepository(c.RatingService)
	}
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.ListingRepo, c.MessageRepo)

	c.Annotator = listingService.NewAnnotator(c.RatingService, nil)
	c.ListingService = listingService.NewListingService(c.ListingRepo, c.Annotator, c.Cache, c.Publisher)

	c.SearchCompiler = searchService.NewCompiler(cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	c.SearchService = searchService.NewExecutor(c.ListingRepo, c.Annotator, c.Cache, cfg.Search.CacheTTL)

	c.FollowService = followService.NewFollowService(c.FollowRepo, c.UserRepo, c.Publisher)
	c.FeedService = feedService.NewAggregator(c.FollowService, c.ListingRepo, c.Annotator, cfg.Feed)
	c.MessageService = messageService.NewMessageService(c.MessageRepo, c.ListingRepo, c.UserRepo, c.Publisher)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ListingHandler = listingHandler.NewListingHandler(c.ListingService)
	c.RatingHandler = ratingHandler.NewRatingHandler(c.RatingService)
	c.SearchHandler = searchHandler.NewSearchHandler(c.SearchCompiler, c.SearchService)
	c.FeedHandler = feedHandler.NewFeedHandler(c.FeedService)
	c.MessageHandler = messageHandler.NewMessageHandler(c.MessageService)

	var dispatcher followHandler.ReconcileDispatcher
	if c.Jobs != nil {
		dispatcher = c.Jobs
	}
	c.FollowHandler = followHandler.NewFollowHandler(c.FollowService, dispatcher)
}

// Cleanup releases connections on shutdown.
func (c *Container) Cleanup() {
	log.Println("[Container] Cleaning up...")

	if c.Publisher != nil {
		c.Publisher.Close()
	}

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("[Container] Failed to close asynq client: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("[Container] Failed to close database: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("[Container] Failed to close Redis: %v", err)
		}
	}

	log.Println("[Container] Cleanup completed")
}
