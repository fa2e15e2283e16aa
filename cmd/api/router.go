package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"poultry-market-backend/internal/shared/middleware"
	"poultry-market-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.AllowedOrigins),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupSearchRoutes(v1, c)
		setupListingRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupRatingRoutes(v1, c)
		setupFeedRoutes(v1, c)
		setupMessageRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

// ========================================
// SEARCH ROUTES
// ========================================
func setupSearchRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/search", c.SearchHandler.Search)
	v1.POST("/advanced-search", c.SearchHandler.AdvancedSearch)
}

// ========================================
// LISTING ROUTES
// ========================================
func setupListingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	listings := v1.Group("/listings")
	{
		listings.GET("", c.SearchHandler.Search)
		listings.GET("/:id", c.ListingHandler.GetListing)
		listings.POST("", auth, c.ListingHandler.CreateListing)
		listings.DELETE("/:id", auth, c.ListingHandler.DeleteListing)
	}
}

// ========================================
// USER ROUTES (profile, follow graph, seller pages)
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	optionalAuth := middleware.OptionalAuth(c.JWTManager)

	users := v1.Group("/users")
	{
		users.PUT("/me", auth, c.UserHandler.UpdateProfile)
		users.GET("/:id", c.UserHandler.GetUser)

		users.POST("/:id/follow", auth, c.FollowHandler.Follow)
		users.DELETE("/:id/follow", auth, c.FollowHandler.Unfollow)
		users.GET("/:id/follow-stats", optionalAuth, c.FollowHandler.GetStats)
		users.GET("/:id/followers", c.FollowHandler.ListFollowers)
		users.GET("/:id/following", c.FollowHandler.ListFollowing)

		users.GET("/:id/listings", c.ListingHandler.ListSellerListings)
		users.GET("/:id/ratings", c.RatingHandler.ListSellerRatings)
		users.GET("/:id/ratings/stats", c.RatingHandler.GetSellerStats)

		users.GET("/:id/conversations", auth, c.MessageHandler.ListConversations)
	}
}

// ========================================
// RATING ROUTES
// ========================================
func setupRatingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/ratings", middleware.AuthMiddleware(c.JWTManager), c.RatingHandler.CreateRating)
}

// ========================================
// FEED ROUTES
// ========================================
func setupFeedRoutes(v1 *gin.RouterGroup, c *container.Container) {
	feed := v1.Group("/feed")
	feed.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		feed.GET("/following", c.FeedHandler.GetFollowingFeed)
	}
}

// ========================================
// MESSAGE ROUTES
// ========================================
func setupMessageRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)

	v1.POST("/messages", auth, c.MessageHandler.Send)
	v1.GET("/conversations/:listingId/:otherUserId/messages", auth, c.MessageHandler.GetThread)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		admin.GET("/search", c.SearchHandler.AdminSearch)
		admin.GET("/stats", c.ListingHandler.AdminStats)
		admin.GET("/users", c.UserHandler.ListUsers)
		admin.POST("/listings/:id/deactivate", c.ListingHandler.DeactivateListing)
		admin.POST("/follows/reconcile", c.FollowHandler.ReconcileCounters)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		services := gin.H{}

		switch {
		case appCtx.DB == nil:
			services["database"] = "memory"
		case appCtx.DB.Ping(ctx) != nil:
			services["database"] = "unreachable"
			status = "degraded"
		default:
			services["database"] = "ok"
		}

		switch {
		case appCtx.Cache == nil:
			services["redis"] = "disabled"
		case appCtx.Cache.Ping(ctx) != nil:
			services["redis"] = "unreachable"
			status = "degraded"
		default:
			services["redis"] = "ok"
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
