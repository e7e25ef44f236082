package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/config"
	"github.com/pageza/mealshare/backend/internal/middleware"
	"github.com/pageza/mealshare/backend/internal/service"
)

// SetupAPI wires services and handlers onto the router. redisClient and
// s3Config may be nil; the corresponding features degrade gracefully.
func SetupAPI(router *gin.Engine, db *gorm.DB, cfg *config.Config, redisClient *redis.Client, s3Config *config.S3Config) {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	membershipService := service.NewMembershipService(db)
	shoppingListService := service.NewShoppingListService(db)
	linkService := service.NewLinkService(db, redisClient)
	imageService := service.NewImageService(s3Config)

	userHandler := NewUserHandler(authService, membershipService, recipeService, imageService)
	recipeHandler := NewRecipeHandler(recipeService, membershipService, shoppingListService, linkService, imageService, authService, cfg.BaseURL)
	catalogHandler := NewCatalogHandler(db)
	linkHandler := NewLinkHandler(linkService)

	v1 := router.Group("/api/v1")
	if redisClient != nil {
		limiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "ratelimit",
		})
		v1.Use(limiter.RateLimitMiddleware())
	}
	{
		userHandler.RegisterRoutes(v1)
		recipeHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)
	}

	// The resolver lives at the root so short links stay short.
	linkHandler.RegisterRoutes(router)
}

// writeError maps service error kinds onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, gin.H{fieldErr.Field: fieldErr.Message})
		return
	}

	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		// Missing references inside a write payload and absent membership
		// entries are the caller's mistake, not a missing resource.
		switch service.MembershipKind(notFound.Resource) {
		case service.KindFavorite, service.KindCart, service.KindSubscription:
			c.JSON(http.StatusBadRequest, gin.H{"errors": notFound.Error()})
			return
		}
		if notFound.Resource == "ingredient" {
			c.JSON(http.StatusBadRequest, gin.H{"error": notFound.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": conflict.Message})
		return
	}

	switch {
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"errors": "shopping cart is empty"})
	case errors.Is(err, service.ErrSelfSubscribe):
		c.JSON(http.StatusBadRequest, gin.H{"errors": "cannot subscribe to yourself"})
	case errors.Is(err, service.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "short link not found"})
	case errors.Is(err, service.ErrNotRecipeAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may modify this recipe"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
