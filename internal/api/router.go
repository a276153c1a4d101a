package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/handlers"
	"foodgram/internal/logger"
	"foodgram/internal/media"
	"foodgram/internal/metrics"
	"foodgram/internal/shopping"
	"foodgram/internal/store"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Config   *config.Config
	DB       Pinger
	Store    *store.Store
	Media    *media.Storage
	Shopping *shopping.Service
	Logger   *logger.Logger
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(deps.Logger), metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static(deps.Media.URLPrefix(), deps.Media.Root())

	jwtManager := auth.NewJWTManager(cfg.JWT)

	authHandler := handlers.NewAuthHandler(deps.Store, jwtManager, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Store, deps.Media, cfg.Pagination, deps.Logger)
	tagHandler := handlers.NewTagHandler(deps.Store, deps.Logger)
	ingredientHandler := handlers.NewIngredientHandler(deps.Store, deps.Logger)
	recipeHandler := handlers.NewRecipeHandler(deps.Store, deps.Media, cfg.Pagination, deps.Logger)
	shoppingHandler := handlers.NewShoppingHandler(deps.Shopping, cfg.Export.DefaultFormat, deps.Logger)

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/token/login", authHandler.Login)
		api.POST("/users", authHandler.Register)

		api.GET("/tags", tagHandler.GetTags)
		api.GET("/tags/:id", tagHandler.GetTag)
		api.GET("/ingredients", ingredientHandler.GetIngredients)
		api.GET("/ingredients/:id", ingredientHandler.GetIngredient)
	}

	// Routes that personalize flags when a token is present
	optional := api.Group("")
	optional.Use(auth.OptionalJWTMiddleware(jwtManager))
	{
		optional.GET("/users", userHandler.GetUsers)
		optional.GET("/users/:id", userHandler.GetUser)
		optional.GET("/recipes", recipeHandler.GetRecipes)
		optional.GET("/recipes/:id", recipeHandler.GetRecipe)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(jwtManager))
	{
		protected.POST("/auth/token/logout", authHandler.Logout)

		users := protected.Group("/users")
		{
			users.GET("/me", userHandler.GetCurrentUser)
			users.POST("/set_password", userHandler.SetPassword)
			users.GET("/subscriptions", userHandler.GetSubscriptions)
			users.POST("/:id/subscribe", userHandler.Subscribe)
			users.DELETE("/:id/subscribe", userHandler.Unsubscribe)
		}

		recipes := protected.Group("/recipes")
		{
			recipes.POST("", recipeHandler.CreateRecipe)
			recipes.PATCH("/:id", recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id", recipeHandler.DeleteRecipe)
			recipes.POST("/:id/favorite", recipeHandler.AddFavorite)
			recipes.DELETE("/:id/favorite", recipeHandler.RemoveFavorite)
			recipes.POST("/:id/shopping_cart", recipeHandler.AddToShoppingCart)
			recipes.DELETE("/:id/shopping_cart", recipeHandler.RemoveFromShoppingCart)
			recipes.GET("/download_shopping_cart", shoppingHandler.DownloadShoppingCart)
		}
	}

	return router
}
