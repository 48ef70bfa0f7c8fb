package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/atomconnect/atom-connect-api/docs"
	"github.com/atomconnect/atom-connect-api/internal/api/handler"
	"github.com/atomconnect/atom-connect-api/internal/api/middleware"
	"github.com/atomconnect/atom-connect-api/internal/auth"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
	"github.com/atomconnect/atom-connect-api/internal/core/service"
	"github.com/atomconnect/atom-connect-api/internal/infrastructure/config"
	mongorepo "github.com/atomconnect/atom-connect-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/atomconnect/atom-connect-api/internal/infrastructure/db/redis"
)

const loginPath = "/auth/login"

// publicPaths are the only routes served without a session. Everything
// else goes through the gatekeeper.
var (
	publicExact    = []string{"/", "/health", "/health/ready", "/metrics"}
	publicPrefixes = []string{"/swagger", "/auth/login", "/auth/register", "/auth/oauth"}
)

// NewRouter builds the Echo instance with all routes registered. The audit
// sink and OAuth provider are constructed by the caller; oauth may be nil
// when the flow is not configured.
func NewRouter(cfg *config.Config, client *mongo.Client, db *mongo.Database, rdb *redis.Client, codec *auth.Codec, sink ports.AuditSink, oauth handler.OAuthProvider, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("atomconnect"))
	e.Use(middleware.Gatekeeper(codec, middleware.NewClassifier(publicExact, publicPrefixes), loginPath))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(client, db)
	trainingRepo := mongorepo.NewTrainingRepository(client, db)
	taxonomyRepo := mongorepo.NewTaxonomyRepository(db)
	limiter := redisinfra.NewLoginLimiter(rdb)
	states := redisinfra.NewStateStore(rdb)

	authService := service.NewAuthService(userRepo, codec, limiter, cfg.BcryptCost, log)
	userService := service.NewUserService(userRepo, sink, cfg.BcryptCost, log)
	orgService := service.NewOrganizationService(userRepo, sink, log)
	freelancerService := service.NewFreelancerService(userRepo, log)
	trainingService := service.NewTrainingService(trainingRepo, taxonomyRepo, sink, log)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, trainingRepo, log)

	authHandler := handler.NewAuthHandler(authService, oauth, states, int(cfg.TokenTTL.Seconds()))
	userHandler := handler.NewUserHandler(userService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	freelancerHandler := handler.NewFreelancerHandler(freelancerService)
	trainingHandler := handler.NewTrainingHandler(trainingService)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomyService)
	maintainerHandler := handler.NewMaintainerHandler(userService)

	staff := middleware.RequireRoles(domain.RoleAdmin, domain.RoleMaintainer)

	// --- Public surface ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"service": "atom-connect-api"})
	})
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Auth ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/password", authHandler.ChangePassword)
	e.GET("/auth/oauth/google", authHandler.OAuthRedirect)
	e.GET("/auth/oauth/google/callback", authHandler.OAuthCallback)

	// --- User administration (ADMIN) ---
	users := e.Group("/v1/users", middleware.RequireRoles(domain.RoleAdmin))
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.PATCH("", userHandler.Bulk)
	users.DELETE("", userHandler.Delete)

	// --- Organizations ---
	orgs := e.Group("/v1/organizations")
	orgs.GET("", orgHandler.List, staff)
	orgs.PATCH("", orgHandler.Bulk, staff)
	orgs.PUT("/profile", orgHandler.UpdateProfile, middleware.RequireRoles(domain.RoleOrganization))
	orgs.GET("/:id", orgHandler.Get, middleware.RequireRoles(domain.RoleAdmin, domain.RoleMaintainer, domain.RoleOrganization))

	// --- Maintainers (ADMIN) ---
	maintainers := e.Group("/v1/maintainers", middleware.RequireRoles(domain.RoleAdmin))
	maintainers.GET("", maintainerHandler.List)
	maintainers.POST("", maintainerHandler.Create)
	maintainers.DELETE("", maintainerHandler.Delete)

	// --- Freelancer marketplace ---
	freelancers := e.Group("/v1/freelancers")
	freelancers.GET("", freelancerHandler.List, middleware.RequireRoles(domain.RoleAdmin, domain.RoleMaintainer, domain.RoleOrganization))
	freelancers.PUT("/profile", freelancerHandler.UpdateProfile, middleware.RequireRoles(domain.RoleFreelancer))
	freelancers.GET("/:id", freelancerHandler.Get)

	// --- Trainings ---
	ownerOrAdmin := middleware.RequireRoles(domain.RoleFreelancer, domain.RoleAdmin)
	trainings := e.Group("/v1/trainings")
	trainings.GET("", trainingHandler.List)
	trainings.GET("/:id", trainingHandler.Get)
	trainings.POST("", trainingHandler.Create, middleware.RequireRoles(domain.RoleFreelancer))
	trainings.PUT("/:id", trainingHandler.Update, ownerOrAdmin)
	trainings.PATCH("", trainingHandler.Bulk, ownerOrAdmin)
	trainings.DELETE("", trainingHandler.Delete, ownerOrAdmin)
	trainings.GET("/:id/feedback", trainingHandler.ListFeedback)
	trainings.POST("/:id/feedback", trainingHandler.AddFeedback, middleware.RequireRoles(domain.RoleOrganization))

	// --- Taxonomy ---
	categories := e.Group("/v1/training-categories")
	categories.GET("", taxonomyHandler.ListCategories)
	categories.GET("/:id", taxonomyHandler.GetCategory)
	categories.POST("", taxonomyHandler.CreateCategory, staff)
	categories.PUT("/:id", taxonomyHandler.UpdateCategory, staff)
	categories.DELETE("/:id", taxonomyHandler.DeleteCategory, staff)

	stacks := e.Group("/v1/stacks")
	stacks.GET("", taxonomyHandler.ListStacks)
	stacks.GET("/:id", taxonomyHandler.GetStack)
	stacks.POST("", taxonomyHandler.CreateStack, staff)
	stacks.PUT("/:id", taxonomyHandler.UpdateStack, staff)
	stacks.DELETE("/:id", taxonomyHandler.DeleteStack, staff)

	locations := e.Group("/v1/locations")
	locations.GET("", taxonomyHandler.ListLocations)
	locations.GET("/:id", taxonomyHandler.GetLocation)
	locations.POST("", taxonomyHandler.CreateLocation, staff)
	locations.PUT("/:id", taxonomyHandler.UpdateLocation, staff)
	locations.DELETE("/:id", taxonomyHandler.DeleteLocation, staff)

	return e
}
