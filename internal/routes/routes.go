package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/controllers"
	"github.com/AnimeshnikLeon/climate-app/internal/repositories"
	"github.com/AnimeshnikLeon/climate-app/internal/services"
	"github.com/AnimeshnikLeon/climate-app/pkg/config"
	"github.com/AnimeshnikLeon/climate-app/pkg/middleware"
	"github.com/AnimeshnikLeon/climate-app/pkg/service"
)

// InitRouter собирает все зависимости и регистрирует маршруты API.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	// репозитории
	userRepo := repositories.NewUserRepository(dbConn, logger)
	roleRepo := repositories.NewRoleRepository(dbConn)
	statusRepo := repositories.NewStatusRepository(dbConn)
	catalogRepo := repositories.NewCatalogRepository(dbConn)
	requestRepo := repositories.NewRequestRepository(dbConn)
	commentRepo := repositories.NewCommentRepository(dbConn)
	statsRepo := repositories.NewStatsRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// сервисы
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	userService := services.NewUserService(userRepo, roleRepo, logger)
	catalogService := services.NewCatalogService(catalogRepo, statusRepo, cacheRepo, cfg.Cache.CatalogTTL, logger)
	requestService := services.NewRequestService(txManager, requestRepo, commentRepo, catalogRepo, statusRepo, userRepo, catalogService, logger)
	statsService := services.NewStatisticsService(statsRepo, userRepo, logger)

	// контроллеры
	authController := controllers.NewAuthController(authService, logger)
	userController := controllers.NewUserController(userService, logger)
	catalogController := controllers.NewCatalogController(catalogService, logger)
	requestController := controllers.NewRequestController(requestService, logger)
	statsController := controllers.NewStatisticsController(statsService, logger)

	// аутентификация
	auth := api.Group("/auth")
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.Refresh)
	auth.GET("/profile", authController.GetProfile, authMW.Auth)

	// пользователи (только Менеджер, проверка в сервисе)
	users := api.Group("/users", authMW.Auth)
	users.GET("", userController.GetUsers)
	users.POST("", userController.CreateUser)
	users.GET("/:id", userController.FindUser)
	users.PUT("/:id", userController.UpdateUser)
	api.GET("/roles", userController.GetRoles, authMW.Auth)
	api.GET("/specialists", userController.GetSpecialists, authMW.Auth)

	// справочники
	api.GET("/catalog", catalogController.GetReferenceLookups, authMW.Auth)

	// заявки
	requests := api.Group("/requests", authMW.Auth)
	requests.GET("", requestController.GetRequests)
	requests.POST("", requestController.CreateRequest)
	requests.GET("/:id", requestController.FindRequest)
	requests.PUT("/:id", requestController.UpdateRequest)
	requests.DELETE("/:id", requestController.DeleteRequest)
	requests.GET("/:id/comments", requestController.GetComments)
	requests.POST("/:id/comments", requestController.AddComment)

	// статистика (только Менеджер, проверка в сервисе)
	api.GET("/statistics", statsController.GetStatistics, authMW.Auth)
	api.GET("/statistics/export", statsController.ExportStatistics, authMW.Auth)
}
