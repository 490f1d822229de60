package routing

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"foodconnect/internal/handlers"
	"foodconnect/internal/managers"
	"foodconnect/internal/middleware"
	"foodconnect/internal/schemas"
	"foodconnect/internal/utils"
)

const apiName = "FoodConnect"

// Dependencies are the managers and settings the router wires into its routes.
type Dependencies struct {
	DatabaseMgr    managers.DatabaseMgr
	JWTMgr         managers.JWTMgr
	UserMgr        managers.UserMgr
	DonationMgr    managers.DonationMgr
	StatsMgr       managers.StatsMgr
	OTPThrottle    *middleware.OTPThrottle
	AllowedOrigins []string
	ApiVersion     string
}

func InitRouter(deps Dependencies) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Initialize middleware
	setupCommonMiddleware(router, deps.AllowedOrigins)
	// Setup routes
	setupRoutes(router, deps)

	return router
}

func setupCommonMiddleware(router *gin.Engine, allowedOrigins []string) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Auth-Token"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
	})
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, deps Dependencies) {
	// Set up version route
	router.GET("/", func(c *gin.Context) {
		apiVersion := deps.ApiVersion
		if apiVersion == "" {
			apiVersion = "main:latest"
		}
		metadata := &schemas.MetadataDTO{
			ApiVersion: apiVersion,
			ApiName:    apiName,
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		if err := deps.DatabaseMgr.Ping(c); err != nil {
			utils.WriteAndLogError(c, schemas.ServiceUnavailable, http.StatusServiceUnavailable, err)
			return
		}
		c.Status(http.StatusOK)
	})

	apiRouter := router.Group("/api")
	{
		authRouter := apiRouter.Group("/auth")
		userHdl := handlers.NewUserHandler(deps.UserMgr)
		authRoutes(authRouter, userHdl, deps.JWTMgr)

		donationRouter := apiRouter.Group("/donations")
		donationRouter.Use(deps.JWTMgr.JWTMiddleware())
		donationHdl := handlers.NewDonationHandler(deps.DonationMgr)
		donationRoutes(donationRouter, donationHdl, deps.OTPThrottle)

		statsHdl := handlers.NewStatsHandler(deps.StatsMgr)
		apiRouter.GET("/stats", deps.JWTMgr.JWTMiddleware(), middleware.RequireOperation(managers.OpReadStats),
			statsHdl.GetStats)
	}
}

func authRoutes(authRouter *gin.RouterGroup, userHdl handlers.UserHdl, jwtMgr managers.JWTMgr) {
	authRouter.POST("/register", middleware.ValidateAndSanitizeStruct[schemas.RegistrationRequest](), userHdl.RegisterUser)
	authRouter.POST("/login", middleware.ValidateAndSanitizeStruct[schemas.LoginRequest](), userHdl.LoginUser)
	authRouter.GET("/me", jwtMgr.JWTMiddleware(), userHdl.GetMe)
}

func donationRoutes(donationRouter *gin.RouterGroup, donationHdl handlers.DonationHdl, throttle *middleware.OTPThrottle) {
	if throttle == nil {
		throttle = middleware.NewOTPThrottle(5)
	}

	donationRouter.POST("", middleware.RequireOperation(managers.OpCreate),
		middleware.ValidateAndSanitizeStruct[schemas.CreateDonationRequest](), donationHdl.CreateDonation)
	donationRouter.GET("", middleware.RequireOperation(managers.OpListAvailable), donationHdl.ListAvailable)
	donationRouter.GET("/my", middleware.RequireOperation(managers.OpListOwnedBy), donationHdl.ListMine)
	donationRouter.GET("/claimed", middleware.RequireOperation(managers.OpListClaimedBy), donationHdl.ListClaimed)
	donationRouter.PUT("/:id/claim", middleware.RequireOperation(managers.OpClaim), donationHdl.ClaimDonation)
	donationRouter.POST("/:id/verify", middleware.RequireOperation(managers.OpVerifyPickup), throttle.Middleware(),
		middleware.ValidateAndSanitizeStruct[schemas.VerifyPickupRequest](), donationHdl.VerifyPickup)
	donationRouter.DELETE("/:id", middleware.RequireOperation(managers.OpRemove), donationHdl.DeleteDonation)
}
