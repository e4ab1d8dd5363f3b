package api

import (
	"net/http"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	clientService service.ClientService,
	sessionService service.SessionService,
	planService service.PlanService,
	statisticsService service.StatisticsService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	clientHandler := NewClientHandler(clientService)
	sessionHandler := NewSessionHandler(sessionService)
	planHandler := NewPlanHandler(planService)
	statisticsHandler := NewStatisticsHandler(statisticsService)

	authMiddleware := AuthMiddleware(jwtSecret)
	adminOnly := RequireRoles(domain.RoleSuperAdmin, domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", MetricsHandler())

	apiV1 := router.Group("/api/v1")

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/login-client", authHandler.LoginClient)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.PATCH("/reset-password/:token", authHandler.ResetPassword)

		authProtected := authGroup.Group("")
		authProtected.Use(authMiddleware)
		{
			authProtected.GET("/me", authHandler.Me)
			authProtected.PATCH("/update-password", authHandler.UpdatePassword)
			authProtected.PATCH("/users/:id/reset-password", adminOnly, authHandler.AdminResetPassword)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// Staff management. The route gate is coarse; per-record ownership
		// (own profile, own days off) is decided in the services.
		userGroup := protected.Group("/users")
		{
			userGroup.GET("/me/clients", RequireRoles(domain.RoleCoach), userHandler.MyClients)
			userGroup.GET("/me/sessions", RequireRoles(domain.RoleCoach), userHandler.MySessions)

			userGroup.GET("", adminOnly, userHandler.List)
			userGroup.POST("", adminOnly, userHandler.Create)
			userGroup.GET("/:id", userHandler.Get)
			userGroup.PATCH("/:id", userHandler.Update)
			userGroup.DELETE("/:id", adminOnly, userHandler.Delete)
			userGroup.PATCH("/:id/days-off", userHandler.UpdateDaysOff)
		}

		clientGroup := protected.Group("/clients")
		{
			clientGroup.GET("", clientHandler.List)
			clientGroup.POST("", adminOnly, clientHandler.Create)
			clientGroup.GET("/:id", clientHandler.Get)
			clientGroup.PATCH("/:id", adminOnly, clientHandler.Update)
			clientGroup.DELETE("/:id", adminOnly, clientHandler.Delete)
			clientGroup.GET("/:id/subscription", clientHandler.Subscription)
			clientGroup.GET("/:id/sessions", clientHandler.Sessions)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.GET("", sessionHandler.List)
			sessionGroup.POST("", adminOnly, sessionHandler.Create)
			sessionGroup.GET("/client/:clientId", sessionHandler.ByClient)
			sessionGroup.GET("/:id", sessionHandler.Get)
			sessionGroup.PATCH("/:id", sessionHandler.Update)
			sessionGroup.DELETE("/:id", adminOnly, sessionHandler.Delete)
			sessionGroup.PATCH("/:id/status", sessionHandler.UpdateStatus)
		}

		planGroup := protected.Group("/subscriptions")
		{
			planGroup.GET("", planHandler.List)
			planGroup.GET("/main", planHandler.ListMain)
			planGroup.GET("/private", planHandler.ListPrivate)
			planGroup.POST("", adminOnly, planHandler.Create)
			planGroup.GET("/:id", planHandler.Get)
			planGroup.PATCH("/:id", adminOnly, planHandler.Update)
			planGroup.DELETE("/:id", adminOnly, planHandler.Delete)
		}

		statisticsGroup := protected.Group("/statistics")
		statisticsGroup.Use(RequireRoles(domain.RoleSuperAdmin))
		{
			statisticsGroup.GET("", statisticsHandler.Full)
			statisticsGroup.GET("/quick", statisticsHandler.Quick)
		}
	}
}
