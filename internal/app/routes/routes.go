package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorlink/internal/app/controllers"
	"github.com/yigit/mentorlink/internal/app/models"
	"github.com/yigit/mentorlink/internal/middleware"
)

// SetupRouter configures all application routes. metricsHandler is mounted at
// metricsPath when not nil.
func SetupRouter(
	router *gin.Engine,
	ctrl *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
	metricsPath string,
) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if metricsHandler != nil {
		router.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", ctrl.Auth.Logout)
		authenticated.GET("/auth/me", ctrl.Auth.Me)

		mentors := authenticated.Group("/mentors")
		{
			mentors.GET("", ctrl.Mentor.ListMentors)
			mentors.GET("/top", ctrl.Mentor.TopMentors)
			mentors.GET("/facets", ctrl.Mentor.Facets)
			mentors.GET("/:id", ctrl.Mentor.GetMentor)
		}

		requests := authenticated.Group("/requests")
		{
			requests.GET("", ctrl.Request.ListRequests)
			requests.POST("", authMiddleware.RoleRequired(models.RoleStudent), ctrl.Request.CreateRequest)
			requests.PATCH("/:id/status", authMiddleware.RoleRequired(models.RoleMentor), ctrl.Request.UpdateRequestStatus)

			requests.GET("/:id/messages", ctrl.Message.ListMessages)
			requests.POST("/:id/messages", ctrl.Message.SendMessage)
		}
	}
}
