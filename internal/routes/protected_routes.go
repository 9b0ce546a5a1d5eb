package routes

import (
	"blog-content-service/internal/auth"
	"blog-content-service/internal/constants"
	"blog-content-service/internal/middlewares"
	"github.com/gin-gonic/gin"
)

func RegisterProtectedRoutes(r *gin.Engine, controllerRegistry map[int]any) {

	authGroup := r.Group("")

	authGroup.Use(middlewares.AuthHandler(middlewares.RoleAdmin))
	{
		// auth
		authApi := controllerRegistry[constants.Auth].(auth.Api)
		authGroup.GET("/auth/password-hash/:pw", authApi.CreatePasswordHash)
	}
}
