package routes

import (
	"blog-content-service/internal/association"
	"blog-content-service/internal/auth"
	"blog-content-service/internal/constants"
	"blog-content-service/internal/rpc"
	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(r *gin.Engine, controllerRegistry map[int]any) {
	// auth
	authApi := controllerRegistry[constants.Auth].(auth.Api)
	r.POST("/auth/login", authApi.Login)
	r.GET("/auth/refresh", authApi.RefreshToken)

	// associations
	associationApi := controllerRegistry[constants.Association].(association.Api)
	r.GET("/associations/articles/:id/tags", associationApi.GetArticleTags)
	r.GET("/associations/tags/:id/articles", associationApi.GetTagArticles)

	// blog.v1.BlogService; Create, Update and Delete are authorized by the rpc interceptors
	blogService := controllerRegistry[constants.BlogService].(*rpc.Service)
	path, handler := rpc.NewBlogServiceHandler(blogService, rpc.HandlerOptions(blogService)...)
	r.Any(path+"*procedure", gin.WrapH(handler))
}
