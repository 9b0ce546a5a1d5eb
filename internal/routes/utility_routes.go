package routes

import (
	"blog-content-service/internal/controllers"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterUtilityRoutes(r *gin.Engine) {
	r.GET("/heartbeat", controllers.GetHeartBeat)
	r.GET("/status", controllers.GetStatus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
