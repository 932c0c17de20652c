package routes

import (
	"github.com/gin-gonic/gin"

	"commutewise/internal/controllers"
)

func StopRoutes(r *gin.Engine, sc *controllers.StopController) {
	stops := r.Group("/stops")
	{
		stops.GET("", sc.ListStops)
		stops.POST("", sc.SaveStop)
		stops.POST("/click", sc.ClickMap)
		stops.POST("/select", sc.SelectStop)
		stops.DELETE("/:id", sc.DeleteStop)
	}

	r.GET("/geocode/reverse", sc.ReverseGeocode)
}
