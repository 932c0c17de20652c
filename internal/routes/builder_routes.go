package routes

import (
	"github.com/gin-gonic/gin"

	"commutewise/internal/controllers"
)

func BuilderRoutes(r *gin.Engine, rc *controllers.RouteController) {
	b := r.Group("/builder")
	{
		b.GET("", rc.GetSession)
		b.POST("/start", rc.StartBuilding)
		b.POST("/cancel", rc.CancelBuilding)
		b.PATCH("/meta", rc.SetMeta)
		b.POST("/waypoints", rc.AddWaypoint)
		b.DELETE("/points/:index", rc.RemoveWaypoint)
		b.PATCH("/points/:index", rc.UpdatePoint)
		b.POST("/points/swap", rc.SwapPoints)
		b.POST("/select/:index", rc.StartMapSelection)
		b.DELETE("/select", rc.CancelMapSelection)
		b.POST("/save", rc.SaveRoute)
	}
}
