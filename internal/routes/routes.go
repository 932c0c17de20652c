package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"commutewise/internal/controllers"
)

// SetupRouter assembles the operator API over the injected controllers.
func SetupRouter(stops *controllers.StopController, builder *controllers.RouteController) *gin.Engine {
	r := gin.New()

	// Recovery + request logging middleware
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	StopRoutes(r, stops)
	BuilderRoutes(r, builder)

	return r
}
