package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/price-monitor/internal/http/controller"
	"github.com/iyhunko/price-monitor/internal/http/middleware"
)

func InitRouter(server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController, chatCtr *controller.ChatController) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS())

	server.GET("/ping", ctr.Ping)

	products := server.Group("/products")
	{
		products.POST("", productCtr.AddProduct)
		products.GET("", productCtr.ListProducts)
		products.DELETE("/:id", productCtr.DeleteProduct)
		products.GET("/:id/history", productCtr.PriceHistory)
	}

	server.POST("/chat/messages", chatCtr.HandleMessage)

	return server
}
