package controller

import (
	"github.com/gin-gonic/gin"
)

// Controller handles general HTTP requests.
type Controller struct{}

func New() *Controller {
	return &Controller{}
}

// Ping handles the HTTP GET request for health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}
