package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"freightdesk/internal/service"

	_ "freightdesk/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handler struct {
	orders    service.Orders
	customers service.Customers
}

func NewHandler(orders service.Orders, customers service.Customers) *Handler {
	return &Handler{orders: orders, customers: customers}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/counts", h.GetOrderCounts)
		api.GET("/orders/:id", h.GetOrderByID)
		api.POST("/orders/:id/stops", h.UpdateStops)
		api.PUT("/orders/:id/stops", h.UpdateStops)
		api.PATCH("/orders/:id/rate", h.UpdateOrderRate)

		api.GET("/customers", h.SearchCustomers)
		api.GET("/customers/:id", h.GetCustomerByID)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return router
}
