package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dipkrao/ECommerce-Backend/middleware"
	"github.com/dipkrao/ECommerce-Backend/utils"
)

// Order endpoints are stubs matching the cart: stable surface, no business
// logic yet.
func SetupOrderRoutes(
	router *gin.Engine,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
) {
	orders := router.Group("/api/orders")
	orders.Use(authMiddleware.RequireAuth())

	orders.GET("", roleMiddleware.AdminGuard(), func(c *gin.Context) {
		utils.RespondWithData(c, http.StatusOK, gin.H{"orders": []gin.H{}})
	})

	orders.GET("/my-orders", func(c *gin.Context) {
		utils.RespondWithData(c, http.StatusOK, gin.H{"orders": []gin.H{}})
	})

	orders.GET("/:id", func(c *gin.Context) {
		utils.RespondWithNotFound(c, "Order not found")
	})
}
