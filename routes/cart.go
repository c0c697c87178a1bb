package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dipkrao/ECommerce-Backend/middleware"
	"github.com/dipkrao/ECommerce-Backend/utils"
)

// Cart endpoints are stubs: the storefront cart lives client-side for now and
// these exist so the surface is stable when server-side carts land.
func SetupCartRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	cart := router.Group("/api/cart")
	cart.Use(authMiddleware.RequireAuth())

	cart.GET("", func(c *gin.Context) {
		utils.RespondWithData(c, http.StatusOK, gin.H{"items": []gin.H{}, "total": 0})
	})

	cart.POST("/add", func(c *gin.Context) {
		var req struct {
			ProductID string `json:"productId" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}
		utils.RespondWithMessage(c, http.StatusOK, "Item added to cart successfully")
	})

	cart.PUT("/:productId", func(c *gin.Context) {
		utils.RespondWithMessage(c, http.StatusOK, "Cart updated successfully")
	})

	cart.DELETE("/:productId", func(c *gin.Context) {
		utils.RespondWithMessage(c, http.StatusOK, "Item removed from cart successfully")
	})
}
