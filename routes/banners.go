package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dipkrao/ECommerce-Backend/internal/logger"
	"github.com/dipkrao/ECommerce-Backend/middleware"
	"github.com/dipkrao/ECommerce-Backend/models"
	"github.com/dipkrao/ECommerce-Backend/services"
	"github.com/dipkrao/ECommerce-Backend/utils"
)

func SetupBannerRoutes(
	router *gin.Engine,
	bannerService *services.BannerService,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
) {
	banners := router.Group("/api/banners")

	// Public storefront listing
	banners.GET("/active", handleActiveBanners(bannerService))

	// Admin surface
	admin := banners.Group("")
	admin.Use(authMiddleware.RequireAuth())
	admin.Use(roleMiddleware.AdminGuard())

	admin.GET("", handleListBanners(bannerService))
	admin.GET("/:id", handleGetBanner(bannerService))
	admin.POST("", handleCreateBanner(bannerService))
	admin.PUT("/:id", handleUpdateBanner(bannerService))
	admin.DELETE("/:id", handleDeleteBanner(bannerService))
	admin.PATCH("/:id/toggle", handleToggleBanner(bannerService))
	admin.POST("/reorder", handleReorderBanners(bannerService))
}

// handleActiveBanners serves only banners passing the visibility predicate,
// sorted by order then recency. The filter runs at the data layer.
func handleActiveBanners(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		banners, err := svc.ListVisible(c.Request.Context(), time.Now())
		if err != nil {
			logger.Error("Failed to fetch active banners", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch banners")
			return
		}
		utils.RespondWithData(c, http.StatusOK, banners)
	}
}

func handleListBanners(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		banners, err := svc.ListAll(c.Request.Context())
		if err != nil {
			logger.Error("Failed to fetch banners", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch banners")
			return
		}
		utils.RespondWithData(c, http.StatusOK, banners)
	}
}

func handleGetBanner(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bannerID(c)
		if !ok {
			return
		}
		banner, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondBannerError(c, err)
			return
		}
		utils.RespondWithData(c, http.StatusOK, banner)
	}
}

func handleCreateBanner(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form models.BannerForm
		if err := c.ShouldBind(&form); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		image, err := c.FormFile("image")
		if err != nil {
			image = nil
		}

		banner, err := svc.Create(c.Request.Context(), form, image)
		if err != nil {
			respondBannerError(c, err)
			return
		}
		utils.RespondWithData(c, http.StatusCreated, banner)
	}
}

func handleUpdateBanner(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bannerID(c)
		if !ok {
			return
		}

		var form models.BannerUpdateForm
		if err := c.ShouldBind(&form); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		image, err := c.FormFile("image")
		if err != nil {
			image = nil
		}

		banner, err := svc.Update(c.Request.Context(), id, form, image)
		if err != nil {
			respondBannerError(c, err)
			return
		}
		utils.RespondWithData(c, http.StatusOK, banner)
	}
}

func handleDeleteBanner(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bannerID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondBannerError(c, err)
			return
		}
		utils.RespondWithMessage(c, http.StatusOK, "Banner deleted successfully")
	}
}

func handleToggleBanner(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bannerID(c)
		if !ok {
			return
		}
		banner, err := svc.Toggle(c.Request.Context(), id)
		if err != nil {
			respondBannerError(c, err)
			return
		}
		utils.RespondWithData(c, http.StatusOK, banner)
	}
}

// handleReorderBanners applies the batch best-effort and always returns the
// fresh authoritative list; unknown ids end up in the errors list.
func handleReorderBanners(svc *services.BannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		banners, failures, err := svc.Reorder(c.Request.Context(), req.BannerOrders)
		if err != nil {
			logger.Error("Failed to reorder banners", "error", err)
			utils.RespondWithInternalError(c, "Failed to reorder banners")
			return
		}

		c.JSON(http.StatusOK, utils.Response{
			Success: true,
			Data:    banners,
			Errors:  failures,
		})
	}
}

func bannerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid banner ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func respondBannerError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var imageErr *services.InvalidImageError

	switch {
	case errors.Is(err, services.ErrBannerNotFound):
		utils.RespondWithNotFound(c, "Banner not found")
	case errors.Is(err, services.ErrImageRequired):
		utils.RespondWithError(c, http.StatusBadRequest, "Banner image is required")
	case errors.As(err, &validationErr):
		utils.RespondWithValidationErrors(c, []gin.H{{
			"field":   validationErr.Field,
			"message": validationErr.Message,
		}})
	case errors.As(err, &imageErr):
		utils.RespondWithError(c, http.StatusBadRequest, imageErr.Error())
	default:
		logger.Error("Banner operation failed", "error", err)
		utils.RespondWithInternalError(c, "Something went wrong")
	}
}
