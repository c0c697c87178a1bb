package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dipkrao/ECommerce-Backend/internal/config"
	"github.com/dipkrao/ECommerce-Backend/internal/logger"
	"github.com/dipkrao/ECommerce-Backend/middleware"
	"github.com/dipkrao/ECommerce-Backend/models"
	"github.com/dipkrao/ECommerce-Backend/utils"
)

func SetupLegalPageRoutes(
	router *gin.Engine,
	cfg *config.Config,
	mongoClient *mongo.Client,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
) {
	collection := mongoClient.Database(cfg.DBName).Collection("legal_pages")

	pages := router.Group("/api/legal-pages")

	// Public access strips admin-only fields and hides inactive pages
	pages.GET("/public/:pageType", func(c *gin.Context) {
		pageType := c.Param("pageType")

		var page models.LegalPage
		err := collection.FindOne(c.Request.Context(), bson.M{"page_type": pageType, "is_active": true}).Decode(&page)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Legal page not found or inactive")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch legal page", "page_type", pageType, "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch legal page")
			return
		}

		utils.RespondWithData(c, http.StatusOK, models.PublicLegalPage{
			PageType:    page.PageType,
			Title:       page.Title,
			LastUpdated: page.LastUpdated,
			Content:     page.Content,
			Meta:        page.Meta,
		})
	})

	admin := pages.Group("")
	admin.Use(authMiddleware.RequireAuth())
	admin.Use(roleMiddleware.AdminGuard())

	admin.GET("", func(c *gin.Context) {
		cursor, err := collection.Find(c.Request.Context(),
			bson.M{"is_active": true},
			options.Find().SetSort(bson.D{{Key: "page_type", Value: 1}}),
		)
		if err != nil {
			logger.Error("Failed to fetch legal pages", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch legal pages")
			return
		}
		defer cursor.Close(c.Request.Context())

		pageList := []models.LegalPage{}
		if err := cursor.All(c.Request.Context(), &pageList); err != nil {
			logger.Error("Failed to decode legal pages", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch legal pages")
			return
		}
		utils.RespondWithData(c, http.StatusOK, pageList)
	})

	admin.GET("/:pageType", func(c *gin.Context) {
		pageType := c.Param("pageType")

		var page models.LegalPage
		err := collection.FindOne(c.Request.Context(), bson.M{"page_type": pageType}).Decode(&page)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Legal page not found")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch legal page", "page_type", pageType, "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch legal page")
			return
		}
		utils.RespondWithData(c, http.StatusOK, page)
	})

	admin.POST("", func(c *gin.Context) {
		var req models.CreateLegalPageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}
		if !models.ValidPageType(req.PageType) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid page type")
			return
		}

		now := time.Now()
		page := models.LegalPage{
			PageType:    req.PageType,
			Title:       req.Title,
			LastUpdated: now,
			Content:     req.Content,
			Meta:        req.Meta,
			IsActive:    true,
			Version:     1,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		result, err := collection.InsertOne(c.Request.Context(), page)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithError(c, http.StatusBadRequest, "Legal page type already exists")
				return
			}
			logger.Error("Failed to create legal page", "error", err)
			utils.RespondWithInternalError(c, "Failed to create legal page")
			return
		}

		page.ID = result.InsertedID.(primitive.ObjectID)
		utils.RespondWithData(c, http.StatusCreated, page)
	})

	// Content changes bump the version counter and last_updated; other field
	// edits do not.
	admin.PUT("/:pageType", func(c *gin.Context) {
		pageType := c.Param("pageType")

		var req models.UpdateLegalPageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{"updated_at": time.Now()}
		update := bson.M{"$set": set}
		if req.Title != nil {
			set["title"] = *req.Title
		}
		if req.Meta != nil {
			set["meta"] = *req.Meta
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}
		if req.Content != nil {
			set["content"] = *req.Content
			set["last_updated"] = time.Now()
			update["$inc"] = bson.M{"version": 1}
		}

		var page models.LegalPage
		err := collection.FindOneAndUpdate(c.Request.Context(),
			bson.M{"page_type": pageType},
			update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&page)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Legal page not found")
			return
		}
		if err != nil {
			logger.Error("Failed to update legal page", "page_type", pageType, "error", err)
			utils.RespondWithInternalError(c, "Failed to update legal page")
			return
		}
		utils.RespondWithData(c, http.StatusOK, page)
	})

	admin.DELETE("/:pageType", func(c *gin.Context) {
		pageType := c.Param("pageType")

		result, err := collection.DeleteOne(c.Request.Context(), bson.M{"page_type": pageType})
		if err != nil {
			logger.Error("Failed to delete legal page", "page_type", pageType, "error", err)
			utils.RespondWithInternalError(c, "Failed to delete legal page")
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Legal page not found")
			return
		}
		utils.RespondWithMessage(c, http.StatusOK, "Legal page deleted successfully")
	})

	admin.PATCH("/:pageType/toggle", func(c *gin.Context) {
		pageType := c.Param("pageType")

		var page models.LegalPage
		err := collection.FindOne(c.Request.Context(), bson.M{"page_type": pageType}).Decode(&page)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Legal page not found")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch legal page", "page_type", pageType, "error", err)
			utils.RespondWithInternalError(c, "Failed to toggle legal page")
			return
		}

		err = collection.FindOneAndUpdate(c.Request.Context(),
			bson.M{"_id": page.ID},
			bson.M{"$set": bson.M{"is_active": !page.IsActive, "updated_at": time.Now()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&page)
		if err != nil {
			logger.Error("Failed to toggle legal page", "page_type", pageType, "error", err)
			utils.RespondWithInternalError(c, "Failed to toggle legal page")
			return
		}
		utils.RespondWithData(c, http.StatusOK, page)
	})
}
