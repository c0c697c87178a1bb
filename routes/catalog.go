package routes

import (
	"errors"
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
	"github.com/dipkrao/ECommerce-Backend/services"
	"github.com/dipkrao/ECommerce-Backend/utils"
)

// SetupCatalogRoutes wires the product and category surfaces: public reads,
// admin-gated writes. Product images go through the shared image store.
func SetupCatalogRoutes(
	router *gin.Engine,
	cfg *config.Config,
	mongoClient *mongo.Client,
	images *services.ImageStore,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
) {
	db := mongoClient.Database(cfg.DBName)
	categoriesCollection := db.Collection("categories")
	productsCollection := db.Collection("products")

	setupCategoryRoutes(router, categoriesCollection, authMiddleware, roleMiddleware)
	setupProductRoutes(router, productsCollection, images, authMiddleware, roleMiddleware)
}

func setupCategoryRoutes(
	router *gin.Engine,
	collection *mongo.Collection,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
) {
	categories := router.Group("/api/categories")

	categories.GET("", func(c *gin.Context) {
		cursor, err := collection.Find(c.Request.Context(), bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			logger.Error("Failed to fetch categories", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch categories")
			return
		}
		defer cursor.Close(c.Request.Context())

		categoryList := []models.Category{}
		if err := cursor.All(c.Request.Context(), &categoryList); err != nil {
			logger.Error("Failed to decode categories", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch categories")
			return
		}
		utils.RespondWithData(c, http.StatusOK, categoryList)
	})

	categories.GET("/:id", func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID")
			return
		}

		var category models.Category
		err = collection.FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&category)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Category not found")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch category", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch category")
			return
		}
		utils.RespondWithData(c, http.StatusOK, category)
	})

	admin := categories.Group("")
	admin.Use(authMiddleware.RequireAuth())
	admin.Use(roleMiddleware.AdminGuard())

	admin.POST("", func(c *gin.Context) {
		var req models.CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		category := models.Category{
			Name:        req.Name,
			Description: req.Description,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		result, err := collection.InsertOne(c.Request.Context(), category)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithError(c, http.StatusBadRequest, "Category with this name already exists")
				return
			}
			logger.Error("Failed to create category", "error", err)
			utils.RespondWithInternalError(c, "Failed to create category")
			return
		}

		category.ID = result.InsertedID.(primitive.ObjectID)
		utils.RespondWithData(c, http.StatusCreated, category)
	})

	admin.PUT("/:id", func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID")
			return
		}

		var req models.CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		set := bson.M{
			"name":        req.Name,
			"description": req.Description,
			"updated_at":  time.Now(),
		}
		if req.IsActive != nil {
			set["is_active"] = *req.IsActive
		}

		var category models.Category
		err = collection.FindOneAndUpdate(c.Request.Context(),
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&category)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Category not found")
			return
		}
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithError(c, http.StatusBadRequest, "Category with this name already exists")
				return
			}
			logger.Error("Failed to update category", "error", err)
			utils.RespondWithInternalError(c, "Failed to update category")
			return
		}
		utils.RespondWithData(c, http.StatusOK, category)
	})

	admin.DELETE("/:id", func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID")
			return
		}

		result, err := collection.DeleteOne(c.Request.Context(), bson.M{"_id": id})
		if err != nil {
			logger.Error("Failed to delete category", "error", err)
			utils.RespondWithInternalError(c, "Failed to delete category")
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Category not found")
			return
		}
		utils.RespondWithMessage(c, http.StatusOK, "Category deleted successfully")
	})
}

func setupProductRoutes(
	router *gin.Engine,
	collection *mongo.Collection,
	images *services.ImageStore,
	authMiddleware *middleware.AuthMiddleware,
	roleMiddleware *middleware.RoleMiddleware,
) {
	products := router.Group("/api/products")

	products.GET("", func(c *gin.Context) {
		filter := bson.M{}
		if categoryID := c.Query("category"); categoryID != "" {
			id, err := primitive.ObjectIDFromHex(categoryID)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID")
				return
			}
			filter["category_id"] = id
		}

		cursor, err := collection.Find(c.Request.Context(), filter,
			options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
		if err != nil {
			logger.Error("Failed to fetch products", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch products")
			return
		}
		defer cursor.Close(c.Request.Context())

		productList := []models.Product{}
		if err := cursor.All(c.Request.Context(), &productList); err != nil {
			logger.Error("Failed to decode products", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch products")
			return
		}
		utils.RespondWithData(c, http.StatusOK, productList)
	})

	products.GET("/:id", func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var product models.Product
		err = collection.FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Product not found")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch product", "error", err)
			utils.RespondWithInternalError(c, "Failed to fetch product")
			return
		}
		utils.RespondWithData(c, http.StatusOK, product)
	})

	admin := products.Group("")
	admin.Use(authMiddleware.RequireAuth())
	admin.Use(roleMiddleware.AdminGuard())

	admin.POST("", func(c *gin.Context) {
		var form models.ProductForm
		if err := c.ShouldBind(&form); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}
		if form.Name == nil || form.Price == nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Name and price are required")
			return
		}

		now := time.Now()
		product := models.Product{
			Name:      *form.Name,
			Price:     *form.Price,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if form.Description != nil {
			product.Description = *form.Description
		}
		if form.Stock != nil {
			product.Stock = *form.Stock
		}
		if form.IsActive != nil {
			product.IsActive = *form.IsActive
		}
		if form.CategoryID != nil {
			categoryID, err := primitive.ObjectIDFromHex(*form.CategoryID)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID")
				return
			}
			product.CategoryID = &categoryID
		}

		if file, err := c.FormFile("image"); err == nil {
			imagePath, err := images.Save(file, services.ProductImageKind)
			if err != nil {
				respondImageError(c, err)
				return
			}
			product.Image = imagePath
		}

		result, err := collection.InsertOne(c.Request.Context(), product)
		if err != nil {
			logger.Error("Failed to create product", "error", err)
			utils.RespondWithInternalError(c, "Failed to create product")
			return
		}

		product.ID = result.InsertedID.(primitive.ObjectID)
		utils.RespondWithData(c, http.StatusCreated, product)
	})

	admin.PUT("/:id", func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var form models.ProductForm
		if err := c.ShouldBind(&form); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		var existing models.Product
		err = collection.FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Product not found")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch product", "error", err)
			utils.RespondWithInternalError(c, "Failed to update product")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if form.Name != nil {
			set["name"] = *form.Name
		}
		if form.Description != nil {
			set["description"] = *form.Description
		}
		if form.Price != nil {
			set["price"] = *form.Price
		}
		if form.Stock != nil {
			set["stock"] = *form.Stock
		}
		if form.IsActive != nil {
			set["is_active"] = *form.IsActive
		}
		if form.CategoryID != nil {
			categoryID, err := primitive.ObjectIDFromHex(*form.CategoryID)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID")
				return
			}
			set["category_id"] = categoryID
		}

		// Same replacement ordering as banners: save new, unlink old, persist
		if file, err := c.FormFile("image"); err == nil {
			imagePath, err := images.Save(file, services.ProductImageKind)
			if err != nil {
				respondImageError(c, err)
				return
			}
			if existing.Image != "" {
				if err := images.Delete(existing.Image); err != nil {
					logger.Warn("Failed to delete replaced product image", "path", existing.Image, "error", err)
				}
			}
			set["image"] = imagePath
		}

		var product models.Product
		err = collection.FindOneAndUpdate(c.Request.Context(),
			bson.M{"_id": id},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Product not found")
			return
		}
		if err != nil {
			logger.Error("Failed to update product", "error", err)
			utils.RespondWithInternalError(c, "Failed to update product")
			return
		}
		utils.RespondWithData(c, http.StatusOK, product)
	})

	admin.DELETE("/:id", func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var product models.Product
		err = collection.FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "Product not found")
			return
		}
		if err != nil {
			logger.Error("Failed to fetch product", "error", err)
			utils.RespondWithInternalError(c, "Failed to delete product")
			return
		}

		if product.Image != "" {
			if err := images.Delete(product.Image); err != nil {
				logger.Warn("Failed to delete product image", "path", product.Image, "error", err)
			}
		}

		result, err := collection.DeleteOne(c.Request.Context(), bson.M{"_id": id})
		if err != nil {
			logger.Error("Failed to delete product", "error", err)
			utils.RespondWithInternalError(c, "Failed to delete product")
			return
		}
		if result.DeletedCount == 0 {
			utils.RespondWithNotFound(c, "Product not found")
			return
		}
		utils.RespondWithMessage(c, http.StatusOK, "Product deleted successfully")
	})
}

func respondImageError(c *gin.Context, err error) {
	var imageErr *services.InvalidImageError
	if errors.As(err, &imageErr) {
		utils.RespondWithError(c, http.StatusBadRequest, imageErr.Error())
		return
	}
	logger.Error("Image save failed", "error", err)
	utils.RespondWithInternalError(c, "Failed to save image")
}
