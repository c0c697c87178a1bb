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

func SetupAuthRoutes(
	router *gin.Engine,
	cfg *config.Config,
	mongoClient *mongo.Client,
	authMiddleware *middleware.AuthMiddleware,
) {
	usersCollection := mongoClient.Database(cfg.DBName).Collection("users")

	expiresIn, err := time.ParseDuration(cfg.JWTExpiresIn)
	if err != nil {
		expiresIn = 24 * time.Hour
	}

	auth := router.Group("/api/auth")

	auth.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		hash, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			utils.RespondWithInternalError(c, "Failed to register user")
			return
		}

		now := time.Now()
		user := models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         "user",
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		result, err := usersCollection.InsertOne(c.Request.Context(), user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithError(c, http.StatusBadRequest, "Email already registered")
				return
			}
			logger.Error("Failed to create user", "error", err)
			utils.RespondWithInternalError(c, "Failed to register user")
			return
		}
		user.ID = result.InsertedID.(primitive.ObjectID)

		respondWithToken(c, cfg, expiresIn, &user)
	})

	auth.POST("/login", loginHandler(usersCollection, cfg, expiresIn, false))
	auth.POST("/admin/login", loginHandler(usersCollection, cfg, expiresIn, true))

	protected := auth.Group("")
	protected.Use(authMiddleware.RequireAuth())

	protected.GET("/profile", func(c *gin.Context) {
		user, ok := currentUser(c, usersCollection)
		if !ok {
			return
		}
		utils.RespondWithData(c, http.StatusOK, userInfo(user))
	})

	protected.PUT("/profile", func(c *gin.Context) {
		var req models.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
			return
		}

		set := bson.M{"updated_at": time.Now()}
		if req.Name != nil {
			set["name"] = *req.Name
		}
		if req.Email != nil {
			set["email"] = *req.Email
		}

		var user models.User
		err = usersCollection.FindOneAndUpdate(c.Request.Context(),
			bson.M{"_id": userID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err == mongo.ErrNoDocuments {
			utils.RespondWithNotFound(c, "User not found")
			return
		}
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				utils.RespondWithError(c, http.StatusBadRequest, "Email already registered")
				return
			}
			logger.Error("Failed to update profile", "error", err)
			utils.RespondWithInternalError(c, "Failed to update profile")
			return
		}
		utils.RespondWithData(c, http.StatusOK, userInfo(&user))
	})

	protected.PUT("/change-password", func(c *gin.Context) {
		var req models.ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		user, ok := currentUser(c, usersCollection)
		if !ok {
			return
		}

		if !utils.CheckPassword(req.CurrentPassword, user.PasswordHash) {
			utils.RespondWithError(c, http.StatusBadRequest, "Current password is incorrect")
			return
		}

		hash, err := utils.HashPassword(req.NewPassword, cfg.BcryptCost)
		if err != nil {
			logger.Error("Failed to hash password", "error", err)
			utils.RespondWithInternalError(c, "Failed to change password")
			return
		}

		_, err = usersCollection.UpdateOne(c.Request.Context(),
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}},
		)
		if err != nil {
			logger.Error("Failed to change password", "error", err)
			utils.RespondWithInternalError(c, "Failed to change password")
			return
		}
		utils.RespondWithMessage(c, http.StatusOK, "Password changed successfully")
	})
}

func loginHandler(usersCollection *mongo.Collection, cfg *config.Config, expiresIn time.Duration, adminOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithValidationErrors(c, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		err := usersCollection.FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
		if err == mongo.ErrNoDocuments || (err == nil && !utils.CheckPassword(req.Password, user.PasswordHash)) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		if err != nil {
			logger.Error("Login lookup failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to log in")
			return
		}

		if adminOnly && user.Role != "admin" {
			utils.RespondWithError(c, http.StatusForbidden, "Admin access required")
			return
		}

		respondWithToken(c, cfg, expiresIn, &user)
	}
}

func respondWithToken(c *gin.Context, cfg *config.Config, expiresIn time.Duration, user *models.User) {
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role, cfg.JWTSecret, expiresIn)
	if err != nil {
		logger.Error("Failed to generate token", "error", err)
		utils.RespondWithInternalError(c, "Failed to generate token")
		return
	}

	utils.RespondWithData(c, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(expiresIn),
		User:      userInfo(user),
	})
}

func currentUser(c *gin.Context, usersCollection *mongo.Collection) (*models.User, bool) {
	userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID")
		return nil, false
	}

	var user models.User
	err = usersCollection.FindOne(c.Request.Context(), bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithNotFound(c, "User not found")
		return nil, false
	}
	if err != nil {
		logger.Error("Failed to load user", "error", err)
		utils.RespondWithInternalError(c, "Failed to load user")
		return nil, false
	}
	return &user, true
}

func userInfo(user *models.User) models.UserInfo {
	return models.UserInfo{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}
