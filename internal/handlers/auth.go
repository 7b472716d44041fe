package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/auth"
	"github.com/planora-dev/planora/internal/models"
	"github.com/planora-dev/planora/internal/types"
	"github.com/planora-dev/planora/internal/utils"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Email and a password of at least 8 characters are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User

	err := h.DB.Where("email = ?", req.Email).First(&existing).Error

	if err == nil {
		respondError(ctx, http.StatusConflict, types.KindConflict, "Email already in use")
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("checking existing user: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Internal server error")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("hashing password: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Internal server error")
		return
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleUser,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		log.Printf("creating user: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Internal server error")
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("generating JWT: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Internal server error")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Email and password are required")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User

	err := h.DB.Where("email = ?", req.Email).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusBadRequest, types.KindValidation, "Invalid email or password")
			return
		}
		log.Printf("fetching user: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Internal server error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, "Invalid email or password")
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email)

	if err != nil {
		log.Printf("generating JWT: %v", err)
		respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  toUserResponse(user),
	})
}

// Me answers the resolved identity for the presented token. It doubles as
// token verification.
func (h *AuthHandler) Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:    currentUser.ID,
			Email: currentUser.Email,
			Role:  currentUser.Role,
		},
	})
}

// GetUser returns a user by id. Only admins and the user themselves may look
// a user up.
func (h *AuthHandler) GetUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		respondError(ctx, http.StatusUnauthorized, types.KindUnauthorized, "User not authenticated")
		return
	}

	userID, err := utils.GetUserID(ctx)

	if err != nil {
		respondError(ctx, http.StatusBadRequest, types.KindValidation, err.Error())
		return
	}

	if currentUser.Role != models.RoleAdmin && currentUser.ID != userID {
		respondError(ctx, http.StatusForbidden, types.KindForbidden, "Access denied")
		return
	}

	var user models.User

	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(ctx, http.StatusNotFound, types.KindNotFound, "User not found")
		} else {
			respondError(ctx, http.StatusInternalServerError, types.KindStorage, "Internal server error")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
