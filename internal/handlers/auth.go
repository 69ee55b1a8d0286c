package handlers

import (
	"time"

	"clinic-appointment-server/internal/config"
	"clinic-appointment-server/internal/models"
	"clinic-appointment-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler handles staff authentication requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// RegisterRequest represents the request body for staff registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin staff"`
}

// Register handles creating a new staff account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Check if admin already exists
	var existingAdmin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&existingAdmin).Error; err == nil {
		utils.BadRequest(c, "An account with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	admin := models.Admin{
		Email: req.Email,
		Role:  models.Role(req.Role),
	}

	if err := admin.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	if err := h.DB.Create(&admin).Error; err != nil {
		utils.InternalServerError(c, "Failed to create account: "+err.Error())
		return
	}

	utils.Created(c, "Account created successfully", admin.Sanitize())
}

// LoginRequest represents the request body for staff login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string                `json:"accessToken"`
	RefreshToken string                `json:"refreshToken"`
	Admin        models.AdminSanitized `json:"admin"`
}

// Login handles staff login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var admin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !admin.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(&admin, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	// Store refresh token in DB
	refreshToken := models.RefreshToken{
		AdminID:   admin.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.DB.Create(&refreshToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	now := time.Now()
	if err := h.DB.Model(&admin).Update("last_login", now).Error; err != nil {
		utils.InternalServerError(c, "Failed to record login: "+err.Error())
		return
	}
	admin.LastLogin = &now

	utils.Success(c, "Logged in successfully", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		Admin:        admin.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for refreshing tokens.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	var stored models.RefreshToken
	if err := h.DB.Where("token = ? AND is_revoked = ?", req.RefreshToken, false).First(&stored).Error; err != nil {
		utils.Unauthorized(c, "Refresh token not recognized")
		return
	}
	if time.Now().After(stored.ExpiresAt) {
		utils.Unauthorized(c, "Refresh token has expired")
		return
	}

	var admin models.Admin
	if err := h.DB.First(&admin, "id = ?", claims.AdminID).Error; err != nil {
		utils.Unauthorized(c, "Account no longer exists")
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(&admin, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	// Rotate: revoke the old token and store the new one
	if err := h.DB.Model(&stored).Update("is_revoked", true).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}
	newToken := models.RefreshToken{
		AdminID:   admin.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := h.DB.Create(&newToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Token refreshed successfully", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		Admin:        admin.Sanitize(),
	})
}

// VerifyPasswordRequest represents the request body for re-verifying a
// staff password (used before sensitive actions such as logout on shared
// terminals).
type VerifyPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyPassword checks a staff password without issuing tokens.
func (h *AuthHandler) VerifyPassword(c *gin.Context) {
	var req VerifyPasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var admin models.Admin
	if err := h.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.Unauthorized(c, "User not found")
		return
	}

	if !admin.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid password")
		return
	}

	utils.Success(c, "Password verified successfully", admin.Sanitize())
}

// Logout revokes all refresh tokens belonging to the authenticated admin.
func (h *AuthHandler) Logout(c *gin.Context) {
	adminID, exists := c.Get("adminID")
	if !exists {
		utils.Unauthorized(c, "Not authenticated")
		return
	}

	err := h.DB.Model(&models.RefreshToken{}).
		Where("admin_id = ? AND is_revoked = ?", adminID, false).
		Update("is_revoked", true).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to revoke tokens: "+err.Error())
		return
	}

	utils.Success(c, "Logged out successfully", nil)
}
