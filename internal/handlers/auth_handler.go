package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"tunex/internal/config"
	"tunex/internal/middleware"
	"tunex/internal/models"
	"tunex/internal/repository"
)

type AuthHandler struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewAuthHandler(userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		config:   config.GlobalConfig,
	}
}

func (h *AuthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "TuneX API",
		"version": "1.0.0",
	})
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "POST email, password and role to log in",
		"role":    c.Query("role"),
	})
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "POST email, username, password and role to register",
		"roles":   []string{models.RoleAdmin, models.RoleCreator, models.RoleUser},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Missing fields")
		return
	}

	if !models.ValidRole(req.Role) {
		c.String(http.StatusBadRequest, "Invalid role")
		return
	}

	hash, err := h.userRepo.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to process password",
		})
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := h.userRepo.CreateUserWithRole(user, req.Role); err != nil {
		switch err {
		case repository.ErrDuplicateEmail:
			c.String(http.StatusConflict, "Email already exists")
		case repository.ErrInvalidRole:
			c.String(http.StatusBadRequest, "Invalid role")
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to create user",
			})
		}
		return
	}

	// back to login with the role pre-selected
	c.Redirect(http.StatusSeeOther, "/login?role="+url.QueryEscape(req.Role))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Missing fields")
		return
	}

	user, err := h.userRepo.FindUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Database error",
		})
		return
	}
	if user == nil || h.userRepo.VerifyPassword(user.PasswordHash, req.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid email or password",
		})
		return
	}

	// The chosen role must be among the user's assigned roles, whatever the
	// password check said.
	if !user.HasRole(req.Role) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized role selected",
		})
		return
	}

	token, err := h.generateJWT(user, req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to generate token",
		})
		return
	}

	// MaxAge 0 keeps the cookie for the browser session only.
	c.SetCookie(middleware.SessionCookie, token, 0, "/", "", false, true)

	switch req.Role {
	case models.RoleCreator:
		c.Redirect(http.StatusFound, "/dashboard/creator")
	case models.RoleUser:
		c.Redirect(http.StatusFound, "/dashboard/user")
	default:
		c.Redirect(http.StatusFound, "/")
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) generateJWT(user *models.User, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     role,
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
		"iat":      time.Now().Unix(),
	})

	return token.SignedString([]byte(h.config.JWTSecret))
}
