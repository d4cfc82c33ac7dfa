package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/invoicepal/invoicepal-api/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	group := router.Group("/v1/auth")
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)
	group.GET("/me", auth, h.Me)
}

// RegisterRequest is the payload for user registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload for refreshing an access token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Register creates a new user account
// @Summary Register
// @Description Create an account with email and password and receive a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body RegisterRequest true "Registration data"
// @Success 201 {object} service.AuthResponse "Account created"
// @Failure 400 {object} model.ErrorResponse "Malformed request"
// @Failure 409 {object} model.ErrorResponse "Email already registered"
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			respondConflict(c, "An account with this email already exists")
			return
		}
		log.Printf("Registration failed: %v", err)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondCreated(c, resp)
}

// Login authenticates a user
// @Summary Login
// @Description Authenticate with email and password and receive a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} service.AuthResponse "Authenticated"
// @Failure 400 {object} model.ErrorResponse "Malformed request"
// @Failure 401 {object} model.ErrorResponse "Invalid credentials"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondUnauthorized(c, "Invalid email or password")
			return
		}
		log.Printf("Login failed: %v", err)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} service.TokenPair "New token pair"
// @Failure 400 {object} model.ErrorResponse "Malformed request"
// @Failure 401 {object} model.ErrorResponse "Invalid refresh token"
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	tokens, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondUnauthorized(c, "Invalid or expired refresh token")
		return
	}

	respondOK(c, tokens)
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Description Return the profile of the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} domain.User "User profile"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondNotFound(c, ErrResourceNotFound)
		return
	}

	respondOK(c, user)
}
