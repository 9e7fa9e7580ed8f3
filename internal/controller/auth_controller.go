package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fibu_trainer_backend/internal/service"
	"fibu_trainer_backend/internal/util"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := ctrl.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Created(c, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// Login godoc
// @Summary Authenticate and receive a JWT
// @Description Unknown emails are provisioned as regular users.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 32 {
		util.BadRequest(c, "Password must be between 8 and 32 characters")
		return
	}

	token, user, err := ctrl.authService.Login(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
