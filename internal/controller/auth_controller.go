package controller

import (
	"errors"
	"net/http"

	"github.com/abdallahade1/ConceptCatch/internal/model"
	"github.com/abdallahade1/ConceptCatch/internal/service"
	"github.com/abdallahade1/ConceptCatch/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration payload"
// @Success 201 {object} util.Response
// @Router /auth/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	user, err := ctl.AuthService.Register(req.Name, req.Email, req.Password, model.UserRole(req.Role))
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(c, http.StatusConflict, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Created(c, user)
}

// @Summary Log in and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} util.Response
// @Router /auth/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	token, user, err := ctl.AuthService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			util.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, gin.H{
		"token": token,
		"user":  user,
	})
}

// @Summary Current user's profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /auth/profile [get]
func (ctl *AuthController) Profile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	user, err := ctl.AuthService.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, user)
}

// @Summary List student accounts
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} util.Response
// @Router /users/students [get]
func (ctl *AuthController) ListStudents(c *gin.Context) {
	students, err := ctl.AuthService.ListStudents()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, students)
}
