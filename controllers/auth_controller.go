package controllers

import (
	"errors"
	"net/http"

	"tooltrack/app"
	"tooltrack/db"
	"tooltrack/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct{ *Srv }

func GetAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

// POST /auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil || u.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(in.Password)) != nil {
		// Same message for unknown email and wrong password.
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	tok, err := ac.Issuer.Issue(u.Email, u.FullName(), u.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"token": tok, "user": u.Response()})
}

type registerReq struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// POST /auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, err)
		return
	}
	hs := string(hash)
	u := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: &hs,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, db.ErrConflict) {
			c.JSON(http.StatusConflict, app.H{"error": "email already registered"})
			return
		}
		fail(c, err)
		return
	}

	tok, err := ac.Issuer.Issue(u.Email, u.FullName(), u.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"token": tok, "user": u.Response()})
}

// POST /auth/federatedLogin
// Trusted federated identity: find the user by email or register them without
// a local password, then issue a token either way.
func (ac *AuthController) FederatedLogin(c *gin.Context) {
	var in struct {
		FirstName string `json:"firstName" binding:"required"`
		LastName  string `json:"lastName" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if errors.Is(err, db.ErrNotFound) {
		u = &models.User{
			FirstName:   in.FirstName,
			LastName:    in.LastName,
			Email:       in.Email,
			IsFederated: true,
			Role:        models.RoleUser,
			IsActive:    true,
		}
		if err := ac.Repo.CreateUser(c.Request.Context(), u); err != nil {
			fail(c, err)
			return
		}
	} else if err != nil {
		fail(c, err)
		return
	}

	tok, err := ac.Issuer.Issue(u.Email, u.FullName(), u.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"token": tok, "user": u.Response()})
}

// GET /auth/checkUser?email=
func (ac *AuthController) CheckUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "email is required"})
		return
	}
	_, err := ac.Repo.FindUserByEmail(c.Request.Context(), email)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusOK, app.H{"exists": false})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"exists": true})
}
