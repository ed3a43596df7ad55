package controllers

import (
	"net/http"

	"tooltrack/app"
	"tooltrack/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /getAllUsers
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Repo.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"users": users})
}

type userUpsertReq struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password,omitempty"`
	Role       string `json:"role,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

func (in *userUpsertReq) toModel(c *gin.Context) (*models.User, bool) {
	u := &models.User{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		EmployeeID: in.EmployeeID,
		ImageURL:   in.ImageURL,
		Role:       models.RoleUser,
		IsActive:   true,
	}
	if in.Role != "" {
		role, err := models.ParseRole(in.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return nil, false
		}
		u.Role = role
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			fail(c, err)
			return nil, false
		}
		hs := string(hash)
		u.PasswordHash = &hs
	}
	return u, true
}

// POST /addUser (admin)
func (uc *UserController) AddUser(c *gin.Context) {
	var in userUpsertReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, ok := in.toModel(c)
	if !ok {
		return
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u.Response()})
}

// PUT /updateUser (admin)
func (uc *UserController) UpdateUser(c *gin.Context) {
	var in userUpsertReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	u, ok := in.toModel(c)
	if !ok {
		return
	}
	updated, err := uc.Repo.UpdateUser(c.Request.Context(), u)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": updated.Response()})
}

// DELETE /deleteUser/:email (admin)
func (uc *UserController) DeleteUser(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing email"})
		return
	}

	// Don't let an admin delete themselves and lock everyone out.
	if callerEmail(c) == email {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}

	if err := uc.Repo.DeleteUserByEmail(c.Request.Context(), email); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"message": "user deleted"})
}
