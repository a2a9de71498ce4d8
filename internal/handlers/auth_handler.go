package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
	"github.com/justsurfingit/Niche-Job-Board/internal/auth"
	"github.com/justsurfingit/Niche-Job-Board/internal/config"
	"github.com/justsurfingit/Niche-Job-Board/internal/models"
)

type AuthHandler struct {
	users *models.UserModel
	jwt   config.JWT
}

func NewAuthHandler(users *models.UserModel, jwt config.JWT) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// Signup creates an account and logs the new user straight in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, apperrors.Validation([]string{"invalid JSON body"}))
		return
	}

	user, err := h.users.Create(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.setSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation([]string{"email and password are required"}))
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	digest, _ := user["password"].(string)
	if user == nil || !auth.CheckPassword(digest, req.Password) {
		respondError(c, apperrors.Auth("incorrect email or password"))
		return
	}

	// The auth read path carried the digest; it stops here.
	delete(user, "password")

	if err := h.setSession(c, user); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	respond(c, http.StatusOK, nil)
}

func (h *AuthHandler) setSession(c *gin.Context, user map[string]any) error {
	id, _ := user["id"].(string)
	role, _ := user["role"].(string)
	token, err := auth.IssueToken([]byte(h.jwt.Secret), id, role, h.jwt.TTL)
	if err != nil {
		return err
	}
	c.SetCookie(auth.CookieName, token, int(h.jwt.TTL.Seconds()), "/", "", false, true)
	return nil
}
