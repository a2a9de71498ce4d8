package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
	"github.com/justsurfingit/Niche-Job-Board/internal/auth"
	"github.com/justsurfingit/Niche-Job-Board/internal/models"
)

type UserHandler struct {
	users *models.UserModel
}

func NewUserHandler(users *models.UserModel) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c *gin.Context) {
	id, _ := auth.Identity(c)
	user, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, apperrors.NotFound("user"))
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	id, _ := auth.Identity(c)

	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, apperrors.Validation([]string{"invalid JSON body"}))
		return
	}
	// Identity fields are not editable through the profile.
	delete(data, "role")
	delete(data, "email")

	user, err := h.users.Update(c.Request.Context(), id, data)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, apperrors.NotFound("user"))
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	id, _ := auth.Identity(c)
	user, err := h.users.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		respondError(c, apperrors.NotFound("user"))
		return
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	respond(c, http.StatusOK, gin.H{"user": user})
}
