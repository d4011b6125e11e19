package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"speech-coach/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, pair, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusCreated, "User registered successfully", gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"createdAt":    user.CreatedAt,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	pair, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "Login successful", gin.H{
		"email":        req.Email,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *Handler) refresh(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	accessToken, err := h.users.RefreshAccess(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "Access token refreshed", gin.H{
		"accessToken": accessToken,
	})
}

func (h *Handler) logout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.users.Logout(c.Request.Context(), userID); err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "Logout successful", nil)
}

func (h *Handler) currentUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "User profile", h.userToResponse(c.Request.Context(), user))
}

func (h *Handler) updateUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Update(c.Request.Context(), userID, req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "User updated successfully", h.userToResponse(c.Request.Context(), user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		// Unknown account on delete is a client error, not a missing resource.
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusBadRequest, "user not found")
			return
		}
		h.fail(c, err)
		return
	}

	respondData(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *Handler) uploadProfilePhoto(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if !h.storageReady(c) {
		return
	}

	file, err := c.FormFile("profileImage")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}

	key, err := h.uploadFormFile(c.Request.Context(), file)
	if err != nil {
		h.logger.Errorf("upload profile image: %v", err)
		respondError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	user, previous, err := h.users.UpdateProfileImage(c.Request.Context(), userID, key)
	if err != nil {
		h.removeObject(c.Request.Context(), key)
		h.fail(c, err)
		return
	}
	h.removeObject(c.Request.Context(), previous)

	respondData(c, http.StatusOK, "Profile image updated successfully", h.userToResponse(c.Request.Context(), user))
}
