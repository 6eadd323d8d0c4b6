package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	wishapp "github.com/coursehub/user-service/internal/application"
	"github.com/coursehub/user-service/pkg/response"
	"github.com/coursehub/user-service/pkg/validation"
)

type WishlistHandler struct {
	Svc    *wishapp.WishlistService
	Logger *logrus.Logger
}

func NewWishlistHandler(svc *wishapp.WishlistService, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{Svc: svc, Logger: logger}
}

// wishlist_id is optional: when omitted the owner's wishlist is resolved,
// creating it lazily on the first item operation.
type wishlistItemRequest struct {
	WishlistID string `json:"wishlist_id" binding:"omitempty,uuid"`
	UserID     string `json:"user_id" binding:"required,uuid"`
	CourseID   string `json:"course_id" binding:"required,uuid"`
}

type removeWishlistItemRequest struct {
	WishlistID string `json:"wishlist_id" binding:"required,uuid"`
	CourseID   string `json:"course_id" binding:"required,uuid"`
}

func (h *WishlistHandler) Add(c *gin.Context) {
	var req wishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	item, err := h.Svc.Add(c.Request.Context(), req.WishlistID, req.UserID, req.CourseID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item}, "course added to wishlist", nil)
}

func (h *WishlistHandler) Toggle(c *gin.Context) {
	var req wishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	item, err := h.Svc.Toggle(c.Request.Context(), req.WishlistID, req.UserID, req.CourseID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// The item key is present exactly when the course ended up wishlisted.
	data := gin.H{}
	if item != nil {
		data["item"] = item
	}
	response.Success(c, http.StatusOK, data, "wishlist item toggled", nil)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	var req removeWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	removed, err := h.Svc.Remove(c.Request.Context(), req.WishlistID, req.CourseID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed}, "wishlist item removed", nil)
}

func (h *WishlistHandler) ListByUser(c *gin.Context) {
	userID := c.Param("userId")
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	w, totalItems, err := h.Svc.ListByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"wishlist": w}, "wishlist", newPagination(page, limit, totalItems))
}
