package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	cartapp "github.com/coursehub/user-service/internal/application"
	"github.com/coursehub/user-service/pkg/response"
	"github.com/coursehub/user-service/pkg/validation"
)

type CartHandler struct {
	Svc    *cartapp.CartService
	Logger *logrus.Logger
}

func NewCartHandler(svc *cartapp.CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{Svc: svc, Logger: logger}
}

// cart_id is optional: when omitted the owner's cart is resolved, creating
// it lazily on the first item operation.
type cartItemRequest struct {
	CartID   string `json:"cart_id" binding:"omitempty,uuid"`
	UserID   string `json:"user_id" binding:"required,uuid"`
	CourseID string `json:"course_id" binding:"required,uuid"`
}

type removeCartItemRequest struct {
	CartID   string `json:"cart_id" binding:"required,uuid"`
	CourseID string `json:"course_id" binding:"required,uuid"`
}

func (h *CartHandler) Add(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	item, err := h.Svc.Add(c.Request.Context(), req.CartID, req.UserID, req.CourseID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item}, "course added to cart", nil)
}

func (h *CartHandler) Toggle(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	item, err := h.Svc.Toggle(c.Request.Context(), req.CartID, req.UserID, req.CourseID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// The item key is present exactly when the course ended up in the cart.
	data := gin.H{}
	if item != nil {
		data["item"] = item
	}
	response.Success(c, http.StatusOK, data, "cart item toggled", nil)
}

func (h *CartHandler) Remove(c *gin.Context) {
	var req removeCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	removed, err := h.Svc.Remove(c.Request.Context(), req.CartID, req.CourseID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": removed}, "cart item removed", nil)
}

func (h *CartHandler) ListByUser(c *gin.Context) {
	userID := c.Param("userId")
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)

	cart, totalItems, err := h.Svc.ListByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cart": cart}, "cart", newPagination(page, limit, totalItems))
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.Svc.Clear(c.Request.Context(), userID); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cleared": true}, "cart cleared", nil)
}
