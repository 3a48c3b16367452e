package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alex-rutan/express-messagely/internal/auth"
	"github.com/alex-rutan/express-messagely/internal/dto"
	"github.com/alex-rutan/express-messagely/internal/policy"
	"github.com/alex-rutan/express-messagely/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler serves message send, detail and mark-read.
type MessageHandler struct {
	svc *service.MessageService
}

// NewMessageHandler returns a new MessageHandler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Send godoc
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.SendMessageRequest  true  "Recipient and body"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.Send(c.Request.Context(), principal.Username, req.ToUsername, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyBody) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message body required"})
			return
		}
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": dto.MessageToResponse(m)})
}

// Get godoc
// @Summary      Get a message with both participants' profiles
// @Tags         messages
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  dto.GetMessageResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !policy.CanReadMessage(principal, detail.Message()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, dto.GetMessageResponse{Message: dto.DetailToResponse(detail)})
}

// MarkRead godoc
// @Summary      Mark a message as read
// @Tags         messages
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Message ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	// Policy first: only the recipient may transition read_at.
	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !policy.CanMarkRead(principal, detail.Message()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	m, err := h.svc.MarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": dto.MessageToResponse(m)})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
