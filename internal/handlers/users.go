package handlers

import (
	"errors"
	"net/http"

	"github.com/alex-rutan/express-messagely/internal/auth"
	"github.com/alex-rutan/express-messagely/internal/dto"
	"github.com/alex-rutan/express-messagely/internal/policy"
	"github.com/alex-rutan/express-messagely/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the user directory and per-user message lists.
type UserHandler struct {
	userSvc *service.UserService
	msgSvc  *service.MessageService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(userSvc *service.UserService, msgSvc *service.MessageService) *UserHandler {
	return &UserHandler{userSvc: userSvc, msgSvc: msgSvc}
}

// List godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListUsersResponse
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Users: dto.SummariesToResponses(list)})
}

// Get godoc
// @Summary      Get a user's profile
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  dto.GetUserResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{username} [get]
func (h *UserHandler) Get(c *gin.Context) {
	target, ok := h.correctUser(c)
	if !ok {
		return
	}
	user, err := h.userSvc.Get(c.Request.Context(), target)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetUserResponse{User: dto.UserToResponse(user)})
}

// MessagesTo godoc
// @Summary      Messages sent to a user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  dto.ReceivedMessagesResponse
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{username}/to [get]
func (h *UserHandler) MessagesTo(c *gin.Context) {
	target, ok := h.correctUser(c)
	if !ok {
		return
	}
	list, err := h.msgSvc.MessagesTo(c.Request.Context(), target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ReceivedMessagesResponse{Messages: dto.ReceivedToResponses(list)})
}

// MessagesFrom godoc
// @Summary      Messages sent by a user
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  dto.SentMessagesResponse
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{username}/from [get]
func (h *UserHandler) MessagesFrom(c *gin.Context) {
	target, ok := h.correctUser(c)
	if !ok {
		return
	}
	list, err := h.msgSvc.MessagesFrom(c.Request.Context(), target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SentMessagesResponse{Messages: dto.SentToResponses(list)})
}

// correctUser resolves the principal and checks the self-service rule for
// the :username route parameter. Writes the error response on failure.
func (h *UserHandler) correctUser(c *gin.Context) (string, bool) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return "", false
	}
	target := c.Param("username")
	if !policy.CanViewProfile(principal, target) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return "", false
	}
	return target, true
}
