package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-rest-service/internal/usecase/user"
	apperrors "user-rest-service/pkg/errors"
	"user-rest-service/pkg/logger"
)

// ErrDatabase is the error label of every storage failure response.
const ErrDatabase = "Database error"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest is the JSON body of create and update. Both fields must be
// present; a null or empty value counts as missing.
type UserRequest struct {
	Name  *string `json:"name" binding:"required,min=1"`
	Email *string `json:"email" binding:"required,min=1"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	resp, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	users := make([]UserResponse, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = toResponse(u)
	}

	c.JSON(http.StatusOK, users)
}

// GetUser handles GET /user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp.User))
}

// CreateUser handles POST /user
func (h *UserHandler) CreateUser(c *gin.Context) {
	req, ok := h.bindUser(c)
	if !ok {
		return
	}

	_, err := h.uc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// UpdateUser handles PUT /user/:id. The body is checked before the id so a
// missing field is reported whether or not the user exists.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	req, ok := h.bindUser(c)
	if !ok {
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	err := h.uc.UpdateUser(c.Request.Context(), user.UpdateUserRequest{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// DeleteUser handles DELETE /user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: id}); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// bindUser decodes the body. Malformed or absent JSON is reported the same
// way as missing fields.
func (h *UserHandler) bindUser(c *gin.Context) (UserRequest, bool) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid user request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: user.MsgFieldsRequired})
		return req, false
	}
	return req, true
}

// parseID reads the :id path parameter. An id that is not an integer cannot
// match any row, so it is answered as not found without touching storage.
func (h *UserHandler) parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Debug("non-numeric user id", zap.String("id", raw))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: user.MsgUserNotFound})
		return 0, false
	}
	return id, true
}

// handleError converts usecase errors to HTTP responses. The status comes
// from the error itself; only the body is built per kind.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var (
		validationErr *apperrors.ValidationError
		notFoundErr   *apperrors.NotFoundError
		internalErr   *apperrors.InternalError
		body          ErrorResponse
	)

	switch {
	case errors.As(err, &validationErr):
		body = ErrorResponse{Error: validationErr.Message}
	case errors.As(err, &notFoundErr):
		body = ErrorResponse{Error: notFoundErr.Error()}
	case errors.As(err, &internalErr):
		body = ErrorResponse{Error: ErrDatabase, Message: internalErr.Cause()}
	default:
		logger.WithContext(c.Request.Context(), h.log).Error("unclassified error", zap.Error(err))
		body = ErrorResponse{Error: ErrDatabase, Message: err.Error()}
	}

	c.JSON(apperrors.StatusOf(err), body)
}

func toResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
