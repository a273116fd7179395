// File: internal/user/handler.go
package user

import (
	"errors"

	"readrocket_backend/internal/common"
	"readrocket_backend/internal/middleware"
	"readrocket_backend/internal/profile"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations. Session-scoped
// routes go behind the session middleware.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, sessionMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	{
		userGroup.POST("/register", h.register)
		userGroup.POST("/login", h.login)

		authenticated := userGroup.Group("")
		authenticated.Use(sessionMW)
		{
			authenticated.GET("", h.listByApp)
			authenticated.GET("/:id/profile", h.getProfile)
			authenticated.PUT("/:id/profile", h.updateProfile)
		}
	}
}

func bindJSON(c *gin.Context, h *Handler, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid request body", zap.String("path", c.Request.URL.Path), zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, h, &req) {
		return
	}
	p, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "User registered successfully.", profile.ToResponse(p))
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, h, &req) {
		return
	}
	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Login successful.", resp)
}

// sessionMatchesParam checks that the session's user ID matches the
// user ID in the URL. The session's app ID is what gets asserted
// downstream, so a caller can only ever act on their own profile within
// their own app.
func (h *Handler) sessionMatchesParam(c *gin.Context) (userID, appID string, ok bool) {
	userID = middleware.GetUserIDFromContext(c)
	appID = middleware.GetAppIDFromContext(c)
	if userID == "" || appID == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Session information missing."))
		return "", "", false
	}
	if c.Param("id") != userID {
		h.logger.Warn("Session user attempted to access another user's profile",
			zap.String("sessionUserID", userID), zap.String("targetUserID", c.Param("id")))
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You are not authorized to access this profile."))
		return "", "", false
	}
	return userID, appID, true
}

func (h *Handler) getProfile(c *gin.Context) {
	userID, appID, ok := h.sessionMatchesParam(c)
	if !ok {
		return
	}
	p, err := h.service.GetProfile(c.Request.Context(), userID, appID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", profile.ToResponse(p))
}

func (h *Handler) updateProfile(c *gin.Context) {
	userID, appID, ok := h.sessionMatchesParam(c)
	if !ok {
		return
	}
	var req UpdatePreferencesRequest
	if !bindJSON(c, h, &req) {
		return
	}
	if err := h.service.UpdateProfile(c.Request.Context(), userID, appID, req.Preferences); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", nil)
}

type listQuery struct {
	AppID string `form:"app_id" binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

func (h *Handler) listByApp(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("app_id query parameter is required."))
		return
	}

	// The session's app scopes what may be listed.
	sessionAppID := middleware.GetAppIDFromContext(c)
	if sessionAppID != q.AppID {
		h.logger.Warn("Session attempted to list users of another app",
			zap.String("sessionAppID", sessionAppID), zap.String("requestedAppID", q.AppID))
		common.RespondWithError(c, common.ErrAppMismatch)
		return
	}

	profiles, err := h.service.ListByApp(c.Request.Context(), q.AppID, q.Limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]profile.Response, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, profile.ToResponse(&profiles[i]))
	}
	common.RespondOK(c, "Users retrieved successfully.", gin.H{
		"users": responses,
		"count": len(responses),
	})
}
