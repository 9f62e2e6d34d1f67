package handlers

import (
	"errors"
	"net/http"

	"brewery_backend/internal/middleware"
	"brewery_backend/internal/models"
	"brewery_backend/internal/services"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService  services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie marks the OAuth state cookie Secure.
func NewAuthHandler(as services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: as, secureCookie: secureCookie}
}

// Login handles email and password login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, "Login", err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", err.Error()))
		} else {
			utils.RespondInternal(c, err, "Failed to login.")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// OAuthLogin redirects the browser to the provider's consent page.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.authService.OAuthLoginURL(state)
	if err != nil {
		if errors.Is(err, services.ErrOAuthDisabled) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "OAuth login is not configured.", err.Error()))
		} else {
			utils.RespondInternal(c, err, "Failed to start OAuth login.")
		}
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, url)
}

// OAuthCallback completes the authorization-code flow and issues a session.
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "OAuth state mismatch.", ""))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		utils.RespondValidationFailed(c, "code is required")
		return
	}

	session, err := h.authService.OAuthCallback(c.Request.Context(), code)
	if err != nil {
		utils.LogError(err, "OAuthCallback: Error from authService.OAuthCallback")
		if errors.Is(err, services.ErrOAuthDisabled) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "OAuth login is not configured.", err.Error()))
		} else if errors.Is(err, services.ErrUnknownAccount) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "No employee is registered with this account.", err.Error()))
		} else if errors.Is(err, services.ErrOAuthExchange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "OAuth login failed.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to complete OAuth login.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me returns the session of the authenticated caller.
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "User not authenticated.", "Missing session in context"))
		return
	}
	c.JSON(http.StatusOK, session)
}
