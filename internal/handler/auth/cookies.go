package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medfront/ehr-admin-api/internal/ehr"
)

// Cookie names for the upstream token pair held by the browser.
const (
	AccessCookie  = "modmed_access"
	RefreshCookie = "modmed_refresh"
)

const refreshCookieMaxAge = 7 * 24 * 60 * 60 // seconds

// SetTokenCookies stores the token pair as HTTP-only, SameSite=Strict
// cookies. The Secure flag follows the deployment environment.
func SetTokenCookies(c *gin.Context, tokens *ehr.Tokens, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookie, tokens.AccessToken, int(tokens.ExpiresIn), "/", "", secure, true)
	c.SetCookie(RefreshCookie, tokens.RefreshToken, refreshCookieMaxAge, "/", "", secure, true)
}

// ClearTokenCookies removes the token pair on logout.
func ClearTokenCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", secure, true)
}
